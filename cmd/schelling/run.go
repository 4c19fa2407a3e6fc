package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/talgya/schelling/internal/api"
	"github.com/talgya/schelling/internal/collect"
	"github.com/talgya/schelling/internal/config"
	"github.com/talgya/schelling/internal/grid"
	"github.com/talgya/schelling/internal/model"
	"github.com/talgya/schelling/internal/persistence"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the simulation until convergence or the step limit",
		RunE:  runSimulation,
	}

	cmd.Flags().String("config", "", "YAML config file (flags override it)")
	cmd.Flags().Int("width", 20, "grid width")
	cmd.Flags().Int("height", 20, "grid height")
	cmd.Flags().Float64("density", 0.8, "chance for a cell to be occupied at setup")
	cmd.Flags().Float64("minority-pc", 0.2, "chance for an occupant to be minority type")
	cmd.Flags().Float64("homophily-lb", 0, "lower bound of the per-agent homophily draw")
	cmd.Flags().Float64("homophily-ub", 1, "upper bound of the per-agent homophily draw")
	cmd.Flags().Float64("preference", 0, "similarity credit weight per dissimilar neighbor")
	cmd.Flags().Int("radius", 1, "Moore neighborhood radius")
	cmd.Flags().Int64("seed", 0, "primary random seed (0 = time-derived)")
	cmd.Flags().Float64("cluster-amplitude", 0, "noise modulation of setup density (0 = off)")
	cmd.Flags().Float64("cluster-scale", 8, "noise field scale in cells")
	cmd.Flags().Int("max-steps", 200, "step limit when the model does not converge")
	cmd.Flags().String("db", "data/schelling.db", "SQLite path for the metrics log (empty = no persistence)")
	cmd.Flags().Int("api-port", 0, "serve the status API on this port (0 = disabled)")
	cmd.Flags().String("log-level", "info", "log level: debug, info, warn, error")

	return cmd
}

func runSimulation(cmd *cobra.Command, args []string) error {
	levelName, _ := cmd.Flags().GetString("log-level")
	setupLogging(levelName)

	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	m, err := model.New(cfg)
	if err != nil {
		return err
	}
	slog.Info("model initialized",
		"grid", fmt.Sprintf("%dx%d", cfg.Width, cfg.Height),
		"agents", m.AgentCount(),
		"density", cfg.Density,
		"minority_pc", cfg.MinorityPC,
		"radius", cfg.Radius,
		"preference", cfg.Preference,
		"seed", m.Seed(),
	)

	// Persistence is optional; an empty path keeps the log in memory only.
	var db *persistence.DB
	var runID string
	if dbPath, _ := cmd.Flags().GetString("db"); dbPath != "" {
		if dir := filepath.Dir(dbPath); dir != "." {
			os.MkdirAll(dir, 0755)
		}
		db, err = persistence.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer db.Close()

		runID, err = db.CreateRun(cfg, m.Seed())
		if err != nil {
			return err
		}
		slog.Info("database opened", "path", dbPath, "run_id", runID)
	}

	// The API reads through a mutex-guarded snapshot so it never observes a
	// tick mid-flight.
	var mu sync.Mutex
	if port, _ := cmd.Flags().GetInt("api-port"); port > 0 {
		srv := &api.Server{
			Port: port,
			Status: func() api.Status {
				mu.Lock()
				defer mu.Unlock()
				return api.Status{
					RunID:      runID,
					Tick:       m.Tick,
					Happy:      m.Happy,
					Similarity: m.Similarity,
					Running:    m.Running,
					Agents:     m.AgentCount(),
					Width:      cfg.Width,
					Height:     cfg.Height,
					Seed:       m.Seed(),
				}
			},
			Metrics: func() []collect.ModelRow {
				mu.Lock()
				defer mu.Unlock()
				rows := m.Collector().ModelRows()
				out := make([]collect.ModelRow, len(rows))
				copy(out, rows)
				return out
			},
		}
		srv.Start()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	maxSteps, _ := cmd.Flags().GetInt("max-steps")
	start := time.Now()

	var stepErr error
	steps := 0
	for steps < maxSteps && m.Running && ctx.Err() == nil {
		mu.Lock()
		stepErr = m.Step()
		mu.Unlock()
		steps++

		if stepErr != nil {
			slog.Error("tick aborted", "tick", m.Tick, "error", stepErr)
			break
		}
		if steps%10 == 0 || !m.Running {
			slog.Info("tick",
				"tick", m.Tick,
				"happy", m.Happy,
				"agents", m.AgentCount(),
				"similarity", m.Similarity,
			)
		}
	}
	elapsed := time.Since(start)

	if db != nil {
		c := m.Collector()
		if err := db.SaveSnapshots(runID, c.ModelRows(), c.AgentRows()); err != nil {
			return fmt.Errorf("save snapshots: %w", err)
		}
		if err := db.FinishRun(runID, steps, m.Happy, m.Similarity); err != nil {
			return err
		}
	}

	switch {
	case stepErr != nil:
		if errors.Is(stepErr, grid.ErrNoEmptyCell) {
			return fmt.Errorf("grid saturated at tick %d (density %g leaves no headroom): %w",
				m.Tick, cfg.Density, stepErr)
		}
		return stepErr
	case ctx.Err() != nil:
		slog.Info("interrupted", "tick", m.Tick)
	case !m.Running:
		slog.Info("converged: every agent is satisfied", "tick", m.Tick)
	default:
		slog.Info("step limit reached", "tick", m.Tick, "max_steps", maxSteps)
	}

	fmt.Printf("\n%s agents, %s ticks in %s — happy %s/%s, similarity %.2f\n",
		humanize.Comma(int64(m.AgentCount())),
		humanize.Comma(int64(steps)),
		elapsed.Round(time.Millisecond),
		humanize.Comma(int64(m.Happy)),
		humanize.Comma(int64(m.AgentCount())),
		m.Similarity,
	)
	return nil
}

// buildConfig loads the optional YAML file, then overlays any flags the
// caller actually set.
func buildConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("width") {
		cfg.Width, _ = flags.GetInt("width")
	}
	if flags.Changed("height") {
		cfg.Height, _ = flags.GetInt("height")
	}
	if flags.Changed("density") {
		cfg.Density, _ = flags.GetFloat64("density")
	}
	if flags.Changed("minority-pc") {
		cfg.MinorityPC, _ = flags.GetFloat64("minority-pc")
	}
	if flags.Changed("homophily-lb") {
		cfg.HomophilyLB, _ = flags.GetFloat64("homophily-lb")
	}
	if flags.Changed("homophily-ub") {
		cfg.HomophilyUB, _ = flags.GetFloat64("homophily-ub")
	}
	if flags.Changed("preference") {
		cfg.Preference, _ = flags.GetFloat64("preference")
	}
	if flags.Changed("radius") {
		cfg.Radius, _ = flags.GetInt("radius")
	}
	if flags.Changed("seed") {
		cfg.Seed, _ = flags.GetInt64("seed")
	}
	if flags.Changed("cluster-amplitude") {
		cfg.ClusterAmplitude, _ = flags.GetFloat64("cluster-amplitude")
	}
	if flags.Changed("cluster-scale") {
		cfg.ClusterScale, _ = flags.GetFloat64("cluster-scale")
	}

	return cfg, cfg.Validate()
}

func setupLogging(level string) {
	var l slog.Level
	switch level {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: l}))
	slog.SetDefault(logger)
}
