package api

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/talgya/schelling/internal/collect"
)

func testServer() *Server {
	return &Server{
		Status: func() Status {
			return Status{
				RunID:      "run-1",
				Tick:       7,
				Happy:      40,
				Similarity: 3.25,
				Running:    true,
				Agents:     50,
				Width:      10,
				Height:     10,
				Seed:       42,
			}
		},
		Metrics: func() []collect.ModelRow {
			return []collect.ModelRow{
				{Tick: 0, Happy: 0, Similarity: 0},
				{Tick: 1, Happy: 20, Similarity: 2.1},
				{Tick: 2, Happy: 40, Similarity: 3.25},
			}
		},
	}
}

func TestHandleStatus(t *testing.T) {
	s := testServer()
	rec := httptest.NewRecorder()
	s.handleStatus(rec, httptest.NewRequest("GET", "/api/v1/status", nil))

	if rec.Code != 200 {
		t.Fatalf("status = %d", rec.Code)
	}
	var got Status
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Tick != 7 || got.Happy != 40 || !got.Running {
		t.Fatalf("got %+v", got)
	}
}

func TestHandleMetricsLimit(t *testing.T) {
	s := testServer()

	rec := httptest.NewRecorder()
	s.handleMetrics(rec, httptest.NewRequest("GET", "/api/v1/metrics?limit=2", nil))
	var rows []collect.ModelRow
	if err := json.Unmarshal(rec.Body.Bytes(), &rows); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(rows) != 2 || rows[0].Tick != 1 {
		t.Fatalf("rows = %+v, want the last two ticks", rows)
	}

	rec = httptest.NewRecorder()
	s.handleMetrics(rec, httptest.NewRequest("GET", "/api/v1/metrics?limit=zero", nil))
	if rec.Code != 400 {
		t.Fatalf("invalid limit: status = %d, want 400", rec.Code)
	}
}
