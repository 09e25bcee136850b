package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mazyy/RobbinOdds/internal/pkg/models"
)

// GetOddsFunc is a function type for getting stored odds aggregates
type GetOddsFunc func() []*models.MatchEventOdds

// GetOddsByMatchFunc is a function type for getting one match's aggregates
type GetOddsByMatchFunc func(matchID string) []*models.MatchEventOdds

// GetRecordsFunc is a function type for getting stored stats records
type GetRecordsFunc func() map[string][]map[string]any

var (
	getOddsFunc        GetOddsFunc
	getOddsByMatchFunc GetOddsByMatchFunc
	getRecordsFunc     GetRecordsFunc
)

// SetGetOddsFunc sets the function to get odds aggregates
func SetGetOddsFunc(fn GetOddsFunc) {
	getOddsFunc = fn
}

// SetGetOddsByMatchFunc sets the function to get one match's aggregates
func SetGetOddsByMatchFunc(fn GetOddsByMatchFunc) {
	getOddsByMatchFunc = fn
}

// SetGetRecordsFunc sets the function to get stats records
func SetGetRecordsFunc(fn GetRecordsFunc) {
	getRecordsFunc = fn
}

// HandleOdds handles the /odds endpoint.
// GET /odds - all stored aggregates
// GET /odds?match=<id> - aggregates for one match
func HandleOdds(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	var odds []*models.MatchEventOdds
	if matchID := r.URL.Query().Get("match"); matchID != "" {
		if getOddsByMatchFunc != nil {
			odds = getOddsByMatchFunc(matchID)
		}
	} else if getOddsFunc != nil {
		odds = getOddsFunc()
	}

	duration := time.Since(startTime)
	w.Header().Set("X-Query-Duration", duration.String())
	w.Header().Set("X-Odds-Count", fmt.Sprintf("%d", len(odds)))

	if err := json.NewEncoder(w).Encode(map[string]interface{}{
		"odds": odds,
		"meta": map[string]interface{}{
			"count":    len(odds),
			"duration": duration.String(),
			"source":   "memory",
		},
	}); err != nil {
		slog.Error("Failed to encode odds response", "error", err)
		http.Error(w, fmt.Sprintf("Failed to encode odds: %v", err), http.StatusInternalServerError)
		return
	}
}

// HandleRecords handles the /records endpoint: stored stats-API record
// sets keyed by endpoint.
func HandleRecords(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")

	var records map[string][]map[string]any
	if getRecordsFunc != nil {
		records = getRecordsFunc()
	}

	if err := json.NewEncoder(w).Encode(map[string]interface{}{
		"records": records,
		"meta": map[string]interface{}{
			"endpoints": len(records),
		},
	}); err != nil {
		slog.Error("Failed to encode records response", "error", err)
		http.Error(w, fmt.Sprintf("Failed to encode records: %v", err), http.StatusInternalServerError)
		return
	}
}
