package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mazyy/RobbinOdds/internal/pkg/interfaces"
)

// GetParsersFunc is a function type for getting registered parsers
type GetParsersFunc func() []interfaces.Parser

var getParsersFunc GetParsersFunc

// SetGetParsersFunc sets the function to get parsers
func SetGetParsersFunc(fn GetParsersFunc) {
	getParsersFunc = fn
}

// HandleParse triggers parsing for a specific parser or all parsers
// GET /parse?parser=oddsportal - parse specific parser
// GET /parse - parse all parsers
func HandleParse(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")

	parserName := r.URL.Query().Get("parser")
	var parsers []interfaces.Parser
	if getParsersFunc != nil {
		parsers = getParsersFunc()
	}

	if len(parsers) == 0 {
		http.Error(w, `{"error": "no parsers registered"}`, http.StatusInternalServerError)
		return
	}

	var targetParsers []interfaces.Parser
	if parserName != "" {
		parserName = strings.ToLower(strings.TrimSpace(parserName))
		for _, p := range parsers {
			if strings.ToLower(p.GetName()) == parserName {
				targetParsers = append(targetParsers, p)
				break
			}
		}
		if len(targetParsers) == 0 {
			http.Error(w, fmt.Sprintf(`{"error": "parser '%s' not found"}`, parserName), http.StatusNotFound)
			return
		}
	} else {
		targetParsers = parsers
	}

	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	var results []map[string]interface{}
	for _, parser := range targetParsers {
		startTime := time.Now()
		slog.Info("Manual parse triggered", "parser", parser.GetName())

		err := parser.ParseOnce(ctx)
		duration := time.Since(startTime)

		result := map[string]interface{}{
			"parser":   parser.GetName(),
			"duration": duration.String(),
			"success":  err == nil,
		}
		if err != nil {
			result["error"] = err.Error()
			slog.Warn("Manual parse failed", "parser", parser.GetName(), "error", err, "duration", duration)
		} else {
			slog.Info("Manual parse completed", "parser", parser.GetName(), "duration", duration)
		}
		results = append(results, result)
	}

	response := map[string]interface{}{
		"results": results,
		"count":   len(results),
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		slog.Error("Failed to encode parse response", "error", err)
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
		return
	}
}
