package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Vodeneev/premwsfeed/internal/pkg/livefeed"
)

// GetPremwsAllMatchesFunc returns every match the premws engine is tracking.
type GetPremwsAllMatchesFunc func() []*livefeed.Match

// GetPremwsLiveMatchesFunc returns only in-play premws matches.
type GetPremwsLiveMatchesFunc func() []*livefeed.Match

// GetPremwsMatchesBySportFunc returns premws matches for one sport ID.
type GetPremwsMatchesBySportFunc func(sportID string) []*livefeed.Match

var (
	getPremwsAllMatchesFunc     GetPremwsAllMatchesFunc
	getPremwsLiveMatchesFunc    GetPremwsLiveMatchesFunc
	getPremwsMatchesBySportFunc GetPremwsMatchesBySportFunc
)

// SetGetPremwsAllMatchesFunc wires /premws/matches to an Engine.
func SetGetPremwsAllMatchesFunc(fn GetPremwsAllMatchesFunc) {
	getPremwsAllMatchesFunc = fn
}

// SetGetPremwsLiveMatchesFunc wires /premws/matches/live to an Engine.
func SetGetPremwsLiveMatchesFunc(fn GetPremwsLiveMatchesFunc) {
	getPremwsLiveMatchesFunc = fn
}

// SetGetPremwsMatchesBySportFunc wires /premws/matches/sport to an Engine.
func SetGetPremwsMatchesBySportFunc(fn GetPremwsMatchesBySportFunc) {
	getPremwsMatchesBySportFunc = fn
}

// HandlePremwsMatches handles GET /premws/matches.
func HandlePremwsMatches(w http.ResponseWriter, r *http.Request) {
	writePremwsMatches(w, getPremwsAllMatchesFunc)
}

// HandlePremwsLiveMatches handles GET /premws/matches/live.
func HandlePremwsLiveMatches(w http.ResponseWriter, r *http.Request) {
	writePremwsMatches(w, (GetPremwsAllMatchesFunc)(getPremwsLiveMatchesFunc))
}

// HandlePremwsMatchesBySport handles GET /premws/matches/sport?id=13.
func HandlePremwsMatchesBySport(w http.ResponseWriter, r *http.Request) {
	sportID := r.URL.Query().Get("id")
	if sportID == "" || getPremwsMatchesBySportFunc == nil {
		writePremwsMatches(w, nil)
		return
	}
	writePremwsMatches(w, func() []*livefeed.Match {
		return getPremwsMatchesBySportFunc(sportID)
	})
}

func writePremwsMatches(w http.ResponseWriter, getter GetPremwsAllMatchesFunc) {
	startTime := time.Now()

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	var matches []*livefeed.Match
	if getter != nil {
		matches = getter()
	}

	duration := time.Since(startTime)
	w.Header().Set("X-Query-Duration", duration.String())
	w.Header().Set("X-Matches-Count", fmt.Sprintf("%d", len(matches)))

	if err := json.NewEncoder(w).Encode(map[string]interface{}{
		"matches": matches,
		"meta": map[string]interface{}{
			"count":    len(matches),
			"duration": duration.String(),
		},
	}); err != nil {
		slog.Error("premws: failed to encode matches response", "error", err)
		http.Error(w, fmt.Sprintf("failed to encode: %v", err), http.StatusInternalServerError)
		return
	}
}
