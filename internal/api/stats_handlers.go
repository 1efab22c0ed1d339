package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"parklystats/internal/entities"
	apperrors "parklystats/internal/errors"
	"parklystats/internal/service"
)

// queryTimeout bounds how long a single stats request may hold a connection.
const queryTimeout = 10 * time.Second

type StatsHandler struct {
	Service *service.StatsService
}

func NewStatsHandler(svc *service.StatsService) *StatsHandler {
	return &StatsHandler{Service: svc}
}

func (h *StatsHandler) RevenueByDay(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	days, err := h.Service.RevenueByDay(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, days)
}

func (h *StatsHandler) OccupancyRate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	rate, err := h.Service.OccupancyRate(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, entities.OccupancyResponse{OccupancyPercentage: rate})
}

func (h *StatsHandler) MonthlyProjection(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	projection, err := h.Service.MonthlyProjection(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, projection)
}

func (h *StatsHandler) TopSpots(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	spots, err := h.Service.TopSpots(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, spots)
}

func (h *StatsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	summary, err := h.Service.Summary(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, summary)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// writeError logs the cause and answers with a generic body; query text and
// credentials never reach the client.
func writeError(w http.ResponseWriter, err error) {
	log.Printf("stats request failed: %v", err)
	httpErr := apperrors.ErrDatabase()
	http.Error(w, httpErr.Message, httpErr.Code)
}
