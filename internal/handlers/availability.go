package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/kashtn/nail-studio/internal/schedule"
	"github.com/kashtn/nail-studio/internal/transport"
)

// SlotSource answers which slots a date offers. The booking service
// implements it against live appointment data.
type SlotSource interface {
	Slots(ctx context.Context, date string) ([]schedule.Slot, error)
}

func (s *Server) GetAvailability(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)
	date := r.URL.Query().Get("date")
	if _, err := schedule.ParseDate(date, s.Cfg.Timezone); err != nil {
		log.Warn("availability: invalid date", slog.String("date", date))
		transport.WriteError(w, http.StatusBadRequest, "invalid date", nil)
		return
	}

	bookable, err := schedule.IsDateBookable(date, s.Cfg.BookingWindowDays, s.Cfg.Timezone, time.Now())
	if err != nil {
		transport.WriteError(w, http.StatusBadRequest, "invalid date", nil)
		return
	}
	if !bookable {
		log.Warn("availability: date outside booking window", slog.String("date", date))
		transport.WriteError(w, http.StatusBadRequest, "date outside booking window", nil)
		return
	}

	cacheKey := "availability:" + date
	if s.Cache != nil {
		if cached, ok, err := s.Cache.Get(r.Context(), cacheKey); err == nil && ok {
			log.Info("availability: cache hit", slog.String("date", date))
			writeCachedJSON(w, http.StatusOK, cached)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	slots, err := s.Slots.Slots(ctx, date)
	if err != nil {
		log.Error("availability: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	response := map[string]interface{}{
		"date":  date,
		"slots": slots,
	}
	if payload, err := encodeJSON(response); err == nil && s.Cache != nil {
		// Slot state changes with every booking, so keep this short.
		_ = s.Cache.Set(r.Context(), cacheKey, payload, 30*time.Second)
	}

	log.Info("availability: ok", slog.String("date", date), slog.Int("slots", len(slots)))
	transport.WriteJSON(w, http.StatusOK, response)
}
