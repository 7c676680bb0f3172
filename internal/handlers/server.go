package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/kashtn/nail-studio/internal/auth"
	"github.com/kashtn/nail-studio/internal/cache"
	"github.com/kashtn/nail-studio/internal/config"
	"github.com/kashtn/nail-studio/internal/db"
	"github.com/kashtn/nail-studio/internal/gateway"
	"github.com/kashtn/nail-studio/internal/middleware"
	"github.com/kashtn/nail-studio/internal/models"
	"github.com/kashtn/nail-studio/internal/validation"
)

type AppointmentMailer interface {
	SendAppointmentConfirmation(ctx context.Context, appointment models.Appointment, service models.Service) (string, error)
}

type Server struct {
	Cfg    *config.Config
	Cols   *db.Collections
	Val    *validation.Validator
	Log    *slog.Logger
	Cache  cache.Cache
	Mailer AppointmentMailer
	Sync   *gateway.Notifier
	JWT    *auth.Manager
	Slots  SlotSource
}

func (s *Server) logWithRequest(r *http.Request) *slog.Logger {
	if r == nil {
		return s.Log
	}
	if id := middleware.RequestIDFromContext(r.Context()); id != "" {
		return s.Log.With(slog.String("request_id", id))
	}
	return s.Log
}
