package booking

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kashtn/nail-studio/internal/auth"
	"github.com/kashtn/nail-studio/internal/httpx"
	"github.com/kashtn/nail-studio/internal/middleware"
	"github.com/kashtn/nail-studio/internal/transport"
	"github.com/kashtn/nail-studio/internal/validation"
)

type Handler struct {
	svc *Service
	val *validation.Validator
	jwt *auth.Manager
	log *slog.Logger
}

func NewHandler(svc *Service, val *validation.Validator, jwt *auth.Manager, log *slog.Logger) *Handler {
	return &Handler{svc: svc, val: val, jwt: jwt, log: log}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/booking/drafts", h.Create)
	r.Get("/booking/drafts/{key}", h.Get)
	r.Post("/booking/drafts/{key}/service", h.SelectService)
	r.Post("/booking/drafts/{key}/date", h.SelectDate)
	r.Post("/booking/drafts/{key}/time", h.SelectTime)
	r.Post("/booking/drafts/{key}/back", h.Back)
	r.Put("/booking/drafts/{key}/details", h.UpdateDetails)
	r.Post("/booking/drafts/{key}/submit", h.Submit)
}

type createDraftRequest struct {
	ServiceID int `json:"serviceId" validate:"omitempty,gt=0"`
}

type selectServiceRequest struct {
	ServiceID int `json:"serviceId" validate:"required,gt=0"`
}

type selectDateRequest struct {
	Date string `json:"date" validate:"required,date"`
}

type selectTimeRequest struct {
	Time string `json:"time" validate:"required,clock"`
}

type detailsRequest struct {
	Name  string `json:"name" validate:"required,max=120"`
	Email string `json:"email" validate:"omitempty,email"`
	Phone string `json:"phone" validate:"required,phone"`
	Notes string `json:"notes" validate:"max=2000"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	var req createDraftRequest
	if r.ContentLength > 0 {
		if err := httpx.DecodeJSON(r.Body, &req); err != nil {
			log.Warn("booking create: invalid json")
			transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
			return
		}
		if err := h.val.Struct(req); err != nil {
			log.Warn("booking create: validation error")
			transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
			return
		}
	}

	ctx, cancel := contextWithTimeout(r)
	defer cancel()

	view, err := h.svc.Start(ctx, req.ServiceID)
	if err != nil {
		log.Error("booking create: start failed", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "booking error", nil)
		return
	}

	log.Info("booking create: session opened", slog.String("session", view.Key))
	transport.WriteJSON(w, http.StatusCreated, view)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	key := chi.URLParam(r, "key")

	ctx, cancel := contextWithTimeout(r)
	defer cancel()

	view, err := h.svc.Resume(ctx, key)
	if err != nil {
		h.writeTransitionError(w, log, "booking get", err)
		return
	}

	transport.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) SelectService(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	key := chi.URLParam(r, "key")

	var req selectServiceRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("booking select service: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		log.Warn("booking select service: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := contextWithTimeout(r)
	defer cancel()

	view, err := h.svc.SelectService(ctx, key, req.ServiceID)
	if err != nil {
		h.writeTransitionError(w, log, "booking select service", err)
		return
	}

	log.Info("booking select service: ok", slog.String("session", key), slog.Int("service_id", req.ServiceID))
	transport.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) SelectDate(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	key := chi.URLParam(r, "key")

	var req selectDateRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("booking select date: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		log.Warn("booking select date: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := contextWithTimeout(r)
	defer cancel()

	view, err := h.svc.SelectDate(ctx, key, req.Date)
	if err != nil {
		h.writeTransitionError(w, log, "booking select date", err)
		return
	}

	log.Info("booking select date: ok", slog.String("session", key), slog.String("date", req.Date))
	transport.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) SelectTime(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	key := chi.URLParam(r, "key")

	var req selectTimeRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("booking select time: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		log.Warn("booking select time: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := contextWithTimeout(r)
	defer cancel()

	view, err := h.svc.SelectTime(ctx, key, req.Time)
	if err != nil {
		h.writeTransitionError(w, log, "booking select time", err)
		return
	}

	log.Info("booking select time: ok", slog.String("session", key), slog.String("time", req.Time))
	transport.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) Back(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	key := chi.URLParam(r, "key")

	ctx, cancel := contextWithTimeout(r)
	defer cancel()

	view, err := h.svc.Back(ctx, key)
	if err != nil {
		h.writeTransitionError(w, log, "booking back", err)
		return
	}

	transport.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) UpdateDetails(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	key := chi.URLParam(r, "key")

	var req detailsRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("booking details: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		log.Warn("booking details: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := contextWithTimeout(r)
	defer cancel()

	view, err := h.svc.UpdateDetails(ctx, key, req.Name, req.Email, req.Phone, req.Notes)
	if err != nil {
		h.writeTransitionError(w, log, "booking details", err)
		return
	}

	transport.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	key := chi.URLParam(r, "key")
	clientID := middleware.ClientIDFromRequest(r, h.jwt)

	ctx, cancel := contextWithTimeout(r)
	defer cancel()

	appointment, err := h.svc.Submit(ctx, key, clientID)
	if err != nil {
		h.writeTransitionError(w, log, "booking submit", err)
		return
	}

	log.Info("booking submit: ok",
		slog.String("session", key),
		slog.String("appointment_id", appointment.ID),
	)
	transport.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"appointment": appointment,
	})
}

func (h *Handler) writeTransitionError(w http.ResponseWriter, log *slog.Logger, op string, err error) {
	switch {
	case errors.Is(err, ErrDraftNotFound):
		log.Warn(op + ": draft not found")
		transport.WriteError(w, http.StatusNotFound, "draft not found", nil)
	case errors.Is(err, ErrInvalidStep):
		log.Warn(op + ": invalid step")
		transport.WriteError(w, http.StatusConflict, "transition not allowed at current step", nil)
	case errors.Is(err, ErrServiceNotFound):
		log.Warn(op + ": service not found")
		transport.WriteError(w, http.StatusBadRequest, "service not found", nil)
	case errors.Is(err, ErrDateNotBookable):
		log.Warn(op + ": date outside booking window")
		transport.WriteError(w, http.StatusBadRequest, "date outside booking window", nil)
	case errors.Is(err, ErrSlotUnavailable):
		log.Warn(op + ": slot not available")
		transport.WriteError(w, http.StatusConflict, "slot not available", nil)
	case errors.Is(err, ErrDraftIncomplete):
		log.Warn(op + ": draft incomplete")
		transport.WriteError(w, http.StatusBadRequest, "service, date and time must be selected", nil)
	case errors.Is(err, ErrSubmitInFlight):
		log.Warn(op + ": submission already in progress")
		transport.WriteError(w, http.StatusConflict, "submission already in progress", nil)
	default:
		log.Error(op+": error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "booking error", nil)
	}
}

func (h *Handler) logWithRequest(r *http.Request) *slog.Logger {
	if id := middleware.RequestIDFromContext(r.Context()); id != "" {
		return h.log.With(slog.String("request_id", id))
	}
	return h.log
}

func contextWithTimeout(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), 8*time.Second)
}
