package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kashtn/nail-studio/internal/gateway"
	"github.com/kashtn/nail-studio/internal/middleware"
	"github.com/kashtn/nail-studio/internal/models"
	"github.com/kashtn/nail-studio/internal/transport"
)

// AppointmentView is an appointment joined with its service summary for the
// client's "my appointments" page.
type AppointmentView struct {
	models.Appointment
	ServiceName     string `json:"service_name,omitempty"`
	ServicePrice    int    `json:"service_price,omitempty"`
	ServiceDuration int    `json:"service_duration,omitempty"`
}

func (s *Server) ListAppointments(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)
	clientID := middleware.UserIDFromContext(r.Context())
	if clientID == "" {
		transport.WriteError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "appointment_date", Value: 1}})
	cursor, err := s.Cols.Appointments.Find(ctx, bson.M{"client_id": clientID}, opts)
	if err != nil {
		log.Error("appointments list: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}
	defer cursor.Close(ctx)

	items := []models.Appointment{}
	for cursor.Next(ctx) {
		var appt models.Appointment
		if err := cursor.Decode(&appt); err != nil {
			log.Error("appointments list: decode error", slog.String("error", err.Error()))
			transport.WriteError(w, http.StatusInternalServerError, "decode error", nil)
			return
		}
		items = append(items, appt)
	}
	if err := cursor.Err(); err != nil {
		log.Error("appointments list: cursor error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "cursor error", nil)
		return
	}

	views, err := s.attachServiceSummaries(ctx, items)
	if err != nil {
		log.Error("appointments list: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("appointments list: ok", slog.String("client_id", clientID), slog.Int("count", len(views)))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{"appointments": views})
}

func (s *Server) attachServiceSummaries(ctx context.Context, items []models.Appointment) ([]AppointmentView, error) {
	ids := make([]int, 0, len(items))
	seen := make(map[int]bool, len(items))
	for _, appt := range items {
		if !seen[appt.ServiceID] {
			seen[appt.ServiceID] = true
			ids = append(ids, appt.ServiceID)
		}
	}

	services := make(map[int]models.Service, len(ids))
	if len(ids) > 0 {
		cursor, err := s.Cols.Services.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
		if err != nil {
			return nil, err
		}
		defer cursor.Close(ctx)
		for cursor.Next(ctx) {
			var service models.Service
			if err := cursor.Decode(&service); err != nil {
				return nil, err
			}
			services[service.ID] = service
		}
		if err := cursor.Err(); err != nil {
			return nil, err
		}
	}

	views := make([]AppointmentView, 0, len(items))
	for _, appt := range items {
		view := AppointmentView{Appointment: appt}
		if service, ok := services[appt.ServiceID]; ok {
			view.ServiceName = service.Name
			view.ServicePrice = service.Price
			view.ServiceDuration = service.Duration
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *Server) GetAppointment(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)
	id := chi.URLParam(r, "id")
	if id == "" {
		log.Warn("appointments get: missing id")
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var appt models.Appointment
	if err := s.Cols.Appointments.FindOne(ctx, bson.M{"_id": id}).Decode(&appt); err != nil {
		if err == mongo.ErrNoDocuments {
			log.Warn("appointments get: not found", slog.String("appointment_id", id))
			transport.WriteError(w, http.StatusNotFound, "appointment not found", nil)
			return
		}
		log.Error("appointments get: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	// An appointment owned by an account is only visible to that account.
	if appt.ClientID != "" && appt.ClientID != middleware.ClientIDFromRequest(r, s.JWT) {
		log.Warn("appointments get: not owner", slog.String("appointment_id", id))
		transport.WriteError(w, http.StatusNotFound, "appointment not found", nil)
		return
	}

	log.Info("appointments get: ok", slog.String("appointment_id", id))
	transport.WriteJSON(w, http.StatusOK, appt)
}

func (s *Server) CancelAppointment(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)
	clientID := middleware.UserIDFromContext(r.Context())
	if clientID == "" {
		transport.WriteError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		log.Warn("appointments cancel: missing id")
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	filter := bson.M{
		"_id":       id,
		"client_id": clientID,
		"status":    bson.M{"$in": []string{models.AppointmentStatusPending, models.AppointmentStatusConfirmed}},
	}
	update := bson.M{"$set": bson.M{"status": models.AppointmentStatusCancelled}}

	var appt models.Appointment
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if err := s.Cols.Appointments.FindOneAndUpdate(ctx, filter, update, opts).Decode(&appt); err != nil {
		if err == mongo.ErrNoDocuments {
			log.Warn("appointments cancel: not cancellable", slog.String("appointment_id", id))
			transport.WriteError(w, http.StatusNotFound, "appointment not found or not cancellable", nil)
			return
		}
		log.Error("appointments cancel: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	// Cancelling frees the slot.
	if s.Cache != nil {
		date := appt.AppointmentDate.In(s.Cfg.Timezone).Format("2006-01-02")
		_ = s.Cache.DeletePrefix(r.Context(), "availability:"+date)
	}
	s.Sync.NotifyAsync(gateway.TargetAppointments)

	log.Info("appointments cancel: ok", slog.String("appointment_id", id))
	transport.WriteJSON(w, http.StatusOK, appt)
}
