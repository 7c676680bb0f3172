package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kashtn/nail-studio/internal/models"
	"github.com/kashtn/nail-studio/internal/transport"
)

type ServiceReviewRequest struct {
	Name    string `json:"name" validate:"required,max=120"`
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Message string `json:"message" validate:"required,max=2000"`
}

func (s *Server) GetServiceReviews(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)
	serviceID, ok := parseIntParam(chi.URLParam(r, "id"))
	if !ok {
		log.Warn("service reviews list: invalid service id")
		transport.WriteError(w, http.StatusBadRequest, "invalid service id", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if exists, err := s.serviceExists(ctx, serviceID); err != nil {
		log.Error("service reviews list: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	} else if !exists {
		log.Warn("service reviews list: service not found", slog.Int("service_id", serviceID))
		transport.WriteError(w, http.StatusNotFound, "service not found", nil)
		return
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(200)
	cursor, err := s.Cols.ServiceReviews.Find(ctx, bson.M{"service_id": serviceID}, opts)
	if err != nil {
		log.Error("service reviews list: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}
	defer cursor.Close(ctx)

	items := []models.ServiceReview{}
	for cursor.Next(ctx) {
		var review models.ServiceReview
		if err := cursor.Decode(&review); err != nil {
			log.Error("service reviews list: decode error", slog.String("error", err.Error()))
			transport.WriteError(w, http.StatusInternalServerError, "decode error", nil)
			return
		}
		items = append(items, review)
	}
	if err := cursor.Err(); err != nil {
		log.Error("service reviews list: cursor error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "cursor error", nil)
		return
	}

	log.Info("service reviews list: ok", slog.Int("service_id", serviceID), slog.Int("count", len(items)))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{"reviews": items})
}

func (s *Server) CreateServiceReview(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)
	serviceID, ok := parseIntParam(chi.URLParam(r, "id"))
	if !ok {
		log.Warn("service reviews create: invalid service id")
		transport.WriteError(w, http.StatusBadRequest, "invalid service id", nil)
		return
	}

	var req ServiceReviewRequest
	if err := decodeJSON(r, &req); err != nil {
		log.Warn("service reviews create: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Message = strings.TrimSpace(req.Message)
	if err := s.Val.Struct(req); err != nil {
		log.Warn("service reviews create: validation error")
		details := validationDetails(s.Val.ValidationErrors(err))
		transport.WriteError(w, http.StatusBadRequest, "validation error", details)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if exists, err := s.serviceExists(ctx, serviceID); err != nil {
		log.Error("service reviews create: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	} else if !exists {
		log.Warn("service reviews create: service not found", slog.Int("service_id", serviceID))
		transport.WriteError(w, http.StatusNotFound, "service not found", nil)
		return
	}

	review := models.ServiceReview{
		ID:        primitive.NewObjectID().Hex(),
		ServiceID: serviceID,
		Name:      req.Name,
		Rating:    req.Rating,
		Message:   req.Message,
		CreatedAt: time.Now().In(s.Cfg.Timezone),
	}

	if _, err := s.Cols.ServiceReviews.InsertOne(ctx, review); err != nil {
		log.Error("service reviews create: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("service reviews create: ok", slog.Int("service_id", serviceID), slog.String("review_id", review.ID))
	transport.WriteJSON(w, http.StatusCreated, review)
}

func (s *Server) serviceExists(ctx context.Context, serviceID int) (bool, error) {
	if err := s.Cols.Services.FindOne(ctx, bson.M{"_id": serviceID}).Err(); err != nil {
		if err == mongo.ErrNoDocuments {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
