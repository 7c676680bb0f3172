package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kashtn/nail-studio/internal/gateway"
	"github.com/kashtn/nail-studio/internal/middleware"
	"github.com/kashtn/nail-studio/internal/models"
	"github.com/kashtn/nail-studio/internal/transport"
)

type ProfileRequest struct {
	FullName    string `json:"fullName" validate:"required,max=120"`
	Phone       string `json:"phone" validate:"omitempty,phone"`
	Preferences string `json:"preferences" validate:"max=2000"`
}

func (s *Server) GetProfile(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		transport.WriteError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var profile models.Profile
	if err := s.Cols.Profiles.FindOne(ctx, bson.M{"_id": userID}).Decode(&profile); err != nil {
		if err == mongo.ErrNoDocuments {
			// A profile exists implicitly for every account.
			transport.WriteJSON(w, http.StatusOK, models.Profile{ID: userID})
			return
		}
		log.Error("profile get: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	transport.WriteJSON(w, http.StatusOK, profile)
}

func (s *Server) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		transport.WriteError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	var req ProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		log.Warn("profile update: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := s.Val.Struct(req); err != nil {
		log.Warn("profile update: validation error")
		details := validationDetails(s.Val.ValidationErrors(err))
		transport.WriteError(w, http.StatusBadRequest, "validation error", details)
		return
	}

	profile := models.Profile{
		ID:          userID,
		FullName:    strings.TrimSpace(req.FullName),
		Phone:       strings.TrimSpace(req.Phone),
		Preferences: strings.TrimSpace(req.Preferences),
		UpdatedAt:   time.Now().In(s.Cfg.Timezone),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	opts := options.Replace().SetUpsert(true)
	if _, err := s.Cols.Profiles.ReplaceOne(ctx, bson.M{"_id": userID}, profile, opts); err != nil {
		log.Error("profile update: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	s.Sync.NotifyAsync(gateway.TargetProfiles)

	log.Info("profile update: ok", slog.String("user_id", userID))
	transport.WriteJSON(w, http.StatusOK, profile)
}
