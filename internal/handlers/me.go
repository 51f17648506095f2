package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/connectapi/connect-api/internal/logger"
	"github.com/connectapi/connect-api/internal/middlewares"
	"github.com/connectapi/connect-api/internal/models"
	"github.com/connectapi/connect-api/internal/services"
)

// UserGetter defines the interface that the profile service must implement.
type UserGetter interface {
	GetUser(ctx context.Context, userID uuid.UUID) (*models.UserDB, error)
}

// MeResponse represents the authenticated user's profile
// swagger:model MeResponse
type MeResponse struct {
	User models.UserPayload `json:"user"`
}

// NewMeHandler returns an HTTP handler for the authenticated user's profile.
// @Summary Current user profile
// @Description Returns the profile of the user owning the Bearer token
// @Tags user
// @Produce json
// @Security BearerAuth
// @Success 200 {object} handlers.MeResponse "Authenticated user"
// @Failure 401 "Missing or invalid token"
// @Router /user/me [get]
func NewMeHandler(svc UserGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		userID, ok := middlewares.GetUserIDFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		user, err := svc.GetUser(r.Context(), userID)
		if err != nil {
			if errors.Is(err, services.ErrUserDoesNotExist) {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			logger.Log.Errorw("internal server error", "err", err)
			writeServerError(w)
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(MeResponse{User: user.Payload()})
	}
}
