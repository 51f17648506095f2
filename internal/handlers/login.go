package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/connectapi/connect-api/internal/logger"
	"github.com/connectapi/connect-api/internal/models"
	"github.com/connectapi/connect-api/internal/services"
)

// Loginer defines the interface that the login service must implement.
type Loginer interface {
	Login(ctx context.Context, username, password string) (string, error)
}

// NewLoginHandler returns an HTTP handler for user login.
// @Summary User login
// @Description Authenticate a user and return a signed auth token
// @Tags user
// @Accept json
// @Produce json
// @Param loginRequest body models.LoginRequest true "Login request"
// @Success 200 {object} models.LoginResponse "Auth token returned"
// @Failure 400 {object} models.LoginErrorResponse "Invalid request body"
// @Failure 401 {object} models.LoginErrorResponse "Invalid username or password"
// @Router /user/login [post]
func NewLoginHandler(svc Loginer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		var req models.LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(models.LoginErrorResponse{
				Message: "invalid request body",
			})
			return
		}

		token, err := svc.Login(r.Context(), req.Username, req.Password)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrInvalidCredentials),
				errors.Is(err, services.ErrUserDoesNotExist):
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(models.LoginErrorResponse{
					Message: "Invalid username or password",
				})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				writeServerError(w)
			}
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(models.LoginResponse{
			UserToken: token,
		})
	}
}
