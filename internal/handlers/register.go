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

// Registerer defines the interface that the registration service must implement.
type Registerer interface {
	Register(ctx context.Context, username, email, password string) (*services.RegistrationResult, error)
}

// NewRegisterHandler returns an HTTP handler for user registration.
// @Summary Register a new user
// @Description Creates a new user account with a unique username and email, issues an auth token and enqueues a welcome email.
// @Tags user
// @Accept json
// @Produce json
// @Param registerRequest body models.RegisterRequest true "User registration request"
// @Success 201 {object} models.RegisterResponse "User successfully registered"
// @Failure 400 {object} models.ValidationErrorResponse "Missing or malformed signup fields"
// @Failure 409 {object} models.ConflictResponse "Username or email already taken"
// @Failure 500 {object} models.ServerErrorResponse "Unexpected failure"
// @Router /user/register [post]
func NewRegisterHandler(svc Registerer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		var req models.RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeInvalidSignup(w)
			return
		}

		res, err := svc.Register(r.Context(), req.Username, req.Email, req.Password)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrInvalidInput):
				writeInvalidSignup(w)
			case errors.Is(err, services.ErrUserAlreadyExists):
				w.WriteHeader(http.StatusConflict)
				json.NewEncoder(w).Encode(models.ConflictResponse{
					Message: "user already exists",
				})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				writeServerError(w)
			}
			return
		}

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(models.RegisterResponse{
			User:      res.User.Payload(),
			UserToken: res.Token,
		})
	}
}

func writeInvalidSignup(w http.ResponseWriter) {
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(models.ValidationErrorResponse{
		Errors: models.ErrorBody{Message: "Invalid signup details"},
	})
}

func writeServerError(w http.ResponseWriter) {
	w.WriteHeader(http.StatusInternalServerError)
	json.NewEncoder(w).Encode(models.ServerErrorResponse{
		Errors: models.ErrorBody{Message: "Something went wrong"},
	})
}
