package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/connectapi/connect-api/internal/middlewares"
	"github.com/connectapi/connect-api/internal/models"
	"github.com/connectapi/connect-api/internal/services"
)

func TestMeHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := uuid.New()

	t.Run("success", func(t *testing.T) {
		svc := NewMockUserGetter(ctrl)
		svc.EXPECT().
			GetUser(gomock.Any(), userID).
			Return(&models.UserDB{UserID: userID, Username: "alice", Email: "alice@x.com"}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/user/me", nil)
		req = req.WithContext(middlewares.SetUserIDToContext(req.Context(), userID))
		rec := httptest.NewRecorder()

		NewMeHandler(svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var body map[string]map[string]string
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "alice", body["user"]["username"])
		assert.Equal(t, "alice@x.com", body["user"]["email"])
	})

	t.Run("no user id in context", func(t *testing.T) {
		svc := NewMockUserGetter(ctrl)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/user/me", nil)
		rec := httptest.NewRecorder()

		NewMeHandler(svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("user no longer exists", func(t *testing.T) {
		svc := NewMockUserGetter(ctrl)
		svc.EXPECT().
			GetUser(gomock.Any(), userID).
			Return(nil, services.ErrUserDoesNotExist)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/user/me", nil)
		req = req.WithContext(middlewares.SetUserIDToContext(req.Context(), userID))
		rec := httptest.NewRecorder()

		NewMeHandler(svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestIndexHandler(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	NewIndexHandler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Welcome to the Connect Api", rec.Body.String())
}

func TestNotFoundHandler(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/no/such/route", nil)
	rec := httptest.NewRecorder()

	NewNotFoundHandler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body NotFoundResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, http.StatusNotFound, body.Status)
	assert.Equal(t, "Not found", body.Error)
}
