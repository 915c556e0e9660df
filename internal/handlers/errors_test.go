package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"taskmanager/internal/logging"
	"taskmanager/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRespondError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		err  error
		code int
		body string
	}{
		{service.ErrInvalidInput, http.StatusBadRequest, `{"error":"Username, email and password are required"}`},
		{service.ErrEmailTaken, http.StatusBadRequest, `{"error":"Email already in use"}`},
		{service.ErrUsernameTaken, http.StatusBadRequest, `{"error":"Username already taken"}`},
		{service.ErrPasswordTooLong, http.StatusBadRequest, `{"error":"Password must be at most 72 bytes"}`},
		{service.ErrTitleRequired, http.StatusBadRequest, `{"error":"Title is required"}`},
		{service.ErrInvalidCredentials, http.StatusUnauthorized, `{"error":"Invalid credentials"}`},
		{fmt.Errorf("update: %w", service.ErrNotFound), http.StatusNotFound, `{"error":"Task not found"}`},
		{errors.New("db error: connection refused"), http.StatusInternalServerError, `{"error":"internal error"}`},
	}
	for _, tc := range tests {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

		respondError(c, logging.Nop(), tc.err)

		assert.Equal(t, tc.code, w.Code, tc.err.Error())
		assert.JSONEq(t, tc.body, w.Body.String())
	}
}

func TestBindErrorMessage_NonValidation(t *testing.T) {
	assert.Equal(t, "invalid JSON body", bindErrorMessage(errors.New("unexpected EOF")))
}

func TestParseID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	for raw, ok := range map[string]bool{"12": true, "0": false, "-3": false, "x": false} {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Params = gin.Params{{Key: "id", Value: raw}}

		_, got := parseID(c, "id")
		assert.Equal(t, ok, got, raw)
		if !ok {
			assert.Equal(t, http.StatusNotFound, w.Code)
		}
	}
}
