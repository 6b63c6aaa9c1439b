package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAppError_UnwrapsToSentinel(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", TokenExpiredError("expired"))
	require.ErrorIs(t, err, ErrTokenExpired)

	var appErr *AppError
	require.True(t, errors.As(err, &appErr))
	require.Equal(t, http.StatusGone, appErr.StatusCode)
}

func TestHiddenForbiddenError_LooksLikeNotFound(t *testing.T) {
	err := HiddenForbiddenError("Process not found")
	require.ErrorIs(t, err, ErrForbidden)
	require.NotErrorIs(t, err, ErrNotFound)

	rr := httptest.NewRecorder()
	HandleAppError(rr, err)
	require.Equal(t, http.StatusNotFound, rr.Code)
	require.Contains(t, rr.Body.String(), `"code":"`+ErrCodeNotFound+`"`)
}

func TestHandleAppError_WritesEnvelopeWithDetails(t *testing.T) {
	rr := httptest.NewRecorder()
	HandleAppError(rr, DependencyFailureError("1 email failed", map[string]int{"failed": 1}))

	require.Equal(t, http.StatusBadGateway, rr.Code)
	var env struct {
		Success bool `json:"success"`
		Error   struct {
			Code    string         `json:"code"`
			Message string         `json:"message"`
			Details map[string]int `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	require.False(t, env.Success)
	require.Equal(t, ErrCodeExternalServiceFailure, env.Error.Code)
	require.Equal(t, 1, env.Error.Details["failed"])
}

func TestHandleAppError_HidesUnknownErrors(t *testing.T) {
	rr := httptest.NewRecorder()
	HandleAppError(rr, errors.New("pq: relation \"processes\" does not exist"))

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	require.NotContains(t, rr.Body.String(), "relation")
	require.Contains(t, rr.Body.String(), ErrCodeInternal)
}

func TestRespondWithJSON_WrapsData(t *testing.T) {
	rr := httptest.NewRecorder()
	RespondWithJSON(rr, http.StatusCreated, map[string]string{"id": "p1"})

	require.Equal(t, http.StatusCreated, rr.Code)
	require.JSONEq(t, `{"success":true,"data":{"id":"p1"}}`, rr.Body.String())
}
