package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestOKEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	OK(rec, "done", map[string]string{"k": "v"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	resp := decodeBody(t, rec)
	assert.True(t, resp.Success)
	assert.Equal(t, "done", resp.Message)
	assert.Nil(t, resp.Count)
}

func TestOKCountCarriesZero(t *testing.T) {
	rec := httptest.NewRecorder()
	OKCount(rec, "list", []string{}, 0)

	resp := decodeBody(t, rec)
	require.NotNil(t, resp.Count)
	assert.Equal(t, 0, *resp.Count)
}

func TestFailMapsAppErrorStatus(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{NotFoundError("missing"), http.StatusNotFound},
		{ValidationError("bad input"), http.StatusBadRequest},
		{ConflictError("duplicate"), http.StatusBadRequest},
		{UnauthorizedError("nope"), http.StatusUnauthorized},
		{UpstreamError("fcm down"), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		Fail(rec, tc.err)
		assert.Equal(t, tc.status, rec.Code, tc.err.Error())
		resp := decodeBody(t, rec)
		assert.False(t, resp.Success)
		assert.Equal(t, tc.err.Error(), resp.Message)
	}
}

func TestFailHidesStackInProduction(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	rec := httptest.NewRecorder()
	Fail(rec, ValidationError("bad input"))
	resp := decodeBody(t, rec)
	assert.Empty(t, resp.Error)

	t.Setenv("APP_ENV", "development")
	rec = httptest.NewRecorder()
	Fail(rec, ValidationError("bad input"))
	resp = decodeBody(t, rec)
	assert.NotEmpty(t, resp.Error)
}

func TestFailUnwrapsWrappedAppError(t *testing.T) {
	rec := httptest.NewRecorder()
	wrapped := fmt.Errorf("loading order: %w", NotFoundError("Order not found"))
	Fail(rec, wrapped)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
