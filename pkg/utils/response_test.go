package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondError(t *testing.T) {
	resp := httptest.NewRecorder()
	RespondError(resp, http.StatusBadRequest, "message is required")

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "application/json", resp.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "message is required", body["error"])
}

func TestRespondJSONKeepsArabic(t *testing.T) {
	resp := httptest.NewRecorder()
	RespondJSON(resp, http.StatusOK, map[string]string{"reply": "مرحباً"})

	assert.Contains(t, resp.Body.String(), "مرحباً")
}

func TestRespondText(t *testing.T) {
	resp := httptest.NewRecorder()
	RespondText(resp, http.StatusOK, "OILNOVA Chat AI Backend is running.")

	assert.Equal(t, "OILNOVA Chat AI Backend is running.", resp.Body.String())
	assert.Contains(t, resp.Header().Get("Content-Type"), "text/plain")
}
