package controllers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheck(t *testing.T) {
	setupTestDB(t)

	r := gin.New()
	r.GET("/health", HealthCheck)

	rec := doRequest(r, http.MethodGet, "/health", "", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Status    string `json:"status"`
		DB        string `json:"db"`
		Websocket struct {
			Enabled bool `json:"enabled"`
		} `json:"websocket"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "ok", resp.DB)
	assert.True(t, resp.Websocket.Enabled)
}
