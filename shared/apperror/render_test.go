package apperror

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func renderInTestContext(t *testing.T, err error) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set("request_id", "req-test-1")

	Render(c, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestRenderAppError(t *testing.T) {
	rec, body := renderInTestContext(t, NotFound("Request not found"))

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
	require.Equal(t, "about:blank", body["type"])
	require.Equal(t, "Not Found", body["title"])
	require.Equal(t, "Request not found", body["detail"])
	require.Equal(t, "req-test-1", body["request_id"])
}

func TestRenderUnexpectedErrorIsGeneric(t *testing.T) {
	rec, body := renderInTestContext(t, errors.New("pq: connection refused"))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, "Internal Server Error", body["title"])
	// Internals must never leak into the response.
	require.NotContains(t, body["detail"], "pq:")
}

func TestInvalidStateIsBadRequest(t *testing.T) {
	err := InvalidState("Only draft requests are editable")
	require.Equal(t, http.StatusBadRequest, err.Status)
	require.Equal(t, "Invalid State", err.Title)
}
