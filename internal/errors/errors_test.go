package errors

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIError_Error(t *testing.T) {
	err := New(http.StatusBadRequest, "INVALID_PARAMETER", "bad threshold")
	assert.Equal(t, "bad threshold", err.Error())
}

func TestAPIError_RenderSetsStatus(t *testing.T) {
	apiErr := InvalidParameterError("threshold", "must be a number")

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/metrics/hot-takes", nil)
	require.NoError(t, render.Render(w, r, NewErrorResponse(apiErr)))

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "INVALID_PARAMETER", body.Error.ErrorCode)
	assert.Contains(t, body.Error.Message, "threshold")
	assert.Equal(t, "must be a number", body.Error.Details)
}

func TestNotFoundError(t *testing.T) {
	err := NotFoundError("Book")
	assert.Equal(t, http.StatusNotFound, err.StatusCode)
	assert.Equal(t, "Book not found", err.Message)
}

func TestDataSourceFailure(t *testing.T) {
	err := DataSourceFailure(assert.AnError)
	assert.Equal(t, http.StatusServiceUnavailable, err.StatusCode)
	assert.Equal(t, "DATA_UNAVAILABLE", err.ErrorCode)
	assert.Equal(t, assert.AnError.Error(), err.Details)
}
