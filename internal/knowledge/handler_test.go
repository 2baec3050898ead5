package knowledge

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evect-health/fulfillment/pkg/logging"
)

type failingInvalidator struct{}

func (failingInvalidator) Invalidate(context.Context) (int, error) {
	return 0, errors.New("redis unavailable")
}

func TestCacheHandlerInvalidate(t *testing.T) {
	c, _ := newTestCache(t, newCountingSource(t))
	ctx := context.Background()
	_, err := c.OutbreakByCity(ctx, "Maputo")
	require.NoError(t, err)
	_, err = c.Symptoms(ctx, "Cholera")
	require.NoError(t, err)

	h := NewCacheHandler(c, logging.New("error"))
	rec := httptest.NewRecorder()
	h.Invalidate(rec, httptest.NewRequest(http.MethodDelete, "/admin/knowledge/cache", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body InvalidateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Removed)
}

func TestCacheHandlerErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	NewCacheHandler(nil, nil).Invalidate(rec, httptest.NewRequest(http.MethodDelete, "/admin/knowledge/cache", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	NewCacheHandler(failingInvalidator{}, logging.New("error")).Invalidate(rec, httptest.NewRequest(http.MethodDelete, "/admin/knowledge/cache", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
