package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaheaslanyan/hoopscoop-backend/internal/apperr"
)

const okPayload = `{
  "status": "OK",
  "results": [{
    "formatted_address": "20 W 34th St, New York, NY 10001, USA",
    "geometry": {"location": {"lat": 40.7484405, "lng": -73.9856644}}
  }]
}`

func serve(t *testing.T, status int, body string) (*httptest.Server, *http.Request) {
	t.Helper()
	var got http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = *r
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &got
}

func TestResolveOK(t *testing.T) {
	srv, req := serve(t, http.StatusOK, okPayload)
	c := NewClient(srv.URL+"/maps/api/geocode/json", "key-123", 5*time.Second)

	res, err := c.Resolve(context.Background(), "Empire State Building & more")
	require.NoError(t, err)
	assert.Equal(t, "20 W 34th St, New York, NY 10001, USA", res.Address)
	assert.InDelta(t, 40.7484405, res.Location.Lat, 1e-9)
	assert.InDelta(t, -73.9856644, res.Location.Lng, 1e-9)

	assert.Equal(t, "/maps/api/geocode/json", req.URL.Path)
	assert.Equal(t, "Empire State Building & more", req.URL.Query().Get("address"))
	assert.Equal(t, "key-123", req.URL.Query().Get("key"))
}

func TestResolveZeroResults(t *testing.T) {
	srv, _ := serve(t, http.StatusOK, `{"status":"ZERO_RESULTS","results":[]}`)
	_, err := NewClient(srv.URL, "k", time.Second).Resolve(context.Background(), "nowhere")

	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindResolution))
	assert.Equal(t, http.StatusUnprocessableEntity, apperr.StatusOf(err))
	assert.Equal(t, "Could not find location for the specified address", apperr.MessageOf(err))
}

func TestResolveUnparseable(t *testing.T) {
	for _, body := range []string{`<html>oops</html>`, `{}`, `{"status":"OK","results":[]}`,
		`{"status":"OK","results":[{"geometry":{"location":{"lat":"x"}}}]}`} {
		srv, _ := serve(t, http.StatusOK, body)
		_, err := NewClient(srv.URL, "k", time.Second).Resolve(context.Background(), "a")
		assert.True(t, apperr.Is(err, apperr.KindResolution), body)
	}
}

func TestResolveUpstreamFailure(t *testing.T) {
	srv, _ := serve(t, http.StatusOK, `{"status":"REQUEST_DENIED","error_message":"bad key"}`)
	_, err := NewClient(srv.URL, "k", time.Second).Resolve(context.Background(), "a")
	assert.True(t, apperr.Is(err, apperr.KindUnknown))
	assert.Equal(t, http.StatusInternalServerError, apperr.StatusOf(err))

	srv.Close()
	_, err = NewClient(srv.URL, "k", time.Second).Resolve(context.Background(), "a")
	assert.True(t, apperr.Is(err, apperr.KindUnknown))
}
