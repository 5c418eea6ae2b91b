package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaheaslanyan/hoopscoop-backend/internal/apperr"
	"github.com/vaheaslanyan/hoopscoop-backend/internal/logging"
	"github.com/vaheaslanyan/hoopscoop-backend/internal/upload"
)

type recordingImages struct {
	deleted []string
	err     error
}

func (r *recordingImages) Save(ctx context.Context, name string, _ io.Reader) (string, error) {
	return "/img/" + name, nil
}

func (r *recordingImages) Delete(ctx context.Context, ref string) error {
	r.deleted = append(r.deleted, ref)
	return r.err
}

func newEngine(images upload.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorTranslator(images, logging.Discard()))
	r.NoRoute(NoRoute)
	return r
}

func serve(r *gin.Engine, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func TestErrorTranslator(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{"typed", apperr.Validation("Invalid inputs, please check the data"), 422, `{"message":"Invalid inputs, please check the data"}`},
		{"status override", apperr.NotFound("Login failed").WithStatus(http.StatusUnauthorized), 401, `{"message":"Login failed"}`},
		{"foreign", errors.New("boom"), 500, `{"message":"An unknown error occurred"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newEngine(nil)
			r.GET("/x", func(c *gin.Context) { fail(c, tc.err) })

			w := serve(r, http.MethodGet, "/x")
			assert.Equal(t, tc.wantStatus, w.Code)
			assert.JSONEq(t, tc.wantBody, w.Body.String())
		})
	}
}

func TestErrorTranslatorRemovesUpload(t *testing.T) {
	images := &recordingImages{err: errors.New("gone already")}
	r := newEngine(images)
	r.POST("/x", func(c *gin.Context) {
		c.Set("upload_file", upload.File{Name: "a.png", URL: "/img/a.png"})
		fail(c, apperr.Resolution("Could not find location for the specified address"))
	})

	w := serve(r, http.MethodPost, "/x")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.Equal(t, []string{"/img/a.png"}, images.deleted, "delete failure is only logged")
}

func TestErrorTranslatorKeepsWrittenResponse(t *testing.T) {
	r := newEngine(nil)
	r.GET("/x", func(c *gin.Context) {
		c.String(http.StatusOK, "partial")
		_ = c.Error(errors.New("late failure"))
	})

	w := serve(r, http.MethodGet, "/x")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "partial", w.Body.String())
}

func TestNoRoute(t *testing.T) {
	w := serve(newEngine(nil), http.MethodGet, "/nowhere")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"Could not find this route"}`, w.Body.String())
}
