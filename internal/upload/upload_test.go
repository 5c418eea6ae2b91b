package upload

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaheaslanyan/hoopscoop-backend/internal/apperr"
)

func multipartBody(t *testing.T, field, filename, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("title", "Museum"))
	if field != "" {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename))
		h.Set("Content-Type", contentType)
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func newRouter(store Store, maxBytes int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Next()
		if len(c.Errors) > 0 {
			err := c.Errors.Last().Err
			c.JSON(apperr.StatusOf(err), gin.H{"message": apperr.MessageOf(err)})
		}
	})
	r.POST("/upload", Single("image", store, maxBytes), func(c *gin.Context) {
		f, ok := FromContext(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"url": f.URL, "name": f.Name, "title": c.PostForm("title")})
	})
	return r
}

func post(r *gin.Engine, body *bytes.Buffer, ct string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestSingleStoresAcceptedImage(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDiskStore(dir, "/uploads/images/")
	require.NoError(t, err)

	body, ct := multipartBody(t, "image", "my holiday.png", "image/png", []byte("\x89PNG data"))
	w := post(newRouter(store, 1000), body, ct)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	files := listDir(t, dir)
	require.Len(t, files, 1)
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f-]{36}\.png$`), files[0])
	assert.Contains(t, w.Body.String(), `"url":"/uploads/images/`+files[0]+`"`)
	assert.Contains(t, w.Body.String(), `"title":"Museum"`)

	data, err := os.ReadFile(filepath.Join(dir, files[0]))
	require.NoError(t, err)
	assert.Equal(t, "\x89PNG data", string(data))
}

func TestSingleRejections(t *testing.T) {
	cases := []struct {
		name, field, ct, msg string
		size                 int
	}{
		{"gif", "image", "image/gif", "Invalid mime type!", 10},
		{"text", "image", "text/plain", "Invalid mime type!", 10},
		{"missing", "", "", "An image is required", 0},
		{"wrong field", "avatar", "image/png", "An image is required", 10},
		{"too large", "image", "image/jpeg", "Image is too large", 2000},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			store, err := NewDiskStore(dir, "/uploads/images")
			require.NoError(t, err)

			body, ct := multipartBody(t, tc.field, "x.bin", tc.ct, bytes.Repeat([]byte("a"), tc.size))
			w := post(newRouter(store, 1000), body, ct)

			assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
			assert.JSONEq(t, fmt.Sprintf(`{"message":%q}`, tc.msg), w.Body.String())
			assert.Empty(t, listDir(t, dir))
		})
	}
}

func TestDiskStoreDelete(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDiskStore(dir, "/uploads/images")
	require.NoError(t, err)
	ctx := context.Background()

	ref, err := store.Save(ctx, "a.png", bytes.NewBufferString("img"))
	require.NoError(t, err)
	assert.Equal(t, "/uploads/images/a.png", ref)

	_, err = store.Save(ctx, "a.png", bytes.NewBufferString("again"))
	assert.Error(t, err, "names are never overwritten")

	require.NoError(t, store.Delete(ctx, ref))
	assert.Empty(t, listDir(t, dir))
	assert.Error(t, store.Delete(ctx, ref))
	assert.Error(t, store.Delete(ctx, ""))
}
