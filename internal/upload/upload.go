// Package upload accepts image files from multipart requests and keeps them on local disk.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vaheaslanyan/hoopscoop-backend/internal/apperr"
)

const contextKeyFile = "upload_file"

// allowed maps accepted content types to stored file extensions.
var allowed = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpeg",
	"image/jpg":  "jpg",
}

// File describes a stored upload.
type File struct {
	Name        string
	URL         string
	ContentType string
	Size        int64
}

// Store persists uploaded files and hands back a reference URL.
type Store interface {
	Save(ctx context.Context, name string, r io.Reader) (string, error)
	Delete(ctx context.Context, ref string) error
}

// DiskStore keeps files in a directory served under a base URL.
type DiskStore struct {
	dir     string
	baseURL string
}

// NewDiskStore creates dir if needed.
func NewDiskStore(dir, baseURL string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &DiskStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (s *DiskStore) Save(ctx context.Context, name string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	name = filepath.Base(name)
	f, err := os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", name, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", name, err)
	}
	return s.baseURL + "/" + name, nil
}

// Delete removes the file a reference points at. Only the last path element
// is used, so a reference can never reach outside dir.
func (s *DiskStore) Delete(ctx context.Context, ref string) error {
	name := path.Base(ref)
	if name == "." || name == "/" || name == "" {
		return fmt.Errorf("bad upload reference %q", ref)
	}
	return os.Remove(filepath.Join(s.dir, name))
}

// FromContext returns the file stored by Single for this request.
func FromContext(c *gin.Context) (File, bool) {
	v, ok := c.Get(contextKeyFile)
	if !ok {
		return File{}, false
	}
	f, ok := v.(File)
	return f, ok
}

// Single stores the file in the given multipart field. Files with a content
// type outside png/jpeg/jpg are rejected before anything is written. The
// stored name is a fresh uuid plus the extension for the content type.
func Single(field string, store Store, maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		fh, err := c.FormFile(field)
		if err != nil {
			if errors.Is(err, http.ErrMissingFile) {
				abort(c, apperr.InvalidMedia("An image is required"))
				return
			}
			abort(c, apperr.InvalidMedia("Could not read the uploaded image").Wrap(err))
			return
		}

		contentType := strings.ToLower(fh.Header.Get("Content-Type"))
		ext, ok := allowed[contentType]
		if !ok {
			abort(c, apperr.InvalidMedia("Invalid mime type!"))
			return
		}
		if maxBytes > 0 && fh.Size > maxBytes {
			abort(c, apperr.InvalidMedia("Image is too large"))
			return
		}

		src, err := fh.Open()
		if err != nil {
			abort(c, apperr.InvalidMedia("Could not read the uploaded image").Wrap(err))
			return
		}
		defer src.Close()

		name := uuid.NewString() + "." + ext
		ref, err := store.Save(c.Request.Context(), name, src)
		if err != nil {
			abort(c, apperr.Unknown("Could not store the uploaded image", err))
			return
		}
		c.Set(contextKeyFile, File{Name: name, URL: ref, ContentType: contentType, Size: fh.Size})
		c.Next()
	}
}

func abort(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
