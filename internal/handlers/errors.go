package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/vaheaslanyan/hoopscoop-backend/internal/apperr"
	"github.com/vaheaslanyan/hoopscoop-backend/internal/upload"
)

// ErrorTranslator turns the last error recorded on the context into a
// {"message": ...} response with the error's status. When the failed request
// carried an upload the stored file is removed. If a response was already
// written the error is only logged.
func ErrorTranslator(images upload.Store, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err

		if f, ok := upload.FromContext(c); ok && images != nil {
			if derr := images.Delete(c.Request.Context(), f.URL); derr != nil {
				log.WithError(derr).WithField("image", f.URL).Warn("could not remove upload of failed request")
			}
		}

		status := apperr.StatusOf(err)
		entry := log.WithError(err).WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"status": status,
		})
		if c.Writer.Written() {
			entry.Error("error after response was written")
			return
		}
		if status >= http.StatusInternalServerError {
			entry.Error("request failed")
		} else {
			entry.Debug("request rejected")
		}
		c.AbortWithStatusJSON(status, gin.H{"message": apperr.MessageOf(err)})
	}
}

// NoRoute answers requests that match no route.
func NoRoute(c *gin.Context) {
	_ = c.Error(apperr.NotFound("Could not find this route"))
}

func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
