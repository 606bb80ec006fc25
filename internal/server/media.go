package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mvps-vip/showcase/internal/logging"
	"github.com/mvps-vip/showcase/internal/media"
)

type uploadResponse struct {
	URL string `json:"url"`
	media.Object
}

// upload stores a multipart "file" under the "folder" form field (posters by
// default) and returns its public URL.
func (s *Server) upload(c *gin.Context) {
	if s.media == nil {
		abortError(c, errMediaDisabled)
		return
	}
	if s.maxUpload > 0 {
		if c.Request.ContentLength > s.maxUpload {
			abortError(c, errTooLarge)
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxUpload)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			abortError(c, errTooLarge)
			return
		}
		abortError(c, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	f, err := fh.Open()
	if err != nil {
		abortError(c, err)
		return
	}
	defer f.Close()

	folder := c.DefaultPostForm("folder", media.Folders[0])
	obj, err := media.Upload(c.Request.Context(), s.media, folder, fh.Filename, f, time.Now())
	if err != nil {
		abortError(c, err)
		return
	}
	logging.FromContext(c.Request.Context()).Info("media uploaded",
		"path", obj.Path, "size", obj.Size, "admin", c.GetString(adminKey))
	c.JSON(http.StatusCreated, uploadResponse{URL: media.URL(s.publicBase(c), obj.Path), Object: obj})
}

func (s *Server) publicBase(c *gin.Context) string {
	if s.mediaBase != "" {
		return s.mediaBase
	}
	scheme := "http"
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host
}

// serveMedia streams a stored upload. Paths embed the upload time, so the
// content behind a path never changes.
func (s *Server) serveMedia(c *gin.Context) {
	if s.media == nil {
		abortError(c, errMediaDisabled)
		return
	}
	rc, obj, err := s.media.Open(c.Request.Context(), strings.TrimPrefix(c.Param("path"), "/"))
	if err != nil {
		abortError(c, err)
		return
	}
	defer rc.Close()
	c.DataFromReader(http.StatusOK, obj.Size, obj.ContentType, rc, map[string]string{
		"Cache-Control":          "public, max-age=31536000, immutable",
		"X-Content-Type-Options": "nosniff",
	})
}
