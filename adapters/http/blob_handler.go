package http

import (
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
)

// BlobOpener reads blobs kept by the memory storage driver.
type BlobOpener interface {
	Open(key string) ([]byte, bool)
}

type BlobHandler struct {
	blobs BlobOpener
}

func NewBlobHandler(blobs BlobOpener) *BlobHandler {
	return &BlobHandler{blobs: blobs}
}

func (h *BlobHandler) Serve(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")
	data, ok := h.blobs.Open(key)
	if !ok {
		c.Status(http.StatusNotFound)
		return
	}
	c.Header("Cache-Control", "no-cache")
	c.Data(http.StatusOK, mimetype.Detect(data).String(), data)
}
