package testutil

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
)

type Upload struct {
	Filename    string
	ContentType string
	Preset      string
	Body        []byte
}

// FakeAssetHost mimics an unsigned image upload endpoint.
type FakeAssetHost struct {
	Server *httptest.Server
	Preset string

	mu      sync.Mutex
	uploads []Upload
	fail    *failure
}

func NewFakeAssetHost(t testing.TB, preset string) *FakeAssetHost {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h := &FakeAssetHost{Preset: preset}
	r := gin.New()
	r.POST("/image/upload", h.upload)
	h.Server = httptest.NewServer(r)
	t.Cleanup(h.Server.Close)
	return h
}

func (h *FakeAssetHost) UploadURL() string { return h.Server.URL + "/image/upload" }

// Fail makes the next upload answer status with a host-style error body.
func (h *FakeAssetHost) Fail(status int, message string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.fail = &failure{status: status, message: message}
}

func (h *FakeAssetHost) Uploads() []Upload {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Upload, len(h.uploads))
	copy(out, h.uploads)
	return out
}

func (h *FakeAssetHost) upload(c *gin.Context) {
	h.mu.Lock()
	f := h.fail
	h.fail = nil
	h.mu.Unlock()

	if f != nil {
		c.JSON(f.status, gin.H{"error": gin.H{"message": f.message}})
		return
	}

	preset := c.PostForm("upload_preset")
	if preset != h.Preset {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Upload preset not found"}})
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Missing required parameter - file"}})
		return
	}
	file, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": err.Error()}})
		return
	}
	defer file.Close()
	body, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": err.Error()}})
		return
	}

	h.mu.Lock()
	h.uploads = append(h.uploads, Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Preset:      preset,
		Body:        body,
	})
	n := len(h.uploads)
	h.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{
		"secure_url": fmt.Sprintf("https://res.cloudinary.com/demo/image/upload/v%d/%s", n, fh.Filename),
		"bytes":      len(body),
	})
}
