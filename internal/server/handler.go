package server

import (
	"math"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/devpospicha/logcap/internal/logs/logcollector"
	"github.com/devpospicha/logcap/internal/logstore"
	"github.com/devpospicha/logcap/internal/meta"
	"github.com/devpospicha/logcap/internal/publish"
)

// Collector schedules captures and lists handles.
type Collector interface {
	Collect(category logstore.Category, onComplete logcollector.Callback) error
	Handles() []publish.Handle
}

// FileLookup resolves handle tokens to files.
type FileLookup interface {
	Lookup(token string) (publish.Handle, string, bool)
}

// Handler serves the capture API and the published files.
type Handler struct {
	store     *logstore.Store
	collector Collector
	files     FileLookup
	host      *meta.Meta
	limiter   *rate.Limiter
}

// NewHandler returns a handler. A nil limiter disables rate limiting.
func NewHandler(store *logstore.Store, collector Collector, files FileLookup, host *meta.Meta, limiter *rate.Limiter) *Handler {
	return &Handler{store: store, collector: collector, files: files, host: host, limiter: limiter}
}

type categoryInfo struct {
	Category logstore.Category `json:"category"`
	Name     string            `json:"name"`
	Path     string            `json:"path"`
	Date     string            `json:"date"`
	Size     int64             `json:"size"`
	URI      string            `json:"uri,omitempty"`
}

type collectResponse struct {
	Result  logcollector.Result `json:"result"`
	Handles []publish.Handle    `json:"handles"`
	Host    *meta.Meta          `json:"host,omitempty"`
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) categories(c *gin.Context) {
	uris := make(map[logstore.Category]string)
	for _, handle := range h.collector.Handles() {
		uris[handle.Category] = handle.URI
	}

	files := h.store.Files()
	out := make([]categoryInfo, 0, len(files))
	for _, f := range files {
		info := categoryInfo{
			Category: f.Category,
			Name:     filepath.Base(f.Path),
			Path:     f.Path,
			Date:     h.store.Date(),
			URI:      uris[f.Category],
		}
		if st, err := os.Stat(f.Path); err == nil {
			info.Size = st.Size()
		}
		out = append(out, info)
	}
	c.JSON(http.StatusOK, gin.H{"dir": h.store.Dir(), "categories": out})
}

type outcome struct {
	handles []publish.Handle
	result  logcollector.Result
}

func (h *Handler) collect(c *gin.Context) {
	category, err := logstore.ParseCategory(c.Param("category"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if h.limiter != nil {
		r := h.limiter.Reserve()
		if delay := r.Delay(); delay > 0 {
			r.Cancel()
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(delay.Seconds()))))
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many capture requests"})
			return
		}
	}

	done := make(chan outcome, 1)
	err = h.collector.Collect(category, func(handles []publish.Handle, result logcollector.Result) {
		done <- outcome{handles: handles, result: result}
	})
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "hint": hint(err)})
		return
	}

	select {
	case o := <-done:
		c.JSON(statusFor(o.result), collectResponse{
			Result:  o.result,
			Handles: o.handles,
			Host:    h.host.Clone(map[string]string{"category": category.String()}),
		})
	case <-c.Request.Context().Done():
		// The capture still runs; its callback lands in the buffered channel.
		c.Status(499)
	}
}

func statusFor(res logcollector.Result) int {
	switch {
	case res.OK():
		return http.StatusOK
	case errors.Is(res.Err, logcollector.ErrQueueFull), errors.Is(res.Err, logcollector.ErrCollectorClosed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func hint(err error) string {
	hints := errors.GetAllHints(err)
	if len(hints) == 0 {
		return ""
	}
	return hints[0]
}

func (h *Handler) file(c *gin.Context) {
	handle, path, ok := h.files.Lookup(c.Param("token"))
	if !ok || c.Param("name") != "/"+handle.Name {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown log handle"})
		return
	}
	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "log file missing"})
		return
	}
	c.Header("Cache-Control", "no-store")
	c.FileAttachment(path, handle.Name)
}
