// Package publish turns managed file paths into handles another process can
// open, such as a share sheet or the HTTP file server.
package publish

import (
	"net/url"
	"path/filepath"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/devpospicha/logcap/internal/logstore"
)

// DefaultAuthority is the URI base used when no server is running.
const DefaultAuthority = "content://logcap.file.provider"

// Handle is an externally shareable reference to a managed file.
type Handle struct {
	Token    string            `json:"token"`
	Category logstore.Category `json:"category"`
	Name     string            `json:"name"`
	URI      string            `json:"uri"`
}

// Publisher converts a managed file into a Handle.
type Publisher interface {
	Publish(category logstore.Category, path string) (Handle, error)
}

type entry struct {
	handle Handle
	path   string
}

// Provider issues one stable token per file path and resolves tokens back
// to paths. Files are referenced in place, never copied.
type Provider struct {
	base string

	mu      sync.RWMutex
	byPath  map[string]string
	byToken map[string]entry
}

// NewProvider returns a provider whose URIs start with base.
func NewProvider(base string) *Provider {
	base = strings.TrimRight(base, "/")
	if base == "" {
		base = DefaultAuthority
	}
	return &Provider{
		base:    base,
		byPath:  make(map[string]string),
		byToken: make(map[string]entry),
	}
}

// Publish returns the handle for path, creating a token on first use.
func (p *Provider) Publish(category logstore.Category, path string) (Handle, error) {
	if path == "" {
		return Handle{}, errors.New("publish: empty path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return Handle{}, errors.Wrapf(err, "publish %s", path)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if token, ok := p.byPath[abs]; ok {
		return p.byToken[token].handle, nil
	}

	token := uuid.NewString()
	name := filepath.Base(abs)
	h := Handle{
		Token:    token,
		Category: category,
		Name:     name,
		URI:      p.base + "/logs/" + token + "/" + url.PathEscape(name),
	}
	p.byPath[abs] = token
	p.byToken[token] = entry{handle: h, path: abs}
	return h, nil
}

// Lookup resolves a token to its handle and file path.
func (p *Provider) Lookup(token string) (Handle, string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	e, ok := p.byToken[token]
	return e.handle, e.path, ok
}

// Base returns the URI base.
func (p *Provider) Base() string { return p.base }
