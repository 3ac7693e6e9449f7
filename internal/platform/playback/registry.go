// Package playback owns the handles through which local video files are
// played back. A handle is a URL minted by Registry.Create and stays live until
// Registry.Revoke releases it.
package playback

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"vgdesk/internal/platform/id"
)

const (
	blobBase   = "blob:vgdesk"
	mediaRoute = "/media/"
)

type entry struct {
	path string
	name string
	size int64
}

type Registry struct {
	mu      sync.Mutex
	ids     id.Generator
	base    string
	entries map[string]entry
	created int
	revoked int
}

func NewRegistry(ids id.Generator) *Registry {
	return &Registry{ids: ids, base: blobBase, entries: map[string]entry{}}
}

// SetBase changes the prefix of URLs minted from now on.
func (r *Registry) SetBase(base string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.base = strings.TrimSuffix(base, "/")
}

// Create registers path and returns a playback URL for it.
func (r *Registry) Create(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat video: %w", err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("video path %s is a directory", path)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	token := r.ids.New()
	r.entries[token] = entry{path: path, name: info.Name(), size: info.Size()}
	r.created++
	return r.base + mediaRoute + token, nil
}

// Revoke releases url. It reports false when url is unknown or already revoked.
func (r *Registry) Revoke(url string) bool {
	token := tokenOf(url)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[token]; !ok {
		return false
	}
	delete(r.entries, token)
	r.revoked++
	return true
}

// Live is the number of URLs created and not yet revoked.
func (r *Registry) Live() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Counts reports how many URLs were created and revoked over the registry's life.
func (r *Registry) Counts() (created, revoked int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.created, r.revoked
}

func (r *Registry) lookup(token string) (entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[token]
	return e, ok
}

// SeekURL appends a media fragment so players start at start and stop at end.
func SeekURL(url string, start, end int) string {
	if i := strings.IndexByte(url, '#'); i >= 0 {
		url = url[:i]
	}
	return fmt.Sprintf("%s#t=%d,%d", url, start, end)
}

func tokenOf(url string) string {
	if i := strings.IndexByte(url, '#'); i >= 0 {
		url = url[:i]
	}
	if i := strings.LastIndex(url, mediaRoute); i >= 0 {
		return url[i+len(mediaRoute):]
	}
	return url
}
