package extract

import (
	"fmt"
	"os"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// FileCache memoizes per-file probe work (page counts and direct-text
// probes) so every batch of a session does not re-open and re-parse the
// same upload. Keys include the file's mtime, so a re-uploaded file with
// the same path never serves stale text.
type FileCache struct {
	store *gocache.Cache

	mu      sync.Mutex
	session map[string][]string
}

func NewFileCache(ttl time.Duration) *FileCache {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &FileCache{
		store:   gocache.New(ttl, 10*time.Minute),
		session: make(map[string][]string),
	}
}

func fileKey(path string, suffix string) string {
	mtime := int64(0)
	if info, err := os.Stat(path); err == nil {
		mtime = info.ModTime().UnixNano()
	}
	return fmt.Sprintf("%s|%d|%s", path, mtime, suffix)
}

// GetText returns a cached direct-text probe for a page range.
func (c *FileCache) GetText(path string, startPage, endPage int) (string, bool) {
	key := fileKey(path, fmt.Sprintf("text:%d-%d", startPage, endPage))
	if v, ok := c.store.Get(key); ok {
		text, castOk := v.(string)
		return text, castOk
	}
	return "", false
}

func (c *FileCache) SetText(sessionId, path string, startPage, endPage int, text string) {
	key := fileKey(path, fmt.Sprintf("text:%d-%d", startPage, endPage))
	c.store.Set(key, text, gocache.DefaultExpiration)
	c.track(sessionId, key)
}

// GetPageCount returns a cached page count for the file.
func (c *FileCache) GetPageCount(path string) (int, bool) {
	key := fileKey(path, "pages")
	if v, ok := c.store.Get(key); ok {
		n, castOk := v.(int)
		return n, castOk
	}
	return 0, false
}

func (c *FileCache) SetPageCount(sessionId, path string, count int) {
	key := fileKey(path, "pages")
	c.store.Set(key, count, gocache.DefaultExpiration)
	c.track(sessionId, key)
}

func (c *FileCache) track(sessionId, key string) {
	if sessionId == "" {
		return
	}
	c.mu.Lock()
	c.session[sessionId] = append(c.session[sessionId], key)
	c.mu.Unlock()
}

// EndSession drops every entry recorded for the session. Called when a
// processing run finishes so a long-lived server does not hold page text
// for documents nobody will ask about again.
func (c *FileCache) EndSession(sessionId string) {
	c.mu.Lock()
	keys := c.session[sessionId]
	delete(c.session, sessionId)
	c.mu.Unlock()

	for _, key := range keys {
		c.store.Delete(key)
	}
}
