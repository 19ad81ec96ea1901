// ABOUTME: Best-effort mirror of domain writes to a SurrealDB document store
// ABOUTME: Degrades to no-ops when the mirror is unreachable; never blocks the primary

package store

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	surrealdb "github.com/surrealdb/surrealdb.go"
)

// mirrorConnectTimeout bounds the connection establishment attempt at
// startup. A mirror that cannot be reached within this window is treated as
// absent for the life of the process.
const mirrorConnectTimeout = 5 * time.Second

// MirrorConfig carries the connection settings for the mirror store.
type MirrorConfig struct {
	URL       string // websocket RPC URL; empty disables mirroring
	Namespace string
	Database  string
	User      string
	Pass      string
}

// MirrorStore shadows primary-store writes into SurrealDB collections.
// All methods are safe to call when the mirror is unavailable: writes become
// no-ops that log a warning instead of returning errors, so mirror health
// never leaks into domain logic.
type MirrorStore struct {
	mu        sync.Mutex
	db        *surrealdb.DB
	available bool
	logger    *slog.Logger
}

// NewMirrorStore attempts to connect to the mirror document store. Connection
// failure is not an error: the returned store is simply marked unavailable
// and the system runs in primary-only mode.
func NewMirrorStore(cfg MirrorConfig) *MirrorStore {
	m := &MirrorStore{logger: slog.Default().With("component", "mirror")}

	if cfg.URL == "" {
		m.logger.Info("mirror store disabled, no URL configured")
		return m
	}

	db, err := dialWithTimeout(cfg.URL)
	if err != nil {
		m.logger.Warn("mirror store unreachable, running primary-only", "url", cfg.URL, "error", err)
		return m
	}

	if _, err := db.Signin(map[string]any{"user": cfg.User, "pass": cfg.Pass}); err != nil {
		m.logger.Warn("mirror store signin failed, running primary-only", "error", err)
		db.Close()
		return m
	}
	if _, err := db.Use(cfg.Namespace, cfg.Database); err != nil {
		m.logger.Warn("mirror store namespace selection failed, running primary-only", "error", err)
		db.Close()
		return m
	}

	m.db = db
	m.available = true
	m.logger.Info("mirror store connected", "url", cfg.URL, "ns", cfg.Namespace, "db", cfg.Database)
	return m
}

// dialWithTimeout runs the websocket connect in a goroutine so a hung dial
// cannot stall startup past the establishment timeout.
func dialWithTimeout(url string) (*surrealdb.DB, error) {
	type result struct {
		db  *surrealdb.DB
		err error
	}
	ch := make(chan result, 1)
	go func() {
		db, err := surrealdb.New(url)
		ch <- result{db, err}
	}()

	select {
	case r := <-ch:
		return r.db, r.err
	case <-time.After(mirrorConnectTimeout):
		// Close a late successful connection so it doesn't leak.
		go func() {
			if r := <-ch; r.err == nil {
				r.db.Close()
			}
		}()
		return nil, fmt.Errorf("connection attempt timed out after %s", mirrorConnectTimeout)
	}
}

// Available reports whether the mirror accepted the startup connection.
func (m *MirrorStore) Available() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.available
}

// Upsert shadows one document write. Failures are logged and swallowed;
// they never undo or abort the primary write they shadow.
func (m *MirrorStore) Upsert(collection, key string, doc map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.available {
		return
	}

	if _, err := m.db.Update(recordID(collection, key), doc); err != nil {
		m.logger.Warn("mirror upsert failed", "collection", collection, "key", key, "error", err)
		return
	}
	m.logger.Debug("mirrored write", "collection", collection, "key", key)
}

// Delete shadows one document removal, best-effort.
func (m *MirrorStore) Delete(collection, key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.available {
		return
	}

	if _, err := m.db.Delete(recordID(collection, key)); err != nil {
		m.logger.Warn("mirror delete failed", "collection", collection, "key", key, "error", err)
	}
}

// Ping checks mirror liveness with a cheap info call.
func (m *MirrorStore) Ping() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.available {
		return false
	}
	if _, err := m.db.Info(); err != nil {
		m.logger.Warn("mirror ping failed", "error", err)
		return false
	}
	return true
}

// Close releases the mirror connection if one was established.
func (m *MirrorStore) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.db != nil {
		m.db.Close()
		m.db = nil
		m.available = false
		m.logger.Info("mirror store closed")
	}
}

// recordID builds a SurrealDB record id. Keys are angle-quoted so ids with
// dashes or unicode pass through the query parser untouched.
func recordID(collection, key string) string {
	return fmt.Sprintf("%s:⟨%s⟩", collection, key)
}
