// ABOUTME: Hybrid coordinator: the public façade over primary, mirror and cache
// ABOUTME: Owns business rules, per-backend locking and the write-ahead pattern

package hybrid

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/SilentBlox01/BeethovenBot/internal/config"
	"github.com/SilentBlox01/BeethovenBot/internal/store"
)

// Coordinator is the single entry point for every domain operation. All
// entity ownership and invariants live here; no other component mutates
// storage directly.
//
// Writes follow one pattern: validate, mutate in memory, commit to the
// primary store, best-effort mirror, refresh the cache. A primary failure
// aborts the operation; a mirror failure is logged by the adapter and
// swallowed.
type Coordinator struct {
	// primaryMu serializes all primary-store writes and transactional
	// read-modify-write sequences. One lock for all users is a deliberate
	// simplicity-over-throughput tradeoff; see the package doc.
	primaryMu sync.Mutex

	primary store.Store
	mirror  *store.MirrorStore
	cache   *store.Cache
	cfg     *config.Config
	logger  *slog.Logger

	cooldownMu sync.Mutex
	cooldowns  map[string]time.Time

	stateMu sync.Mutex
	closed  bool

	now func() time.Time
}

// Open initializes the hybrid persistence layer: primary store (fatal on
// failure, including schema migration), mirror store (best-effort) and the
// ephemeral cache. The returned handle must be closed exactly once.
func Open(cfg *config.Config) (*Coordinator, error) {
	primary, err := store.NewSQLiteStore(cfg.SQLitePath)
	if err != nil {
		return nil, fmt.Errorf("initializing primary store: %w", err)
	}

	mirror := store.NewMirrorStore(store.MirrorConfig{
		URL:       cfg.SurrealURL,
		Namespace: cfg.SurrealNS,
		Database:  cfg.SurrealDB,
		User:      cfg.SurrealUser,
		Pass:      cfg.SurrealPass,
	})

	c := &Coordinator{
		primary:   primary,
		mirror:    mirror,
		cache:     store.NewCache(cfg.CacheTTL),
		cfg:       cfg,
		logger:    slog.Default().With("component", "coordinator"),
		cooldowns: make(map[string]time.Time),
		now:       time.Now,
	}
	c.logger.Info("hybrid persistence layer initialized",
		"sqlite_path", cfg.SQLitePath, "mirror_available", mirror.Available())
	return c, nil
}

// Close releases both backend connections and stops the cache sweep.
func (c *Coordinator) Close() error {
	c.stateMu.Lock()
	if c.closed {
		c.stateMu.Unlock()
		return nil
	}
	c.closed = true
	c.stateMu.Unlock()

	c.cache.Stop()
	c.mirror.Close()
	if err := c.primary.Close(); err != nil {
		return fmt.Errorf("closing primary store: %w", err)
	}
	c.logger.Info("hybrid persistence layer closed")
	return nil
}

// ready guards every operation against use before Open or after Close.
func (c *Coordinator) ready() error {
	if c == nil || c.primary == nil {
		return ErrNotInitialized
	}
	c.stateMu.Lock()
	defer c.stateMu.Unlock()
	if c.closed {
		return ErrNotInitialized
	}
	return nil
}

// MirrorAvailable reports whether the mirror backend accepted the startup
// connection.
func (c *Coordinator) MirrorAvailable() bool {
	return c.mirror.Available()
}

// validateIdentifier rejects malformed identifiers on admin-facing
// operations before they reach storage.
func validateIdentifier(id string) error {
	if id == "" || strings.TrimSpace(id) != id || strings.ContainsAny(id, " \t\n") {
		return fmt.Errorf("%w: %q", ErrInvalidIdentifier, id)
	}
	return nil
}

// GetUserAccount retrieves a user's account row.
// Returns ErrEntityNotFound if the user has never performed a coin-affecting
// action.
func (c *Coordinator) GetUserAccount(ctx context.Context, userID string) (*store.UserAccount, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}

	c.primaryMu.Lock()
	defer c.primaryMu.Unlock()
	user, err := c.primary.GetUser(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrEntityNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateCoins sets a user's coin balance, creating the account on first use.
// An empty username leaves any stored username untouched.
func (c *Coordinator) UpdateCoins(ctx context.Context, userID string, coins int64, username string) error {
	if err := c.ready(); err != nil {
		return err
	}

	c.primaryMu.Lock()
	user, err := c.primary.GetUser(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		user = &store.UserAccount{UserID: userID}
	} else if err != nil {
		c.primaryMu.Unlock()
		return err
	}

	user.Coins = coins
	if username != "" {
		user.Username = username
	}
	user.LastLogin = c.now().UTC()

	if err := c.primary.UpsertUser(ctx, user); err != nil {
		c.primaryMu.Unlock()
		return err
	}
	c.primaryMu.Unlock()

	c.mirror.Upsert("user_profiles", userID, map[string]any{
		"user_id":     userID,
		"username":    user.Username,
		"coins":       user.Coins,
		"last_active": user.LastLogin.Format(time.RFC3339),
	})
	return nil
}

// SetAfk marks a user as away with a free-text reason, replacing any
// previous state.
func (c *Coordinator) SetAfk(ctx context.Context, userID, reason string) error {
	if err := c.ready(); err != nil {
		return err
	}

	c.primaryMu.Lock()
	defer c.primaryMu.Unlock()
	return c.primary.SetAfk(ctx, &store.AfkState{
		UserID: userID,
		Reason: reason,
		Since:  c.now().UTC(),
	})
}

// ClearAfk removes a user's AFK state. Clearing an absent state succeeds.
func (c *Coordinator) ClearAfk(ctx context.Context, userID string) error {
	if err := c.ready(); err != nil {
		return err
	}

	c.primaryMu.Lock()
	defer c.primaryMu.Unlock()
	return c.primary.DeleteAfk(ctx, userID)
}

// GetAfk returns a user's AFK state, or nil if the user is not away.
func (c *Coordinator) GetAfk(ctx context.Context, userID string) (*store.AfkState, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}

	c.primaryMu.Lock()
	defer c.primaryMu.Unlock()
	state, err := c.primary.GetAfk(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return state, nil
}

const blacklistCachePrefix = "blacklist:"

// AddToBlacklist adds a user to the global deny-list.
func (c *Coordinator) AddToBlacklist(ctx context.Context, userID, reason string) error {
	if err := c.ready(); err != nil {
		return err
	}
	if err := validateIdentifier(userID); err != nil {
		return err
	}

	c.primaryMu.Lock()
	err := c.primary.AddBlacklist(ctx, &store.BlacklistEntry{
		UserID:   userID,
		Reason:   reason,
		BannedAt: c.now().UTC(),
	})
	c.primaryMu.Unlock()
	if err != nil {
		return err
	}

	c.cache.Set(blacklistCachePrefix+userID, true)
	c.mirror.Upsert("blacklist", userID, map[string]any{
		"user_id": userID,
		"reason":  reason,
	})
	return nil
}

// RemoveFromBlacklist removes a user from the deny-list.
func (c *Coordinator) RemoveFromBlacklist(ctx context.Context, userID string) error {
	if err := c.ready(); err != nil {
		return err
	}
	if err := validateIdentifier(userID); err != nil {
		return err
	}

	c.primaryMu.Lock()
	err := c.primary.RemoveBlacklist(ctx, userID)
	c.primaryMu.Unlock()
	if err != nil {
		return err
	}

	c.cache.Set(blacklistCachePrefix+userID, false)
	c.mirror.Delete("blacklist", userID)
	return nil
}

// IsBlacklisted reports whether a user is on the deny-list. The result is
// memoized in the ephemeral cache because this check runs on nearly every
// inbound action.
func (c *Coordinator) IsBlacklisted(ctx context.Context, userID string) (bool, error) {
	if err := c.ready(); err != nil {
		return false, err
	}

	if v, ok := c.cache.Get(blacklistCachePrefix + userID); ok {
		return v.(bool), nil
	}

	c.primaryMu.Lock()
	banned, err := c.primary.IsBlacklisted(ctx, userID)
	c.primaryMu.Unlock()
	if err != nil {
		return false, err
	}

	c.cache.Set(blacklistCachePrefix+userID, banned)
	return banned, nil
}
