// ABOUTME: Coordinator operations for guild records (in-bot clans)
// ABOUTME: Updates require an existing record and always refresh last_updated

package hybrid

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/SilentBlox01/BeethovenBot/internal/store"
)

// CreateGuildRecord founds a new guild owned by ownerID. The founder is the
// first member. A fresh uuid becomes the guild id.
func (c *Coordinator) CreateGuildRecord(ctx context.Context, name, ownerID string) (*Guild, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	if err := validateIdentifier(ownerID); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, fmt.Errorf("%w: empty guild name", ErrInvalidIdentifier)
	}

	now := c.now().UTC()
	g := &Guild{
		SchemaVersion: guildSchemaVersion,
		GuildID:       uuid.NewString(),
		Name:          name,
		OwnerID:       ownerID,
		Members:       []string{ownerID},
		Level:         1,
		XP:            0,
		Bank:          0,
		CreatedAt:     now,
		LastUpdated:   now,
	}

	if err := c.persistGuild(ctx, g); err != nil {
		return nil, err
	}
	c.logger.Info("guild created", "guild_id", g.GuildID, "name", name, "owner_id", ownerID)
	return g, nil
}

// GetGuildRecord retrieves a guild by id.
// Returns ErrEntityNotFound if no such guild exists.
func (c *Coordinator) GetGuildRecord(ctx context.Context, guildID string) (*Guild, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}

	c.primaryMu.Lock()
	row, err := c.primary.GetGuild(ctx, guildID)
	c.primaryMu.Unlock()
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: guild %s", ErrEntityNotFound, guildID)
	}
	if err != nil {
		return nil, err
	}
	return guildFromStorage(row.Data)
}

// UpdateGuildRecord persists changes to an existing guild. The record must
// already exist; last_updated is always refreshed and the guild invariants
// (owner membership, xp rollover) are enforced before the write.
func (c *Coordinator) UpdateGuildRecord(ctx context.Context, g *Guild) error {
	if err := c.ready(); err != nil {
		return err
	}

	c.primaryMu.Lock()
	_, err := c.primary.GetGuild(ctx, g.GuildID)
	c.primaryMu.Unlock()
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%w: guild %s", ErrEntityNotFound, g.GuildID)
	}
	if err != nil {
		return err
	}

	return c.persistGuild(ctx, g)
}

// persistGuild normalizes, commits to the primary and mirrors the document.
func (c *Coordinator) persistGuild(ctx context.Context, g *Guild) error {
	g.normalize()
	g.LastUpdated = c.now().UTC()

	data, err := g.toStorage()
	if err != nil {
		return err
	}

	c.primaryMu.Lock()
	err = c.primary.UpsertGuild(ctx, &store.GuildRow{
		GuildID:     g.GuildID,
		Data:        data,
		LastUpdated: g.LastUpdated,
	})
	c.primaryMu.Unlock()
	if err != nil {
		return err
	}

	c.mirror.Upsert("guilds", g.GuildID, g.mirrorDoc())
	return nil
}
