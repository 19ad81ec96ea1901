// ABOUTME: Store interface and row types for the hybrid persistence layer
// ABOUTME: Defines the six entity tables and the sentinel errors adapters return

package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// UserAccount is one row of the users table. Missions carries the nested
// mission-progress document as a serialized blob; MissionDay and MissionWeek
// record the last daily/weekly reset boundary keys.
type UserAccount struct {
	UserID      string
	Username    string
	Coins       int64
	LastLogin   time.Time
	Missions    []byte
	MissionDay  string
	MissionWeek string
}

// PetRow is one row of the pets table: a serialized pet document keyed by
// (owner, pet name).
type PetRow struct {
	UserID  string
	PetName string
	Data    []byte
}

// Achievement is one unlocked achievement, unique per (user, key).
type Achievement struct {
	UserID     string
	Key        string
	UnlockedAt time.Time
}

// AfkState is a user's self-declared absence marker.
type AfkState struct {
	UserID string
	Reason string
	Since  time.Time
}

// BlacklistEntry is a global deny-list row.
type BlacklistEntry struct {
	UserID   string
	Reason   string
	BannedAt time.Time
}

// GuildRow is one row of the guilds table: a serialized guild document.
type GuildRow struct {
	GuildID     string
	Data        []byte
	LastUpdated time.Time
}

// Store is the primary store contract. Every domain write must succeed here
// before the operation is considered committed.
type Store interface {
	// Users
	GetUser(ctx context.Context, userID string) (*UserAccount, error)
	UpsertUser(ctx context.Context, user *UserAccount) error
	ListUsersWithMissions(ctx context.Context) ([]*UserAccount, error)

	// Pets
	GetPets(ctx context.Context, userID string) ([]*PetRow, error)
	ReplacePets(ctx context.Context, userID string, rows []*PetRow) error
	ListAllPets(ctx context.Context) ([]*PetRow, error)
	CountPets(ctx context.Context, userID string) (int, error)

	// Achievements
	InsertAchievement(ctx context.Context, a *Achievement) (inserted bool, err error)
	ListAchievements(ctx context.Context, userID string) ([]*Achievement, error)

	// AFK
	SetAfk(ctx context.Context, state *AfkState) error
	DeleteAfk(ctx context.Context, userID string) error
	GetAfk(ctx context.Context, userID string) (*AfkState, error)

	// Blacklist
	AddBlacklist(ctx context.Context, entry *BlacklistEntry) error
	RemoveBlacklist(ctx context.Context, userID string) error
	IsBlacklisted(ctx context.Context, userID string) (bool, error)

	// Guilds
	UpsertGuild(ctx context.Context, row *GuildRow) error
	GetGuild(ctx context.Context, guildID string) (*GuildRow, error)
	ListGuilds(ctx context.Context) ([]*GuildRow, error)

	// Maintenance
	PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error)

	// Close releases the underlying connection.
	Close() error
}
