// ABOUTME: Guild document model (in-bot clan) with versioned JSON codec
// ABOUTME: Enforces owner-in-members and xp rollover invariants

package hybrid

import (
	"encoding/json"
	"fmt"
	"slices"
	"time"
)

// guildSchemaVersion tags stored guild documents; old untagged payloads are
// upgraded on read.
const guildSchemaVersion = 1

// Guild is an in-bot social group, distinct from the chat platform's own
// server concept. The record persists even when membership drops to empty.
type Guild struct {
	SchemaVersion  int       `json:"schema_version"`
	GuildID        string    `json:"guild_id"`
	Name           string    `json:"name"`
	OwnerID        string    `json:"owner_id"`
	Members        []string  `json:"members"`
	Level          int       `json:"level"`
	XP             int       `json:"xp"`
	Bank           int64     `json:"bank"`
	ActivityPoints int       `json:"activity_points"`
	CreatedAt      time.Time `json:"created_at"`
	LastUpdated    time.Time `json:"last_updated"`
}

// xpPerLevel is how much guild xp triggers a level rollover.
const xpPerLevel = 1000

// normalize enforces the guild invariants: the owner is always a member,
// level starts at 1, and xp at or past the rollover threshold converts into
// levels.
func (g *Guild) normalize() {
	if g.Level < 1 {
		g.Level = 1
	}
	if g.OwnerID != "" && !slices.Contains(g.Members, g.OwnerID) {
		g.Members = append(g.Members, g.OwnerID)
	}
	if g.XP >= xpPerLevel {
		g.Level++
		g.XP = 0
	}
}

func (g *Guild) toStorage() ([]byte, error) {
	g.SchemaVersion = guildSchemaVersion
	data, err := json.Marshal(g)
	if err != nil {
		return nil, fmt.Errorf("marshaling guild document: %w", err)
	}
	return data, nil
}

func guildFromStorage(data []byte) (*Guild, error) {
	var g Guild
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("unmarshaling guild document: %w", err)
	}
	if g.SchemaVersion < guildSchemaVersion {
		if g.Members == nil {
			g.Members = []string{}
		}
		if g.Level < 1 {
			g.Level = 1
		}
		g.SchemaVersion = guildSchemaVersion
	}
	return &g, nil
}

// mirrorDoc renders the guild as a document for the mirror store.
func (g *Guild) mirrorDoc() map[string]any {
	return map[string]any{
		"guild_id":        g.GuildID,
		"name":            g.Name,
		"owner_id":        g.OwnerID,
		"members":         g.Members,
		"level":           g.Level,
		"xp":              g.XP,
		"bank":            g.Bank,
		"activity_points": g.ActivityPoints,
		"created_at":      g.CreatedAt.UTC().Format(time.RFC3339),
		"last_updated":    g.LastUpdated.UTC().Format(time.RFC3339),
	}
}
