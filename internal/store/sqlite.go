// ABOUTME: SQLite implementation of the Store interface using modernc.org/sqlite
// ABOUTME: Primary store adapter; the durability guarantee for every domain write

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements the Store interface using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore opens (or creates) the primary store at the given path and
// brings the schema to its expected shape. Parent directories are created if
// needed. A schema migration failure here is fatal.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	logger := slog.Default().With("component", "store")

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable WAL mode for better concurrent performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	if err := ensureSchema(db, logger); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensuring schema: %w", err)
	}

	logger.Info("SQLite store initialized", "path", path)
	return &SQLiteStore{db: db, logger: logger}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	s.logger.Info("closing SQLite store")
	return s.db.Close()
}

// GetUser retrieves a user account row.
// Returns ErrNotFound if the user has never been stored.
func (s *SQLiteStore) GetUser(ctx context.Context, userID string) (*UserAccount, error) {
	query := `
		SELECT user_id, username, coins, last_login, missions, mission_day, mission_week
		FROM users
		WHERE user_id = ?
	`

	var u UserAccount
	var username, lastLogin, missions, missionDay, missionWeek sql.NullString

	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&u.UserID, &username, &u.Coins, &lastLogin, &missions, &missionDay, &missionWeek,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying user: %w", err)
	}

	u.Username = username.String
	u.MissionDay = missionDay.String
	u.MissionWeek = missionWeek.String
	if missions.Valid {
		u.Missions = []byte(missions.String)
	}
	if lastLogin.Valid {
		u.LastLogin, err = time.Parse(time.RFC3339, lastLogin.String)
		if err != nil {
			return nil, fmt.Errorf("parsing last_login: %w", err)
		}
	}
	return &u, nil
}

// UpsertUser replaces a user account row by key.
func (s *SQLiteStore) UpsertUser(ctx context.Context, user *UserAccount) error {
	query := `
		INSERT OR REPLACE INTO users (user_id, username, coins, last_login, missions, mission_day, mission_week)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		user.UserID,
		user.Username,
		user.Coins,
		user.LastLogin.UTC().Format(time.RFC3339),
		nullString(string(user.Missions)),
		nullString(user.MissionDay),
		nullString(user.MissionWeek),
	)
	if err != nil {
		return fmt.Errorf("upserting user: %w", err)
	}

	s.logger.Debug("upserted user", "user_id", user.UserID, "coins", user.Coins)
	return nil
}

// ListUsersWithMissions returns every user that has mission progress stored.
func (s *SQLiteStore) ListUsersWithMissions(ctx context.Context) ([]*UserAccount, error) {
	query := `
		SELECT user_id, username, coins, last_login, missions, mission_day, mission_week
		FROM users
		WHERE missions IS NOT NULL AND missions != ''
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying users with missions: %w", err)
	}
	defer rows.Close()

	var users []*UserAccount
	for rows.Next() {
		var u UserAccount
		var username, lastLogin, missions, missionDay, missionWeek sql.NullString

		if err := rows.Scan(&u.UserID, &username, &u.Coins, &lastLogin, &missions, &missionDay, &missionWeek); err != nil {
			return nil, fmt.Errorf("scanning user row: %w", err)
		}
		u.Username = username.String
		u.MissionDay = missionDay.String
		u.MissionWeek = missionWeek.String
		if missions.Valid {
			u.Missions = []byte(missions.String)
		}
		if lastLogin.Valid {
			u.LastLogin, err = time.Parse(time.RFC3339, lastLogin.String)
			if err != nil {
				return nil, fmt.Errorf("parsing last_login: %w", err)
			}
		}
		users = append(users, &u)
	}
	return users, rows.Err()
}

// GetPets returns every pet row owned by a user.
func (s *SQLiteStore) GetPets(ctx context.Context, userID string) ([]*PetRow, error) {
	query := `SELECT user_id, pet_name, pet_data FROM pets WHERE user_id = ?`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("querying pets: %w", err)
	}
	defer rows.Close()

	return scanPetRows(rows)
}

// ReplacePets transactionally replaces a user's entire pet set:
// delete all rows for the owner, insert the new rows, commit. Any failure
// rolls the whole replacement back.
func (s *SQLiteStore) ReplacePets(ctx context.Context, userID string, petRows []*PetRow) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM pets WHERE user_id = ?", userID); err != nil {
		return fmt.Errorf("deleting old pet rows: %w", err)
	}

	for _, row := range petRows {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO pets (user_id, pet_name, pet_data) VALUES (?, ?, ?)",
			userID, row.PetName, string(row.Data),
		)
		if err != nil {
			return fmt.Errorf("inserting pet %s: %w", row.PetName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing pet replacement: %w", err)
	}

	s.logger.Debug("replaced pet set", "user_id", userID, "count", len(petRows))
	return nil
}

// ListAllPets returns every stored pet row. Used by maintenance decay.
func (s *SQLiteStore) ListAllPets(ctx context.Context) ([]*PetRow, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT user_id, pet_name, pet_data FROM pets")
	if err != nil {
		return nil, fmt.Errorf("querying all pets: %w", err)
	}
	defer rows.Close()

	return scanPetRows(rows)
}

// CountPets returns how many pets a user owns.
func (s *SQLiteStore) CountPets(ctx context.Context, userID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM pets WHERE user_id = ?", userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting pets: %w", err)
	}
	return count, nil
}

func scanPetRows(rows *sql.Rows) ([]*PetRow, error) {
	var out []*PetRow
	for rows.Next() {
		var row PetRow
		var data string
		if err := rows.Scan(&row.UserID, &row.PetName, &data); err != nil {
			return nil, fmt.Errorf("scanning pet row: %w", err)
		}
		row.Data = []byte(data)
		out = append(out, &row)
	}
	return out, rows.Err()
}

// InsertAchievement inserts an achievement row if it does not already exist.
// The insert is idempotent: a duplicate reports inserted=false, never an error.
func (s *SQLiteStore) InsertAchievement(ctx context.Context, a *Achievement) (bool, error) {
	result, err := s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO achievements (user_id, achievement_name, unlocked_at) VALUES (?, ?, ?)",
		a.UserID, a.Key, a.UnlockedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return false, fmt.Errorf("inserting achievement: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected > 0 {
		s.logger.Debug("unlocked achievement", "user_id", a.UserID, "key", a.Key)
	}
	return rowsAffected > 0, nil
}

// ListAchievements returns every achievement a user has unlocked.
func (s *SQLiteStore) ListAchievements(ctx context.Context, userID string) ([]*Achievement, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT user_id, achievement_name, unlocked_at FROM achievements WHERE user_id = ?",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying achievements: %w", err)
	}
	defer rows.Close()

	var out []*Achievement
	for rows.Next() {
		var a Achievement
		var unlockedAt string
		if err := rows.Scan(&a.UserID, &a.Key, &unlockedAt); err != nil {
			return nil, fmt.Errorf("scanning achievement row: %w", err)
		}
		a.UnlockedAt, err = time.Parse(time.RFC3339, unlockedAt)
		if err != nil {
			return nil, fmt.Errorf("parsing unlocked_at: %w", err)
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}

// SetAfk records or replaces a user's AFK state.
func (s *SQLiteStore) SetAfk(ctx context.Context, state *AfkState) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO afk_users (user_id, reason, afk_since) VALUES (?, ?, ?)",
		state.UserID, state.Reason, state.Since.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("setting AFK state: %w", err)
	}
	s.logger.Debug("set AFK state", "user_id", state.UserID)
	return nil
}

// DeleteAfk clears a user's AFK state. Clearing an absent state is a no-op.
func (s *SQLiteStore) DeleteAfk(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM afk_users WHERE user_id = ?", userID)
	if err != nil {
		return fmt.Errorf("deleting AFK state: %w", err)
	}
	return nil
}

// GetAfk retrieves a user's AFK state.
// Returns ErrNotFound if the user is not AFK.
func (s *SQLiteStore) GetAfk(ctx context.Context, userID string) (*AfkState, error) {
	var state AfkState
	var since string
	err := s.db.QueryRowContext(ctx,
		"SELECT user_id, reason, afk_since FROM afk_users WHERE user_id = ?", userID,
	).Scan(&state.UserID, &state.Reason, &since)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying AFK state: %w", err)
	}
	state.Since, err = time.Parse(time.RFC3339, since)
	if err != nil {
		return nil, fmt.Errorf("parsing afk_since: %w", err)
	}
	return &state, nil
}

// AddBlacklist adds or replaces a deny-list entry for a user.
func (s *SQLiteStore) AddBlacklist(ctx context.Context, entry *BlacklistEntry) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO blacklist (user_id, reason, banned_at) VALUES (?, ?, ?)",
		entry.UserID, entry.Reason, entry.BannedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("adding blacklist entry: %w", err)
	}
	s.logger.Info("added blacklist entry", "user_id", entry.UserID, "reason", entry.Reason)
	return nil
}

// RemoveBlacklist removes a user's deny-list entry if present.
func (s *SQLiteStore) RemoveBlacklist(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM blacklist WHERE user_id = ?", userID)
	if err != nil {
		return fmt.Errorf("removing blacklist entry: %w", err)
	}
	s.logger.Info("removed blacklist entry", "user_id", userID)
	return nil
}

// IsBlacklisted reports whether a user has a deny-list entry.
func (s *SQLiteStore) IsBlacklisted(ctx context.Context, userID string) (bool, error) {
	var found string
	err := s.db.QueryRowContext(ctx,
		"SELECT user_id FROM blacklist WHERE user_id = ?", userID,
	).Scan(&found)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("querying blacklist: %w", err)
	}
	return true, nil
}

// UpsertGuild replaces a guild row by key.
func (s *SQLiteStore) UpsertGuild(ctx context.Context, row *GuildRow) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO guilds (guild_id, guild_data, last_updated) VALUES (?, ?, ?)",
		row.GuildID, string(row.Data), row.LastUpdated.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upserting guild: %w", err)
	}
	s.logger.Debug("upserted guild", "guild_id", row.GuildID)
	return nil
}

// GetGuild retrieves a guild row.
// Returns ErrNotFound if the guild does not exist.
func (s *SQLiteStore) GetGuild(ctx context.Context, guildID string) (*GuildRow, error) {
	var row GuildRow
	var data, lastUpdated string
	err := s.db.QueryRowContext(ctx,
		"SELECT guild_id, guild_data, last_updated FROM guilds WHERE guild_id = ?", guildID,
	).Scan(&row.GuildID, &data, &lastUpdated)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying guild: %w", err)
	}
	row.Data = []byte(data)
	row.LastUpdated, err = time.Parse(time.RFC3339, lastUpdated)
	if err != nil {
		return nil, fmt.Errorf("parsing last_updated: %w", err)
	}
	return &row, nil
}

// ListGuilds returns every stored guild row.
func (s *SQLiteStore) ListGuilds(ctx context.Context) ([]*GuildRow, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT guild_id, guild_data, last_updated FROM guilds")
	if err != nil {
		return nil, fmt.Errorf("querying guilds: %w", err)
	}
	defer rows.Close()

	var out []*GuildRow
	for rows.Next() {
		var row GuildRow
		var data, lastUpdated string
		if err := rows.Scan(&row.GuildID, &data, &lastUpdated); err != nil {
			return nil, fmt.Errorf("scanning guild row: %w", err)
		}
		row.Data = []byte(data)
		row.LastUpdated, err = time.Parse(time.RFC3339, lastUpdated)
		if err != nil {
			return nil, fmt.Errorf("parsing last_updated: %w", err)
		}
		out = append(out, &row)
	}
	return out, rows.Err()
}

// PruneOlderThan deletes achievement, AFK and blacklist rows older than the
// cutoff. Returns the total number of rows removed.
func (s *SQLiteStore) PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	cutoffStr := cutoff.UTC().Format(time.RFC3339)

	var total int64
	prunes := []struct {
		table  string
		column string
	}{
		{"achievements", "unlocked_at"},
		{"afk_users", "afk_since"},
		{"blacklist", "banned_at"},
	}
	for _, p := range prunes {
		result, err := s.db.ExecContext(ctx,
			fmt.Sprintf("DELETE FROM %s WHERE %s < ?", p.table, p.column), cutoffStr,
		)
		if err != nil {
			return total, fmt.Errorf("pruning %s: %w", p.table, err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return total, fmt.Errorf("getting rows affected: %w", err)
		}
		total += n
	}

	if total > 0 {
		s.logger.Debug("pruned expired rows", "count", total)
	}
	return total, nil
}

// nullString returns nil for empty strings, otherwise the string itself.
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// Ensure SQLiteStore implements Store interface
var _ Store = (*SQLiteStore)(nil)
