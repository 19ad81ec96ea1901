// ABOUTME: Additive schema migration for the primary store
// ABOUTME: Rename-old, create-new, copy common columns, drop-old, one tx per table

package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
)

// tableDef is the expected shape of one table: its full DDL, the column set
// the DDL produces, and any secondary indexes.
type tableDef struct {
	name    string
	create  string
	columns []string
	indexes []string
}

// expectedTables is the authoritative schema. Column lists must match the
// CREATE statements exactly; the migrator compares them against live tables.
var expectedTables = []tableDef{
	{
		name: "users",
		create: `CREATE TABLE users (
			user_id      TEXT PRIMARY KEY,
			username     TEXT,
			coins        INTEGER NOT NULL DEFAULT 0,
			last_login   TEXT,
			missions     TEXT,
			mission_day  TEXT,
			mission_week TEXT
		)`,
		columns: []string{"user_id", "username", "coins", "last_login", "missions", "mission_day", "mission_week"},
	},
	{
		name: "pets",
		create: `CREATE TABLE pets (
			user_id  TEXT NOT NULL,
			pet_name TEXT NOT NULL,
			pet_data TEXT NOT NULL,
			PRIMARY KEY (user_id, pet_name)
		)`,
		columns: []string{"user_id", "pet_name", "pet_data"},
		indexes: []string{"CREATE INDEX IF NOT EXISTS idx_pets_user_id ON pets (user_id)"},
	},
	{
		name: "achievements",
		create: `CREATE TABLE achievements (
			user_id          TEXT NOT NULL,
			achievement_name TEXT NOT NULL,
			unlocked_at      TEXT NOT NULL,
			PRIMARY KEY (user_id, achievement_name)
		)`,
		columns: []string{"user_id", "achievement_name", "unlocked_at"},
		indexes: []string{"CREATE INDEX IF NOT EXISTS idx_achievements_user_id ON achievements (user_id)"},
	},
	{
		name: "afk_users",
		create: `CREATE TABLE afk_users (
			user_id   TEXT PRIMARY KEY,
			reason    TEXT,
			afk_since TEXT NOT NULL
		)`,
		columns: []string{"user_id", "reason", "afk_since"},
	},
	{
		name: "blacklist",
		create: `CREATE TABLE blacklist (
			user_id   TEXT PRIMARY KEY,
			reason    TEXT,
			banned_at TEXT NOT NULL
		)`,
		columns: []string{"user_id", "reason", "banned_at"},
	},
	{
		name: "guilds",
		create: `CREATE TABLE guilds (
			guild_id     TEXT PRIMARY KEY,
			guild_data   TEXT NOT NULL,
			last_updated TEXT NOT NULL
		)`,
		columns: []string{"guild_id", "guild_data", "last_updated"},
	},
}

// ensureSchema brings every expected table to its expected shape. Missing
// tables are created; tables with a divergent column set are migrated by
// renaming the old table, creating the new one, copying the rows restricted
// to the common columns, and dropping the old table. Each table is handled in
// its own transaction so a crash leaves either the old or the new table
// intact, never both. Any failure here is fatal to startup.
func ensureSchema(db *sql.DB, logger *slog.Logger) error {
	for _, def := range expectedTables {
		if err := ensureTable(db, logger, def); err != nil {
			return fmt.Errorf("migrating table %s: %w", def.name, err)
		}
	}
	return nil
}

func ensureTable(db *sql.DB, logger *slog.Logger, def tableDef) error {
	exists, err := tableExists(db, def.name)
	if err != nil {
		return err
	}
	var actual []string
	if exists {
		if actual, err = tableColumns(db, def.name); err != nil {
			return err
		}
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if !exists {
		if _, err := tx.Exec(def.create); err != nil {
			return fmt.Errorf("creating table: %w", err)
		}
	} else {
		if !sameColumns(actual, def.columns) {
			logger.Warn("table has outdated structure, migrating",
				"table", def.name, "have", actual, "want", def.columns)

			oldName := def.name + "_old"
			if _, err := tx.Exec(fmt.Sprintf("ALTER TABLE %s RENAME TO %s", def.name, oldName)); err != nil {
				return fmt.Errorf("renaming old table: %w", err)
			}
			if _, err := tx.Exec(def.create); err != nil {
				return fmt.Errorf("creating replacement table: %w", err)
			}
			common := intersect(actual, def.columns)
			if len(common) > 0 {
				cols := strings.Join(common, ", ")
				copySQL := fmt.Sprintf("INSERT INTO %s (%s) SELECT %s FROM %s", def.name, cols, cols, oldName)
				if _, err := tx.Exec(copySQL); err != nil {
					return fmt.Errorf("copying rows: %w", err)
				}
			}
			if _, err := tx.Exec(fmt.Sprintf("DROP TABLE %s", oldName)); err != nil {
				return fmt.Errorf("dropping old table: %w", err)
			}
			logger.Info("migrated table", "table", def.name, "copied_columns", common)
		}
	}

	for _, idx := range def.indexes {
		if _, err := tx.Exec(idx); err != nil {
			return fmt.Errorf("creating index: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing migration: %w", err)
	}
	return nil
}

func tableExists(db *sql.DB, name string) (bool, error) {
	var found string
	err := db.QueryRow(
		"SELECT name FROM sqlite_master WHERE type='table' AND name = ?", name,
	).Scan(&found)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking table existence: %w", err)
	}
	return true, nil
}

func tableColumns(db *sql.DB, name string) ([]string, error) {
	rows, err := db.Query("SELECT name FROM pragma_table_info(?)", name)
	if err != nil {
		return nil, fmt.Errorf("reading table info: %w", err)
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var col string
		if err := rows.Scan(&col); err != nil {
			return nil, fmt.Errorf("scanning column name: %w", err)
		}
		cols = append(cols, col)
	}
	return cols, rows.Err()
}

func sameColumns(actual, expected []string) bool {
	if len(actual) != len(expected) {
		return false
	}
	have := make(map[string]bool, len(actual))
	for _, c := range actual {
		have[c] = true
	}
	for _, c := range expected {
		if !have[c] {
			return false
		}
	}
	return true
}

// intersect returns the expected columns that also exist in the old table,
// preserving expected-column order so copied data lines up.
func intersect(actual, expected []string) []string {
	have := make(map[string]bool, len(actual))
	for _, c := range actual {
		have[c] = true
	}
	var common []string
	for _, c := range expected {
		if have[c] {
			common = append(common, c)
		}
	}
	return common
}
