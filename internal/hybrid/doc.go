// Package hybrid coordinates the bot's persistence across a SQLite primary
// and an optional remote document mirror.
//
// # Architecture
//
// The Coordinator is the single entry point for all domain operations. Every
// write goes to the SQLite primary first; only after the primary commit does
// the same state get pushed to the mirror. The mirror is strictly best-effort:
// connection failures at startup or mid-flight degrade the Coordinator to
// primary-only mode, and no domain operation ever fails because of it.
//
// # Operations
//
//   - Pets: adopt, stat updates, item usage, release
//   - Users: coin balance, AFK markers, blacklist
//   - Achievements: idempotent grants with a fixed reward table
//   - Missions: daily/weekly progress nested in the user row
//   - Guilds: clan records with level/xp invariants
//   - Maintenance: retention pruning, pet decay, mission resets
//
// # Locking
//
// A single mutex guards the SQLite primary and a second one the cooldown
// table. Serializing primary access is a deliberate trade: the bot's write
// volume is small, and one coarse lock keeps the read-modify-write cycles
// (load collection, mutate, store) atomic without row versioning. The cache
// takes no coordinator locks, so cached blacklist reads never block behind a
// writer.
//
// # Error Handling
//
// Domain sentinels (ErrEntityNotFound, ErrItemNotOwned, ErrOnCooldown, ...)
// let callers branch with errors.Is. CooldownError additionally carries the
// remaining wait so callers can surface it to users.
package hybrid
