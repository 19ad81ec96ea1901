// ABOUTME: Error taxonomy for coordinator operations
// ABOUTME: Sentinel errors plus a typed cooldown error carrying remaining wait time

package hybrid

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotInitialized is returned when an operation runs against a
	// closed or never-opened coordinator.
	ErrNotInitialized = errors.New("persistence layer not initialized")

	// ErrEntityNotFound is returned when an update targets a pet, guild or
	// similar required entity that does not exist.
	ErrEntityNotFound = errors.New("entity not found")

	// ErrItemNotOwned is returned when the requested item is absent from
	// the pet's inventory.
	ErrItemNotOwned = errors.New("item not in inventory")

	// ErrUnknownItem is returned when the item name matches nothing in the
	// shop or rare-item catalogs.
	ErrUnknownItem = errors.New("unknown item")

	// ErrInvalidIdentifier is returned when an admin-facing operation
	// receives a malformed identifier.
	ErrInvalidIdentifier = errors.New("invalid identifier")

	// ErrOnCooldown is the errors.Is target for CooldownError.
	ErrOnCooldown = errors.New("item on cooldown")
)

// CooldownError reports that an item was used again inside its cooldown
// window. Remaining is the time left before the item may be used again.
type CooldownError struct {
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("item on cooldown for %s", e.Remaining.Round(time.Second))
}

// Is makes errors.Is(err, ErrOnCooldown) match a CooldownError.
func (e *CooldownError) Is(target error) bool {
	return target == ErrOnCooldown
}
