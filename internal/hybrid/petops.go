// ABOUTME: Coordinator operations for pet collections: adopt, save, stat updates, release
// ABOUTME: Read-modify-write sequences run under the primary backend lock

package hybrid

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SilentBlox01/BeethovenBot/internal/pets"
	"github.com/SilentBlox01/BeethovenBot/internal/store"
)

// ErrDuplicatePet is returned when adopting under a name the user already
// owns.
var ErrDuplicatePet = errors.New("pet already exists")

// ErrCollectionFull is returned when adopting would exceed the per-user pet
// limit.
var ErrCollectionFull = errors.New("pet collection full")

// maxPetsPerUser caps a collection's size at adoption time.
const maxPetsPerUser = 10

// StatDeltas are signed adjustments applied to a pet's stats. Vitals are
// clamped to their bounds after application.
type StatDeltas struct {
	Hunger     int
	Energy     int
	Happiness  int
	Health     int
	Experience int
}

// GetPetCollection returns every pet a user owns. A user with no prior
// adoption gets an empty collection, never an error.
func (c *Coordinator) GetPetCollection(ctx context.Context, userID string) (pets.Collection, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}

	c.primaryMu.Lock()
	defer c.primaryMu.Unlock()
	return c.loadCollection(ctx, userID)
}

// SavePetCollection transactionally replaces a user's entire pet set and
// mirrors the result. Fails only on primary-store error.
func (c *Coordinator) SavePetCollection(ctx context.Context, userID string, coll pets.Collection) error {
	if err := c.ready(); err != nil {
		return err
	}

	c.primaryMu.Lock()
	err := c.storeCollection(ctx, userID, coll)
	c.primaryMu.Unlock()
	if err != nil {
		return err
	}

	c.mirrorPets(userID, coll)
	return nil
}

// AdoptPet creates a fresh level-1 pet of the given rarity under the chosen
// name. Returns ErrDuplicatePet if the user already owns that name, and
// ErrCollectionFull once the user holds maxPetsPerUser pets.
func (c *Coordinator) AdoptPet(ctx context.Context, userID, petName, rarity string) (*pets.Pet, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	if !pets.ValidRarity(rarity) {
		return nil, fmt.Errorf("%w: rarity %q", ErrInvalidIdentifier, rarity)
	}

	c.primaryMu.Lock()
	coll, err := c.loadCollection(ctx, userID)
	if err != nil {
		c.primaryMu.Unlock()
		return nil, err
	}
	if len(coll) >= maxPetsPerUser {
		c.primaryMu.Unlock()
		return nil, ErrCollectionFull
	}
	if _, ok := coll[petName]; ok {
		c.primaryMu.Unlock()
		return nil, ErrDuplicatePet
	}

	_, pet := pets.NewRandom(rarity)
	pet.LastInteraction = c.now().UTC()
	coll[petName] = pet

	if err := c.storeCollection(ctx, userID, coll); err != nil {
		c.primaryMu.Unlock()
		return nil, err
	}
	c.primaryMu.Unlock()

	c.mirrorPets(userID, coll)
	c.logger.Info("pet adopted", "user_id", userID, "pet", petName, "rarity", rarity)
	return pet, nil
}

// UpdatePetStats applies deltas to one pet and clamps vitals to their
// bounds. Returns ErrEntityNotFound if the pet does not exist.
func (c *Coordinator) UpdatePetStats(ctx context.Context, userID, petName string, deltas StatDeltas) error {
	if err := c.ready(); err != nil {
		return err
	}

	c.primaryMu.Lock()
	coll, err := c.loadCollection(ctx, userID)
	if err != nil {
		c.primaryMu.Unlock()
		return err
	}
	pet, ok := coll[petName]
	if !ok {
		c.primaryMu.Unlock()
		return fmt.Errorf("%w: pet %q of user %s", ErrEntityNotFound, petName, userID)
	}

	pet.Hunger += deltas.Hunger
	pet.Energy += deltas.Energy
	pet.Happiness += deltas.Happiness
	pet.Health += deltas.Health
	pet.Experience += deltas.Experience
	pet.LastInteraction = c.now().UTC()
	pet.Clamp()

	if err := c.storeCollection(ctx, userID, coll); err != nil {
		c.primaryMu.Unlock()
		return err
	}
	c.primaryMu.Unlock()

	c.mirrorPets(userID, coll)
	return nil
}

// ReleasePet removes one pet from the user's collection.
// Returns ErrEntityNotFound if the pet does not exist.
func (c *Coordinator) ReleasePet(ctx context.Context, userID, petName string) error {
	if err := c.ready(); err != nil {
		return err
	}

	c.primaryMu.Lock()
	coll, err := c.loadCollection(ctx, userID)
	if err != nil {
		c.primaryMu.Unlock()
		return err
	}
	if _, ok := coll[petName]; !ok {
		c.primaryMu.Unlock()
		return fmt.Errorf("%w: pet %q of user %s", ErrEntityNotFound, petName, userID)
	}
	delete(coll, petName)

	if err := c.storeCollection(ctx, userID, coll); err != nil {
		c.primaryMu.Unlock()
		return err
	}
	c.primaryMu.Unlock()

	c.mirrorPets(userID, coll)
	c.logger.Info("pet released", "user_id", userID, "pet", petName)
	return nil
}

// loadCollection decodes a user's pet rows. Caller must hold primaryMu.
func (c *Coordinator) loadCollection(ctx context.Context, userID string) (pets.Collection, error) {
	rows, err := c.primary.GetPets(ctx, userID)
	if err != nil {
		return nil, err
	}

	coll := make(pets.Collection, len(rows))
	for _, row := range rows {
		pet, err := pets.FromStorage(row.Data)
		if err != nil {
			return nil, fmt.Errorf("decoding pet %s of user %s: %w", row.PetName, userID, err)
		}
		coll[row.PetName] = pet
	}
	return coll, nil
}

// storeCollection encodes and transactionally replaces a user's pet rows.
// Caller must hold primaryMu.
func (c *Coordinator) storeCollection(ctx context.Context, userID string, coll pets.Collection) error {
	rows := make([]*store.PetRow, 0, len(coll))
	for name, pet := range coll {
		data, err := pet.ToStorage()
		if err != nil {
			return err
		}
		rows = append(rows, &store.PetRow{UserID: userID, PetName: name, Data: data})
	}
	return c.primary.ReplacePets(ctx, userID, rows)
}

// mirrorPets shadows the full pet set into the mirror store.
func (c *Coordinator) mirrorPets(userID string, coll pets.Collection) {
	c.mirror.Upsert("user_pets", userID, map[string]any{
		"user_id":     userID,
		"mascotas":    coll,
		"last_update": c.now().UTC().Format(time.RFC3339),
	})
}
