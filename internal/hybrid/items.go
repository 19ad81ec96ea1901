// ABOUTME: Item usage: cooldown enforcement, inventory checks and fixed effects
// ABOUTME: Effect vocabulary matches the stored wire format (Spanish field names)

package hybrid

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/SilentBlox01/BeethovenBot/internal/pets"
	"github.com/SilentBlox01/BeethovenBot/internal/store"
)

// ItemResult reports the effects an item application produced, keyed by the
// wire-format field each effect touched.
type ItemResult struct {
	Effects map[string]any
}

// UseItem consumes one unit of an item from a pet's inventory and applies
// its fixed effect. A per-(user, pet, item) cooldown window is enforced;
// using too soon fails with a CooldownError carrying the remaining wait.
func (c *Coordinator) UseItem(ctx context.Context, userID, petName, itemName string) (*ItemResult, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}

	item, ok := pets.LookupItem(itemName)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownItem, itemName)
	}

	// Check and reserve the window in one critical section: a concurrent
	// call for the same (user, pet, item) must not pass the check while
	// this one is mid-write. The reservation is released if the use fails.
	key := cooldownKey(userID, petName, itemName)
	c.cooldownMu.Lock()
	if expiry, held := c.cooldowns[key]; held && expiry.After(c.now()) {
		remaining := expiry.Sub(c.now())
		c.cooldownMu.Unlock()
		return nil, &CooldownError{Remaining: remaining}
	}
	c.cooldowns[key] = c.now().Add(item.Cooldown)
	c.cooldownMu.Unlock()

	committed := false
	defer func() {
		if !committed {
			c.cooldownMu.Lock()
			delete(c.cooldowns, key)
			c.cooldownMu.Unlock()
		}
	}()

	c.primaryMu.Lock()
	coll, err := c.loadCollection(ctx, userID)
	if err != nil {
		c.primaryMu.Unlock()
		return nil, err
	}
	pet, exists := coll[petName]
	if !exists {
		c.primaryMu.Unlock()
		return nil, fmt.Errorf("%w: pet %q of user %s", ErrEntityNotFound, petName, userID)
	}
	if !pet.RemoveItem(itemName) {
		c.primaryMu.Unlock()
		return nil, fmt.Errorf("%w: %q", ErrItemNotOwned, itemName)
	}

	effects := make(map[string]any)
	var coinGrant int64

	switch item.Effect {
	case pets.EffectRestoreEnergy:
		pet.Energy += item.Amount
		effects["energía"] = item.Amount
	case pets.EffectBoostHappiness:
		pet.Happiness += item.Amount
		effects["felicidad"] = item.Amount
	case pets.EffectRestoreHealth:
		pet.Health += item.Amount
		effects["salud"] = item.Amount
	case pets.EffectGrantXP:
		pet.Experience += item.Amount
		effects["experiencia"] = item.Amount
	case pets.EffectGrantCoins:
		coinGrant = int64(item.Amount)
		effects["monedas"] = item.Amount
	case pets.EffectRerollElement:
		pet.Element = pets.RandomElement()
		effects["elemento"] = pet.Element
	case pets.EffectRareTicket:
		pet.RareTicket = true
		effects["ticket_raro"] = "activado"
	case pets.EffectRarePet:
		rarity := pets.RarityRare
		if rand.IntN(2) == 1 {
			rarity = pets.RarityEpic
		}
		name, rare := pets.NewRandom(rarity)
		name = resolveNameCollision(coll, name)
		coll[name] = rare
		effects["mascota_rara"] = name
	}

	pet.LastInteraction = c.now().UTC()
	pet.Clamp()

	if err := c.storeCollection(ctx, userID, coll); err != nil {
		c.primaryMu.Unlock()
		return nil, err
	}

	if coinGrant > 0 {
		user, err := c.primary.GetUser(ctx, userID)
		if errors.Is(err, store.ErrNotFound) {
			user = &store.UserAccount{UserID: userID}
		} else if err != nil {
			c.primaryMu.Unlock()
			return nil, err
		}
		user.Coins += coinGrant
		user.LastLogin = c.now().UTC()
		if err := c.primary.UpsertUser(ctx, user); err != nil {
			c.primaryMu.Unlock()
			return nil, err
		}
	}
	c.primaryMu.Unlock()
	committed = true

	c.mirrorPets(userID, coll)
	c.logger.Debug("item used", "user_id", userID, "pet", petName, "item", itemName)
	return &ItemResult{Effects: effects}, nil
}

func cooldownKey(userID, petName, itemName string) string {
	return userID + "." + petName + "." + itemName
}

// resolveNameCollision suffixes a granted pet's name until it is unique
// within the collection.
func resolveNameCollision(coll pets.Collection, name string) string {
	if _, taken := coll[name]; !taken {
		return name
	}
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s_%d", name, i)
		if _, taken := coll[candidate]; !taken {
			return candidate
		}
	}
}
