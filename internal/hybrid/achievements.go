// ABOUTME: Idempotent achievement grants with a pure reward-table lookup
// ABOUTME: Only the persistence step has effects; reward computation is side-effect free

package hybrid

import (
	"context"
	"time"

	"github.com/SilentBlox01/BeethovenBot/internal/store"
)

// Reward is the coin/xp payout attached to an achievement.
type Reward struct {
	Coins int
	XP    int
}

// achievementRewards is the fixed payout table.
var achievementRewards = map[string]Reward{
	"primer_mascota":       {Coins: 50, XP: 100},
	"coleccionista_novato": {Coins: 100, XP: 200},
	"primer_raro":          {Coins: 80, XP: 150},
	"explorador_items":     {Coins: 60, XP: 120},
}

// RewardFor returns the payout for an achievement key. Unknown keys pay
// nothing. Pure: no storage access, no side effects.
func RewardFor(key string) Reward {
	return achievementRewards[key]
}

// GrantAchievement unlocks an achievement for a user. The grant is
// idempotent: a repeated call reports granted=false and never errors.
// The returned reward is the table payout whether or not this call was the
// one that granted it.
func (c *Coordinator) GrantAchievement(ctx context.Context, userID, key string) (granted bool, reward Reward, err error) {
	if err := c.ready(); err != nil {
		return false, Reward{}, err
	}

	reward = RewardFor(key)

	c.primaryMu.Lock()
	granted, err = c.primary.InsertAchievement(ctx, &store.Achievement{
		UserID:     userID,
		Key:        key,
		UnlockedAt: c.now().UTC(),
	})
	c.primaryMu.Unlock()
	if err != nil {
		return false, Reward{}, err
	}

	if granted {
		c.mirror.Upsert("user_achievements", userID+"_"+key, map[string]any{
			"user_id":         userID,
			"achievement_key": key,
			"reward_coins":    reward.Coins,
			"reward_xp":       reward.XP,
			"unlocked_at":     c.now().UTC().Format(time.RFC3339),
		})
	}
	return granted, reward, nil
}

// GetAchievements returns the set of achievement keys a user has unlocked.
func (c *Coordinator) GetAchievements(ctx context.Context, userID string) (map[string]bool, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}

	c.primaryMu.Lock()
	rows, err := c.primary.ListAchievements(ctx, userID)
	c.primaryMu.Unlock()
	if err != nil {
		return nil, err
	}

	held := make(map[string]bool, len(rows))
	for _, a := range rows {
		held[a.Key] = true
	}
	return held, nil
}
