// ABOUTME: Coordinator operations for mission progress stored in the user row
// ABOUTME: Incrementing is policy-free; claiming and resets are explicit calls

package hybrid

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SilentBlox01/BeethovenBot/internal/store"
)

// dayKey formats the daily-reset boundary key.
func dayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// weekKey formats the weekly-reset boundary key using the ISO week.
func weekKey(t time.Time) string {
	year, week := t.UTC().ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// IncrementMission adds amount to a mission's progress, creating the user
// row and nested structure as needed. It grants no rewards: reward claiming
// is the caller's responsibility once progress reaches the goal.
func (c *Coordinator) IncrementMission(ctx context.Context, userID, category, key string, amount int) error {
	if err := c.ready(); err != nil {
		return err
	}
	if category == "" || key == "" {
		return fmt.Errorf("%w: empty mission category or key", ErrInvalidIdentifier)
	}

	c.primaryMu.Lock()
	user, missions, err := c.loadUserMissions(ctx, userID)
	if err != nil {
		c.primaryMu.Unlock()
		return err
	}

	missions.increment(category, key, amount)
	if user.MissionDay == "" {
		user.MissionDay = dayKey(c.now())
	}
	if user.MissionWeek == "" {
		user.MissionWeek = weekKey(c.now())
	}

	if err := c.storeUserMissions(ctx, user, missions); err != nil {
		c.primaryMu.Unlock()
		return err
	}
	c.primaryMu.Unlock()

	c.mirrorMissions(userID, missions)
	return nil
}

// MarkMissionClaimed sets the one-way claimed flag once a reward has been
// granted. Returns ErrEntityNotFound if no such mission progress exists.
func (c *Coordinator) MarkMissionClaimed(ctx context.Context, userID, category, key string) error {
	if err := c.ready(); err != nil {
		return err
	}

	c.primaryMu.Lock()
	user, missions, err := c.loadUserMissions(ctx, userID)
	if err != nil {
		c.primaryMu.Unlock()
		return err
	}
	if !missions.markClaimed(category, key) {
		c.primaryMu.Unlock()
		return fmt.Errorf("%w: mission %s/%s of user %s", ErrEntityNotFound, category, key, userID)
	}
	if err := c.storeUserMissions(ctx, user, missions); err != nil {
		c.primaryMu.Unlock()
		return err
	}
	c.primaryMu.Unlock()

	c.mirrorMissions(userID, missions)
	return nil
}

// ResetMissions clears one category of a user's mission progress.
func (c *Coordinator) ResetMissions(ctx context.Context, userID, category string) error {
	if err := c.ready(); err != nil {
		return err
	}

	c.primaryMu.Lock()
	user, missions, err := c.loadUserMissions(ctx, userID)
	if err != nil {
		c.primaryMu.Unlock()
		return err
	}
	delete(missions, category)
	switch category {
	case MissionCategoryDaily:
		user.MissionDay = dayKey(c.now())
	case MissionCategoryWeekly:
		user.MissionWeek = weekKey(c.now())
	}
	if err := c.storeUserMissions(ctx, user, missions); err != nil {
		c.primaryMu.Unlock()
		return err
	}
	c.primaryMu.Unlock()

	c.mirrorMissions(userID, missions)
	c.logger.Info("missions reset", "user_id", userID, "category", category)
	return nil
}

// GetMissions returns a user's nested mission progress. Users without any
// progress get an empty document.
func (c *Coordinator) GetMissions(ctx context.Context, userID string) (Missions, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}

	c.primaryMu.Lock()
	defer c.primaryMu.Unlock()
	_, missions, err := c.loadUserMissions(ctx, userID)
	if err != nil {
		return nil, err
	}
	return missions, nil
}

// loadUserMissions fetches (or initializes) the user row and decodes its
// mission document. Caller must hold primaryMu.
func (c *Coordinator) loadUserMissions(ctx context.Context, userID string) (*store.UserAccount, Missions, error) {
	user, err := c.primary.GetUser(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		user = &store.UserAccount{UserID: userID}
	} else if err != nil {
		return nil, nil, err
	}

	missions, err := missionsFromStorage(user.Missions)
	if err != nil {
		return nil, nil, err
	}
	return user, missions, nil
}

// storeUserMissions re-encodes the mission document into the user row.
// Caller must hold primaryMu.
func (c *Coordinator) storeUserMissions(ctx context.Context, user *store.UserAccount, missions Missions) error {
	data, err := missions.toStorage()
	if err != nil {
		return err
	}
	user.Missions = data
	if user.LastLogin.IsZero() {
		user.LastLogin = c.now().UTC()
	}
	return c.primary.UpsertUser(ctx, user)
}

func (c *Coordinator) mirrorMissions(userID string, missions Missions) {
	c.mirror.Upsert("user_missions", userID, map[string]any{
		"user_id":  userID,
		"misiones": missions,
	})
}
