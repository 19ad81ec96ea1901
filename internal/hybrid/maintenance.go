// ABOUTME: Background maintenance: retention pruning, pet decay, mission resets, guild activity
// ABOUTME: Sub-tasks are isolated; the loop fail-opens and always reschedules

package hybrid

import (
	"context"
	"time"
)

// decayThreshold is the minimum idle time before a pet's vitals decay.
const decayThreshold = time.Hour

// Hourly linear decay rates, floored at zero.
const (
	hungerDecayPerHour    = 5
	energyDecayPerHour    = 3
	happinessDecayPerHour = 4
)

// RunMaintenance executes one full maintenance sweep: prune expired rows,
// decay idle pets, reset daily/weekly missions at boundary crossings, and
// accrue guild activity. Each sub-task is independent; a failure in one is
// logged and does not abort the others.
func (c *Coordinator) RunMaintenance(ctx context.Context) {
	if err := c.ready(); err != nil {
		c.logger.Error("maintenance skipped", "error", err)
		return
	}

	tasks := []struct {
		name string
		run  func(context.Context) error
	}{
		{"prune_expired", c.pruneExpired},
		{"decay_pets", c.decayPets},
		{"reset_missions", c.resetDueMissions},
		{"accrue_guild_activity", c.accrueGuildActivity},
	}

	for _, task := range tasks {
		if err := task.run(ctx); err != nil {
			c.logger.Error("maintenance task failed", "task", task.name, "error", err)
		}
	}
	c.logger.Info("maintenance sweep completed")
}

// StartMaintenance runs the maintenance loop until ctx is canceled. The loop
// never stops itself: an unexpected panic in a sweep is recovered and the
// next run is scheduled regardless.
func (c *Coordinator) StartMaintenance(ctx context.Context) {
	interval := c.cfg.MaintenanceInterval
	c.logger.Info("maintenance scheduler started", "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("maintenance scheduler stopped")
			return
		case <-ticker.C:
			c.safeSweep(ctx)
		}
	}
}

func (c *Coordinator) safeSweep(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("maintenance sweep panicked", "panic", r)
		}
	}()
	c.RunMaintenance(ctx)
}

// pruneExpired deletes achievement/AFK/blacklist rows older than the
// retention window and drops any cached reads they may have fed.
func (c *Coordinator) pruneExpired(ctx context.Context) error {
	cutoff := c.now().Add(-time.Duration(c.cfg.RetentionDays) * 24 * time.Hour)

	c.primaryMu.Lock()
	pruned, err := c.primary.PruneOlderThan(ctx, cutoff)
	c.primaryMu.Unlock()
	if err != nil {
		return err
	}
	if pruned > 0 {
		c.cache.Clear()
		c.logger.Info("pruned expired rows", "count", pruned, "cutoff", cutoff)
	}
	return nil
}

// decayPets applies linear vital decay to every pet idle for at least an
// hour. Pets are processed per owner so the primary lock is held per batch,
// not for the whole scan.
func (c *Coordinator) decayPets(ctx context.Context) error {
	c.primaryMu.Lock()
	rows, err := c.primary.ListAllPets(ctx)
	c.primaryMu.Unlock()
	if err != nil {
		return err
	}

	owners := make(map[string]bool)
	for _, row := range rows {
		owners[row.UserID] = true
	}

	now := c.now().UTC()
	for owner := range owners {
		c.primaryMu.Lock()
		coll, err := c.loadCollection(ctx, owner)
		if err != nil {
			c.primaryMu.Unlock()
			c.logger.Error("decay: loading collection failed", "user_id", owner, "error", err)
			continue
		}

		changed := false
		for name, pet := range coll {
			elapsed := now.Sub(pet.LastInteraction)
			if elapsed < decayThreshold {
				continue
			}
			// Fractional hours count: 1.5h idle drains hunger by 7, not 5.
			hours := elapsed.Hours()
			pet.Hunger -= int(hours * hungerDecayPerHour)
			pet.Energy -= int(hours * energyDecayPerHour)
			pet.Happiness -= int(hours * happinessDecayPerHour)
			pet.LastInteraction = now
			pet.Clamp()
			changed = true
			c.logger.Debug("pet vitals decayed", "user_id", owner, "pet", name, "idle_hours", hours)
		}

		if changed {
			if err := c.storeCollection(ctx, owner, coll); err != nil {
				c.primaryMu.Unlock()
				c.logger.Error("decay: saving collection failed", "user_id", owner, "error", err)
				continue
			}
		}
		c.primaryMu.Unlock()

		if changed {
			c.mirrorPets(owner, coll)
		}
	}
	return nil
}

// resetDueMissions clears daily progress when the day key has rolled over
// since the user's last reset, and weekly progress on ISO-week rollover.
func (c *Coordinator) resetDueMissions(ctx context.Context) error {
	c.primaryMu.Lock()
	users, err := c.primary.ListUsersWithMissions(ctx)
	c.primaryMu.Unlock()
	if err != nil {
		return err
	}

	today := dayKey(c.now())
	thisWeek := weekKey(c.now())

	for _, user := range users {
		if user.MissionDay != today {
			if err := c.ResetMissions(ctx, user.UserID, MissionCategoryDaily); err != nil {
				c.logger.Error("daily mission reset failed", "user_id", user.UserID, "error", err)
			}
		}
		if user.MissionWeek != thisWeek {
			if err := c.ResetMissions(ctx, user.UserID, MissionCategoryWeekly); err != nil {
				c.logger.Error("weekly mission reset failed", "user_id", user.UserID, "error", err)
			}
		}
	}
	return nil
}

// accrueGuildActivity bumps every guild's activity counter and refreshes its
// timestamp.
func (c *Coordinator) accrueGuildActivity(ctx context.Context) error {
	c.primaryMu.Lock()
	rows, err := c.primary.ListGuilds(ctx)
	c.primaryMu.Unlock()
	if err != nil {
		return err
	}

	for _, row := range rows {
		g, err := guildFromStorage(row.Data)
		if err != nil {
			c.logger.Error("guild activity: decoding failed", "guild_id", row.GuildID, "error", err)
			continue
		}
		g.ActivityPoints++
		if err := c.persistGuild(ctx, g); err != nil {
			c.logger.Error("guild activity: persisting failed", "guild_id", g.GuildID, "error", err)
		}
	}
	return nil
}
