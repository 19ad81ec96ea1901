// ABOUTME: Tests for the maintenance sweep: pruning, decay, resets, guild activity
// ABOUTME: Uses a frozen coordinator clock to step across decay and reset boundaries

package hybrid

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SilentBlox01/BeethovenBot/internal/pets"
)

func TestMaintenanceDecaysIdlePets(t *testing.T) {
	c := newTestCoordinator(t)
	advance := freezeClock(c)
	ctx := context.Background()

	pet, err := c.AdoptPet(ctx, "42", "Chispa", pets.RarityCommon)
	require.NoError(t, err)
	startHunger, startEnergy, startHappiness := pet.Hunger, pet.Energy, pet.Happiness

	advance(3 * time.Hour)
	c.RunMaintenance(ctx)

	coll, err := c.GetPetCollection(ctx, "42")
	require.NoError(t, err)
	got := coll["Chispa"]
	assert.Equal(t, startHunger-15, got.Hunger, "hunger decays 5 per idle hour")
	assert.Equal(t, startEnergy-9, got.Energy, "energy decays 3 per idle hour")
	assert.Equal(t, startHappiness-12, got.Happiness, "happiness decays 4 per idle hour")
	assert.True(t, got.LastInteraction.Equal(c.now().UTC()), "decay counts as the latest interaction")
}

func TestMaintenanceDecayCountsFractionalHours(t *testing.T) {
	c := newTestCoordinator(t)
	advance := freezeClock(c)
	ctx := context.Background()

	pet, err := c.AdoptPet(ctx, "42", "Chispa", pets.RarityCommon)
	require.NoError(t, err)

	advance(90 * time.Minute)
	c.RunMaintenance(ctx)

	coll, err := c.GetPetCollection(ctx, "42")
	require.NoError(t, err)
	got := coll["Chispa"]
	assert.Equal(t, pet.Hunger-7, got.Hunger, "1.5h idle drains 7 hunger, not 5")
	assert.Equal(t, pet.Energy-4, got.Energy)
	assert.Equal(t, pet.Happiness-6, got.Happiness)
}

func TestMaintenanceSkipsRecentlyActivePets(t *testing.T) {
	c := newTestCoordinator(t)
	advance := freezeClock(c)
	ctx := context.Background()

	pet, err := c.AdoptPet(ctx, "42", "Chispa", pets.RarityCommon)
	require.NoError(t, err)

	advance(30 * time.Minute)
	c.RunMaintenance(ctx)

	coll, err := c.GetPetCollection(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, pet.Hunger, coll["Chispa"].Hunger, "under an hour idle, no decay")
	assert.Equal(t, pet.Energy, coll["Chispa"].Energy)
}

func TestMaintenanceDecayFloorsAtZero(t *testing.T) {
	c := newTestCoordinator(t)
	advance := freezeClock(c)
	ctx := context.Background()

	_, err := c.AdoptPet(ctx, "42", "Chispa", pets.RarityCommon)
	require.NoError(t, err)

	// A week of neglect drains everything; vitals must not go negative.
	advance(7 * 24 * time.Hour)
	c.RunMaintenance(ctx)

	coll, err := c.GetPetCollection(ctx, "42")
	require.NoError(t, err)
	assert.Zero(t, coll["Chispa"].Hunger)
	assert.Zero(t, coll["Chispa"].Energy)
	assert.Zero(t, coll["Chispa"].Happiness)
}

func TestMaintenancePrunesExpiredRows(t *testing.T) {
	c := newTestCoordinator(t)
	advance := freezeClock(c)
	ctx := context.Background()

	_, _, err := c.GrantAchievement(ctx, "42", "primer_mascota")
	require.NoError(t, err)
	require.NoError(t, c.SetAfk(ctx, "42", "vacaciones"))

	// Past the 30-day retention window everything above is swept.
	advance(31 * 24 * time.Hour)
	c.RunMaintenance(ctx)

	held, err := c.GetAchievements(ctx, "42")
	require.NoError(t, err)
	assert.Empty(t, held)

	state, err := c.GetAfk(ctx, "42")
	require.NoError(t, err)
	assert.Nil(t, state)
}

func TestMaintenanceResetsDailyMissions(t *testing.T) {
	c := newTestCoordinator(t)
	advance := freezeClock(c)
	ctx := context.Background()

	require.NoError(t, c.IncrementMission(ctx, "42", MissionCategoryDaily, "jugar", 3))

	advance(48 * time.Hour)
	c.RunMaintenance(ctx)

	m, err := c.GetMissions(ctx, "42")
	require.NoError(t, err)
	assert.NotContains(t, m, MissionCategoryDaily, "daily progress resets across the day boundary")
}

func TestMaintenanceResetsWeeklyMissions(t *testing.T) {
	c := newTestCoordinator(t)
	advance := freezeClock(c)
	ctx := context.Background()

	require.NoError(t, c.IncrementMission(ctx, "42", MissionCategoryWeekly, "adoptar", 2))

	advance(8 * 24 * time.Hour)
	c.RunMaintenance(ctx)

	m, err := c.GetMissions(ctx, "42")
	require.NoError(t, err)
	assert.NotContains(t, m, MissionCategoryWeekly, "weekly progress resets across the ISO-week boundary")
}

func TestMaintenanceAccruesGuildActivity(t *testing.T) {
	c := newTestCoordinator(t)
	ctx := context.Background()

	g, err := c.CreateGuildRecord(ctx, "Los Lobos", "42")
	require.NoError(t, err)

	c.RunMaintenance(ctx)
	c.RunMaintenance(ctx)

	got, err := c.GetGuildRecord(ctx, g.GuildID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.ActivityPoints)
}

func TestRunMaintenanceAfterClose(t *testing.T) {
	c := newTestCoordinator(t)
	require.NoError(t, c.Close())

	// Must log and return, not panic.
	c.RunMaintenance(context.Background())
}

func TestStartMaintenanceStopsOnCancel(t *testing.T) {
	c := newTestCoordinator(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.StartMaintenance(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("maintenance loop did not exit on context cancel")
	}
}
