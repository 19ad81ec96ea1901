// ABOUTME: Tests for achievement grants and the fixed reward table
// ABOUTME: Grants must be idempotent; repeated unlocks never error or double-pay

package hybrid

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrantAchievement(t *testing.T) {
	c := newTestCoordinator(t)
	ctx := context.Background()

	granted, reward, err := c.GrantAchievement(ctx, "42", "primer_mascota")
	require.NoError(t, err)
	assert.True(t, granted)
	assert.Equal(t, Reward{Coins: 50, XP: 100}, reward)

	// Second grant is a no-op, but still reports the table payout.
	granted, reward, err = c.GrantAchievement(ctx, "42", "primer_mascota")
	require.NoError(t, err)
	assert.False(t, granted)
	assert.Equal(t, Reward{Coins: 50, XP: 100}, reward)
}

func TestGrantAchievement_UnknownKeyPaysNothing(t *testing.T) {
	c := newTestCoordinator(t)

	granted, reward, err := c.GrantAchievement(context.Background(), "42", "logro_inexistente")
	require.NoError(t, err)
	assert.True(t, granted, "unknown keys are still recorded")
	assert.Zero(t, reward)
}

func TestGetAchievements(t *testing.T) {
	c := newTestCoordinator(t)
	ctx := context.Background()

	held, err := c.GetAchievements(ctx, "42")
	require.NoError(t, err)
	assert.Empty(t, held)

	_, _, err = c.GrantAchievement(ctx, "42", "primer_mascota")
	require.NoError(t, err)
	_, _, err = c.GrantAchievement(ctx, "42", "primer_raro")
	require.NoError(t, err)
	_, _, err = c.GrantAchievement(ctx, "otro", "explorador_items")
	require.NoError(t, err)

	held, err = c.GetAchievements(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"primer_mascota": true, "primer_raro": true}, held)
}

func TestRewardFor(t *testing.T) {
	assert.Equal(t, Reward{Coins: 100, XP: 200}, RewardFor("coleccionista_novato"))
	assert.Zero(t, RewardFor("desconocido"))
}
