// ABOUTME: Tests for guild records: creation, invariants, update semantics
// ABOUTME: Covers owner membership, xp rollover and the must-exist update rule

package hybrid

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateGuildRecord(t *testing.T) {
	c := newTestCoordinator(t)
	ctx := context.Background()

	g, err := c.CreateGuildRecord(ctx, "Los Lobos", "42")
	require.NoError(t, err)
	assert.NotEmpty(t, g.GuildID)
	assert.Equal(t, "Los Lobos", g.Name)
	assert.Equal(t, "42", g.OwnerID)
	assert.Equal(t, []string{"42"}, g.Members, "founder is the first member")
	assert.Equal(t, 1, g.Level)

	got, err := c.GetGuildRecord(ctx, g.GuildID)
	require.NoError(t, err)
	assert.Equal(t, g.Name, got.Name)
	assert.Equal(t, g.Members, got.Members)
}

func TestCreateGuildRecord_Validation(t *testing.T) {
	c := newTestCoordinator(t)
	ctx := context.Background()

	_, err := c.CreateGuildRecord(ctx, "", "42")
	assert.ErrorIs(t, err, ErrInvalidIdentifier)

	_, err = c.CreateGuildRecord(ctx, "Los Lobos", "")
	assert.ErrorIs(t, err, ErrInvalidIdentifier)
}

func TestGetGuildRecord_NotFound(t *testing.T) {
	c := newTestCoordinator(t)

	_, err := c.GetGuildRecord(context.Background(), "no-such-guild")
	assert.ErrorIs(t, err, ErrEntityNotFound)
}

func TestUpdateGuildRecord(t *testing.T) {
	c := newTestCoordinator(t)
	ctx := context.Background()

	g, err := c.CreateGuildRecord(ctx, "Los Lobos", "42")
	require.NoError(t, err)

	g.Members = append(g.Members, "99")
	g.Bank = 500
	require.NoError(t, c.UpdateGuildRecord(ctx, g))

	got, err := c.GetGuildRecord(ctx, g.GuildID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"42", "99"}, got.Members)
	assert.Equal(t, int64(500), got.Bank)
	assert.False(t, got.LastUpdated.Before(got.CreatedAt))
}

func TestUpdateGuildRecord_MustExist(t *testing.T) {
	c := newTestCoordinator(t)

	err := c.UpdateGuildRecord(context.Background(), &Guild{GuildID: "fantasma", Name: "X", OwnerID: "1"})
	assert.ErrorIs(t, err, ErrEntityNotFound)
}

func TestGuildXPRollover(t *testing.T) {
	c := newTestCoordinator(t)
	ctx := context.Background()

	g, err := c.CreateGuildRecord(ctx, "Los Lobos", "42")
	require.NoError(t, err)

	g.XP = 1000
	require.NoError(t, c.UpdateGuildRecord(ctx, g))

	got, err := c.GetGuildRecord(ctx, g.GuildID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Level)
	assert.Zero(t, got.XP, "xp resets on rollover")
}

func TestGuildOwnerAlwaysMember(t *testing.T) {
	c := newTestCoordinator(t)
	ctx := context.Background()

	g, err := c.CreateGuildRecord(ctx, "Los Lobos", "42")
	require.NoError(t, err)

	// Stripping the owner from the member list gets repaired on update.
	g.Members = []string{"99"}
	require.NoError(t, c.UpdateGuildRecord(ctx, g))

	got, err := c.GetGuildRecord(ctx, g.GuildID)
	require.NoError(t, err)
	assert.Contains(t, got.Members, "42")
}

func TestGuildRecordSurvivesEmptyMembership(t *testing.T) {
	c := newTestCoordinator(t)
	ctx := context.Background()

	g, err := c.CreateGuildRecord(ctx, "Los Lobos", "42")
	require.NoError(t, err)

	g.OwnerID = ""
	g.Members = nil
	require.NoError(t, c.UpdateGuildRecord(ctx, g))

	got, err := c.GetGuildRecord(ctx, g.GuildID)
	require.NoError(t, err)
	assert.Empty(t, got.Members)
	assert.Equal(t, "Los Lobos", got.Name)
}
