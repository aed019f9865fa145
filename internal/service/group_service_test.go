package service

import (
	"clever_backend/internal/util"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupService(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	g, err := f.groups.Create(ctx, teacher(900), CreateGroupRequest{Name: "  10-B "})
	require.NoError(t, err)
	assert.Equal(t, "10-B", g.Name)
	assert.Equal(t, uint(900), g.CreatedByID)

	_, err = f.groups.Create(ctx, teacher(901), CreateGroupRequest{Name: "10-b"})
	assert.ErrorIs(t, err, util.ErrGroupExists)

	_, err = f.groups.Create(ctx, teacher(900), CreateGroupRequest{Name: "   "})
	assert.ErrorIs(t, err, util.ErrInvalidInput)

	_, err = f.groups.Create(ctx, student(1, g.ID), CreateGroupRequest{Name: "mine"})
	assert.ErrorIs(t, err, util.ErrAccessDenied)

	_, err = f.groups.Create(ctx, teacher(901), CreateGroupRequest{Name: "11-A"})
	require.NoError(t, err)

	owned, err := f.groups.ListOwned(ctx, teacher(900))
	require.NoError(t, err)
	require.Len(t, owned, 1)
	assert.Equal(t, "10-B", owned[0].Name)

	all, err := f.groups.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
