package cli

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ptarrant/phaseline/internal/domain"
	"github.com/ptarrant/phaseline/internal/testutil"
)

func TestResolveProjectID(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	project := testutil.NewTestProject("Website", testutil.WithShortID("WEB01"))
	require.NoError(t, app.Projects.Create(ctx, project))

	// Short ID, case-insensitive.
	id, err := resolveProjectID(ctx, app, "web01")
	require.NoError(t, err)
	assert.Equal(t, project.ID, id)

	// Exact UUID.
	id, err = resolveProjectID(ctx, app, project.ID)
	require.NoError(t, err)
	assert.Equal(t, project.ID, id)

	// UUID prefix.
	id, err = resolveProjectID(ctx, app, project.ID[:8])
	require.NoError(t, err)
	assert.Equal(t, project.ID, id)

	_, err = resolveProjectID(ctx, app, "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestResolvePhaseID_ByNameAndPrefix(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	project := testutil.NewTestProject("Website")
	require.NoError(t, app.Projects.Create(ctx, project))

	p := &domain.Phase{
		ProjectID: project.ID, Name: "Discovery",
		StartDate: testutil.Date(2025, time.January, 1),
		EndDate:   testutil.Date(2025, time.January, 31),
	}
	require.NoError(t, app.Phases.Create(ctx, p))

	id, err := resolvePhaseID(ctx, app, project.ID, "discovery")
	require.NoError(t, err)
	assert.Equal(t, p.ID, id)

	id, err = resolvePhaseID(ctx, app, project.ID, p.ID[:8])
	require.NoError(t, err)
	assert.Equal(t, p.ID, id)

	_, err = resolvePhaseID(ctx, app, project.ID, "missing")
	require.Error(t, err)
}
