package project_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShawnLiGH/wwtp-equipment-tool/internal/repositories/project"
	"github.com/ShawnLiGH/wwtp-equipment-tool/internal/testutil"
	"github.com/ShawnLiGH/wwtp-equipment-tool/pkg/models"
)

func newRepo(t *testing.T) *project.Repository {
	t.Helper()
	return project.NewRepository(testutil.OpenTestDB(t), testutil.NewTestLogger())
}

func strPtr(s string) *string { return &s }

func phasePtr(p models.Phase) *models.Phase { return &p }

func TestProjectRepository_CreateAndGet(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, models.CreateProjectRequest{
		Name:      "Rio Del Oro WWTP Expansion",
		Client:    strPtr("City of Rancho Cordova"),
		JobNumber: strPtr("2024-117"),
		Phase:     phasePtr(models.PhaseDesign),
		Notes:     strPtr("Phase 2 expansion to 5 MGD"),
	})
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "Rio Del Oro WWTP Expansion", created.Name)
	assert.Equal(t, "2024-117", *created.JobNumber)
	assert.Equal(t, models.PhaseDesign, *created.Phase)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "City of Rancho Cordova", *got.Client)
}

func TestProjectRepository_GetMissingReturnsNil(t *testing.T) {
	repo := newRepo(t)

	got, err := repo.GetByID(context.Background(), 9999)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestProjectRepository_DuplicateJobNumber(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, models.CreateProjectRequest{
		Name:      "Plant A",
		JobNumber: strPtr("J-100"),
	})
	require.NoError(t, err)

	_, err = repo.Create(ctx, models.CreateProjectRequest{
		Name:      "Plant B",
		JobNumber: strPtr("J-100"),
	})
	require.Error(t, err)
	assert.True(t, httperror.IsHTTPError(err))
	assert.Equal(t, http.StatusConflict, httperror.GetStatusCode(err))
}

func TestProjectRepository_ListNewestFirst(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	first, err := repo.Create(ctx, models.CreateProjectRequest{Name: "Older"})
	require.NoError(t, err)
	second, err := repo.Create(ctx, models.CreateProjectRequest{Name: "Newer"})
	require.NoError(t, err)

	items, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, second.ID, items[0].ID)
	assert.Equal(t, first.ID, items[1].ID)
}

func TestProjectRepository_PartialUpdate(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, models.CreateProjectRequest{
		Name:   "Headworks Rehab",
		Client: strPtr("City of Davis"),
		Phase:  phasePtr(models.PhaseDesign),
	})
	require.NoError(t, err)

	updated, err := repo.Update(ctx, created.ID, models.UpdateProjectRequest{
		Phase: phasePtr(models.PhaseConstruction),
	})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, models.PhaseConstruction, *updated.Phase)
	assert.Equal(t, "Headworks Rehab", updated.Name)
	assert.Equal(t, "City of Davis", *updated.Client)
}

func TestProjectRepository_EmptyUpdateIsNoOp(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, models.CreateProjectRequest{Name: "No Changes"})
	require.NoError(t, err)

	updated, err := repo.Update(ctx, created.ID, models.UpdateProjectRequest{})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "No Changes", updated.Name)
}

func TestProjectRepository_Delete(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, models.CreateProjectRequest{Name: "Short Lived"})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, created.ID))

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestProjectRepository_Count(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	_, err = repo.Create(ctx, models.CreateProjectRequest{Name: "One"})
	require.NoError(t, err)

	count, err = repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
