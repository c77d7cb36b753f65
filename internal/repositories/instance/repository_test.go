package instance_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShawnLiGH/wwtp-equipment-tool/internal/repositories/equipment"
	"github.com/ShawnLiGH/wwtp-equipment-tool/internal/repositories/instance"
	"github.com/ShawnLiGH/wwtp-equipment-tool/internal/repositories/project"
	"github.com/ShawnLiGH/wwtp-equipment-tool/internal/repositories/quote"
	"github.com/ShawnLiGH/wwtp-equipment-tool/internal/testutil"
	"github.com/ShawnLiGH/wwtp-equipment-tool/pkg/database"
	"github.com/ShawnLiGH/wwtp-equipment-tool/pkg/models"
)

type repos struct {
	projects  *project.Repository
	equipment *equipment.Repository
	instances *instance.Repository
	quotes    *quote.Repository
}

func newRepos(t *testing.T) (database.DB, repos) {
	t.Helper()
	dbConn := testutil.OpenTestDB(t)
	logger := testutil.NewTestLogger()
	return dbConn, repos{
		projects:  project.NewRepository(dbConn, logger),
		equipment: equipment.NewRepository(dbConn, logger),
		instances: instance.NewRepository(dbConn, logger),
		quotes:    quote.NewRepository(dbConn, logger),
	}
}

func strPtr(s string) *string { return &s }

func int64Ptr(i int64) *int64 { return &i }

func floatPtr(f float64) *float64 { return &f }

func seed(t *testing.T, r repos) (*models.Project, *models.Equipment) {
	t.Helper()
	ctx := context.Background()

	proj, err := r.projects.Create(ctx, models.CreateProjectRequest{Name: "Rio Del Oro WWTP"})
	require.NoError(t, err)

	pump, err := r.equipment.Create(ctx, models.CreateEquipmentRequest{
		Manufacturer:  "Flygt",
		Model:         "NP-3153",
		EquipmentType: "Pump",
		PowerHP:       floatPtr(15),
		FlowGPM:       floatPtr(800),
	})
	require.NoError(t, err)

	return proj, pump
}

func TestInstanceRepository_CreateDefaults(t *testing.T) {
	_, r := newRepos(t)
	ctx := context.Background()
	proj, pump := seed(t, r)

	created, err := r.instances.Create(ctx, models.CreateProjectEquipmentRequest{
		ProjectID:   proj.ID,
		EquipmentID: pump.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, models.StatusNew, created.Status)
	assert.Equal(t, int64(1), created.Quantity)
	assert.Nil(t, created.PIDTag)
	assert.Nil(t, created.SelectedQuoteID)
}

func TestInstanceRepository_TagUniquePerProject(t *testing.T) {
	_, r := newRepos(t)
	ctx := context.Background()
	proj, pump := seed(t, r)

	_, err := r.instances.Create(ctx, models.CreateProjectEquipmentRequest{
		ProjectID:   proj.ID,
		EquipmentID: pump.ID,
		PIDTag:      strPtr("P-101"),
	})
	require.NoError(t, err)

	_, err = r.instances.Create(ctx, models.CreateProjectEquipmentRequest{
		ProjectID:   proj.ID,
		EquipmentID: pump.ID,
		PIDTag:      strPtr("P-101"),
	})
	require.Error(t, err)
	assert.True(t, httperror.IsHTTPError(err))
	assert.Equal(t, http.StatusConflict, httperror.GetStatusCode(err))

	// the same tag in another project is fine
	other, err := r.projects.Create(ctx, models.CreateProjectRequest{Name: "Other Plant"})
	require.NoError(t, err)
	_, err = r.instances.Create(ctx, models.CreateProjectEquipmentRequest{
		ProjectID:   other.ID,
		EquipmentID: pump.ID,
		PIDTag:      strPtr("P-101"),
	})
	require.NoError(t, err)
}

func TestInstanceRepository_UnknownReferences(t *testing.T) {
	_, r := newRepos(t)
	ctx := context.Background()
	proj, pump := seed(t, r)

	_, err := r.instances.Create(ctx, models.CreateProjectEquipmentRequest{
		ProjectID:   9999,
		EquipmentID: pump.ID,
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, httperror.GetStatusCode(err))

	_, err = r.instances.Create(ctx, models.CreateProjectEquipmentRequest{
		ProjectID:   proj.ID,
		EquipmentID: 9999,
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, httperror.GetStatusCode(err))
}

func TestInstanceRepository_ListByProjectJoinsCatalogAndQuote(t *testing.T) {
	_, r := newRepos(t)
	ctx := context.Background()
	proj, pump := seed(t, r)

	q, err := r.quotes.Create(ctx, models.CreateQuoteRequest{
		EquipmentID: pump.ID,
		Vendor:      "Xylem",
		Price:       floatPtr(42000),
	})
	require.NoError(t, err)

	_, err = r.instances.Create(ctx, models.CreateProjectEquipmentRequest{
		ProjectID:       proj.ID,
		EquipmentID:     pump.ID,
		PIDTag:          strPtr("P-102"),
		SelectedQuoteID: &q.ID,
	})
	require.NoError(t, err)
	_, err = r.instances.Create(ctx, models.CreateProjectEquipmentRequest{
		ProjectID:   proj.ID,
		EquipmentID: pump.ID,
		PIDTag:      strPtr("P-101"),
	})
	require.NoError(t, err)

	items, err := r.instances.ListByProject(ctx, proj.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)

	// ordered by tag
	assert.Equal(t, "P-101", *items[0].PIDTag)
	assert.Equal(t, "P-102", *items[1].PIDTag)

	// catalog fields flattened in
	assert.Equal(t, "Flygt", items[0].Manufacturer)
	assert.Equal(t, "NP-3153", items[0].Model)
	assert.Equal(t, 15.0, *items[0].PowerHP)

	// quote fields only where selected
	assert.Nil(t, items[0].Vendor)
	require.NotNil(t, items[1].Vendor)
	assert.Equal(t, "Xylem", *items[1].Vendor)
	assert.Equal(t, 42000.0, *items[1].Price)
}

func TestInstanceRepository_UpdateAndClearSelectedQuote(t *testing.T) {
	_, r := newRepos(t)
	ctx := context.Background()
	proj, pump := seed(t, r)

	q, err := r.quotes.Create(ctx, models.CreateQuoteRequest{
		EquipmentID: pump.ID,
		Vendor:      "Xylem",
	})
	require.NoError(t, err)

	inst, err := r.instances.Create(ctx, models.CreateProjectEquipmentRequest{
		ProjectID:   proj.ID,
		EquipmentID: pump.ID,
	})
	require.NoError(t, err)

	updated, err := r.instances.Update(ctx, inst.ID, models.UpdateProjectEquipmentRequest{
		SelectedQuoteID: &q.ID,
		Quantity:        int64Ptr(2),
		Location:        strPtr("Headworks"),
	})
	require.NoError(t, err)
	require.NotNil(t, updated.SelectedQuoteID)
	assert.Equal(t, q.ID, *updated.SelectedQuoteID)
	assert.Equal(t, int64(2), updated.Quantity)

	cleared, err := r.instances.Update(ctx, inst.ID, models.UpdateProjectEquipmentRequest{
		ClearSelectedQuote: true,
	})
	require.NoError(t, err)
	assert.Nil(t, cleared.SelectedQuoteID)
	// other fields untouched
	assert.Equal(t, int64(2), cleared.Quantity)
	assert.Equal(t, "Headworks", *cleared.Location)
}

func TestInstanceRepository_EmptyUpdateIsNoOp(t *testing.T) {
	_, r := newRepos(t)
	ctx := context.Background()
	proj, pump := seed(t, r)

	inst, err := r.instances.Create(ctx, models.CreateProjectEquipmentRequest{
		ProjectID:   proj.ID,
		EquipmentID: pump.ID,
		PIDTag:      strPtr("P-201"),
	})
	require.NoError(t, err)

	updated, err := r.instances.Update(ctx, inst.ID, models.UpdateProjectEquipmentRequest{})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "P-201", *updated.PIDTag)
}

func TestInstanceRepository_ProjectDeleteCascades(t *testing.T) {
	_, r := newRepos(t)
	ctx := context.Background()
	proj, pump := seed(t, r)

	inst, err := r.instances.Create(ctx, models.CreateProjectEquipmentRequest{
		ProjectID:   proj.ID,
		EquipmentID: pump.ID,
	})
	require.NoError(t, err)

	require.NoError(t, r.projects.Delete(ctx, proj.ID))

	got, err := r.instances.GetByID(ctx, inst.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	// the catalog entry survives
	e, err := r.equipment.GetByID(ctx, pump.ID)
	require.NoError(t, err)
	assert.NotNil(t, e)
}

func TestInstanceRepository_QuoteDeleteClearsSelection(t *testing.T) {
	_, r := newRepos(t)
	ctx := context.Background()
	proj, pump := seed(t, r)

	q, err := r.quotes.Create(ctx, models.CreateQuoteRequest{
		EquipmentID: pump.ID,
		Vendor:      "Xylem",
	})
	require.NoError(t, err)

	inst, err := r.instances.Create(ctx, models.CreateProjectEquipmentRequest{
		ProjectID:       proj.ID,
		EquipmentID:     pump.ID,
		SelectedQuoteID: &q.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, inst.SelectedQuoteID)

	require.NoError(t, r.quotes.Delete(ctx, q.ID))

	got, err := r.instances.GetByID(ctx, inst.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Nil(t, got.SelectedQuoteID)
}

// Walks a small project from catalog entry to selected quote the way the tool
// is used day to day.
func TestProjectEquipmentWorkflow(t *testing.T) {
	_, r := newRepos(t)
	ctx := context.Background()

	proj, err := r.projects.Create(ctx, models.CreateProjectRequest{
		Name:      "Rio Del Oro WWTP Expansion",
		JobNumber: strPtr("2024-117"),
	})
	require.NoError(t, err)

	pump, err := r.equipment.Create(ctx, models.CreateEquipmentRequest{
		Manufacturer:  "Flygt",
		Model:         "NP-3153",
		EquipmentType: "Pump",
		FlowGPM:       floatPtr(800),
	})
	require.NoError(t, err)

	inst, err := r.instances.Create(ctx, models.CreateProjectEquipmentRequest{
		ProjectID:   proj.ID,
		EquipmentID: pump.ID,
		PIDTag:      strPtr("P-101"),
		Status:      models.StatusNew,
		Quantity:    2,
	})
	require.NoError(t, err)

	q, err := r.quotes.Create(ctx, models.CreateQuoteRequest{
		EquipmentID:   pump.ID,
		Vendor:        "Xylem",
		Price:         floatPtr(42000),
		LeadTimeWeeks: int64Ptr(16),
	})
	require.NoError(t, err)

	_, err = r.instances.Update(ctx, inst.ID, models.UpdateProjectEquipmentRequest{
		SelectedQuoteID: &q.ID,
	})
	require.NoError(t, err)

	items, err := r.instances.ListByProject(ctx, proj.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)

	row := items[0]
	assert.Equal(t, "P-101", *row.PIDTag)
	assert.Equal(t, int64(2), row.Quantity)
	assert.Equal(t, "Flygt", row.Manufacturer)
	assert.Equal(t, "Xylem", *row.Vendor)
	assert.Equal(t, 42000.0, *row.Price)
	assert.Equal(t, int64(16), *row.LeadTimeWeeks)
}
