package equipment_test

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
	"github.com/ShawnLiGH/wwtp-equipment-tool/internal/testutil"
	"github.com/ShawnLiGH/wwtp-equipment-tool/pkg/database"
	"github.com/ShawnLiGH/wwtp-equipment-tool/pkg/models"
)

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func seedPump(t *testing.T, repo *equipment.Repository, manufacturer, model string) *models.Equipment {
	t.Helper()
	created, err := repo.Create(context.Background(), models.CreateEquipmentRequest{
		Manufacturer:  manufacturer,
		Model:         model,
		EquipmentType: "Pump",
	})
	require.NoError(t, err)
	return created
}

func TestEquipmentRepository_CreateAndGet(t *testing.T) {
	repo := equipment.NewRepository(testutil.OpenTestDB(t), testutil.NewTestLogger())
	ctx := context.Background()

	created, err := repo.Create(ctx, models.CreateEquipmentRequest{
		Manufacturer:     "Flygt",
		Model:            "NP-3153",
		EquipmentType:    "Pump",
		EquipmentSubtype: strPtr("Submersible"),
		PowerHP:          floatPtr(15),
		FlowGPM:          floatPtr(800),
		HeadFt:           floatPtr(45),
	})
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "Flygt", created.Manufacturer)
	assert.Equal(t, 15.0, *created.PowerHP)
	assert.Nil(t, created.PowerHPVerified)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Submersible", *got.EquipmentSubtype)
}

func TestEquipmentRepository_DuplicateManufacturerModel(t *testing.T) {
	repo := equipment.NewRepository(testutil.OpenTestDB(t), testutil.NewTestLogger())

	seedPump(t, repo, "Flygt", "NP-3153")

	_, err := repo.Create(context.Background(), models.CreateEquipmentRequest{
		Manufacturer:  "Flygt",
		Model:         "NP-3153",
		EquipmentType: "Pump",
	})
	require.Error(t, err)
	assert.True(t, httperror.IsHTTPError(err))
	assert.Equal(t, http.StatusConflict, httperror.GetStatusCode(err))
}

func TestEquipmentRepository_ListFilterByType(t *testing.T) {
	repo := equipment.NewRepository(testutil.OpenTestDB(t), testutil.NewTestLogger())
	ctx := context.Background()

	seedPump(t, repo, "Flygt", "NP-3153")
	_, err := repo.Create(ctx, models.CreateEquipmentRequest{
		Manufacturer:  "Aerzen",
		Model:         "GM-35S",
		EquipmentType: "Blower",
	})
	require.NoError(t, err)

	all, err := repo.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
	// manufacturer sort puts Aerzen before Flygt
	assert.Equal(t, "Aerzen", all[0].Manufacturer)

	pumps, err := repo.List(ctx, "Pump")
	require.NoError(t, err)
	require.Len(t, pumps, 1)
	assert.Equal(t, "Flygt", pumps[0].Manufacturer)
}

func TestEquipmentRepository_SearchIsCaseInsensitive(t *testing.T) {
	repo := equipment.NewRepository(testutil.OpenTestDB(t), testutil.NewTestLogger())
	ctx := context.Background()

	seedPump(t, repo, "Flygt", "NP-3153")
	seedPump(t, repo, "Gorman-Rupp", "T4A60S-B")

	results, err := repo.Search(ctx, "FLYGT")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Flygt", results[0].Manufacturer)

	results, err = repo.Search(ctx, "np-31")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "NP-3153", results[0].Model)

	results, err = repo.Search(ctx, "pump")
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestEquipmentRepository_Types(t *testing.T) {
	repo := equipment.NewRepository(testutil.OpenTestDB(t), testutil.NewTestLogger())
	ctx := context.Background()

	seedPump(t, repo, "Flygt", "NP-3153")
	seedPump(t, repo, "Gorman-Rupp", "T4A60S-B")
	_, err := repo.Create(ctx, models.CreateEquipmentRequest{
		Manufacturer:  "Aerzen",
		Model:         "GM-35S",
		EquipmentType: "Blower",
	})
	require.NoError(t, err)

	types, err := repo.Types(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Blower", "Pump"}, types)
}

func TestEquipmentRepository_PartialUpdateVerifiedValues(t *testing.T) {
	repo := equipment.NewRepository(testutil.OpenTestDB(t), testutil.NewTestLogger())
	ctx := context.Background()

	created, err := repo.Create(ctx, models.CreateEquipmentRequest{
		Manufacturer:  "Flygt",
		Model:         "NP-3153",
		EquipmentType: "Pump",
		PowerHP:       floatPtr(15),
	})
	require.NoError(t, err)

	updated, err := repo.Update(ctx, created.ID, models.UpdateEquipmentRequest{
		PowerHPVerified: floatPtr(14.7),
	})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, 15.0, *updated.PowerHP)
	assert.Equal(t, 14.7, *updated.PowerHPVerified)
}

func TestEquipmentRepository_DeleteBlockedWhileInUse(t *testing.T) {
	dbConn := testutil.OpenTestDB(t)
	logger := testutil.NewTestLogger()
	equipmentRepo := equipment.NewRepository(dbConn, logger)
	projectRepo := project.NewRepository(dbConn, logger)
	instanceRepo := instance.NewRepository(dbConn, logger)
	ctx := context.Background()

	pump := seedPump(t, equipmentRepo, "Flygt", "NP-3153")
	proj, err := projectRepo.Create(ctx, models.CreateProjectRequest{Name: "Lift Station 4"})
	require.NoError(t, err)

	inst, err := instanceRepo.Create(ctx, models.CreateProjectEquipmentRequest{
		ProjectID:   proj.ID,
		EquipmentID: pump.ID,
	})
	require.NoError(t, err)

	err = equipmentRepo.Delete(ctx, pump.ID)
	require.Error(t, err)
	assert.True(t, httperror.IsHTTPError(err))
	assert.Equal(t, http.StatusConflict, httperror.GetStatusCode(err))

	// still present
	got, err := equipmentRepo.GetByID(ctx, pump.ID)
	require.NoError(t, err)
	require.NotNil(t, got)

	// removing the instance unblocks the delete
	require.NoError(t, instanceRepo.Delete(ctx, inst.ID))
	require.NoError(t, equipmentRepo.Delete(ctx, pump.ID))

	got, err = equipmentRepo.GetByID(ctx, pump.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDatabaseErrorClassification(t *testing.T) {
	dbConn := testutil.OpenTestDB(t)
	logger := testutil.NewTestLogger()
	repo := equipment.NewRepository(dbConn, logger)
	ctx := context.Background()

	seedPump(t, repo, "Flygt", "NP-3153")

	_, err := dbConn.ExecContext(ctx,
		"INSERT INTO equipment_master (manufacturer, model, equipment_type) VALUES (?, ?, ?)",
		"Flygt", "NP-3153", "Pump")
	require.Error(t, err)
	assert.True(t, database.IsUniqueViolation(err))
	assert.True(t, database.IsConstraintViolation(err))
	assert.False(t, database.IsForeignKeyViolation(err))

	_, err = dbConn.ExecContext(ctx,
		"INSERT INTO quotes (equipment_id, vendor) VALUES (?, ?)", 9999, "Xylem")
	require.Error(t, err)
	assert.True(t, database.IsForeignKeyViolation(err))
	assert.False(t, database.IsUniqueViolation(err))
}
