package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShawnLiGH/wwtp-equipment-tool/db"
	"github.com/ShawnLiGH/wwtp-equipment-tool/internal/handlers"
	"github.com/ShawnLiGH/wwtp-equipment-tool/internal/repositories/document"
	"github.com/ShawnLiGH/wwtp-equipment-tool/internal/repositories/equipment"
	"github.com/ShawnLiGH/wwtp-equipment-tool/internal/repositories/instance"
	"github.com/ShawnLiGH/wwtp-equipment-tool/internal/repositories/project"
	"github.com/ShawnLiGH/wwtp-equipment-tool/internal/repositories/quote"
	"github.com/ShawnLiGH/wwtp-equipment-tool/internal/testutil"
	"github.com/ShawnLiGH/wwtp-equipment-tool/pkg/database"
	"github.com/ShawnLiGH/wwtp-equipment-tool/pkg/middleware"
)

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()

	dbConn := testutil.OpenTestDB(t)
	logger := testutil.NewTestLogger()

	projectRepo := project.NewRepository(dbConn, logger)
	equipmentRepo := equipment.NewRepository(dbConn, logger)
	instanceRepo := instance.NewRepository(dbConn, logger)
	quoteRepo := quote.NewRepository(dbConn, logger)
	documentRepo := document.NewRepository(dbConn, logger)
	migrations := database.NewMigrationService(dbConn, db.Migrations, db.MigrationFolder, logger)

	e := echo.New()
	e.HTTPErrorHandler = middleware.Error(logger)
	e.Use(middleware.Context())

	api := e.Group("/api")
	handlers.NewProjectHandler(projectRepo, logger).RegisterRoutes(api)
	handlers.NewEquipmentHandler(equipmentRepo, logger).RegisterRoutes(api)
	handlers.NewInstanceHandler(instanceRepo, projectRepo, quoteRepo, logger).RegisterRoutes(api)
	handlers.NewQuoteHandler(quoteRepo, equipmentRepo, logger).RegisterRoutes(api)
	handlers.NewDocumentHandler(documentRepo, equipmentRepo, logger).RegisterRoutes(api)
	handlers.NewAdminHandler(migrations, projectRepo, equipmentRepo, instanceRepo, quoteRepo, documentRepo, logger).RegisterRoutes(api)

	return e
}

func doJSON(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestProjectEndpoints(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/api/projects", `{"name":"Rio Del Oro WWTP","job_number":"2024-117","phase":"Design"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"job_number":"2024-117"`)

	// name is required
	rec = doJSON(e, http.MethodPost, "/api/projects", `{"client":"City of Davis"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// duplicate job number conflicts
	rec = doJSON(e, http.MethodPost, "/api/projects", `{"name":"Other","job_number":"2024-117"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(e, http.MethodGet, "/api/projects/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Rio Del Oro WWTP")

	rec = doJSON(e, http.MethodGet, "/api/projects/999", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(e, http.MethodGet, "/api/projects/not-a-number", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(e, http.MethodPut, "/api/projects/1", `{"phase":"Bid"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"phase":"Bid"`)

	rec = doJSON(e, http.MethodDelete, "/api/projects/1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(e, http.MethodDelete, "/api/projects/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInstanceEndpointRejectsMismatchedQuote(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/api/projects", `{"name":"Plant"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(e, http.MethodPost, "/api/equipment", `{"manufacturer":"Flygt","model":"NP-3153","equipment_type":"Pump"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = doJSON(e, http.MethodPost, "/api/equipment", `{"manufacturer":"Aerzen","model":"GM-35S","equipment_type":"Blower"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	// quote belongs to the blower
	rec = doJSON(e, http.MethodPost, "/api/quotes", `{"equipment_id":2,"vendor":"Aerzen USA"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	// selecting it for a pump instance is rejected
	rec = doJSON(e, http.MethodPost, "/api/project-equipment", `{"project_id":1,"equipment_id":1,"selected_quote_id":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// matching selection is accepted
	rec = doJSON(e, http.MethodPost, "/api/project-equipment", `{"project_id":1,"equipment_id":2,"selected_quote_id":1}`)
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestAdminEndpoints(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/api/projects", `{"name":"Plant"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(e, http.MethodGet, "/api/admin/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"projects":1`)

	// reset requires confirmation
	rec = doJSON(e, http.MethodPost, "/api/admin/reset", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(e, http.MethodPost, "/api/admin/reset?confirm=true", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(e, http.MethodGet, "/api/admin/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"projects":0`)
}
