package handlers

import (
	"law_office_app_go/models"
	"law_office_app_go/services"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditHandlers(t *testing.T) {
	env := setupTestEnv(t)
	params := []string{"id", env.record.ID}

	rec := env.call(t, UpdateCaseHandler, env.admin, http.MethodPut, "/", map[string]interface{}{"status": models.CaseStatusProcess}, params...)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = env.call(t, GetCaseHandler, env.lawyer, http.MethodGet, "/", nil, params...)
	require.Equal(t, http.StatusOK, rec.Code)

	// audit entries land in the background
	require.Eventually(t, func() bool {
		logs, err := services.GetResourceAuditHistory(env.db, env.office.ID, "Case", env.record.ID)
		return err == nil && len(logs) == 2
	}, 5*time.Second, 20*time.Millisecond)

	t.Run("case history", func(t *testing.T) {
		rec := env.call(t, CaseHistoryHandler, env.lawyer, http.MethodGet, "/", nil, params...)
		require.Equal(t, http.StatusOK, rec.Code)
		logs := decode[[]models.AuditLog](t, rec)
		require.Len(t, logs, 2)
		actions := []models.AuditAction{logs[0].Action, logs[1].Action}
		assert.ElementsMatch(t, []models.AuditAction{models.AuditActionUpdate, models.AuditActionRead}, actions)
	})

	t.Run("foreign case history", func(t *testing.T) {
		_, foreign := env.otherOffice(t)
		rec := env.call(t, CaseHistoryHandler, env.admin, http.MethodGet, "/", nil, "id", foreign.ID)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("office audit filtered by action", func(t *testing.T) {
		rec := env.call(t, OfficeAuditLogsHandler, env.admin, http.MethodGet, "/api/office/audit?action=UPDATE&page_size=500", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		page := decode[auditPage](t, rec)
		assert.Equal(t, int64(1), page.Total)
		assert.Equal(t, 1, page.Page)
		assert.Equal(t, services.DefaultAuditPageSize, page.PageSize)
		require.Len(t, page.Logs, 1)
		assert.Equal(t, env.record.ID, page.Logs[0].ResourceID)
		assert.Equal(t, env.admin.ID, *page.Logs[0].UserID)
	})

	t.Run("office audit date window", func(t *testing.T) {
		from := time.Now().AddDate(0, 0, -1).Format(services.DateLayout)
		to := time.Now().AddDate(0, 0, 1).Format(services.DateLayout)
		rec := env.call(t, OfficeAuditLogsHandler, env.admin, http.MethodGet, "/api/office/audit?resource_type=Case&from="+from+"&to="+to, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, int64(2), decode[auditPage](t, rec).Total)

		rec = env.call(t, OfficeAuditLogsHandler, env.admin, http.MethodGet, "/api/office/audit?to=2000-01-01", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Zero(t, decode[auditPage](t, rec).Total)

		rec = env.call(t, OfficeAuditLogsHandler, env.admin, http.MethodGet, "/api/office/audit?from=01/02/2026", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
