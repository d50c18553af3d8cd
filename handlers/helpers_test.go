package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"law_office_app_go/config"
	"law_office_app_go/db"
	"law_office_app_go/middleware"
	"law_office_app_go/models"
	"law_office_app_go/services"
	"law_office_app_go/services/i18n"
	"law_office_app_go/services/realtime"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testPassword = "correct-horse-battery"

var testConfig = &config.Config{
	Environment:     "development",
	EmailTestMode:   true,
	AppURL:          "http://test.local",
	DefaultLanguage: "en",
}

type testEnv struct {
	e      *echo.Echo
	db     *gorm.DB
	office *models.Office
	admin  *models.User
	lawyer *models.User
	record *models.Case
}

// setupTestEnv points the package at a fresh file database with one office,
// an admin, a lawyer and a case
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	require.NoError(t, i18n.Load())
	i18n.SetDefaultLanguage("en")

	dsn := filepath.Join(t.TempDir(), "test.db") + "?_busy_timeout=5000&_journal_mode=WAL"
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(models.All()...))

	prevDB, prevBroker, prevStore := db.DB, broker, services.Storage
	db.DB = gdb
	local := realtime.NewLocalBroker()
	InitRealtime(local)
	services.Storage = services.NewDiskStore(t.TempDir())
	t.Cleanup(func() {
		// audit entries are written in the background
		time.Sleep(50 * time.Millisecond)
		local.Close()
		db.DB, broker, services.Storage = prevDB, prevBroker, prevStore
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})

	admin, err := services.SignUp(gdb, services.SignUpInput{
		FullName: "Ruth Cohen", Email: "ruth@example.com", Password: testPassword,
		Role: models.RoleAdmin, OfficeName: "Cohen & Co",
	})
	require.NoError(t, err)
	lawyer, err := services.SignUp(gdb, services.SignUpInput{
		FullName: "Yossi Levi", Email: "yossi@example.com", Password: testPassword,
		Role: models.RoleLawyer,
	})
	require.NoError(t, err)

	office, err := services.GetOffice(gdb, *admin.OfficeID)
	require.NoError(t, err)
	record, err := services.CreateCase(gdb, office.ID, services.CaseInput{FirstName: "Dana", LastName: "Levi"})
	require.NoError(t, err)

	return &testEnv{e: echo.New(), db: gdb, office: office, admin: admin, lawyer: lawyer, record: record}
}

// otherOffice creates a second tenant with one case
func (env *testEnv) otherOffice(t *testing.T) (*models.Office, *models.Case) {
	t.Helper()
	u, err := services.SignUp(env.db, services.SignUpInput{
		FullName: "Other Admin", Email: "other@example.com", Password: testPassword,
		Role: models.RoleAdmin, OfficeName: "Other Office",
	})
	require.NoError(t, err)
	office, err := services.GetOffice(env.db, *u.OfficeID)
	require.NoError(t, err)
	c, err := services.CreateCase(env.db, office.ID, services.CaseInput{FirstName: "Noa"})
	require.NoError(t, err)
	return office, c
}

// call runs h as user with the path params given as name, value pairs
func (env *testEnv) call(t *testing.T, h echo.HandlerFunc, user *models.User, method, target string, body interface{}, params ...string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	return env.serve(t, h, user, req, params...)
}

func (env *testEnv) serve(t *testing.T, h echo.HandlerFunc, user *models.User, req *http.Request, params ...string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	c := env.e.NewContext(req, rec)
	c.Set("config", testConfig)
	c.Set("locale", "en")
	if user != nil {
		c.Set(middleware.ContextKeyUser, user)
		c.Set(middleware.ContextKeyOffice, env.office)
	}
	var names, values []string
	for i := 0; i+1 < len(params); i += 2 {
		names = append(names, params[i])
		values = append(values, params[i+1])
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)

	if err := h(c); err != nil {
		env.e.HTTPErrorHandler(err, c)
	}
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}
