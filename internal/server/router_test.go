package server_test

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/looply/looply-backend/internal/app"
	"github.com/looply/looply-backend/internal/server"
	"github.com/looply/looply-backend/pkg/config"
	"github.com/looply/looply-backend/pkg/kvstore"
	"github.com/looply/looply-backend/pkg/logger"
	"github.com/looply/looply-backend/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const today = "2024-01-15"

var testNow = time.Date(2024, 1, 15, 18, 0, 0, 0, time.UTC)

type api struct {
	t       *testing.T
	handler http.Handler
	events  *testutil.MockPublisher
}

func newAPI(t *testing.T) *api {
	t.Helper()
	cfg := &config.Config{
		Server: config.ServerConfig{AllowedOrigins: []string{"http://localhost:3000"}},
		JWT:    config.JWTConfig{Secret: "test-secret", AccessExpiry: time.Hour, Issuer: "looply"},
	}
	store := kvstore.NewMemoryStore()
	pub := testutil.NewMockPublisher()
	log := logger.Nop()

	a := app.New(cfg, store, pub, log)
	a.WithClock(func() time.Time { return testNow })

	health := map[string]server.HealthCheck{"storage": store.Health}
	return &api{t: t, handler: a.Router(cfg, health, log), events: pub}
}

func (a *api) do(method, path, token string, body interface{}) (int, testutil.Envelope) {
	a.t.Helper()
	req := testutil.NewHTTPRequest(method, path, body)
	if token != "" {
		testutil.WithBearer(req, token)
	}
	rr := testutil.ExecuteRequest(a.handler, req)
	return rr.Code, testutil.DecodeEnvelope(a.t, rr, nil)
}

func (a *api) decode(method, path, token string, body, target interface{}) int {
	a.t.Helper()
	req := testutil.NewHTTPRequest(method, path, body)
	if token != "" {
		testutil.WithBearer(req, token)
	}
	rr := testutil.ExecuteRequest(a.handler, req)
	testutil.DecodeEnvelope(a.t, rr, target)
	return rr.Code
}

type tokenBody struct {
	AccessToken string `json:"accessToken"`
}

// employer signs up and creates a company, returning a company-scoped token
func (a *api) employer() string {
	a.t.Helper()
	var signup tokenBody
	code := a.decode(http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"email": "amanda@example.com", "password": "correct-horse", "name": "Amanda Thompson",
	}, &signup)
	require.Equal(a.t, http.StatusCreated, code)

	var created struct {
		Company struct {
			ID        string    `json:"id"`
			Timezone  string    `json:"timezone"`
			CreatedAt time.Time `json:"createdAt"`
		} `json:"company"`
		Auth tokenBody `json:"auth"`
	}
	code = a.decode(http.MethodPost, "/api/v1/company", signup.AccessToken, map[string]string{"name": "Acme Inc"}, &created)
	require.Equal(a.t, http.StatusCreated, code)
	require.NotEmpty(a.t, created.Company.ID)
	assert.Equal(a.t, "UTC", created.Company.Timezone)
	assert.True(a.t, testNow.Equal(created.Company.CreatedAt))
	return created.Auth.AccessToken
}

func (a *api) addEmployee(token, name string) (id, accessCode string) {
	a.t.Helper()
	var emp struct {
		ID         string    `json:"id"`
		AccessCode string    `json:"accessCode"`
		CreatedAt  time.Time `json:"createdAt"`
	}
	code := a.decode(http.MethodPost, "/api/v1/employees", token, map[string]string{"name": name, "position": "QA Engineer"}, &emp)
	require.Equal(a.t, http.StatusCreated, code)
	require.Len(a.t, emp.AccessCode, 8)
	assert.True(a.t, testNow.Equal(emp.CreatedAt))
	return emp.ID, emp.AccessCode
}

func (a *api) employeeToken(accessCode string) string {
	a.t.Helper()
	var tok tokenBody
	code := a.decode(http.MethodPost, "/api/v1/auth/access-code", "", map[string]string{"accessCode": strings.ToLower(accessCode)}, &tok)
	require.Equal(a.t, http.StatusOK, code)
	return tok.AccessToken
}

func TestHealth(t *testing.T) {
	a := newAPI(t)
	code, env := a.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, env.Success)
	assert.Contains(t, string(env.Data), `"healthy"`)
}

func TestCompanyRequiredBeforeRoster(t *testing.T) {
	a := newAPI(t)
	var signup tokenBody
	a.decode(http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"email": "owner@example.com", "password": "correct-horse", "name": "Owner",
	}, &signup)

	code, env := a.do(http.MethodGet, "/api/v1/employees", signup.AccessToken, nil)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "FORBIDDEN", env.Error.Code)
}

func TestCreateCompanyTwiceConflicts(t *testing.T) {
	a := newAPI(t)
	token := a.employer()

	code, env := a.do(http.MethodPost, "/api/v1/company", token, map[string]string{"name": "Second"})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "CONFLICT", env.Error.Code)
}

func TestReportLifecycle(t *testing.T) {
	a := newAPI(t)
	employer := a.employer()
	_, accessCode := a.addEmployee(employer, "Sarah Johnson")
	a.addEmployee(employer, "James Wilson")
	employee := a.employeeToken(accessCode)

	var draft struct {
		ID         string  `json:"id"`
		Status     string  `json:"status"`
		TotalHours float64 `json:"totalHours"`
	}
	code := a.decode(http.MethodPut, "/api/v1/me/reports/"+today, employee, map[string]interface{}{
		"summary": "Fixed the login page",
		"shifts": []map[string]interface{}{
			{"startTime": "08:00", "endTime": "16:00", "breakMinutes": 60, "description": "Regular shift"},
		},
	}, &draft)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "draft", draft.Status)
	assert.InDelta(t, 7.0, draft.TotalHours, 1e-9)

	code = a.decode(http.MethodPost, "/api/v1/me/reports/"+today+"/submit", employee, nil, &draft)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "submitted", draft.Status)
	a.events.AssertEventPublished(t, "eod.report.submitted")

	code, env := a.do(http.MethodPut, "/api/v1/me/reports/"+today, employee, map[string]interface{}{"summary": "late edit"})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "CONFLICT", env.Error.Code)

	var stats struct {
		TotalSubmissions int     `json:"totalSubmissions"`
		PendingEODs      int     `json:"pendingEODs"`
		ActiveEmployees  int     `json:"activeEmployees"`
		AverageHours     float64 `json:"averageHours"`
	}
	code = a.decode(http.MethodGet, "/api/v1/reports/stats", employer, nil, &stats)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 1, stats.TotalSubmissions)
	assert.Equal(t, 1, stats.PendingEODs)
	assert.Equal(t, 2, stats.ActiveEmployees)
	assert.InDelta(t, 7.0, stats.AverageHours, 1e-9)

	var reports []map[string]interface{}
	code = a.decode(http.MethodGet, "/api/v1/reports?status=submitted", employer, nil, &reports)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, reports, 1)

	rr := testutil.ExecuteRequest(a.handler, testutil.WithBearer(testutil.NewHTTPRequest(http.MethodGet, "/api/v1/reports/export", nil), employer))
	testutil.AssertStatus(t, rr, http.StatusOK)
	assert.Equal(t, "text/csv; charset=utf-8", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "eod-reports-2024-01-15.csv")
	assert.Equal(t,
		"Date,Employee,Total Hours,Shifts,Summary,Status\n"+
			`2024-01-15,"Sarah Johnson",7.00,"08:00-16:00 (60min break) - Regular shift","Fixed the login page",submitted`,
		rr.Body.String())
}

func TestEmployeeRoutesRejectBadInput(t *testing.T) {
	a := newAPI(t)
	employer := a.employer()
	_, accessCode := a.addEmployee(employer, "Sarah Johnson")
	employee := a.employeeToken(accessCode)

	code, env := a.do(http.MethodPut, "/api/v1/me/reports/15-01-2024", employee, map[string]interface{}{"summary": "x"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)

	code, env = a.do(http.MethodPut, "/api/v1/me/reports/"+today, employee, map[string]interface{}{
		"shifts": []map[string]interface{}{{"startTime": "25:00", "endTime": "16:00"}},
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)

	code, env = a.do(http.MethodPost, "/api/v1/me/reports/"+today+"/submit", employee, nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "REPORT_NOT_FOUND", env.Error.Code)
}

func TestRoleSeparation(t *testing.T) {
	a := newAPI(t)
	employer := a.employer()
	_, accessCode := a.addEmployee(employer, "Sarah Johnson")
	employee := a.employeeToken(accessCode)

	code, _ := a.do(http.MethodGet, "/api/v1/employees", employee, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = a.do(http.MethodGet, "/api/v1/me/reports", employer, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = a.do(http.MethodGet, "/api/v1/me/reports", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestDeactivatedEmployeeCannotReport(t *testing.T) {
	a := newAPI(t)
	employer := a.employer()
	id, accessCode := a.addEmployee(employer, "Sarah Johnson")
	employee := a.employeeToken(accessCode)

	code, _ := a.do(http.MethodPatch, "/api/v1/employees/"+id+"/active", employer, map[string]bool{"isActive": false})
	require.Equal(t, http.StatusOK, code)

	code, env := a.do(http.MethodPut, "/api/v1/me/reports/"+today, employee, map[string]interface{}{"summary": "x"})
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "FORBIDDEN", env.Error.Code)

	req := testutil.WithBearer(testutil.NewHTTPRequest(http.MethodDelete, "/api/v1/employees/"+id, nil), employer)
	rr := testutil.ExecuteRequest(a.handler, req)
	testutil.AssertStatus(t, rr, http.StatusNoContent)
	a.events.AssertEventPublished(t, "company.employee.removed")
}

func TestMe(t *testing.T) {
	a := newAPI(t)
	employer := a.employer()

	var me struct {
		User struct {
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"user"`
		Company struct {
			Name string `json:"name"`
		} `json:"company"`
	}
	code := a.decode(http.MethodGet, "/api/v1/auth/me", employer, nil, &me)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "amanda@example.com", me.User.Email)
	assert.Equal(t, "employer", me.User.Role)
	assert.Equal(t, "Acme Inc", me.Company.Name)
}
