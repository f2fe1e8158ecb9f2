package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"dispatchhub_backend/internal/middleware"
	"dispatchhub_backend/internal/models"
	"dispatchhub_backend/internal/repositories/repotest"
	"dispatchhub_backend/internal/services"
	"dispatchhub_backend/internal/services/dto"
	"dispatchhub_backend/internal/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type handlerFixture struct {
	router   *gin.Engine
	profiles *repotest.ProfileRepo
	jobSvc   *services.JobService
}

// newHandlerFixture wires the job routes with an identity-injecting stand-in
// for the auth middleware.
func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	jobs := repotest.NewJobRepo()
	profiles := repotest.NewProfileRepo()
	jobSvc := services.NewJobService(jobs, profiles)
	earningsSvc := services.NewEarningsService(jobs, "usd")

	base := NewBaseHandler(validator.New())
	h := NewJobHandler(base, jobSvc, earningsSvc)

	router := gin.New()
	injectIdentity := func(c *gin.Context) {
		c.Set(middleware.ContextUserIDKey, c.GetHeader("X-Test-User"))
		c.Set(middleware.ContextRoleKey, c.GetHeader("X-Test-Role"))
		c.Next()
	}
	api := router.Group("/api/v1", injectIdentity)
	api.POST("/jobs", h.Create)
	api.GET("/jobs", h.List)
	api.GET("/jobs/:id", h.Get)
	api.POST("/jobs/:id/claim", h.Claim)
	api.POST("/jobs/:id/complete", h.Complete)
	api.GET("/earnings", h.Earnings)

	return &handlerFixture{router: router, profiles: profiles, jobSvc: jobSvc}
}

func (f *handlerFixture) addProfile(t *testing.T, role models.UserRole) string {
	t.Helper()
	id := uuid.NewString()
	require.NoError(t, f.profiles.Create(context.Background(), &models.Profile{
		ID: id, Email: id + "@example.com", Role: role,
	}))
	return id
}

func (f *handlerFixture) do(t *testing.T, method, path, userID string, role models.UserRole, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Test-User", userID)
	req.Header.Set("X-Test-Role", string(role))

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestCreateJobEndpoint(t *testing.T) {
	f := newHandlerFixture(t)
	dispatcher := f.addProfile(t, models.UserRoleDispatch)

	w := f.do(t, http.MethodPost, "/api/v1/jobs", dispatcher, models.UserRoleDispatch, gin.H{
		"title":   "Airport run",
		"expense": 30,
		"revenue": 100,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var job dto.JobResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &job))
	assert.Equal(t, "Airport run", job.Title)
	assert.Equal(t, "pending", job.Status)
	assert.Equal(t, dispatcher, job.UserID)
	assert.Equal(t, 70.0, job.NetValue)
}

func TestCreateJobEndpointValidation(t *testing.T) {
	f := newHandlerFixture(t)
	dispatcher := f.addProfile(t, models.UserRoleDispatch)

	w := f.do(t, http.MethodPost, "/api/v1/jobs", dispatcher, models.UserRoleDispatch, gin.H{
		"expense": 30,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Error struct {
			Code    string            `json:"code"`
			Details map[string]string `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "VALIDATION_FAILED", resp.Error.Code)
	assert.Contains(t, resp.Error.Details, "title")
}

func TestClaimEndpointRoundTrip(t *testing.T) {
	f := newHandlerFixture(t)
	dispatcher := f.addProfile(t, models.UserRoleDispatch)
	driver := f.addProfile(t, models.UserRoleDriver)

	w := f.do(t, http.MethodPost, "/api/v1/jobs", dispatcher, models.UserRoleDispatch, gin.H{
		"title": "Round trip", "expense": 10, "revenue": 60,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var job dto.JobResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &job))

	// The driver sees it on the board.
	w = f.do(t, http.MethodGet, "/api/v1/jobs", driver, models.UserRoleDriver, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Jobs  []dto.JobResponse `json:"jobs"`
		Count int               `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Equal(t, 1, list.Count)
	assert.Equal(t, job.ID, list.Jobs[0].ID)

	// Claim, complete, check earnings.
	w = f.do(t, http.MethodPost, "/api/v1/jobs/"+job.ID+"/claim", driver, models.UserRoleDriver, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = f.do(t, http.MethodPost, "/api/v1/jobs/"+job.ID+"/complete", driver, models.UserRoleDriver, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = f.do(t, http.MethodGet, "/api/v1/earnings", driver, models.UserRoleDriver, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var earnings dto.EarningsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &earnings))
	assert.Equal(t, 50.0, earnings.Total)
}

func TestClaimEndpointConflict(t *testing.T) {
	f := newHandlerFixture(t)
	dispatcher := f.addProfile(t, models.UserRoleDispatch)
	first := f.addProfile(t, models.UserRoleDriver)
	second := f.addProfile(t, models.UserRoleDriver)

	w := f.do(t, http.MethodPost, "/api/v1/jobs", dispatcher, models.UserRoleDispatch, gin.H{
		"title": "Contested",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var job dto.JobResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &job))

	w = f.do(t, http.MethodPost, "/api/v1/jobs/"+job.ID+"/claim", first, models.UserRoleDriver, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = f.do(t, http.MethodPost, "/api/v1/jobs/"+job.ID+"/claim", second, models.UserRoleDriver, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	var resp struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_STATUS", resp.Error.Code)
}

func TestClaimEndpointUnknownJob(t *testing.T) {
	f := newHandlerFixture(t)
	driver := f.addProfile(t, models.UserRoleDriver)

	w := f.do(t, http.MethodPost, "/api/v1/jobs/"+uuid.NewString()+"/claim", driver, models.UserRoleDriver, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateJobEndpointAsDriverForbidden(t *testing.T) {
	f := newHandlerFixture(t)
	driver := f.addProfile(t, models.UserRoleDriver)

	w := f.do(t, http.MethodPost, "/api/v1/jobs", driver, models.UserRoleDriver, gin.H{
		"title": "Nope",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}
