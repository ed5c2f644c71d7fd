package job

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/testcontainers/testcontainers-go"

	"genai-hiring-backend/internal/auth"
	"genai-hiring-backend/internal/database"
	"genai-hiring-backend/internal/middleware"
	"genai-hiring-backend/internal/model"
	"genai-hiring-backend/internal/testutil"
	"genai-hiring-backend/internal/utilities"
)

var testDB *database.DBinstanceStruct

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)

	var err error
	var jobTeardown func(context.Context, ...testcontainers.TerminateOption) error
	jobTeardown, testDB, err = database.GetTestDB()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start test db: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if jobTeardown != nil {
		_ = jobTeardown(ctx)
	}
	os.Exit(code)
}

// jobEngine wires the job routes with the same middleware stack as the server.
func jobEngine() *gin.Engine {
	jc := NewJobController(testDB)
	r := gin.New()

	authed := r.Group("/api/jobs", middleware.RequireAuth(testDB))
	authed.POST("", middleware.CheckRole(model.RoleAccountManager, model.RoleAdmin), jc.CreateJob)
	authed.GET("", jc.GetJobs)
	authed.GET("/:id", jc.GetJobByID)
	authed.PUT("/:id", jc.UpdateJob)
	authed.DELETE("/:id", jc.DeleteJob)
	authed.PATCH("/:id/approve", middleware.CheckRole(model.RoleHR, model.RoleAdmin), jc.ApproveJob)
	authed.PATCH("/:id/publish", middleware.CheckRole(model.RoleHR, model.RoleAdmin), jc.PublishJob)
	authed.PATCH("/:id/reject", middleware.CheckRole(model.RoleHR, model.RoleAdmin), jc.RejectJob)

	r.GET("/api/public/jobs", jc.GetPublicJobs)
	r.GET("/api/public/jobs/:id", jc.GetPublicJobByID)
	return r
}

func managerToken(t *testing.T) string {
	t.Helper()
	token, err := auth.GetAccessToken(t, testDB, database.TestManagerUser.Email, database.TestSeedPassword)
	assert.NoError(t, err)
	return token
}

func hrToken(t *testing.T) string {
	t.Helper()
	token, err := auth.GetAccessToken(t, testDB, database.TestHRUser.Email, database.TestSeedPassword)
	assert.NoError(t, err)
	return token
}

func TestCreateJobStartsAsDraft(t *testing.T) {
	engine := jobEngine()

	rec, resp := testutil.MakeJSONRequest(gin.H{
		"title":       "Platform Engineer",
		"description": "Own the deployment pipeline.",
		"department":  "Engineering",
		"location":    "Remote",
		"job_type":    "full-time",
	}, managerToken(t), engine, "/api/jobs", http.MethodPost)

	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "draft", resp["status"])
	assert.Equal(t, "Draft", resp["status_label"])

	// Creator sees exactly one action out of draft
	actions, ok := resp["actions"].([]interface{})
	assert.True(t, ok, "actions missing")
	assert.Len(t, actions, 1)
	action := actions[0].(map[string]interface{})
	assert.Equal(t, "submit_for_approval", action["name"])
}

func TestCreateJobRejectsInvalidSalaryRange(t *testing.T) {
	engine := jobEngine()

	rec, resp := testutil.MakeJSONRequest(gin.H{
		"title":      "Bad Salary Range",
		"salary_min": 90000,
		"salary_max": 60000,
	}, managerToken(t), engine, "/api/jobs", http.MethodPost)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	errMsg, _ := resp["error"].(string)
	assert.Contains(t, errMsg, "salary_min")
}

func TestCreateJobForbiddenForHR(t *testing.T) {
	engine := jobEngine()

	rec, resp := testutil.MakeJSONRequest(gin.H{
		"title": "HR Should Not Create",
	}, hrToken(t), engine, "/api/jobs", http.MethodPost)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, resp["error"], "permission")
}

// TestJobLifecycle walks a posting from creation all the way to the public
// careers page: draft, submitted, approved, published.
func TestJobLifecycle(t *testing.T) {
	engine := jobEngine()
	manager := managerToken(t)
	hr := hrToken(t)

	// Account manager drafts a posting
	rec, resp := testutil.MakeJSONRequest(gin.H{
		"title":       "Lifecycle Engineer",
		"description": "Job used by the lifecycle test.",
		"department":  "Engineering",
		"location":    "Remote",
		"job_type":    "full-time",
	}, manager, engine, "/api/jobs", http.MethodPost)
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	id := int(resp["id"].(float64))

	// Not visible publicly while in draft
	pubRec, _ := testutil.MakeJSONRequest(nil, "", engine, fmt.Sprintf("/api/public/jobs/%d", id), http.MethodGet)
	assert.Equal(t, http.StatusNotFound, pubRec.Code)

	// Manager submits it for approval through the update endpoint
	rec, resp = testutil.MakeJSONRequest(gin.H{
		"title":       "Lifecycle Engineer",
		"description": "Job used by the lifecycle test.",
		"department":  "Engineering",
		"location":    "Remote",
		"job_type":    "full-time",
		"status":      "pending_approval",
	}, manager, engine, fmt.Sprintf("/api/jobs/%d", id), http.MethodPut)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "pending_approval", resp["status"])
	assert.Equal(t, "Pending Approval", resp["status_label"])

	// HR approves
	rec, resp = testutil.MakeJSONRequest(nil, hr, engine, fmt.Sprintf("/api/jobs/%d/approve", id), http.MethodPatch)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "approved", resp["status"])
	assert.Equal(t, database.TestHRUser.ID.String(), resp["approved_by"])
	assert.NotNil(t, resp["approved_at"])

	// Approving twice fails
	rec, resp = testutil.MakeJSONRequest(nil, hr, engine, fmt.Sprintf("/api/jobs/%d/approve", id), http.MethodPatch)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, resp["error"], "already approved")

	// HR publishes
	rec, resp = testutil.MakeJSONRequest(nil, hr, engine, fmt.Sprintf("/api/jobs/%d/publish", id), http.MethodPatch)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "published", resp["status"])
	assert.NotNil(t, resp["published_at"])

	// Now it is on the careers page
	pubRec, pubResp := testutil.MakeJSONRequest(nil, "", engine, fmt.Sprintf("/api/public/jobs/%d", id), http.MethodGet)
	assert.Equal(t, http.StatusOK, pubRec.Code)
	assert.Equal(t, "Lifecycle Engineer", pubResp["title"])
}

func TestPublishRequiresApproved(t *testing.T) {
	engine := jobEngine()

	// Seeded draft job is not approvable into published directly
	rec, resp := testutil.MakeJSONRequest(nil, hrToken(t), engine,
		fmt.Sprintf("/api/jobs/%d/publish", database.TestJobDraft.ID), http.MethodPatch)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, resp["error"], "must be approved")
}

func TestRejectReturnsPendingJobToDraft(t *testing.T) {
	engine := jobEngine()

	pending := model.Job{
		EditableJobInfo: model.EditableJobInfo{Title: "Reject Me"},
		Status:          model.JobStatusPendingApproval,
		CompanyID:       database.TestCompany.ID,
		CreatedBy:       database.TestManagerUser.ID,
	}
	assert.NoError(t, testDB.Create(&pending).Error)

	rec, resp := testutil.MakeJSONRequest(nil, hrToken(t), engine,
		fmt.Sprintf("/api/jobs/%d/reject", pending.ID), http.MethodPatch)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "draft", resp["status"])

	// Rejecting a draft again is illegal
	rec, resp = testutil.MakeJSONRequest(nil, hrToken(t), engine,
		fmt.Sprintf("/api/jobs/%d/reject", pending.ID), http.MethodPatch)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, resp["error"], "cannot move")
}

func TestUpdateJobOwnership(t *testing.T) {
	engine := jobEngine()

	// TestJobDraft belongs to manager1; manager2 may not edit it
	token, err := auth.GetAccessToken(t, testDB, database.TestManagerUser2.Email, database.TestSeedPassword)
	assert.NoError(t, err)

	rec, resp := testutil.MakeJSONRequest(gin.H{
		"title": "Hijacked",
	}, token, engine, fmt.Sprintf("/api/jobs/%d", database.TestJobDraft.ID), http.MethodPut)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, resp["error"], "not allowed to edit")
}

func TestHRCannotEditDraft(t *testing.T) {
	engine := jobEngine()

	rec, resp := testutil.MakeJSONRequest(gin.H{
		"title": "HR Touch",
	}, hrToken(t), engine, fmt.Sprintf("/api/jobs/%d", database.TestJobDraft.ID), http.MethodPut)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, resp["error"], "not allowed to edit")
}

func TestGetJobsFiltersByStatus(t *testing.T) {
	engine := jobEngine()

	rec, list := testutil.MakeJSONListRequest(managerToken(t), engine, "/api/jobs?status=published")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, list)
	for _, item := range list {
		assert.Equal(t, "published", item["status"])
	}

	rec, _ = testutil.MakeJSONListRequest(managerToken(t), engine, "/api/jobs?status=bogus")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetJobsCreatedByMe(t *testing.T) {
	engine := jobEngine()

	rec, list := testutil.MakeJSONListRequest(managerToken(t), engine, "/api/jobs?created_by_me=true")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, list)
	for _, item := range list {
		assert.Equal(t, database.TestManagerUser.ID.String(), item["created_by"])
	}
}

func TestPublicJobsOnlyPublished(t *testing.T) {
	engine := jobEngine()

	rec, list := testutil.MakeJSONListRequest("", engine, "/api/public/jobs")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, list)
	for _, item := range list {
		assert.Equal(t, "published", item["status"])
	}
}

func TestPublicJobsSearch(t *testing.T) {
	engine := jobEngine()

	rec, list := testutil.MakeJSONListRequest("", engine, "/api/public/jobs?search=careers+page")
	assert.Equal(t, http.StatusOK, rec.Code)
	for _, item := range list {
		assert.Equal(t, "Frontend Developer", item["title"])
	}
}

func TestDeleteJobForbiddenForHR(t *testing.T) {
	engine := jobEngine()

	rec, resp := testutil.MakeJSONRequest(nil, hrToken(t), engine,
		fmt.Sprintf("/api/jobs/%d", database.TestJobPending.ID), http.MethodDelete)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, resp["error"], "not allowed to delete")
}

func TestDeleteOwnJob(t *testing.T) {
	engine := jobEngine()

	victim := model.Job{
		EditableJobInfo: model.EditableJobInfo{Title: "Delete Me"},
		Status:          model.JobStatusDraft,
		CompanyID:       database.TestCompany.ID,
		CreatedBy:       database.TestManagerUser.ID,
	}
	assert.NoError(t, testDB.Create(&victim).Error)

	rec, resp := testutil.MakeJSONRequest(nil, managerToken(t), engine,
		fmt.Sprintf("/api/jobs/%d", victim.ID), http.MethodDelete)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Job posting deleted", resp["message"])
}

// TestAdminCrossCompanyAccess covers the platform admin, who belongs to no
// company and must still see and manage every company's postings.
func TestAdminCrossCompanyAccess(t *testing.T) {
	engine := jobEngine()

	hashed, err := utilities.HashPassword(database.TestSeedPassword)
	assert.NoError(t, err)
	globalAdmin := model.User{
		ID:       uuid.New(),
		Email:    "global.admin@example.com",
		FullName: "Global Admin",
		Password: hashed,
		Role:     model.RoleAdmin,
		IsActive: true,
	}
	assert.NoError(t, testDB.Create(&globalAdmin).Error)
	token, err := auth.GetAccessToken(t, testDB, globalAdmin.Email, database.TestSeedPassword)
	assert.NoError(t, err)

	otherPending := model.Job{
		EditableJobInfo: model.EditableJobInfo{Title: "Orbit Pending"},
		Status:          model.JobStatusPendingApproval,
		CompanyID:       database.TestCompany2.ID,
		CreatedBy:       database.TestManagerUser.ID,
	}
	assert.NoError(t, testDB.Create(&otherPending).Error)

	// The list spans companies
	rec, list := testutil.MakeJSONListRequest(token, engine, "/api/jobs")
	assert.Equal(t, http.StatusOK, rec.Code)
	companies := map[float64]bool{}
	for _, item := range list {
		companies[item["company_id"].(float64)] = true
	}
	assert.True(t, companies[float64(database.TestCompany.ID)])
	assert.True(t, companies[float64(database.TestCompany2.ID)])

	// Detail view of another company's posting
	rec, resp := testutil.MakeJSONRequest(nil, token, engine,
		fmt.Sprintf("/api/jobs/%d", otherPending.ID), http.MethodGet)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Orbit Pending", resp["title"])

	// Transitions on another company's posting
	rec, resp = testutil.MakeJSONRequest(nil, token, engine,
		fmt.Sprintf("/api/jobs/%d/approve", otherPending.ID), http.MethodPatch)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "approved", resp["status"])

	rec, resp = testutil.MakeJSONRequest(nil, token, engine,
		fmt.Sprintf("/api/jobs/%d/publish", otherPending.ID), http.MethodPatch)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "published", resp["status"])
}

func TestFallbackJobFieldsBuckets(t *testing.T) {
	tech := fallbackJobFields("Senior Software Engineer")
	assert.Contains(t, tech.KeySkills, "Programming")

	data := fallbackJobFields("Data Analyst")
	assert.Contains(t, data.KeySkills, "SQL")

	other := fallbackJobFields("Office Manager")
	assert.Contains(t, other.KeySkills, "Leadership")
}

func TestFallbackJobDescription(t *testing.T) {
	desc := fallbackJobDescription("Backend Engineer", "Building APIs in Go")
	assert.Contains(t, desc.Description, "Position: Backend Engineer")
	assert.Contains(t, desc.Description, "Responsibilities:")
	assert.Contains(t, desc.ShortDescription, "Backend Engineer")
}
