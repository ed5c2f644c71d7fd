package workflow

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"genai-hiring-backend/internal/model"
)

func TestCanEditJob(t *testing.T) {
	owner := model.User{ID: uuid.New(), Role: model.RoleAccountManager}
	other := model.User{ID: uuid.New(), Role: model.RoleAccountManager}
	hr := model.User{ID: uuid.New(), Role: model.RoleHR}
	admin := model.User{ID: uuid.New(), Role: model.RoleAdmin}

	draft := model.Job{CreatedBy: owner.ID, Status: model.JobStatusDraft}
	pending := model.Job{CreatedBy: owner.ID, Status: model.JobStatusPendingApproval}

	assert.True(t, CanEditJob(owner, draft))
	assert.False(t, CanEditJob(other, draft))
	assert.True(t, CanEditJob(admin, draft))

	// HR cannot touch drafts but may edit once the job enters the workflow.
	assert.False(t, CanEditJob(hr, draft))
	assert.True(t, CanEditJob(hr, pending))

	assert.False(t, CanEditJob(model.User{ID: uuid.New(), Role: "candidate"}, draft))
}

func TestCanDeleteJob(t *testing.T) {
	owner := model.User{ID: uuid.New(), Role: model.RoleAccountManager}
	hr := model.User{ID: uuid.New(), Role: model.RoleHR}
	admin := model.User{ID: uuid.New(), Role: model.RoleAdmin}

	job := model.Job{CreatedBy: owner.ID, Status: model.JobStatusPublished}

	assert.True(t, CanDeleteJob(owner, job))
	assert.True(t, CanDeleteJob(admin, job))
	assert.False(t, CanDeleteJob(hr, job))
}

func TestCanReviewApplications(t *testing.T) {
	assert.True(t, CanReviewApplications(model.RoleHR))
	assert.True(t, CanReviewApplications(model.RoleAdmin))
	assert.False(t, CanReviewApplications(model.RoleAccountManager))
	assert.False(t, CanReviewApplications(""))
}
