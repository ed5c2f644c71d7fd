package workflow

import "genai-hiring-backend/internal/model"

// CanEditJob reports whether an actor may edit a job's content. Admins always
// may; an account manager only for jobs they created. Once the job leaves
// draft, mutation rights expand to HR so the approval flow can touch it.
func CanEditJob(user model.User, job model.Job) bool {
	switch user.Role {
	case model.RoleAdmin:
		return true
	case model.RoleAccountManager:
		return job.CreatedBy == user.ID
	case model.RoleHR:
		return job.Status != model.JobStatusDraft
	default:
		return false
	}
}

// CanDeleteJob reports whether an actor may delete a job. Deletion stays with
// the admin or the creating account manager, HR never deletes.
func CanDeleteJob(user model.User, job model.Job) bool {
	if user.Role == model.RoleAdmin {
		return true
	}
	return user.Role == model.RoleAccountManager && job.CreatedBy == user.ID
}

// CanReviewApplications reports whether a role may see and mutate candidate
// applications.
func CanReviewApplications(role string) bool {
	return role == model.RoleHR || role == model.RoleAdmin
}
