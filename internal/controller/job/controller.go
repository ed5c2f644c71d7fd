// Package job provides HTTP handlers for job posting related operations.
package job

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"genai-hiring-backend/internal/database"
	"genai-hiring-backend/internal/model"
	"genai-hiring-backend/internal/utilities"
	"genai-hiring-backend/internal/workflow"
)

// JobController handles job posting related endpoints
type JobController struct {
	DB *database.DBinstanceStruct
}

// NewJobController creates a new instance of JobController
func NewJobController(db *database.DBinstanceStruct) *JobController {
	return &JobController{
		DB: db,
	}
}

// JobResponse decorates a job with its presentation and the transitions the
// viewer may invoke on it.
type JobResponse struct {
	model.Job
	StatusLabel string            `json:"status_label"`
	StatusColor string            `json:"status_color"`
	Actions     []workflow.Action `json:"actions"`
}

func toResponse(job model.Job, viewer model.User) JobResponse {
	return JobResponse{
		Job:         job,
		StatusLabel: workflow.JobStatusLabel(job.Status),
		StatusColor: workflow.JobStatusColor(job.Status),
		Actions:     workflow.JobActions(job.Status, viewer.Role),
	}
}

type updateJobRequest struct {
	model.EditableJobInfo
	Status *string `json:"status"`
}

// companyScoped narrows job queries to the caller's company unless the caller
// is an admin.
func (jc *JobController) companyScoped(user model.User) *gorm.DB {
	query := jc.DB.Model(&model.Job{})
	if user.Role != model.RoleAdmin {
		query = query.Where("company_id = ?", user.CompanyID)
	}
	return query
}

// CreateJob handles the creation of a new job posting.
// @Summary Create a job posting in draft status
// @Description Only account managers and admins have access to this endpoint. New postings always start as drafts.
// @Tags Job
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param Job body model.EditableJobInfo true "Input job information"
// @Success 201 {object} JobResponse "Successfully created job posting"
// @Failure 400 {object} utilities.ErrorResponse "Invalid authorization header, or invalid job struct"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Role not allowed to create job postings"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs [post]
func (jc *JobController) CreateJob(c *gin.Context) {

	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	if user.CompanyID == nil {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{Error: "User does not belong to a company"})
		return
	}

	job := model.Job{}
	decoder := json.NewDecoder(c.Request.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&job.EditableJobInfo); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	if err := job.EditableJobInfo.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	job.Status = model.JobStatusDraft
	job.CompanyID = *user.CompanyID
	job.CreatedBy = user.ID
	if err := jc.DB.Create(&job).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprint("Failed to create job posting: ", err),
		})
		return
	}

	c.JSON(http.StatusCreated, toResponse(job, user))
}

// GetJobs fetches the company's job postings that match the query.
// @Summary Get the company's job postings based on query
// @Description Every query is optional. Non-admin results are scoped to the caller's company; admins see every company.
// @Tags Job
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param status query string false "Filter by workflow status"
// @Param created_by_me query boolean false "Only postings created by the caller"
// @Param sort query string false "Sort column, 'created_at' (default) or 'title'"
// @Param order query string false "'asc' or 'desc' (default)"
// @Param limit query integer false "Maximum number of postings to return"
// @Success 200 {array} JobResponse "Return matching job posting(s)"
// @Failure 400 {object} utilities.ErrorResponse "Invalid query parameter"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs [get]
func (jc *JobController) GetJobs(c *gin.Context) {

	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	rawStatus := c.Query("status")
	rawCreatedByMe := c.Query("created_by_me")
	rawSort := c.DefaultQuery("sort", "created_at")
	rawOrder := c.DefaultQuery("order", "desc")
	rawLimit := c.Query("limit")

	if rawStatus != "" && !workflow.ValidJobStatus(rawStatus) {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Unknown status %q", rawStatus),
		})
		return
	}

	if rawSort != "created_at" && rawSort != "title" {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "sort must be 'created_at' or 'title'",
		})
		return
	}

	result := jc.companyScoped(user)

	if rawStatus != "" {
		result = result.Where("status = ?", rawStatus)
	}

	if rawCreatedByMe == "true" {
		result = result.Where("created_by = ?", user.ID)
	}

	if rawLimit != "" {
		limit, err := strconv.Atoi(rawLimit)
		if err != nil || limit <= 0 {
			c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "limit must be a positive integer"})
			return
		}
		result = result.Limit(limit)
	}

	var jobs []model.Job
	result = result.Order(clause.OrderByColumn{
		Column: clause.Column{Name: rawSort},
		Desc:   rawOrder != "asc",
	}).Find(&jobs)

	if err := result.Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprint("Failed to fetch job postings: ", err.Error()),
		})
		return
	}

	resp := []JobResponse{}
	for _, j := range jobs {
		resp = append(resp, toResponse(j, user))
	}

	c.JSON(http.StatusOK, resp)
}

// GetJobByID fetches a job posting by its ID.
// @Summary Get job posting by ID
// @Description Retrieve a specific job posting of the caller's company. Admins may retrieve any company's posting.
// @Tags Job
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of desired job posting"
// @Success 200 {object} JobResponse "Return the job posting with the specified ID"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Job posting not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs/{id} [get]
func (jc *JobController) GetJobByID(c *gin.Context) {
	id := c.Param("id")

	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	job := model.Job{}
	if err := jc.companyScoped(user).
		Where("id = ?", id).
		First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Job posting not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve job posting: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, toResponse(job, user))
}

// UpdateJob updates a job posting's content and optionally moves it along the
// workflow when the body carries a status field.
// @Summary Edit job posting based on given json structure
// @Description Admins always may edit; account managers only their own postings; HR once the posting left draft. A status field moves the posting through the workflow when the transition is legal for the caller's role.
// @Tags Job
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of desired job posting"
// @Param Job body updateJobRequest true "Updated job information"
// @Success 200 {object} JobResponse "Successfully updated job posting"
// @Failure 400 {object} utilities.ErrorResponse "Invalid body or illegal status transition"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Do not have permission to edit"
// @Failure 404 {object} utilities.ErrorResponse "Job posting not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs/{id} [put]
func (jc *JobController) UpdateJob(c *gin.Context) {

	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	id := c.Param("id")

	job := model.Job{}
	if err := jc.companyScoped(user).Where("id = ?", id).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Job posting not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve job posting: %s", err.Error()),
		})
		return
	}

	if !workflow.CanEditJob(user, job) {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{
			Error: "You are not allowed to edit this job posting",
		})
		return
	}

	var req updateJobRequest
	decoder := json.NewDecoder(c.Request.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to parse request body: %s", err.Error()),
		})
		return
	}

	if err := req.EditableJobInfo.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	// A status change rides along the update but is validated against the
	// workflow table before anything is written.
	if req.Status != nil && *req.Status != job.Status {
		if err := workflow.JobTransition(job.Status, *req.Status, user.Role); err != nil {
			c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
			return
		}
		job.Status = *req.Status
		now := time.Now()
		switch *req.Status {
		case model.JobStatusApproved:
			job.ApprovedBy = &user.ID
			job.ApprovedAt = &now
		case model.JobStatusPublished:
			job.PublishedAt = &now
		}
	}

	job.EditableJobInfo = req.EditableJobInfo
	if err := jc.DB.Save(&job).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update job posting: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, toResponse(job, user))
}

// DeleteJob deletes a job posting together with its applications.
// @Summary Delete given job posting ID
// @Description Only the creating account manager or an admin may delete a posting
// @Tags Job
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of desired job posting"
// @Success 200 {object} utilities.MessageResponse "Successfully deleted job posting"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Do not have permission to delete this posting"
// @Failure 404 {object} utilities.ErrorResponse "Job posting not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs/{id} [delete]
func (jc *JobController) DeleteJob(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}
	id := c.Param("id")

	job := model.Job{}
	if err := jc.companyScoped(user).Where("id = ?", id).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Job posting not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve job posting: %s", err.Error()),
		})
		return
	}

	if !workflow.CanDeleteJob(user, job) {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{
			Error: "You are not allowed to delete this job posting",
		})
		return
	}

	if err := jc.DB.Select(clause.Associations).Delete(&job).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to delete job posting: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, utilities.MessageResponse{Message: "Job posting deleted"})
}

// ApproveJob marks a job posting as approved by the caller.
// @Summary Approve a job posting
// @Description Only HR and admins may approve. Fails when the posting is already approved or published.
// @Tags Job
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of desired job posting"
// @Success 200 {object} JobResponse "Successfully approved job posting"
// @Failure 400 {object} utilities.ErrorResponse "Posting already approved or published"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Job posting not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs/{id}/approve [patch]
func (jc *JobController) ApproveJob(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}
	id := c.Param("id")

	job := model.Job{}
	if err := jc.companyScoped(user).Where("id = ?", id).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Job posting not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve job posting: %s", err.Error()),
		})
		return
	}

	if job.Status == model.JobStatusApproved || job.Status == model.JobStatusPublished {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Job posting is already approved"})
		return
	}

	now := time.Now()
	job.Status = model.JobStatusApproved
	job.ApprovedBy = &user.ID
	job.ApprovedAt = &now
	if err := jc.DB.Save(&job).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to approve job posting: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, toResponse(job, user))
}

// PublishJob makes an approved job posting publicly visible.
// @Summary Publish a job posting
// @Description Only HR and admins may publish, and only from the approved status.
// @Tags Job
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of desired job posting"
// @Success 200 {object} JobResponse "Successfully published job posting"
// @Failure 400 {object} utilities.ErrorResponse "Posting is not approved"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Job posting not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs/{id}/publish [patch]
func (jc *JobController) PublishJob(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}
	id := c.Param("id")

	job := model.Job{}
	if err := jc.companyScoped(user).Where("id = ?", id).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Job posting not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve job posting: %s", err.Error()),
		})
		return
	}

	if job.Status != model.JobStatusApproved {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Job posting must be approved before publishing"})
		return
	}

	now := time.Now()
	job.Status = model.JobStatusPublished
	job.PublishedAt = &now
	if err := jc.DB.Save(&job).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to publish job posting: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, toResponse(job, user))
}

// RejectJob sends a pending job posting back to its creator as a draft.
// @Summary Reject a job posting back to draft
// @Description Only HR and admins may reject, and only from the pending_approval status.
// @Tags Job
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of desired job posting"
// @Success 200 {object} JobResponse "Posting returned to draft"
// @Failure 400 {object} utilities.ErrorResponse "Posting is not pending approval"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Job posting not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs/{id}/reject [patch]
func (jc *JobController) RejectJob(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}
	id := c.Param("id")

	job := model.Job{}
	if err := jc.companyScoped(user).Where("id = ?", id).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Job posting not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve job posting: %s", err.Error()),
		})
		return
	}

	if err := workflow.JobTransition(job.Status, model.JobStatusDraft, user.Role); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	job.Status = model.JobStatusDraft
	if err := jc.DB.Save(&job).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to reject job posting: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, toResponse(job, user))
}

// GetPublicJobs fetches published job postings for the public careers page.
// @Summary Get published job postings
// @Description No authentication required. Postings of deactivated companies are hidden.
// @Tags Public
// @Produce json
// @Param department query string false "Department, exact match"
// @Param location query string false "Location with substring matching and case insensitive"
// @Param job_type query string false "Job type, exact match"
// @Param search query string false "Search in title and description with substring matching and case insensitive"
// @Success 200 {array} model.Job "Return published job posting(s)"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /public/jobs [get]
func (jc *JobController) GetPublicJobs(c *gin.Context) {

	rawDepartment := c.Query("department")
	rawLocation := c.Query("location")
	rawJobType := c.Query("job_type")
	rawSearch := c.Query("search")

	result := jc.DB.
		Joins("JOIN companies ON companies.id = jobs.company_id").
		Where("jobs.status = ?", model.JobStatusPublished).
		Where("companies.is_active = ?", true)

	if rawDepartment != "" {
		result = result.Where("jobs.department = ?", rawDepartment)
	}

	if rawLocation != "" {
		result = result.Where("jobs.location ILIKE ?", "%"+rawLocation+"%")
	}

	if rawJobType != "" {
		result = result.Where("jobs.job_type = ?", rawJobType)
	}

	if rawSearch != "" {
		result = result.Where("jobs.title ILIKE ? OR jobs.description ILIKE ?", "%"+rawSearch+"%", "%"+rawSearch+"%")
	}

	var jobs []model.Job
	if err := result.Order("jobs.published_at DESC").Find(&jobs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprint("Failed to fetch job postings: ", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, jobs)
}

// GetPublicJobByID fetches one published job posting for the public careers page.
// @Summary Get a published job posting by ID
// @Description No authentication required. Unpublished postings are reported as not found.
// @Tags Public
// @Produce json
// @Param id path integer true "ID of desired job posting"
// @Success 200 {object} model.Job "Return the published job posting"
// @Failure 404 {object} utilities.ErrorResponse "Job posting not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /public/jobs/{id} [get]
func (jc *JobController) GetPublicJobByID(c *gin.Context) {
	id := c.Param("id")

	job := model.Job{}
	if err := jc.DB.
		Where("id = ? AND status = ?", id, model.JobStatusPublished).
		First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Job posting not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve job posting: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, job)
}
