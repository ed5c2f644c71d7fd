// Package application provides HTTP handlers for candidate application operations.
package application

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"genai-hiring-backend/internal/controller/file"
	"genai-hiring-backend/internal/database"
	"genai-hiring-backend/internal/model"
	"genai-hiring-backend/internal/utilities"
	"genai-hiring-backend/internal/workflow"
)

// ApplicationController handles candidate application related endpoints
type ApplicationController struct {
	DB      *database.DBinstanceStruct
	Storage file.StorageClient
}

// NewApplicationController creates a new instance of ApplicationController with the provided database connection.
func NewApplicationController(db *database.DBinstanceStruct, storage file.StorageClient) *ApplicationController {
	return &ApplicationController{
		DB:      db,
		Storage: storage,
	}
}

type submitResponse struct {
	ID              uint   `json:"id"`
	ReferenceNumber string `json:"reference_number"`
	Message         string `json:"message"`
}

// newReferenceNumber builds the candidate-facing tracking code.
func newReferenceNumber() string {
	return "REF-" + strings.ToUpper(uuid.NewString()[:8])
}

// SubmitApplication handles a public candidate submission against a published job.
// @Summary Submit a job application
// @Description Public endpoint. The job must be published and the resume must be a PDF, DOC or DOCX no larger than 5 MiB.
// @Tags Application
// @Accept mpfd
// @Produce json
// @Param job_id formData integer true "ID of the published job"
// @Param candidate_name formData string true "Candidate full name"
// @Param candidate_email formData string true "Candidate email"
// @Param candidate_phone formData string false "Candidate phone"
// @Param linkedin_url formData string false "LinkedIn profile URL"
// @Param github_url formData string false "GitHub profile URL"
// @Param portfolio_url formData string false "Portfolio URL"
// @Param cover_letter formData string false "Cover letter"
// @Param additional_info formData string false "Additional information"
// @Param resume formData file true "Resume file"
// @Success 201 {object} submitResponse "Application accepted"
// @Failure 400 {object} utilities.ErrorResponse "Missing field or resume violates a constraint"
// @Failure 404 {object} utilities.ErrorResponse "Job not found or not open for applications"
// @Failure 413 {object} utilities.ErrorResponse "Request body exceeds the upload limit"
// @Failure 500 {object} utilities.ErrorResponse "Database or storage error"
// @Router /public/applications [post]
func (ac *ApplicationController) SubmitApplication(c *gin.Context) {

	rawJobID := c.PostForm("job_id")
	candidateName := c.PostForm("candidate_name")
	candidateEmail := c.PostForm("candidate_email")

	if rawJobID == "" || candidateName == "" || candidateEmail == "" {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "job_id, candidate_name and candidate_email must be provided",
		})
		return
	}

	jobID, err := strconv.Atoi(rawJobID)
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "job_id must be an integer"})
		return
	}

	// The job must be open for applications
	job := model.Job{}
	if err := ac.DB.
		Joins("JOIN companies ON companies.id = jobs.company_id").
		Where("jobs.id = ? AND jobs.status = ? AND companies.is_active = ?", jobID, model.JobStatusPublished, true).
		First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{
				Error: "Job not found or not available for applications",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve job: %s", err.Error()),
		})
		return
	}

	rawFile, err := c.FormFile("resume")
	var maxBytesError *http.MaxBytesError
	if errors.As(err, &maxBytesError) {
		c.JSON(http.StatusRequestEntityTooLarge, utilities.ErrorResponse{
			Error: err.Error(),
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "resume file must be provided"})
		return
	}

	if err := workflow.ValidateResume(rawFile.Header.Get("Content-Type"), rawFile.Size); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	f, err := rawFile.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: "Cannot open file"})
		return
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("failed to close upload: %v", err)
		}
	}()

	fileBytes, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: "Cannot read file"})
		return
	}

	resume := model.File{}
	extension := strings.ToLower(filepath.Ext(rawFile.Filename))
	if err := file.PersistFileData(ac.Storage, &resume, fileBytes, extension, file.ResumeObjectPrefix); err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to store resume: %s", err.Error()),
		})
		return
	}
	if err := ac.DB.Create(&resume).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to store resume: %s", err.Error()),
		})
		return
	}

	phone := c.PostForm("candidate_phone")
	application := model.Application{
		ReferenceNumber: newReferenceNumber(),
		CandidateName:   candidateName,
		CandidateEmail:  candidateEmail,
		CoverLetter:     c.PostForm("cover_letter"),
		AdditionalInfo:  c.PostForm("additional_info"),
		ResumeFilename:  rawFile.Filename,
		ResumeID:        &resume.ID,
		JobID:           job.ID,
		Status:          model.ApplicationStatusPending,
	}
	if phone != "" {
		application.CandidatePhone = &phone
	}
	for form, target := range map[string]**string{
		"linkedin_url":  &application.LinkedinURL,
		"github_url":    &application.GithubURL,
		"portfolio_url": &application.PortfolioURL,
	} {
		if v := c.PostForm(form); v != "" {
			*target = &v
		}
	}

	if err := ac.DB.Create(&application).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to create application: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusCreated, submitResponse{
		ID:              application.ID,
		ReferenceNumber: application.ReferenceNumber,
		Message:         "Application submitted successfully",
	})
}

// reviewResponse decorates an application with the band of its AI score for
// the review dashboard.
type reviewResponse struct {
	model.ApplicationResponse
	AIScoreBand string `json:"ai_score_band,omitempty"`
}

func toReviewResponse(a model.Application) reviewResponse {
	r := reviewResponse{ApplicationResponse: a.ToResponse()}
	if a.AIScore != nil {
		r.AIScoreBand = workflow.ScoreBand(*a.AIScore)
	}
	return r
}

// scopedQuery narrows application queries to the caller's company unless the
// caller is an admin.
func (ac *ApplicationController) scopedQuery(user model.User) *gorm.DB {
	query := ac.DB.Model(&model.Application{}).Joins("JOIN jobs ON jobs.id = applications.job_id")
	if user.Role != model.RoleAdmin {
		query = query.Where("jobs.company_id = ?", user.CompanyID)
	}
	return query
}

// GetApplications lists applications for review.
// @Summary Get applications based on query
// @Description Only HR and admins may review applications. Non-admin results are scoped to the caller's company.
// @Tags Application
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param job_id query integer false "Filter by job"
// @Param status query string false "Filter by review status"
// @Param sort query string false "Sort column, 'created_at' (default) or 'candidate_name'"
// @Param order query string false "'asc' or 'desc' (default)"
// @Param limit query integer false "Maximum number of applications to return"
// @Success 200 {array} reviewResponse "Return matching application(s)"
// @Failure 400 {object} utilities.ErrorResponse "Invalid query parameter"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /applications [get]
func (ac *ApplicationController) GetApplications(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	rawJobID := c.Query("job_id")
	rawStatus := c.Query("status")
	rawSort := c.DefaultQuery("sort", "created_at")
	rawOrder := c.DefaultQuery("order", "desc")
	rawLimit := c.Query("limit")

	if rawStatus != "" && !workflow.ValidApplicationStatus(rawStatus) {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Unknown status %q", rawStatus),
		})
		return
	}

	if rawSort != "created_at" && rawSort != "candidate_name" {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "sort must be 'created_at' or 'candidate_name'",
		})
		return
	}

	query := ac.scopedQuery(user).Preload("Job")

	if rawJobID != "" {
		query = query.Where("applications.job_id = ?", rawJobID)
	}

	if rawStatus != "" {
		query = query.Where("applications.status = ?", rawStatus)
	}

	if rawLimit != "" {
		limit, err := strconv.Atoi(rawLimit)
		if err != nil || limit <= 0 {
			c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "limit must be a positive integer"})
			return
		}
		query = query.Limit(limit)
	}

	var applications []model.Application
	query = query.Order(clause.OrderByColumn{
		Column: clause.Column{Table: "applications", Name: rawSort},
		Desc:   rawOrder != "asc",
	}).Find(&applications)

	if err := query.Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprint("Failed to fetch applications: ", err.Error()),
		})
		return
	}

	resp := []reviewResponse{}
	for _, a := range applications {
		resp = append(resp, toReviewResponse(a))
	}

	c.JSON(http.StatusOK, resp)
}

// StatsResponse aggregates application counts for the review dashboard.
type StatsResponse struct {
	TotalApplications int64            `json:"total_applications"`
	ByStatus          map[string]int64 `json:"by_status"`
	ByJob             map[string]int64 `json:"by_job"`
}

// GetStats aggregates application counts by status and by job.
// @Summary Get application statistics
// @Description Only HR and admins may view statistics. Non-admin results are scoped to the caller's company.
// @Tags Application
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {object} StatsResponse
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /applications/stats [get]
func (ac *ApplicationController) GetStats(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	stats := StatsResponse{
		ByStatus: map[string]int64{},
		ByJob:    map[string]int64{},
	}

	if err := ac.scopedQuery(user).Count(&stats.TotalApplications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprint("Failed to compute statistics: ", err.Error()),
		})
		return
	}

	for _, status := range []string{
		model.ApplicationStatusPending,
		model.ApplicationStatusShortlisted,
		model.ApplicationStatusInterviewScheduled,
		model.ApplicationStatusHired,
		model.ApplicationStatusRejected,
	} {
		var count int64
		if err := ac.scopedQuery(user).Where("applications.status = ?", status).Count(&count).Error; err != nil {
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: fmt.Sprint("Failed to compute statistics: ", err.Error()),
			})
			return
		}
		stats.ByStatus[status] = count
	}

	jobsQuery := ac.DB.Model(&model.Job{})
	if user.Role != model.RoleAdmin {
		jobsQuery = jobsQuery.Where("company_id = ?", user.CompanyID)
	}
	var jobs []model.Job
	if err := jobsQuery.Find(&jobs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprint("Failed to compute statistics: ", err.Error()),
		})
		return
	}
	for _, j := range jobs {
		var count int64
		if err := ac.DB.Model(&model.Application{}).Where("job_id = ?", j.ID).Count(&count).Error; err != nil {
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: fmt.Sprint("Failed to compute statistics: ", err.Error()),
			})
			return
		}
		stats.ByJob[j.Title] = count
	}

	c.JSON(http.StatusOK, stats)
}

// GetApplicationByID fetches one application for review.
// @Summary Get application by ID
// @Description Only HR and admins may review applications. Non-admin access is scoped to the caller's company.
// @Tags Application
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of desired application"
// @Success 200 {object} reviewResponse
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Application not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /applications/{id} [get]
func (ac *ApplicationController) GetApplicationByID(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}
	id := c.Param("id")

	application := model.Application{}
	if err := ac.scopedQuery(user).Preload("Job").
		Where("applications.id = ?", id).
		First(&application).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Application not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve application: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, toReviewResponse(application))
}

type statusUpdateRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus moves an application through the review pipeline.
// @Summary Update application status
// @Description Only HR and admins may update. The transition must be legal for the current status; hired and rejected are terminal.
// @Tags Application
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of desired application"
// @Param Info body statusUpdateRequest true "Target status"
// @Success 200 {object} reviewResponse
// @Failure 400 {object} utilities.ErrorResponse "Illegal status transition"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Application not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /applications/{id}/status [patch]
func (ac *ApplicationController) UpdateStatus(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}
	id := c.Param("id")

	var req statusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "status must be provided"})
		return
	}

	application := model.Application{}
	if err := ac.scopedQuery(user).Preload("Job").
		Where("applications.id = ?", id).
		First(&application).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Application not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve application: %s", err.Error()),
		})
		return
	}

	if err := workflow.ApplicationTransition(application.Status, req.Status, user.Role); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	now := time.Now()
	application.Status = req.Status
	application.ProcessedAt = &now
	if err := ac.DB.Save(&application).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update application: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, toReviewResponse(application))
}

// publicReferenceResponse is the limited shape shown to candidates.
type publicReferenceResponse struct {
	ReferenceNumber string     `json:"reference_number"`
	CandidateName   string     `json:"candidate_name"`
	JobTitle        string     `json:"job_title"`
	Status          string     `json:"status"`
	StatusLabel     string     `json:"status_label"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	ProcessedAt     *time.Time `json:"processed_at,omitempty"`
}

// GetByReference lets a candidate track an application by its reference number.
// @Summary Get application by reference number
// @Description Public endpoint returning limited information for candidates.
// @Tags Public
// @Produce json
// @Param reference path string true "Reference number (REF-XXXXXXXX)"
// @Success 200 {object} publicReferenceResponse
// @Failure 404 {object} utilities.ErrorResponse "Application not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /public/applications/{reference} [get]
func (ac *ApplicationController) GetByReference(c *gin.Context) {
	reference := c.Param("reference")

	application := model.Application{}
	if err := ac.DB.Preload("Job").
		Where("reference_number = ?", reference).
		First(&application).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Application not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve application: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, publicReferenceResponse{
		ReferenceNumber: application.ReferenceNumber,
		CandidateName:   application.CandidateName,
		JobTitle:        application.Job.Title,
		Status:          application.Status,
		StatusLabel:     workflow.ApplicationStatusLabel(application.Status),
		CreatedAt:       application.CreatedAt,
		UpdatedAt:       application.UpdatedAt,
		ProcessedAt:     application.ProcessedAt,
	})
}
