// Package company provides HTTP handlers for company administration.
package company

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"genai-hiring-backend/internal/database"
	"genai-hiring-backend/internal/model"
	"genai-hiring-backend/internal/utilities"
)

// CompanyController handles company administration endpoints
type CompanyController struct {
	DB *database.DBinstanceStruct
}

// NewCompanyController creates a new instance of CompanyController with the provided database connection.
func NewCompanyController(db *database.DBinstanceStruct) *CompanyController {
	return &CompanyController{
		DB: db,
	}
}

// CreateCompany registers a new company.
// @Summary Create a company
// @Description Admin only. The company name must be unique.
// @Tags Company
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param Info body model.EditableCompanyInfo true "Company details"
// @Success 201 {object} model.Company
// @Failure 400 {object} utilities.ErrorResponse "Invalid payload or duplicate name"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /companies [post]
func (cc *CompanyController) CreateCompany(c *gin.Context) {
	var info model.EditableCompanyInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		return
	}
	if info.Name == "" {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "name must be provided"})
		return
	}

	var existing model.Company
	if err := cc.DB.First(&existing, "name = ?", info.Name).Error; err == nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Company name already exists"})
		return
	}

	company := model.Company{
		EditableCompanyInfo: info,
		IsActive:            true,
	}
	if err := cc.DB.Create(&company).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to create company: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusCreated, company)
}

// GetCompanies lists companies visible to the caller.
// @Summary Get companies
// @Description Admins see every active company, everyone else sees only their own.
// @Tags Company
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {array} model.Company
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /companies [get]
func (cc *CompanyController) GetCompanies(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	companies := []model.Company{}
	query := cc.DB.Where("is_active = ?", true)
	if user.Role != model.RoleAdmin {
		if user.CompanyID == nil {
			c.JSON(http.StatusOK, companies)
			return
		}
		query = query.Where("id = ?", *user.CompanyID)
	}

	if err := query.Order("id ASC").Find(&companies).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprint("Failed to fetch companies: ", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, companies)
}

// getScopedCompany loads a company enforcing the caller's visibility.
func (cc *CompanyController) getScopedCompany(c *gin.Context) (model.Company, bool) {
	company := model.Company{}

	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return company, false
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "id must be an integer"})
		return company, false
	}

	if err := cc.DB.First(&company, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Company not found"})
			return company, false
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve company: %s", err.Error()),
		})
		return company, false
	}

	if user.Role != model.RoleAdmin && (user.CompanyID == nil || *user.CompanyID != company.ID) {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{Error: "Access denied"})
		return company, false
	}

	return company, true
}

// GetCompanyByID fetches a single company.
// @Summary Get company by ID
// @Description Admins see every company, everyone else sees only their own.
// @Tags Company
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of desired company"
// @Success 200 {object} model.Company
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Access denied"
// @Failure 404 {object} utilities.ErrorResponse "Company not found"
// @Router /companies/{id} [get]
func (cc *CompanyController) GetCompanyByID(c *gin.Context) {
	company, ok := cc.getScopedCompany(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, company)
}

// UpdateCompany edits a company profile.
// @Summary Update a company
// @Description Admins edit every company, everyone else edits only their own.
// @Tags Company
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of desired company"
// @Param Info body model.EditableCompanyInfo true "Fields to change"
// @Success 200 {object} model.Company
// @Failure 400 {object} utilities.ErrorResponse "Invalid payload"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Access denied"
// @Failure 404 {object} utilities.ErrorResponse "Company not found"
// @Router /companies/{id} [put]
func (cc *CompanyController) UpdateCompany(c *gin.Context) {
	company, ok := cc.getScopedCompany(c)
	if !ok {
		return
	}

	var info model.EditableCompanyInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		return
	}
	if info.Name == "" {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "name must be provided"})
		return
	}

	company.EditableCompanyInfo = info
	if err := cc.DB.Save(&company).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update company: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, company)
}

// DeactivateCompany soft deletes a company.
// @Summary Deactivate a company
// @Description Admin only. Published jobs of a deactivated company disappear from the public careers page.
// @Tags Company
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of desired company"
// @Success 200 {object} utilities.MessageResponse "Company deactivated successfully"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Company not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /companies/{id} [delete]
func (cc *CompanyController) DeactivateCompany(c *gin.Context) {
	id := c.Param("id")

	company := model.Company{}
	if err := cc.DB.First(&company, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Company not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve company: %s", err.Error()),
		})
		return
	}

	if err := cc.DB.Model(&company).Update("is_active", false).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to deactivate company: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, utilities.MessageResponse{Message: "Company deactivated successfully"})
}
