// Package user provides HTTP handlers for user administration.
package user

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"genai-hiring-backend/internal/database"
	"genai-hiring-backend/internal/model"
	"genai-hiring-backend/internal/utilities"
)

// UserController handles user administration endpoints
type UserController struct {
	DB *database.DBinstanceStruct
}

// NewUserController creates a new instance of UserController with the provided database connection.
func NewUserController(db *database.DBinstanceStruct) *UserController {
	return &UserController{
		DB: db,
	}
}

type createUserRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FullName  string `json:"full_name" binding:"required"`
	Role      string `json:"role" binding:"required,oneof=account_manager hr admin"`
	CompanyID *uint  `json:"company_id"`
}

type updateUserRequest struct {
	FullName  *string `json:"full_name"`
	Role      *string `json:"role" binding:"omitempty,oneof=account_manager hr admin"`
	CompanyID *uint   `json:"company_id"`
	IsActive  *bool   `json:"is_active"`
}

// GetUsers lists active users.
// @Summary Get users
// @Description Admins see every active user, HR sees active users of their own company.
// @Tags User
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {array} model.User
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /users [get]
func (uc *UserController) GetUsers(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	query := uc.DB.Where("is_active = ?", true)
	if user.Role != model.RoleAdmin {
		query = query.Where("company_id = ?", user.CompanyID)
	}

	var users []model.User
	if err := query.Order("created_at ASC").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprint("Failed to fetch users: ", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, users)
}

// GetUserByID fetches a single user.
// @Summary Get user by ID
// @Description Admins see everyone, HR sees users of their own company, everyone sees themself.
// @Tags User
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path string true "ID of desired user"
// @Success 200 {object} model.User
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Access denied"
// @Failure 404 {object} utilities.ErrorResponse "User not found"
// @Router /users/{id} [get]
func (uc *UserController) GetUserByID(c *gin.Context) {
	caller, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}
	id := c.Param("id")

	target := model.User{}
	if err := uc.DB.First(&target, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve user: %s", err.Error()),
		})
		return
	}

	if !uc.canView(caller, target) {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{Error: "Access denied"})
		return
	}

	c.JSON(http.StatusOK, target)
}

func (uc *UserController) canView(caller, target model.User) bool {
	if caller.Role == model.RoleAdmin || caller.ID == target.ID {
		return true
	}
	return caller.Role == model.RoleHR && sameCompany(caller.CompanyID, target.CompanyID)
}

func sameCompany(a, b *uint) bool {
	return a != nil && b != nil && *a == *b
}

// CreateUser provisions a user account.
// @Summary Create a user
// @Description Admins create any user, HR creates account managers within their own company.
// @Tags User
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param Info body createUserRequest true "User details"
// @Success 201 {object} model.User
// @Failure 400 {object} utilities.ErrorResponse "Invalid payload or email already registered"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Caller may not create this user"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /users [post]
func (uc *UserController) CreateUser(c *gin.Context) {
	caller, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	if caller.Role == model.RoleHR {
		if !sameCompany(caller.CompanyID, req.CompanyID) {
			c.JSON(http.StatusForbidden, utilities.ErrorResponse{
				Error: "HR can only create users for their own company",
			})
			return
		}
		if req.Role != model.RoleAccountManager {
			c.JSON(http.StatusForbidden, utilities.ErrorResponse{
				Error: "HR can only create account manager users",
			})
			return
		}
	}

	var existing model.User
	if err := uc.DB.First(&existing, "email = ?", req.Email).Error; err == nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Email already registered"})
		return
	}

	hashed, err := utilities.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: "Failed to hash password"})
		return
	}

	newUser := model.User{
		Email:     req.Email,
		FullName:  req.FullName,
		Password:  hashed,
		Role:      req.Role,
		CompanyID: req.CompanyID,
		IsActive:  true,
	}
	if err := uc.DB.Create(&newUser).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to create user: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusCreated, newUser)
}

// UpdateUser edits a user account.
// @Summary Update a user
// @Description Admins edit everyone. HR edits account managers of their company. Users edit their own profile except role, company and active flag.
// @Tags User
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path string true "ID of desired user"
// @Param Info body updateUserRequest true "Fields to change"
// @Success 200 {object} model.User
// @Failure 400 {object} utilities.ErrorResponse "Invalid payload"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Caller may not edit this user"
// @Failure 404 {object} utilities.ErrorResponse "User not found"
// @Router /users/{id} [put]
func (uc *UserController) UpdateUser(c *gin.Context) {
	caller, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}
	id := c.Param("id")

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	target := model.User{}
	if err := uc.DB.First(&target, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve user: %s", err.Error()),
		})
		return
	}

	switch {
	case caller.Role == model.RoleAdmin:
	case caller.Role == model.RoleHR && sameCompany(caller.CompanyID, target.CompanyID):
		if req.Role != nil && *req.Role != model.RoleAccountManager {
			c.JSON(http.StatusForbidden, utilities.ErrorResponse{
				Error: "HR can only manage account manager users",
			})
			return
		}
	case caller.ID == target.ID:
		if req.Role != nil || req.CompanyID != nil || req.IsActive != nil {
			c.JSON(http.StatusForbidden, utilities.ErrorResponse{
				Error: "Cannot update restricted fields",
			})
			return
		}
	default:
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{Error: "Access denied"})
		return
	}

	if req.FullName != nil {
		target.FullName = *req.FullName
	}
	if req.Role != nil {
		target.Role = *req.Role
	}
	if req.CompanyID != nil {
		target.CompanyID = req.CompanyID
	}
	if req.IsActive != nil {
		target.IsActive = *req.IsActive
	}

	if err := uc.DB.Save(&target).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update user: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, target)
}

// DeactivateUser soft deletes a user account.
// @Summary Deactivate a user
// @Description Admins deactivate anyone, HR deactivates account managers of their company. Self-deactivation is refused.
// @Tags User
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path string true "ID of desired user"
// @Success 200 {object} utilities.MessageResponse "User deactivated successfully"
// @Failure 400 {object} utilities.ErrorResponse "Cannot deactivate own account"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Caller may not deactivate this user"
// @Failure 404 {object} utilities.ErrorResponse "User not found"
// @Router /users/{id} [delete]
func (uc *UserController) DeactivateUser(c *gin.Context) {
	caller, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}
	id := c.Param("id")

	target := model.User{}
	if err := uc.DB.First(&target, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve user: %s", err.Error()),
		})
		return
	}

	switch {
	case caller.Role == model.RoleAdmin:
	case caller.Role == model.RoleHR && sameCompany(caller.CompanyID, target.CompanyID):
		if target.Role != model.RoleAccountManager {
			c.JSON(http.StatusForbidden, utilities.ErrorResponse{
				Error: "HR can only deactivate account manager users",
			})
			return
		}
	default:
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{Error: "Access denied"})
		return
	}

	if caller.ID == target.ID {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Cannot deactivate your own account"})
		return
	}

	if err := uc.DB.Model(&target).Update("is_active", false).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to deactivate user: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, utilities.MessageResponse{Message: "User deactivated successfully"})
}
