package auth

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

// LocalAuthHandler holds DB reference for handler methods.
type LocalAuthHandler struct {
	DB *database.DBinstanceStruct
}

// NewLocalAuthHandler creates a new instance of LocalAuthHandler with the provided database connection.
func NewLocalAuthHandler(db *database.DBinstanceStruct) *LocalAuthHandler {
	return &LocalAuthHandler{
		DB: db,
	}
}

type registerInfo struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	FullName string `json:"full_name" binding:"required"`
	Role     string `json:"role" binding:"required,oneof=account_manager hr admin"`
}

type loginInfo struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type authResponse struct {
	User        model.User `json:"user"`
	AccessToken string     `json:"access_token"`
}

// RegisterHandler handles registration by receiving email, password, full name and role
// @Summary Register a new user
// @Description Email must not already exist and password must be longer or equal to 8 characters long. New users are attached to the default company.
// @Tags Auth
// @Accept json
// @Produce json
// @Param Info body registerInfo true "role can be only 'account_manager', 'hr' or 'admin'"
// @Success 201 {object} authResponse
// @Failure 400 {object} utilities.ErrorResponse "Info provided not met the condition"
// @Failure 500 {object} utilities.ErrorResponse "Database or password hashing error"
// @Router /auth/register [post]
func (lh *LocalAuthHandler) RegisterHandler(c *gin.Context) {
	var info registerInfo

	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Email, password, full_name and role (only 'account_manager', 'hr' or 'admin') must be provided",
		})
		return
	}

	var existing model.User
	err := lh.DB.Where("email = ?", info.Email).First(&existing).Error

	switch {
	case err == nil:
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Email already registered",
		})
		return

	case errors.Is(err, gorm.ErrRecordNotFound):
		// Do nothing

	default:
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Database error: %s", err.Error()),
		})
		return
	}

	if len(info.Password) < 8 {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Password should longer or equal to 8 characters",
		})
		return
	}

	hashedPassword, err := utilities.HashPassword(info.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed hash password: %s", err.Error()),
		})
		return
	}

	// Every self-registered user starts under the default company.
	var company model.Company
	if err := lh.DB.Order("id ASC").First(&company).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to resolve default company: %s", err.Error()),
		})
		return
	}

	user := model.User{
		Email:     info.Email,
		FullName:  info.FullName,
		Password:  hashedPassword,
		Role:      info.Role,
		IsActive:  true,
		CompanyID: &company.ID,
	}
	if err := lh.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to create user: %s", err.Error()),
		})
		return
	}

	accessToken, _, err := GenerateStandardToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to generate access token: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusCreated, authResponse{
		User:        user,
		AccessToken: accessToken,
	})
}

// LoginHandler handles login by receiving email and password
// @Summary Handles login by receiving email and password
// @Description Email must exist, password must match and the account must be active
// @Tags Auth
// @Accept json
// @Produce json
// @Param Info body loginInfo true "Credentials for login"
// @Success 200 {object} authResponse
// @Failure 400 {object} utilities.ErrorResponse "Info provided not met the condition"
// @Failure 401 {object} utilities.ErrorResponse "Email not exist, password incorrect or account deactivated"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /auth/login [post]
func (lh *LocalAuthHandler) LoginHandler(c *gin.Context) {
	var info loginInfo

	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Email or password is not provided",
		})
		return
	}

	var user model.User
	err := lh.DB.Where("email = ?", info.Email).First(&user).Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{
			Error: "Email or password is incorrect",
		})
		return

	case err == nil:
		// Do nothing

	default:
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Database error: %s", err.Error()),
		})
		return
	}

	if user.Password == "" || !utilities.CheckPassword(user.Password, info.Password) {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{
			Error: "Email or password is incorrect",
		})
		return
	}

	if !user.IsActive {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{
			Error: "Account has been deactivated",
		})
		return
	}

	accessToken, _, err := GenerateStandardToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to generate access token: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, authResponse{
		User:        user,
		AccessToken: accessToken,
	})
}

// MeHandler returns the authenticated user's profile
// @Summary Get the authenticated user
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.User
// @Failure 401 {object} utilities.ErrorResponse "Missing or invalid token"
// @Router /auth/me [get]
func (lh *LocalAuthHandler) MeHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{
			Error: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, user)
}
