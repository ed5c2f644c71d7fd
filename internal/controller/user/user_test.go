package user

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
	var userTeardown func(context.Context, ...testcontainers.TerminateOption) error
	userTeardown, testDB, err = database.GetTestDB()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start test db: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if userTeardown != nil {
		_ = userTeardown(ctx)
	}
	os.Exit(code)
}

func userEngine() *gin.Engine {
	uc := NewUserController(testDB)
	r := gin.New()

	users := r.Group("/api/users", middleware.RequireAuth(testDB))
	users.GET("", middleware.CheckRole(model.RoleHR, model.RoleAdmin), uc.GetUsers)
	users.POST("", middleware.CheckRole(model.RoleHR, model.RoleAdmin), uc.CreateUser)
	users.GET("/:id", uc.GetUserByID)
	users.PUT("/:id", uc.UpdateUser)
	users.DELETE("/:id", middleware.CheckRole(model.RoleHR, model.RoleAdmin), uc.DeactivateUser)
	return r
}

func token(t *testing.T, email string) string {
	t.Helper()
	tok, err := auth.GetAccessToken(t, testDB, email, database.TestSeedPassword)
	assert.NoError(t, err)
	return tok
}

func seedUser(t *testing.T, email, role string, companyID *uint) model.User {
	t.Helper()
	hashed, err := utilities.HashPassword(database.TestSeedPassword)
	assert.NoError(t, err)
	u := model.User{
		ID:        uuid.New(),
		Email:     email,
		FullName:  "Disposable User",
		Password:  hashed,
		Role:      role,
		CompanyID: companyID,
		IsActive:  true,
	}
	assert.NoError(t, testDB.Create(&u).Error)
	return u
}

func TestGetUsersScopedForHR(t *testing.T) {
	engine := userEngine()

	// A user in the other company must not show up for this HR
	foreign := seedUser(t, "foreign.user@example.com", model.RoleAccountManager, &database.TestCompany2.ID)

	rec, list := testutil.MakeJSONListRequest(token(t, database.TestHRUser.Email), engine, "/api/users")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, list)
	for _, item := range list {
		assert.NotEqual(t, foreign.Email, item["email"])
		assert.Equal(t, float64(database.TestCompany.ID), item["company_id"])
	}
}

func TestGetUsersForbiddenForManager(t *testing.T) {
	engine := userEngine()

	rec, _ := testutil.MakeJSONListRequest(token(t, database.TestManagerUser.Email), engine, "/api/users")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestGetOwnProfile(t *testing.T) {
	engine := userEngine()

	rec, resp := testutil.MakeJSONRequest(nil, token(t, database.TestManagerUser.Email), engine,
		"/api/users/"+database.TestManagerUser.ID.String(), http.MethodGet)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, database.TestManagerUser.Email, resp["email"])
	_, leaked := resp["password"]
	assert.False(t, leaked, "password hash leaked")
}

func TestManagerCannotViewColleague(t *testing.T) {
	engine := userEngine()

	rec, resp := testutil.MakeJSONRequest(nil, token(t, database.TestManagerUser.Email), engine,
		"/api/users/"+database.TestManagerUser2.ID.String(), http.MethodGet)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Access denied", resp["error"])
}

func TestAdminCreatesHRUser(t *testing.T) {
	engine := userEngine()

	rec, resp := testutil.MakeJSONRequest(gin.H{
		"email":      "new.hr@example.com",
		"password":   "LongEnough1!",
		"full_name":  "New HR",
		"role":       "hr",
		"company_id": database.TestCompany2.ID,
	}, token(t, database.TestAdminUser.Email), engine, "/api/users", http.MethodPost)

	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "hr", resp["role"])
	assert.Equal(t, float64(database.TestCompany2.ID), resp["company_id"])
}

func TestHRCreatesAccountManagerOnly(t *testing.T) {
	engine := userEngine()
	hr := token(t, database.TestHRUser.Email)

	rec, _ := testutil.MakeJSONRequest(gin.H{
		"email":      "new.manager@example.com",
		"password":   "LongEnough1!",
		"full_name":  "New Manager",
		"role":       "account_manager",
		"company_id": database.TestCompany.ID,
	}, hr, engine, "/api/users", http.MethodPost)
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// Not an HR peer
	rec, resp := testutil.MakeJSONRequest(gin.H{
		"email":      "rogue.hr@example.com",
		"password":   "LongEnough1!",
		"full_name":  "Rogue HR",
		"role":       "hr",
		"company_id": database.TestCompany.ID,
	}, hr, engine, "/api/users", http.MethodPost)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, resp["error"], "account manager")

	// Not in another company
	rec, resp = testutil.MakeJSONRequest(gin.H{
		"email":      "cross.company@example.com",
		"password":   "LongEnough1!",
		"full_name":  "Cross Company",
		"role":       "account_manager",
		"company_id": database.TestCompany2.ID,
	}, hr, engine, "/api/users", http.MethodPost)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, resp["error"], "own company")
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	engine := userEngine()

	rec, resp := testutil.MakeJSONRequest(gin.H{
		"email":      database.TestManagerUser.Email,
		"password":   "LongEnough1!",
		"full_name":  "Duplicate",
		"role":       "account_manager",
		"company_id": database.TestCompany.ID,
	}, token(t, database.TestAdminUser.Email), engine, "/api/users", http.MethodPost)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Email already registered", resp["error"])
}

func TestSelfUpdateRestrictedFields(t *testing.T) {
	engine := userEngine()
	manager := token(t, database.TestManagerUser.Email)
	endpoint := "/api/users/" + database.TestManagerUser.ID.String()

	rec, resp := testutil.MakeJSONRequest(gin.H{
		"role": "admin",
	}, manager, engine, endpoint, http.MethodPut)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Cannot update restricted fields", resp["error"])

	rec, resp = testutil.MakeJSONRequest(gin.H{
		"full_name": "Mina Chai-Okafor",
	}, manager, engine, endpoint, http.MethodPut)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Mina Chai-Okafor", resp["full_name"])
}

func TestDeactivateUser(t *testing.T) {
	engine := userEngine()
	victim := seedUser(t, "deactivate.me@example.com", model.RoleAccountManager, &database.TestCompany.ID)

	rec, resp := testutil.MakeJSONRequest(nil, token(t, database.TestHRUser.Email), engine,
		"/api/users/"+victim.ID.String(), http.MethodDelete)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "User deactivated successfully", resp["message"])

	var stored model.User
	assert.NoError(t, testDB.First(&stored, "id = ?", victim.ID).Error)
	assert.False(t, stored.IsActive)
}

func TestHRCannotDeactivateHRPeer(t *testing.T) {
	engine := userEngine()
	peer := seedUser(t, "hr.peer@example.com", model.RoleHR, &database.TestCompany.ID)

	rec, resp := testutil.MakeJSONRequest(nil, token(t, database.TestHRUser.Email), engine,
		"/api/users/"+peer.ID.String(), http.MethodDelete)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, resp["error"], "account manager")
}

func TestCannotDeactivateSelf(t *testing.T) {
	engine := userEngine()

	rec, resp := testutil.MakeJSONRequest(nil, token(t, database.TestAdminUser.Email), engine,
		"/api/users/"+database.TestAdminUser.ID.String(), http.MethodDelete)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Cannot deactivate your own account", resp["error"])
}
