package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/testcontainers/testcontainers-go"

	"genai-hiring-backend/internal/auth"
	"genai-hiring-backend/internal/database"
	"genai-hiring-backend/internal/model"
	"genai-hiring-backend/internal/utilities"
)

var testDB *database.DBinstanceStruct

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	var err error
	var midTeardown func(context.Context, ...testcontainers.TerminateOption) error
	midTeardown, testDB, err = database.GetTestDB()
	if err != nil {
		os.Exit(1)
	}
	code := m.Run()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if midTeardown != nil {
		_ = midTeardown(ctx)
	}
	os.Exit(code)
}

func protectedEngine() *gin.Engine {
	r := gin.New()
	r.GET("/protected", RequireAuth(testDB), checkUserHandler)
	return r
}

func checkUserHandler(c *gin.Context) {
	u, exist := c.Get("user")
	if !exist {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "user": u})
}

func greetRoleHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "message": "Hello, " + user.Role})
}

func TestRequireAuth_Success(t *testing.T) {
	engine := protectedEngine()
	token, err := auth.GetAccessToken(t, testDB, database.TestManagerUser.Email, database.TestSeedPassword)
	assert.NoError(t, err)

	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["ok"])
}

func TestRequireAuth_NoHeader(t *testing.T) {
	engine := protectedEngine()
	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body map[string]interface{}
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	assert.Contains(t, body["error"], "Invalid authorization header")
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	engine := protectedEngine()
	token, _, err := auth.GenerateTokenWithDuration(database.TestManagerUser.ID, -1*time.Minute, auth.JwtIssuer)
	assert.NoError(t, err)

	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	var body map[string]interface{}
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	assert.Equal(t, "Access token expired", body["error"])
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	engine := protectedEngine()
	// Create a valid token then corrupt it (signature mismatch)
	validToken, _, err := auth.GenerateTokenWithDuration(database.TestManagerUser.ID, time.Hour, auth.JwtIssuer)
	assert.NoError(t, err)
	invalid := validToken + "x"

	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+invalid)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	var body map[string]interface{}
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	assert.Contains(t, body["error"], "Failed to validate token")
}

func TestRequireAuth_UnknownUser(t *testing.T) {
	engine := protectedEngine()
	randomID := uuid.New()
	token, _, err := auth.GenerateTokenWithDuration(randomID, time.Hour, auth.JwtIssuer)
	assert.NoError(t, err)

	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	var body map[string]interface{}
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	assert.Contains(t, body["error"], "User not exist")
}

func TestRequireAuth_InvalidIssuer(t *testing.T) {
	engine := protectedEngine()
	token, _, err := auth.GenerateTokenWithDuration(database.TestManagerUser.ID, time.Hour, "invalid-issuer")
	assert.NoError(t, err)

	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code, rec.Body.String())
	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "Invalid token issuer")
}

func TestCheckRole_NoRequireAuthBefore(t *testing.T) {
	engine := gin.New()
	engine.GET("/need-role", CheckRole(model.RoleHR), greetRoleHandler)
	req, _ := http.NewRequest(http.MethodGet, "/need-role", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "User information not provided")
}

func TestCheckRole_WrongRole(t *testing.T) {
	engine := gin.New()
	engine.GET("/need-role", RequireAuth(testDB), CheckRole(model.RoleHR), greetRoleHandler)
	token, err := auth.GetAccessToken(t, testDB, database.TestManagerUser.Email, database.TestSeedPassword)
	assert.NoError(t, err)

	req, _ := http.NewRequest(http.MethodGet, "/need-role", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "User doesn't have permission to access")
}

func TestCheckRole_MultipleRoleCheck(t *testing.T) {
	engine := gin.New()
	engine.GET("/need-role", RequireAuth(testDB), CheckRole(model.RoleHR, model.RoleAdmin), greetRoleHandler)

	// HR user passes
	tokenHR, err := auth.GetAccessToken(t, testDB, database.TestHRUser.Email, database.TestSeedPassword)
	assert.NoError(t, err)

	reqHR, _ := http.NewRequest(http.MethodGet, "/need-role", nil)
	reqHR.Header.Set("Authorization", "Bearer "+tokenHR)
	recHR := httptest.NewRecorder()
	engine.ServeHTTP(recHR, reqHR)

	assert.Equal(t, http.StatusOK, recHR.Code)
	var bodyHR map[string]interface{}
	assert.NoError(t, json.Unmarshal(recHR.Body.Bytes(), &bodyHR))
	assert.Contains(t, bodyHR["message"], "Hello, hr")

	// Admin user passes
	tokenAdmin, err := auth.GetAccessToken(t, testDB, database.TestAdminUser.Email, database.TestSeedPassword)
	assert.NoError(t, err)

	reqAdmin, _ := http.NewRequest(http.MethodGet, "/need-role", nil)
	reqAdmin.Header.Set("Authorization", "Bearer "+tokenAdmin)
	recAdmin := httptest.NewRecorder()
	engine.ServeHTTP(recAdmin, reqAdmin)

	assert.Equal(t, http.StatusOK, recAdmin.Code)
	var bodyAdmin map[string]interface{}
	assert.NoError(t, json.Unmarshal(recAdmin.Body.Bytes(), &bodyAdmin))
	assert.Contains(t, bodyAdmin["message"], "Hello, admin")

	// Account manager is forbidden
	tokenManager, err := auth.GetAccessToken(t, testDB, database.TestManagerUser.Email, database.TestSeedPassword)
	assert.NoError(t, err)

	reqManager, _ := http.NewRequest(http.MethodGet, "/need-role", nil)
	reqManager.Header.Set("Authorization", "Bearer "+tokenManager)
	recManager := httptest.NewRecorder()
	engine.ServeHTTP(recManager, reqManager)

	assert.Equal(t, http.StatusForbidden, recManager.Code)
	var bodyManager map[string]interface{}
	assert.NoError(t, json.Unmarshal(recManager.Body.Bytes(), &bodyManager))
	assert.Contains(t, bodyManager["error"], "User doesn't have permission to access")
}
