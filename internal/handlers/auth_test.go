package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/civicdesk/grievance-api/internal/constants"
	"github.com/civicdesk/grievance-api/internal/database"
	"github.com/civicdesk/grievance-api/internal/models"
	"github.com/civicdesk/grievance-api/internal/repository"
	"github.com/civicdesk/grievance-api/internal/services"
	"github.com/civicdesk/grievance-api/internal/token"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// AuthHandlerTestSuite defines the test suite for AuthHandler
type AuthHandlerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	handler *AuthHandler
	users   *services.UserService
}

// SetupTest runs before each test
func (suite *AuthHandlerTestSuite) SetupTest() {
	var err error

	// Create in-memory SQLite database
	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	// Run migrations
	err = suite.db.AutoMigrate(
		&models.User{},
		&models.UserRole{},
		&models.Grievance{},
		&models.Feedback{},
	)
	suite.Require().NoError(err)

	database.SetDB(suite.db)

	suite.users = services.NewUserService(repository.NewUserRepository(suite.db))
	suite.handler = NewAuthHandler(suite.users, token.NewService("test-secret", time.Hour))

	gin.SetMode(gin.TestMode)
}

// TearDownTest runs after each test
func (suite *AuthHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

// Helper function to create test data
func (suite *AuthHandlerTestSuite) createTestUser(username, password string, role models.Role) *models.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	suite.Require().NoError(err)

	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: string(hash),
		Fullname:     "Test User",
	}
	suite.db.Create(user)
	suite.db.Create(&models.UserRole{UserID: user.ID, Role: role})
	suite.db.Preload("Roles").First(user, user.ID)
	return user
}

// Helper function to create a JSON request context
func (suite *AuthHandlerTestSuite) createContext(method, url string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	return c, w
}

// TestRegister_Success tests successful citizen registration
func (suite *AuthHandlerTestSuite) TestRegister_Success() {
	body, _ := json.Marshal(map[string]interface{}{
		"email":    "alice@example.com",
		"username": "alice",
		"password": "secret123",
		"fullname": "Alice Citizen",
	})

	c, w := suite.createContext("POST", "/api/auth/register?role=citizen", body)
	suite.handler.Register(c)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "alice", response["username"])

	// Verify user and role were persisted
	var user models.User
	err = suite.db.Preload("Roles").Where("username = ?", "alice").First(&user).Error
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), user.HasRole(models.RoleCitizen))
	assert.NotEqual(suite.T(), "secret123", user.PasswordHash)
}

// TestRegister_InvalidRole tests registration with an unknown role
func (suite *AuthHandlerTestSuite) TestRegister_InvalidRole() {
	body, _ := json.Marshal(map[string]interface{}{
		"email":    "alice@example.com",
		"username": "alice",
		"password": "secret123",
		"fullname": "Alice Citizen",
	})

	c, w := suite.createContext("POST", "/api/auth/register?role=superuser", body)
	suite.handler.Register(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestRegister_MissingField tests registration with a missing field
func (suite *AuthHandlerTestSuite) TestRegister_MissingField() {
	body, _ := json.Marshal(map[string]interface{}{
		"email":    "alice@example.com",
		"username": "alice",
		"fullname": "Alice Citizen",
	})

	c, w := suite.createContext("POST", "/api/auth/register?role=citizen", body)
	suite.handler.Register(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "password is required", response["error"])
}

// TestRegister_UsernameTaken tests registration with a duplicate username
func (suite *AuthHandlerTestSuite) TestRegister_UsernameTaken() {
	suite.createTestUser("alice", "secret123", models.RoleCitizen)

	body, _ := json.Marshal(map[string]interface{}{
		"email":    "other@example.com",
		"username": "alice",
		"password": "secret123",
		"fullname": "Other Alice",
	})

	c, w := suite.createContext("POST", "/api/auth/register?role=citizen", body)
	suite.handler.Register(c)

	assert.Equal(suite.T(), http.StatusConflict, w.Code)
}

// TestRegister_EmailTaken tests registration with a duplicate email
func (suite *AuthHandlerTestSuite) TestRegister_EmailTaken() {
	suite.createTestUser("alice", "secret123", models.RoleCitizen)

	body, _ := json.Marshal(map[string]interface{}{
		"email":    "alice@example.com",
		"username": "alice2",
		"password": "secret123",
		"fullname": "Other Alice",
	})

	c, w := suite.createContext("POST", "/api/auth/register?role=citizen", body)
	suite.handler.Register(c)

	assert.Equal(suite.T(), http.StatusConflict, w.Code)
}

// TestLogin_Success tests successful login
func (suite *AuthHandlerTestSuite) TestLogin_Success() {
	user := suite.createTestUser("alice", "secret123", models.RoleCitizen)

	body, _ := json.Marshal(map[string]interface{}{
		"username": "alice",
		"password": "secret123",
	})

	c, w := suite.createContext("POST", "/api/auth/login", body)
	suite.handler.Login(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), float64(user.ID), response["user_id"])
	assert.Equal(suite.T(), "alice", response["username"])
	assert.Equal(suite.T(), string(models.RoleCitizen), response["role"])
	assert.NotEmpty(suite.T(), response["token"])
}

// TestLogin_WrongPassword tests login with a wrong password
func (suite *AuthHandlerTestSuite) TestLogin_WrongPassword() {
	suite.createTestUser("alice", "secret123", models.RoleCitizen)

	body, _ := json.Marshal(map[string]interface{}{
		"username": "alice",
		"password": "wrong",
	})

	c, w := suite.createContext("POST", "/api/auth/login", body)
	suite.handler.Login(c)

	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

// TestLogin_UnknownUser tests login for a user that does not exist
func (suite *AuthHandlerTestSuite) TestLogin_UnknownUser() {
	body, _ := json.Marshal(map[string]interface{}{
		"username": "ghost",
		"password": "secret123",
	})

	c, w := suite.createContext("POST", "/api/auth/login", body)
	suite.handler.Login(c)

	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

// TestMe_Success tests the profile endpoint for an authenticated user
func (suite *AuthHandlerTestSuite) TestMe_Success() {
	user := suite.createTestUser("alice", "secret123", models.RoleCitizen)

	c, w := suite.createContext("GET", "/api/auth/me", nil)
	c.Set(constants.ContextKeyUsername, user.Username)
	c.Set(constants.ContextKeyRoles, user.RoleNames())

	suite.handler.Me(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "alice", response["username"])
	assert.Equal(suite.T(), "alice@example.com", response["email"])
}

// TestMe_Unauthorized tests the profile endpoint without authentication
func (suite *AuthHandlerTestSuite) TestMe_Unauthorized() {
	c, w := suite.createContext("GET", "/api/auth/me", nil)

	suite.handler.Me(c)

	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

// TestSuite runs the test suite
func TestAuthHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(AuthHandlerTestSuite))
}
