package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/civicdesk/grievance-api/internal/constants"
	"github.com/civicdesk/grievance-api/internal/database"
	"github.com/civicdesk/grievance-api/internal/models"
	"github.com/civicdesk/grievance-api/internal/repository"
	"github.com/civicdesk/grievance-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// FeedbackHandlerTestSuite defines the test suite for FeedbackHandler
type FeedbackHandlerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	handler *FeedbackHandler
}

// SetupTest runs before each test
func (suite *FeedbackHandlerTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.UserRole{},
		&models.Grievance{},
		&models.Feedback{},
	)
	suite.Require().NoError(err)

	database.SetDB(suite.db)

	grievanceRepo := repository.NewGrievanceRepository(suite.db)
	feedbackRepo := repository.NewFeedbackRepository(suite.db)
	userService := services.NewUserService(repository.NewUserRepository(suite.db))
	suite.handler = NewFeedbackHandler(
		services.NewFeedbackService(feedbackRepo, grievanceRepo),
		userService,
	)

	gin.SetMode(gin.TestMode)
}

// TearDownTest runs after each test
func (suite *FeedbackHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

// Helper function to create test data
func (suite *FeedbackHandlerTestSuite) createTestUser(username string) *models.User {
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hashedpassword",
		Fullname:     "Test User",
	}
	suite.db.Create(user)
	suite.db.Create(&models.UserRole{UserID: user.ID, Role: models.RoleCitizen})
	suite.db.Preload("Roles").First(user, user.ID)
	return user
}

func (suite *FeedbackHandlerTestSuite) createTestGrievance(userID uint64, status models.Status) *models.Grievance {
	g := &models.Grievance{
		Title:       "Noise complaint",
		Description: "Construction at night",
		Category:    "Noise",
		Status:      status,
		UserID:      userID,
	}
	suite.db.Create(g)
	return g
}

// Helper function to create an authenticated JSON context
func (suite *FeedbackHandlerTestSuite) createAuthContext(method, url string, body []byte, user *models.User) (*gin.Context, *httptest.ResponseRecorder) {
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
	if user != nil {
		c.Set(constants.ContextKeyUsername, user.Username)
		c.Set(constants.ContextKeyRoles, user.RoleNames())
	}
	return c, w
}

// TestSubmit_Success tests rating a resolved grievance
func (suite *FeedbackHandlerTestSuite) TestSubmit_Success() {
	user := suite.createTestUser("alice")
	g := suite.createTestGrievance(user.ID, models.StatusResolved)

	body, _ := json.Marshal(map[string]interface{}{
		"grievanceId": g.ID,
		"rating":      5,
		"comments":    "Fixed quickly",
	})

	c, w := suite.createAuthContext("POST", "/api/feedback", body, user)
	suite.handler.Submit(c)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "saved", response["message"])

	var stored models.Feedback
	err = suite.db.Where("grievance_id = ? AND user_id = ?", g.ID, user.ID).First(&stored).Error
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 5, stored.Rating)
	assert.Equal(suite.T(), "Fixed quickly", *stored.Comments)
}

// TestSubmit_NotResolved tests rating a grievance that is still open
func (suite *FeedbackHandlerTestSuite) TestSubmit_NotResolved() {
	user := suite.createTestUser("alice")
	g := suite.createTestGrievance(user.ID, models.StatusAssigned)

	body, _ := json.Marshal(map[string]interface{}{
		"grievanceId": g.ID,
		"rating":      3,
	})

	c, w := suite.createAuthContext("POST", "/api/feedback", body, user)
	suite.handler.Submit(c)

	assert.Equal(suite.T(), http.StatusConflict, w.Code)
}

// TestSubmit_Duplicate tests rating the same grievance twice
func (suite *FeedbackHandlerTestSuite) TestSubmit_Duplicate() {
	user := suite.createTestUser("alice")
	g := suite.createTestGrievance(user.ID, models.StatusResolved)
	suite.db.Create(&models.Feedback{GrievanceID: g.ID, UserID: user.ID, Rating: 4})

	body, _ := json.Marshal(map[string]interface{}{
		"grievanceId": g.ID,
		"rating":      1,
	})

	c, w := suite.createAuthContext("POST", "/api/feedback", body, user)
	suite.handler.Submit(c)

	assert.Equal(suite.T(), http.StatusConflict, w.Code)
}

// TestSubmit_SecondUserAllowed tests that a different user may still rate
func (suite *FeedbackHandlerTestSuite) TestSubmit_SecondUserAllowed() {
	alice := suite.createTestUser("alice")
	bob := suite.createTestUser("bob")
	g := suite.createTestGrievance(alice.ID, models.StatusResolved)
	suite.db.Create(&models.Feedback{GrievanceID: g.ID, UserID: alice.ID, Rating: 4})

	body, _ := json.Marshal(map[string]interface{}{
		"grievanceId": g.ID,
		"rating":      2,
	})

	c, w := suite.createAuthContext("POST", "/api/feedback", body, bob)
	suite.handler.Submit(c)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)
}

// TestSubmit_UnknownGrievance tests rating a missing grievance
func (suite *FeedbackHandlerTestSuite) TestSubmit_UnknownGrievance() {
	user := suite.createTestUser("alice")

	body, _ := json.Marshal(map[string]interface{}{
		"grievanceId": 99,
		"rating":      5,
	})

	c, w := suite.createAuthContext("POST", "/api/feedback", body, user)
	suite.handler.Submit(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

// TestSubmit_MissingGrievanceID tests submitting without a grievance ID
func (suite *FeedbackHandlerTestSuite) TestSubmit_MissingGrievanceID() {
	user := suite.createTestUser("alice")

	body, _ := json.Marshal(map[string]interface{}{
		"rating": 5,
	})

	c, w := suite.createAuthContext("POST", "/api/feedback", body, user)
	suite.handler.Submit(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestSubmit_Unauthorized tests submitting without authentication
func (suite *FeedbackHandlerTestSuite) TestSubmit_Unauthorized() {
	body, _ := json.Marshal(map[string]interface{}{
		"grievanceId": 1,
		"rating":      5,
	})

	c, w := suite.createAuthContext("POST", "/api/feedback", body, nil)
	suite.handler.Submit(c)

	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

// TestForComplaint_Success tests listing feedback for one grievance
func (suite *FeedbackHandlerTestSuite) TestForComplaint_Success() {
	alice := suite.createTestUser("alice")
	bob := suite.createTestUser("bob")
	g := suite.createTestGrievance(alice.ID, models.StatusResolved)
	other := suite.createTestGrievance(alice.ID, models.StatusResolved)
	suite.db.Create(&models.Feedback{GrievanceID: g.ID, UserID: alice.ID, Rating: 4})
	suite.db.Create(&models.Feedback{GrievanceID: g.ID, UserID: bob.ID, Rating: 2})
	suite.db.Create(&models.Feedback{GrievanceID: other.ID, UserID: alice.ID, Rating: 5})

	c, w := suite.createAuthContext("GET", "/api/feedback/complaint/1", nil, nil)
	c.Params = gin.Params{{Key: "id", Value: "1"}}

	suite.handler.ForComplaint(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response []map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), response, 2)
}

// TestAll_Success tests listing every feedback row
func (suite *FeedbackHandlerTestSuite) TestAll_Success() {
	alice := suite.createTestUser("alice")
	g1 := suite.createTestGrievance(alice.ID, models.StatusResolved)
	g2 := suite.createTestGrievance(alice.ID, models.StatusResolved)
	suite.db.Create(&models.Feedback{GrievanceID: g1.ID, UserID: alice.ID, Rating: 4})
	suite.db.Create(&models.Feedback{GrievanceID: g2.ID, UserID: alice.ID, Rating: 5})

	c, w := suite.createAuthContext("GET", "/api/feedback", nil, nil)

	suite.handler.All(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response []map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), response, 2)
}

// TestSuite runs the test suite
func TestFeedbackHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(FeedbackHandlerTestSuite))
}
