package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/civicdesk/grievance-api/internal/dto"
	apierrors "github.com/civicdesk/grievance-api/internal/errors"
	"github.com/civicdesk/grievance-api/internal/models"
	"github.com/civicdesk/grievance-api/internal/services"
	"github.com/civicdesk/grievance-api/internal/token"
	"github.com/gin-gonic/gin"
)

// AuthHandler coordinates registration and login.
type AuthHandler struct {
	userService *services.UserService
	tokens      *token.Service
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(userService *services.UserService, tokens *token.Service) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		tokens:      tokens,
	}
}

// RegistrationRequest is the shared registration payload.
type RegistrationRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
	Fullname string `json:"fullname"`
}

func (r *RegistrationRequest) validate() string {
	switch {
	case strings.TrimSpace(r.Email) == "":
		return "email is required"
	case strings.TrimSpace(r.Username) == "":
		return "username is required"
	case r.Password == "":
		return "password is required"
	case strings.TrimSpace(r.Fullname) == "":
		return "fullname is required"
	}
	return ""
}

// Register creates a user under the role given as a query parameter.
func (h *AuthHandler) Register(c *gin.Context) {
	role, err := models.ParseRole(c.Query("role"))
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	var req RegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		apierrors.BadRequest(c, msg)
		return
	}

	user, err := h.userService.Register(services.RegisterInput{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
		Fullname: req.Fullname,
		Role:     role,
	})
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"username": user.Username})
}

// Login authenticates a user and issues a bearer token.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.Login(req.Username, req.Password)
	if err != nil {
		respondUserError(c, err)
		return
	}

	roles := user.RoleNames()
	tokenString, err := h.tokens.Issue(user.Username, roles)
	if err != nil {
		apierrors.InternalError(c, "Failed to create token")
		return
	}

	var primaryRole string
	if len(roles) > 0 {
		primaryRole = roles[0]
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id":  user.ID,
		"username": user.Username,
		"role":     primaryRole,
		"token":    tokenString,
	})
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := currentUser(c, h.userService)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

func respondUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUsernameTaken),
		errors.Is(err, services.ErrEmailTaken):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.Unauthorized(c, err.Error())
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
