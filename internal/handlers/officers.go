package handlers

import (
	"net/http"

	"github.com/civicdesk/grievance-api/internal/dto"
	apierrors "github.com/civicdesk/grievance-api/internal/errors"
	"github.com/civicdesk/grievance-api/internal/models"
	"github.com/civicdesk/grievance-api/internal/services"
	"github.com/gin-gonic/gin"
)

// OfficerHandler manages officer accounts (admin only).
type OfficerHandler struct {
	userService *services.UserService
}

// NewOfficerHandler creates a new OfficerHandler.
func NewOfficerHandler(userService *services.UserService) *OfficerHandler {
	return &OfficerHandler{
		userService: userService,
	}
}

// Create registers a new user holding the officer role.
func (h *OfficerHandler) Create(c *gin.Context) {
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
		Role:     models.RoleOfficer,
	})
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "officer created",
		"username": user.Username,
	})
}

// List returns every user holding the officer role.
func (h *OfficerHandler) List(c *gin.Context) {
	officers, err := h.userService.ListOfficers()
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch officers")
		return
	}

	views := make([]dto.UserDTO, len(officers))
	for i, u := range officers {
		views[i] = dto.ToUserDTO(u)
	}
	c.JSON(http.StatusOK, views)
}
