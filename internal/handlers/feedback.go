package handlers

import (
	"errors"
	"net/http"

	apierrors "github.com/civicdesk/grievance-api/internal/errors"
	"github.com/civicdesk/grievance-api/internal/services"
	"github.com/gin-gonic/gin"
)

// FeedbackHandler serves post-resolution ratings.
type FeedbackHandler struct {
	feedbackService *services.FeedbackService
	userService     *services.UserService
}

// NewFeedbackHandler creates a new FeedbackHandler.
func NewFeedbackHandler(feedbackService *services.FeedbackService, userService *services.UserService) *FeedbackHandler {
	return &FeedbackHandler{
		feedbackService: feedbackService,
		userService:     userService,
	}
}

// Submit records a rating for a resolved grievance owned by the caller's
// feedback target.
func (h *FeedbackHandler) Submit(c *gin.Context) {
	user, ok := currentUser(c, h.userService)
	if !ok {
		return
	}

	type FeedbackRequest struct {
		GrievanceID uint64  `json:"grievanceId"`
		Rating      int     `json:"rating"`
		Comments    *string `json:"comments"`
	}

	var req FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}
	if req.GrievanceID == 0 {
		apierrors.BadRequest(c, "grievanceId required")
		return
	}

	f, err := h.feedbackService.Submit(user.ID, req.GrievanceID, req.Rating, req.Comments)
	if err != nil {
		respondFeedbackError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "saved", "id": f.ID})
}

// ForComplaint lists the feedback submitted for one grievance.
func (h *FeedbackHandler) ForComplaint(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		apierrors.BadRequest(c, "Invalid complaint ID")
		return
	}

	list, err := h.feedbackService.ListByGrievance(id)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch feedback")
		return
	}
	c.JSON(http.StatusOK, list)
}

// All lists every feedback row (admin/officer only).
func (h *FeedbackHandler) All(c *gin.Context) {
	list, err := h.feedbackService.ListAll()
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch feedback")
		return
	}
	c.JSON(http.StatusOK, list)
}

func respondFeedbackError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrGrievanceNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrGrievanceNotResolved),
		errors.Is(err, services.ErrDuplicateFeedback):
		apierrors.Conflict(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
