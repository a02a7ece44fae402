package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/civicdesk/grievance-api/internal/dto"
	apierrors "github.com/civicdesk/grievance-api/internal/errors"
	"github.com/civicdesk/grievance-api/internal/models"
	"github.com/civicdesk/grievance-api/internal/services"
	"github.com/civicdesk/grievance-api/internal/utils"
	"github.com/gin-gonic/gin"
)

// ComplaintHandler serves the admin/officer views over the same grievance
// store: listing, assignment, and resolution updates.
type ComplaintHandler struct {
	grievanceService *services.GrievanceService
	feedbackService  *services.FeedbackService
	userService      *services.UserService
}

// NewComplaintHandler creates a new ComplaintHandler.
func NewComplaintHandler(grievanceService *services.GrievanceService, feedbackService *services.FeedbackService, userService *services.UserService) *ComplaintHandler {
	return &ComplaintHandler{
		grievanceService: grievanceService,
		feedbackService:  feedbackService,
		userService:      userService,
	}
}

// Get returns a single decorated complaint.
func (h *ComplaintHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		apierrors.BadRequest(c, "Invalid complaint ID")
		return
	}

	g, err := h.grievanceService.GetByID(id)
	if err != nil {
		respondGrievanceError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.decorate(c, *g))
}

// ListAll returns a page of every complaint (admin only).
func (h *ComplaintHandler) ListAll(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	list, total, err := h.grievanceService.ListAll(params)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch complaints")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"complaints": h.decorateAll(c, list),
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// Assign sets the officer, priority, and deadline together (admin only).
func (h *ComplaintHandler) Assign(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		apierrors.BadRequest(c, "Invalid complaint ID")
		return
	}

	type AssignRequest struct {
		OfficerID uint64 `json:"officer_id" binding:"required"`
		Priority  string `json:"priority"`
		Deadline  string `json:"deadline"`
	}

	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	var deadline *time.Time
	if req.Deadline != "" {
		parsed, err := time.Parse("2006-01-02", req.Deadline)
		if err != nil {
			apierrors.BadRequest(c, "Invalid deadline, expected YYYY-MM-DD")
			return
		}
		deadline = &parsed
	}

	g, err := h.grievanceService.AssignOfficer(id, req.OfficerID, req.Priority, deadline)
	if err != nil {
		respondGrievanceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "assigned", "id": g.ID})
}

// ByUser lists a user's complaints.
func (h *ComplaintHandler) ByUser(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	list, err := h.grievanceService.ListByUser(userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch complaints")
		return
	}

	c.JSON(http.StatusOK, h.decorateAll(c, list))
}

// MyAssigned lists the complaints assigned to the calling officer.
func (h *ComplaintHandler) MyAssigned(c *gin.Context) {
	user, ok := currentUser(c, h.userService)
	if !ok {
		return
	}

	list, err := h.grievanceService.ListByOfficer(user.ID)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch complaints")
		return
	}

	c.JSON(http.StatusOK, h.decorateAll(c, list))
}

// ByOfficer lists the complaints assigned to a given officer (admin only).
func (h *ComplaintHandler) ByOfficer(c *gin.Context) {
	officerID, ok := parseIDParam(c, "id")
	if !ok {
		apierrors.BadRequest(c, "Invalid officer ID")
		return
	}

	list, err := h.grievanceService.ListByOfficer(officerID)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch complaints")
		return
	}

	c.JSON(http.StatusOK, h.decorateAll(c, list))
}

// UpdateResolution applies a partial resolution update. Accepts multipart
// (with an optional resolutionImage) or plain JSON; omitted fields are left
// untouched.
func (h *ComplaintHandler) UpdateResolution(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		apierrors.BadRequest(c, "Invalid complaint ID")
		return
	}

	var patch services.ResolutionPatch

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		if v, exists := c.GetPostForm("status"); exists {
			patch.Status = &v
		}
		if v, exists := c.GetPostForm("resolutionNote"); exists {
			patch.Note = &v
		}
		imageData, imageType, err := readFormFile(c, "resolutionImage")
		if err != nil {
			apierrors.BadRequest(c, "Failed to read resolution image")
			return
		}
		patch.ImageData = imageData
		patch.ImageType = imageType
	} else {
		// parse raw JSON to distinguish absent fields from empty ones
		var body map[string]any
		if err := c.ShouldBindJSON(&body); err != nil {
			apierrors.BadRequest(c, "Invalid request body")
			return
		}
		if v, ok := body["status"].(string); ok {
			patch.Status = &v
		}
		if v, ok := body["resolutionNote"].(string); ok {
			patch.Note = &v
		}
	}

	g, err := h.grievanceService.UpdateResolution(id, patch)
	if err != nil {
		respondGrievanceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "updated", "id": g.ID})
}

func (h *ComplaintHandler) decorate(c *gin.Context, g models.Grievance) dto.GrievanceView {
	rating, err := h.feedbackService.RatingSummaryFor(g.ID)
	if err != nil {
		rating = services.RatingSummary{}
	}
	return dto.ToGrievanceView(g, requestBaseURL(c), rating)
}

func (h *ComplaintHandler) decorateAll(c *gin.Context, list []models.Grievance) []dto.GrievanceView {
	views := make([]dto.GrievanceView, len(list))
	for i, g := range list {
		views[i] = h.decorate(c, g)
	}
	return views
}
