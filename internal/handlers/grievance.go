package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/civicdesk/grievance-api/internal/dto"
	apierrors "github.com/civicdesk/grievance-api/internal/errors"
	"github.com/civicdesk/grievance-api/internal/export"
	"github.com/civicdesk/grievance-api/internal/middleware"
	"github.com/civicdesk/grievance-api/internal/models"
	"github.com/civicdesk/grievance-api/internal/services"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// GrievanceHandler serves the citizen-facing grievance endpoints.
type GrievanceHandler struct {
	grievanceService *services.GrievanceService
	feedbackService  *services.FeedbackService
	userService      *services.UserService
}

// NewGrievanceHandler creates a new GrievanceHandler.
func NewGrievanceHandler(grievanceService *services.GrievanceService, feedbackService *services.FeedbackService, userService *services.UserService) *GrievanceHandler {
	return &GrievanceHandler{
		grievanceService: grievanceService,
		feedbackService:  feedbackService,
		userService:      userService,
	}
}

// Submit files a new grievance for the authenticated citizen.
func (h *GrievanceHandler) Submit(c *gin.Context) {
	user, ok := currentUser(c, h.userService)
	if !ok {
		return
	}

	description := c.PostForm("description")
	if strings.TrimSpace(description) == "" {
		apierrors.BadRequest(c, "description is required")
		return
	}
	category := c.PostForm("category")
	if strings.TrimSpace(category) == "" {
		apierrors.BadRequest(c, "category is required")
		return
	}

	input := services.SubmitInput{
		OwnerID:     user.ID,
		Title:       strings.TrimSpace(c.PostForm("title")),
		Description: description,
		Category:    category,
	}
	if v, exists := c.GetPostForm("subcategory"); exists {
		input.Subcategory = &v
	}
	if v, exists := c.GetPostForm("location"); exists {
		input.Location = &v
	}

	imageData, imageType, err := readFormFile(c, "image")
	if err != nil {
		apierrors.BadRequest(c, "Failed to read image")
		return
	}
	input.ImageData = imageData
	input.ImageType = imageType

	g, err := h.grievanceService.Submit(input)
	if err != nil {
		apierrors.InternalError(c, "Failed to create grievance")
		return
	}

	c.JSON(http.StatusCreated, h.decorate(c, *g))
}

// MyGrievances returns the caller's grievances, newest first.
func (h *GrievanceHandler) MyGrievances(c *gin.Context) {
	user, ok := currentUser(c, h.userService)
	if !ok {
		return
	}

	list, err := h.grievanceService.ListByUser(user.ID)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch grievances")
		return
	}

	c.JSON(http.StatusOK, h.decorateAll(c, list))
}

// GetImage streams the main attachment.
func (h *GrievanceHandler) GetImage(c *gin.Context) {
	h.serveImage(c, func(g *models.Grievance) ([]byte, *string) {
		return g.ImageData, g.ImageType
	})
}

// GetResolutionImage streams the resolution attachment.
func (h *GrievanceHandler) GetResolutionImage(c *gin.Context) {
	h.serveImage(c, func(g *models.Grievance) ([]byte, *string) {
		return g.ResolutionImageData, g.ResolutionImageType
	})
}

// GetReopenImage streams the reopen attachment.
func (h *GrievanceHandler) GetReopenImage(c *gin.Context) {
	h.serveImage(c, func(g *models.Grievance) ([]byte, *string) {
		return g.ReopenImageData, g.ReopenImageType
	})
}

func (h *GrievanceHandler) serveImage(c *gin.Context, slot func(*models.Grievance) ([]byte, *string)) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		apierrors.BadRequest(c, "Invalid grievance ID")
		return
	}

	g, err := h.grievanceService.GetByID(id)
	if err != nil {
		respondGrievanceError(c, err)
		return
	}

	data, contentType := slot(g)
	if len(data) == 0 {
		apierrors.NotFound(c, "Image not found")
		return
	}

	ct := "application/octet-stream"
	if contentType != nil {
		ct = *contentType
	}
	c.Data(http.StatusOK, ct, data)
}

// UpdateMainImage replaces the main attachment; owner or admin only.
func (h *GrievanceHandler) UpdateMainImage(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		apierrors.BadRequest(c, "Invalid grievance ID")
		return
	}
	user, ok := currentUser(c, h.userService)
	if !ok {
		return
	}

	g, err := h.grievanceService.GetByID(id)
	if err != nil {
		respondGrievanceError(c, err)
		return
	}

	isOwner := g.UserID == user.ID
	if !isOwner && !middleware.HasRole(c, models.RoleAdmin) {
		apierrors.Forbidden(c, "Not allowed")
		return
	}

	imageData, imageType, err := readFormFile(c, "image")
	if err != nil {
		apierrors.BadRequest(c, "Failed to read image")
		return
	}

	if _, err := h.grievanceService.UpdateMainImage(id, imageData, imageType); err != nil {
		respondGrievanceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "updated", "id": id})
}

// SubmitReopenEvidence attaches the owner's reopen note/image. A resolved
// grievance returns to an active state.
func (h *GrievanceHandler) SubmitReopenEvidence(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		apierrors.BadRequest(c, "Invalid grievance ID")
		return
	}
	user, ok := currentUser(c, h.userService)
	if !ok {
		return
	}

	g, err := h.grievanceService.GetByID(id)
	if err != nil {
		respondGrievanceError(c, err)
		return
	}

	// only the owning citizen may submit reopen evidence
	if g.UserID != user.ID {
		apierrors.Forbidden(c, "Not allowed")
		return
	}

	var note *string
	if v, exists := c.GetPostForm("note"); exists {
		note = &v
	}
	imageData, imageType, err := readFormFile(c, "image")
	if err != nil {
		apierrors.BadRequest(c, "Failed to read image")
		return
	}

	if _, err := h.grievanceService.AttachReopenEvidence(id, note, imageData, imageType); err != nil {
		respondGrievanceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "reopen evidence saved"})
}

// Export serves every grievance's scalar fields as an xlsx download.
func (h *GrievanceHandler) Export(c *gin.Context) {
	grievances, err := h.grievanceService.FindAll()
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch grievances")
		return
	}

	workbook, err := export.Workbook(grievances)
	if err != nil {
		apierrors.InternalError(c, "Failed to generate export")
		return
	}

	c.Header("Content-Disposition", "attachment; filename=grievances.xlsx")
	c.Data(http.StatusOK, xlsxContentType, workbook)
}

func (h *GrievanceHandler) decorate(c *gin.Context, g models.Grievance) dto.GrievanceView {
	rating, err := h.feedbackService.RatingSummaryFor(g.ID)
	if err != nil {
		rating = services.RatingSummary{}
	}
	return dto.ToGrievanceView(g, requestBaseURL(c), rating)
}

func (h *GrievanceHandler) decorateAll(c *gin.Context, list []models.Grievance) []dto.GrievanceView {
	views := make([]dto.GrievanceView, len(list))
	for i, g := range list {
		views[i] = h.decorate(c, g)
	}
	return views
}

func respondGrievanceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrGrievanceNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrInvalidStatus):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
