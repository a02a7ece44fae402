package handlers

import (
	"io"
	"strconv"

	apierrors "github.com/civicdesk/grievance-api/internal/errors"
	"github.com/civicdesk/grievance-api/internal/middleware"
	"github.com/civicdesk/grievance-api/internal/models"
	"github.com/civicdesk/grievance-api/internal/services"
	"github.com/gin-gonic/gin"
)

// currentUser resolves the authenticated identity to its stored user row.
// It writes the error response itself when resolution fails.
func currentUser(c *gin.Context, users *services.UserService) (*models.User, bool) {
	username, exists := middleware.GetUsername(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return nil, false
	}
	user, err := users.GetByUsername(username)
	if err != nil {
		apierrors.Unauthorized(c, "Unknown user")
		return nil, false
	}
	return user, true
}

// requestBaseURL reconstructs scheme://host for building derived image URLs.
func requestBaseURL(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host
}

// parseIDParam parses a numeric path parameter.
func parseIDParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// readFormFile reads an optional multipart file field fully into memory,
// returning nil data when the field is absent or empty.
func readFormFile(c *gin.Context, field string) (data []byte, contentType *string, err error) {
	fileHeader, ferr := c.FormFile(field)
	if ferr != nil {
		// missing file field is not an error for optional attachments
		return nil, nil, nil
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	data, err = io.ReadAll(file)
	if err != nil {
		return nil, nil, err
	}
	if len(data) == 0 {
		return nil, nil, nil
	}

	if ct := fileHeader.Header.Get("Content-Type"); ct != "" {
		contentType = &ct
	}
	return data, contentType, nil
}
