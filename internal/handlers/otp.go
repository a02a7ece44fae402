package handlers

import (
	"errors"
	"net/http"
	"strings"

	apierrors "github.com/civicdesk/grievance-api/internal/errors"
	"github.com/civicdesk/grievance-api/internal/services"
	"github.com/gin-gonic/gin"
)

// OtpHandler runs the OTP-gated registration endpoints. When exposeCodes is
// set (debug mode only) the generated code is echoed in responses so the
// flow can be exercised without a mail server.
type OtpHandler struct {
	otpService  *services.OTPService
	exposeCodes bool
}

// NewOtpHandler creates a new OtpHandler.
func NewOtpHandler(otpService *services.OTPService, exposeCodes bool) *OtpHandler {
	return &OtpHandler{
		otpService:  otpService,
		exposeCodes: exposeCodes,
	}
}

// Register starts (or restarts) an OTP-gated registration for an email.
func (h *OtpHandler) Register(c *gin.Context) {
	type OtpRegisterRequest struct {
		Fullname string `json:"fullname"`
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	var req OtpRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Email) == "" {
		apierrors.BadRequest(c, "email is required")
		return
	}

	code, _, err := h.otpService.Register(c.Request.Context(), services.RegistrationPayload{
		Fullname: req.Fullname,
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		apierrors.InternalError(c, "Failed to generate OTP")
		return
	}

	resp := gin.H{
		"message": "OTP generated",
		"email":   req.Email,
	}
	if h.exposeCodes {
		resp["otp"] = code
	}
	c.JSON(http.StatusOK, resp)
}

// Verify checks the submitted code and creates the citizen account.
func (h *OtpHandler) Verify(c *gin.Context) {
	type VerifyRequest struct {
		Email string `json:"email" binding:"required"`
		OTP   string `json:"otp" binding:"required"`
	}

	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.otpService.Verify(c.Request.Context(), req.Email, req.OTP)
	if err != nil {
		respondOtpError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Registration successful",
		"username": user.Username,
	})
}

// Resend regenerates and re-sends the code for a pending registration.
func (h *OtpHandler) Resend(c *gin.Context) {
	type ResendRequest struct {
		Email string `json:"email" binding:"required"`
	}

	var req ResendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	code, _, err := h.otpService.Resend(c.Request.Context(), req.Email)
	if err != nil {
		respondOtpError(c, err)
		return
	}

	resp := gin.H{"message": "OTP resent"}
	if h.exposeCodes {
		resp["otp"] = code
	}
	c.JSON(http.StatusOK, resp)
}

func respondOtpError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrOTPExpired):
		apierrors.BadRequest(c, "OTP expired")
	case errors.Is(err, services.ErrOTPInvalid):
		apierrors.BadRequest(c, "Invalid OTP")
	case errors.Is(err, services.ErrNoPendingContact):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrUsernameTaken),
		errors.Is(err, services.ErrEmailTaken):
		apierrors.Conflict(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
