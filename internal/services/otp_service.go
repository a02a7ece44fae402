package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/civicdesk/grievance-api/internal/constants"
	"github.com/civicdesk/grievance-api/internal/models"
	"github.com/civicdesk/grievance-api/internal/otp"
	"github.com/civicdesk/grievance-api/internal/utils"
)

var (
	ErrOTPExpired       = errors.New("OTP expired")
	ErrOTPInvalid       = errors.New("invalid OTP")
	ErrNoPendingContact = errors.New("no pending registration for this email")
)

// OTPMailer delivers one-time codes. Satisfied by email.Service.
type OTPMailer interface {
	IsConfigured() bool
	SendOTP(to, code string) error
}

// OTPService runs the OTP-gated registration flow: a pending record per
// email, a fresh 6-digit code per (re)send, and single-use verification that
// creates the real citizen account.
type OTPService struct {
	store  *otp.Store
	mailer OTPMailer
	users  *UserService
}

// NewOTPService creates a new OTPService.
func NewOTPService(store *otp.Store, mailer OTPMailer, users *UserService) *OTPService {
	return &OTPService{
		store:  store,
		mailer: mailer,
		users:  users,
	}
}

// RegistrationPayload is the citizen-supplied registration data.
type RegistrationPayload struct {
	Fullname string
	Username string
	Email    string
	Password string
}

// Register upserts the pending registration for the email, replacing any
// prior code, and attempts to mail the new one. A send failure does not fail
// the call; it is logged and reported through the emailed flag.
func (s *OTPService) Register(ctx context.Context, payload RegistrationPayload) (code string, emailed bool, err error) {
	reg := &otp.PendingRegistration{
		Fullname: payload.Fullname,
		Username: payload.Username,
		Email:    payload.Email,
		Password: payload.Password,
	}
	return s.sendAndSave(ctx, reg)
}

// Verify checks the code for the email's pending registration. On success it
// creates the citizen account and deletes the record (single use). Failed
// attempts leave the record in place.
func (s *OTPService) Verify(ctx context.Context, email, code string) (*models.User, error) {
	reg, err := s.store.Find(ctx, email)
	if err != nil {
		if errors.Is(err, otp.ErrNotFound) {
			return nil, ErrOTPInvalid
		}
		return nil, err
	}

	if reg.Expired() {
		return nil, ErrOTPExpired
	}
	if reg.Code != code {
		return nil, ErrOTPInvalid
	}

	user, err := s.users.Register(RegisterInput{
		Email:    reg.Email,
		Username: reg.Username,
		Password: reg.Password,
		Fullname: reg.Fullname,
		Role:     models.RoleCitizen,
	})
	if err != nil {
		return nil, err
	}

	if err := s.store.Delete(ctx, email); err != nil {
		// account exists already; a stale record only blocks until TTL
		log.Printf("Failed to delete pending registration for %s: %v", email, err)
	}
	return user, nil
}

// Resend regenerates and re-sends the code for an existing pending
// registration.
func (s *OTPService) Resend(ctx context.Context, email string) (code string, emailed bool, err error) {
	reg, err := s.store.Find(ctx, email)
	if err != nil {
		if errors.Is(err, otp.ErrNotFound) {
			return "", false, ErrNoPendingContact
		}
		return "", false, err
	}
	return s.sendAndSave(ctx, reg)
}

func (s *OTPService) sendAndSave(ctx context.Context, reg *otp.PendingRegistration) (string, bool, error) {
	code, err := utils.GenerateOTPCode()
	if err != nil {
		return "", false, fmt.Errorf("failed to generate OTP: %w", err)
	}
	reg.Code = code
	reg.ExpiresAt = time.Now().Add(constants.OTPValidity)

	if err := s.store.Save(ctx, reg); err != nil {
		return "", false, err
	}

	emailed := false
	if s.mailer != nil && s.mailer.IsConfigured() {
		if err := s.mailer.SendOTP(reg.Email, code); err != nil {
			log.Printf("Failed to send OTP email to %s: %v", reg.Email, err)
		} else {
			emailed = true
		}
	} else {
		log.Printf("Mail not configured; OTP for %s was not emailed", reg.Email)
	}
	return code, emailed, nil
}
