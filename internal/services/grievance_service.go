package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/civicdesk/grievance-api/internal/models"
	"github.com/civicdesk/grievance-api/internal/repository"
	"github.com/civicdesk/grievance-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrGrievanceNotFound = errors.New("grievance not found")
	ErrInvalidStatus     = errors.New("invalid status")
)

// GrievanceService owns the complaint lifecycle: submission, assignment,
// resolution updates, and reopen evidence.
type GrievanceService struct {
	grievanceRepo repository.GrievanceRepository
}

// NewGrievanceService creates a new GrievanceService.
func NewGrievanceService(grievanceRepo repository.GrievanceRepository) *GrievanceService {
	return &GrievanceService{
		grievanceRepo: grievanceRepo,
	}
}

// SubmitInput holds a citizen's complaint submission.
type SubmitInput struct {
	OwnerID     uint64
	Title       string
	Description string
	Category    string
	Subcategory *string
	Location    *string
	ImageData   []byte
	ImageType   *string
}

// Submit files a new grievance with status PENDING, owned by the submitter.
func (s *GrievanceService) Submit(input SubmitInput) (*models.Grievance, error) {
	g := &models.Grievance{
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Subcategory: input.Subcategory,
		Location:    input.Location,
		ImageData:   input.ImageData,
		ImageType:   input.ImageType,
		Status:      models.StatusPending,
		UserID:      input.OwnerID,
	}

	if err := s.grievanceRepo.Create(g); err != nil {
		return nil, fmt.Errorf("failed to create grievance: %w", err)
	}
	return g, nil
}

// AssignOfficer sets the officer, priority, and deadline together and moves
// the grievance to ASSIGNED. Repeating the call overwrites the prior
// assignment fields.
func (s *GrievanceService) AssignOfficer(id, officerID uint64, priority string, deadline *time.Time) (*models.Grievance, error) {
	g, err := s.findByID(id)
	if err != nil {
		return nil, err
	}

	g.OfficerID = &officerID
	g.Priority = &priority
	g.Deadline = deadline
	g.Status = models.StatusAssigned

	if err := s.grievanceRepo.Update(g); err != nil {
		return nil, fmt.Errorf("failed to assign grievance: %w", err)
	}
	return g, nil
}

// ResolutionPatch carries a partial resolution update. Nil fields are left
// untouched, never cleared.
type ResolutionPatch struct {
	Status    *string
	Note      *string
	ImageData []byte
	ImageType *string
}

// UpdateResolution applies each present field of the patch independently.
// An unrecognized status string fails with ErrInvalidStatus and changes
// nothing. When the applied status is RESOLVED, resolvedAt is stamped.
func (s *GrievanceService) UpdateResolution(id uint64, patch ResolutionPatch) (*models.Grievance, error) {
	g, err := s.findByID(id)
	if err != nil {
		return nil, err
	}

	if patch.Status != nil {
		status, err := models.ParseStatus(*patch.Status)
		if err != nil {
			return nil, ErrInvalidStatus
		}
		g.Status = status
		if status == models.StatusResolved {
			now := time.Now()
			g.ResolvedAt = &now
		}
	}
	if patch.Note != nil {
		g.ResolutionNote = patch.Note
	}
	if len(patch.ImageData) > 0 {
		g.ResolutionImageData = patch.ImageData
		g.ResolutionImageType = patch.ImageType
	}

	if err := s.grievanceRepo.Update(g); err != nil {
		return nil, fmt.Errorf("failed to update grievance: %w", err)
	}
	return g, nil
}

// AttachReopenEvidence stores the owner's reopen note/image. Reopening a
// RESOLVED grievance returns it to an active state: ASSIGNED when an officer
// is still attached, PENDING otherwise; resolvedAt is cleared.
func (s *GrievanceService) AttachReopenEvidence(id uint64, note *string, imageData []byte, imageType *string) (*models.Grievance, error) {
	g, err := s.findByID(id)
	if err != nil {
		return nil, err
	}

	if len(imageData) > 0 {
		g.ReopenImageData = imageData
		g.ReopenImageType = imageType
	}
	if note != nil {
		g.ReopenNote = note
	}

	if g.Status == models.StatusResolved {
		if g.OfficerID != nil {
			g.Status = models.StatusAssigned
		} else {
			g.Status = models.StatusPending
		}
		g.ResolvedAt = nil
	}

	if err := s.grievanceRepo.Update(g); err != nil {
		return nil, fmt.Errorf("failed to save reopen evidence: %w", err)
	}
	return g, nil
}

// UpdateMainImage replaces the main attachment slot.
func (s *GrievanceService) UpdateMainImage(id uint64, imageData []byte, imageType *string) (*models.Grievance, error) {
	g, err := s.findByID(id)
	if err != nil {
		return nil, err
	}

	if len(imageData) > 0 {
		g.ImageData = imageData
		g.ImageType = imageType
		if err := s.grievanceRepo.Update(g); err != nil {
			return nil, fmt.Errorf("failed to update image: %w", err)
		}
	}
	return g, nil
}

// GetByID returns a single grievance.
func (s *GrievanceService) GetByID(id uint64) (*models.Grievance, error) {
	return s.findByID(id)
}

// ListByUser returns a user's grievances, newest first.
func (s *GrievanceService) ListByUser(userID uint64) ([]models.Grievance, error) {
	return s.grievanceRepo.ListByUser(userID)
}

// ListByOfficer returns an officer's assigned grievances, newest first.
func (s *GrievanceService) ListByOfficer(officerID uint64) ([]models.Grievance, error) {
	return s.grievanceRepo.ListByOfficer(officerID)
}

// ListAll returns a page of all grievances plus the total count.
func (s *GrievanceService) ListAll(params utils.PaginationParams) ([]models.Grievance, int64, error) {
	return s.grievanceRepo.ListAll(params)
}

// FindAll returns every grievance (export).
func (s *GrievanceService) FindAll() ([]models.Grievance, error) {
	return s.grievanceRepo.FindAll()
}

func (s *GrievanceService) findByID(id uint64) (*models.Grievance, error) {
	g, err := s.grievanceRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGrievanceNotFound
		}
		return nil, fmt.Errorf("failed to find grievance: %w", err)
	}
	return g, nil
}
