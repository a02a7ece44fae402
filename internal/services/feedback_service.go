package services

import (
	"errors"
	"fmt"

	"github.com/civicdesk/grievance-api/internal/models"
	"github.com/civicdesk/grievance-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrDuplicateFeedback    = errors.New("feedback already submitted for this grievance by the user")
	ErrGrievanceNotResolved = errors.New("feedback allowed only for resolved grievances")
)

// FeedbackService handles post-resolution ratings.
type FeedbackService struct {
	feedbackRepo  repository.FeedbackRepository
	grievanceRepo repository.GrievanceRepository
}

// NewFeedbackService creates a new FeedbackService.
func NewFeedbackService(feedbackRepo repository.FeedbackRepository, grievanceRepo repository.GrievanceRepository) *FeedbackService {
	return &FeedbackService{
		feedbackRepo:  feedbackRepo,
		grievanceRepo: grievanceRepo,
	}
}

// Submit records a rating for a resolved grievance. One feedback per
// (grievance, user): the existence check covers the common path and the
// unique index closes the concurrent-submission race.
func (s *FeedbackService) Submit(userID, grievanceID uint64, rating int, comments *string) (*models.Feedback, error) {
	g, err := s.grievanceRepo.FindByID(grievanceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGrievanceNotFound
		}
		return nil, fmt.Errorf("failed to find grievance: %w", err)
	}

	if g.Status != models.StatusResolved {
		return nil, ErrGrievanceNotResolved
	}

	exists, err := s.feedbackRepo.ExistsByGrievanceAndUser(grievanceID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing feedback: %w", err)
	}
	if exists {
		return nil, ErrDuplicateFeedback
	}

	f := &models.Feedback{
		GrievanceID: grievanceID,
		UserID:      userID,
		Rating:      rating,
		Comments:    comments,
	}
	if err := s.feedbackRepo.Create(f); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateFeedback
		}
		return nil, fmt.Errorf("failed to save feedback: %w", err)
	}
	return f, nil
}

// ListByGrievance returns the feedback for a grievance, newest first.
func (s *FeedbackService) ListByGrievance(grievanceID uint64) ([]models.Feedback, error) {
	return s.feedbackRepo.ListByGrievance(grievanceID)
}

// ListAll returns every feedback row.
func (s *FeedbackService) ListAll() ([]models.Feedback, error) {
	return s.feedbackRepo.ListAll()
}

// RatingSummary is the aggregate decoration attached to grievance reads.
type RatingSummary struct {
	Average *float64
	Count   int64
}

// RatingSummaryFor computes the rating aggregate for a grievance. Average is
// nil when no feedback exists.
func (s *FeedbackService) RatingSummaryFor(grievanceID uint64) (RatingSummary, error) {
	avg, err := s.feedbackRepo.AverageRating(grievanceID)
	if err != nil {
		return RatingSummary{}, fmt.Errorf("failed to compute average rating: %w", err)
	}
	count, err := s.feedbackRepo.CountByGrievance(grievanceID)
	if err != nil {
		return RatingSummary{}, fmt.Errorf("failed to count ratings: %w", err)
	}
	return RatingSummary{Average: avg, Count: count}, nil
}
