package repository

import (
	"github.com/civicdesk/grievance-api/internal/models"
	"gorm.io/gorm"
)

// GormFeedbackRepository is a GORM implementation of FeedbackRepository
type GormFeedbackRepository struct {
	db *gorm.DB
}

// NewFeedbackRepository creates a new FeedbackRepository
func NewFeedbackRepository(db *gorm.DB) FeedbackRepository {
	return &GormFeedbackRepository{db: db}
}

// Create inserts a feedback row
func (r *GormFeedbackRepository) Create(f *models.Feedback) error {
	return r.db.Create(f).Error
}

// ExistsByGrievanceAndUser reports whether the pair already has feedback
func (r *GormFeedbackRepository) ExistsByGrievanceAndUser(grievanceID, userID uint64) (bool, error) {
	var count int64
	err := r.db.Model(&models.Feedback{}).
		Where("grievance_id = ? AND user_id = ?", grievanceID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListByGrievance lists feedback for a grievance, newest first
func (r *GormFeedbackRepository) ListByGrievance(grievanceID uint64) ([]models.Feedback, error) {
	var list []models.Feedback
	err := r.db.Where("grievance_id = ?", grievanceID).
		Order("created_at DESC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

// ListAll lists every feedback row
func (r *GormFeedbackRepository) ListAll() ([]models.Feedback, error) {
	var list []models.Feedback
	if err := r.db.Order("created_at DESC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// AverageRating returns the mean rating, nil when no feedback exists
func (r *GormFeedbackRepository) AverageRating(grievanceID uint64) (*float64, error) {
	var avg *float64
	err := r.db.Model(&models.Feedback{}).
		Select("AVG(rating)").
		Where("grievance_id = ?", grievanceID).
		Scan(&avg).Error
	if err != nil {
		return nil, err
	}
	return avg, nil
}

// CountByGrievance returns the number of feedback rows for a grievance
func (r *GormFeedbackRepository) CountByGrievance(grievanceID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.Feedback{}).
		Where("grievance_id = ?", grievanceID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
