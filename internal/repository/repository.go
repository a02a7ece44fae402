package repository

import (
	"github.com/civicdesk/grievance-api/internal/models"
	"github.com/civicdesk/grievance-api/internal/utils"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// CreateWithRoles creates a user and its role rows within a single transaction
	CreateWithRoles(user *models.User, roles []models.Role) error

	// FindByID finds a user by ID with roles preloaded
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by username with roles preloaded
	FindByUsername(username string) (*models.User, error)

	// ExistsByUsername reports whether a user with the username exists
	ExistsByUsername(username string) (bool, error)

	// ExistsByEmail reports whether a user with the email exists
	ExistsByEmail(email string) (bool, error)

	// ListByRole lists all users holding the given role
	ListByRole(role models.Role) ([]models.User, error)
}

// GrievanceRepository defines the interface for grievance data access
type GrievanceRepository interface {
	// Create creates a new grievance
	Create(g *models.Grievance) error

	// FindByID finds a grievance by ID
	FindByID(id uint64) (*models.Grievance, error)

	// ListByUser lists a user's grievances, newest first
	ListByUser(userID uint64) ([]models.Grievance, error)

	// ListByOfficer lists grievances assigned to an officer, newest first
	ListByOfficer(officerID uint64) ([]models.Grievance, error)

	// ListAll lists grievances with pagination, newest first
	ListAll(params utils.PaginationParams) ([]models.Grievance, int64, error)

	// FindAll returns every grievance without pagination (export)
	FindAll() ([]models.Grievance, error)

	// Update persists all fields of a grievance
	Update(g *models.Grievance) error
}

// FeedbackRepository defines the interface for feedback data access
type FeedbackRepository interface {
	// Create inserts a feedback row
	Create(f *models.Feedback) error

	// ExistsByGrievanceAndUser reports whether the pair already has feedback
	ExistsByGrievanceAndUser(grievanceID, userID uint64) (bool, error)

	// ListByGrievance lists feedback for a grievance, newest first
	ListByGrievance(grievanceID uint64) ([]models.Feedback, error)

	// ListAll lists every feedback row
	ListAll() ([]models.Feedback, error)

	// AverageRating returns the mean rating, nil when no feedback exists
	AverageRating(grievanceID uint64) (*float64, error)

	// CountByGrievance returns the number of feedback rows for a grievance
	CountByGrievance(grievanceID uint64) (int64, error)
}
