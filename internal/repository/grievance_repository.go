package repository

import (
	"github.com/civicdesk/grievance-api/internal/database"
	"github.com/civicdesk/grievance-api/internal/models"
	"github.com/civicdesk/grievance-api/internal/utils"
	"gorm.io/gorm"
)

// GormGrievanceRepository is a GORM implementation of GrievanceRepository
type GormGrievanceRepository struct {
	db *gorm.DB
}

// NewGrievanceRepository creates a new GrievanceRepository
func NewGrievanceRepository(db *gorm.DB) GrievanceRepository {
	return &GormGrievanceRepository{db: db}
}

// Create creates a new grievance
func (r *GormGrievanceRepository) Create(g *models.Grievance) error {
	return r.db.Create(g).Error
}

// FindByID finds a grievance by ID
func (r *GormGrievanceRepository) FindByID(id uint64) (*models.Grievance, error) {
	var g models.Grievance
	if err := r.db.First(&g, id).Error; err != nil {
		return nil, err
	}
	return &g, nil
}

// ListByUser lists a user's grievances, newest first
func (r *GormGrievanceRepository) ListByUser(userID uint64) ([]models.Grievance, error) {
	var list []models.Grievance
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

// ListByOfficer lists grievances assigned to an officer, newest first
func (r *GormGrievanceRepository) ListByOfficer(officerID uint64) ([]models.Grievance, error) {
	var list []models.Grievance
	err := r.db.Where("officer_id = ?", officerID).
		Order("created_at DESC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

// ListAll lists grievances with pagination, newest first
func (r *GormGrievanceRepository) ListAll(params utils.PaginationParams) ([]models.Grievance, int64, error) {
	var total int64
	if err := r.db.Model(&models.Grievance{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []models.Grievance
	err := r.db.Order("created_at DESC").
		Scopes(database.Paginate(params)).
		Find(&list).Error
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// FindAll returns every grievance without pagination (export)
func (r *GormGrievanceRepository) FindAll() ([]models.Grievance, error) {
	var list []models.Grievance
	if err := r.db.Order("created_at DESC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// Update persists all fields of a grievance
func (r *GormGrievanceRepository) Update(g *models.Grievance) error {
	return r.db.Save(g).Error
}
