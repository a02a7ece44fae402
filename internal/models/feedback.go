package models

import "time"

// Feedback is a post-resolution rating. The (grievance_id, user_id) pair is
// unique at the storage layer so concurrent submissions cannot slip past the
// application-level existence check. Rows are never updated or deleted.
type Feedback struct {
	ID          uint64  `gorm:"primarykey" json:"id"`
	GrievanceID uint64  `gorm:"not null;uniqueIndex:idx_feedback_grievance_user" json:"grievance_id"`
	UserID      uint64  `gorm:"not null;uniqueIndex:idx_feedback_grievance_user" json:"user_id"`
	Rating      int     `gorm:"not null" json:"rating"`
	Comments    *string `gorm:"type:text" json:"comments,omitempty"`
	// Reopened exists in the schema but no write path sets it.
	Reopened  bool      `gorm:"not null;default:false" json:"reopened"`
	CreatedAt time.Time `json:"created_at"`
}
