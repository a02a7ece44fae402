package models

import (
	"fmt"
	"strings"
	"time"
)

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusAssigned Status = "ASSIGNED"
	StatusResolved Status = "RESOLVED"
)

// ParseStatus normalizes a status string case-insensitively. Unknown values
// are rejected rather than ignored so a bad update cannot pass silently.
func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToUpper(s)) {
	case StatusPending:
		return StatusPending, nil
	case StatusAssigned:
		return StatusAssigned, nil
	case StatusResolved:
		return StatusResolved, nil
	default:
		return "", fmt.Errorf("invalid status %q", s)
	}
}

// Grievance is a citizen-filed complaint. Rows are never deleted; the
// lifecycle only moves the status and fills in assignment/resolution/reopen
// fields. The three image slots (main, resolution, reopen) are independent.
type Grievance struct {
	ID          uint64  `gorm:"primarykey" json:"id"`
	Title       string  `gorm:"type:varchar(255)" json:"title"`
	Description string  `gorm:"type:text;not null" json:"description"`
	Category    string  `gorm:"type:varchar(100);not null;index" json:"category"`
	Subcategory *string `gorm:"type:varchar(100)" json:"subcategory,omitempty"`
	Location    *string `gorm:"type:varchar(255)" json:"location,omitempty"`

	ImageData []byte  `json:"-"`
	ImageType *string `gorm:"type:varchar(100)" json:"-"`

	Status Status `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	UserID uint64 `gorm:"not null;index" json:"user_id"`

	// Set together by assignment, absent until then.
	OfficerID *uint64    `gorm:"index" json:"officer_id,omitempty"`
	Priority  *string    `gorm:"type:varchar(20)" json:"priority,omitempty"`
	Deadline  *time.Time `json:"deadline,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ResolutionNote      *string    `gorm:"type:text" json:"resolution_note,omitempty"`
	ResolutionImageData []byte     `json:"-"`
	ResolutionImageType *string    `gorm:"type:varchar(100)" json:"-"`
	ResolvedAt          *time.Time `json:"resolved_at,omitempty"`

	ReopenNote      *string `gorm:"type:text" json:"reopen_note,omitempty"`
	ReopenImageData []byte  `json:"-"`
	ReopenImageType *string `gorm:"type:varchar(100)" json:"-"`
}

// HasImage reports whether the main attachment slot is filled.
func (g *Grievance) HasImage() bool { return len(g.ImageData) > 0 }

// HasResolutionImage reports whether the resolution attachment slot is filled.
func (g *Grievance) HasResolutionImage() bool { return len(g.ResolutionImageData) > 0 }

// HasReopenImage reports whether the reopen attachment slot is filled.
func (g *Grievance) HasReopenImage() bool { return len(g.ReopenImageData) > 0 }
