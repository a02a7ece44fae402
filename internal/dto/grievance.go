package dto

import (
	"fmt"
	"time"

	"github.com/civicdesk/grievance-api/internal/models"
	"github.com/civicdesk/grievance-api/internal/services"
)

// GrievanceView is the decorated read projection of a grievance: image URLs
// are present only when the matching attachment slot is filled, and the
// rating aggregate is computed at read time, never stored.
type GrievanceView struct {
	ID          uint64  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Subcategory *string `json:"subcategory,omitempty"`
	Location    *string `json:"location"`

	ImageURL           *string `json:"imageUrl"`
	ResolutionImageURL *string `json:"resolutionImageUrl,omitempty"`
	ReopenImageURL     *string `json:"reopenImageUrl,omitempty"`

	Status    models.Status `json:"status"`
	UserID    uint64        `json:"userId"`
	OfficerID *uint64       `json:"officerId"`
	Priority  *string       `json:"priority"`
	Deadline  *string       `json:"deadline"`
	CreatedAt time.Time     `json:"createdAt"`

	ResolutionNote *string    `json:"resolutionNote,omitempty"`
	ResolvedAt     *time.Time `json:"resolvedAt,omitempty"`
	ReopenNote     *string    `json:"reopenNote,omitempty"`

	AverageRating *float64 `json:"averageRating"`
	RatingCount   int64    `json:"ratingCount"`
}

// ToGrievanceView projects a stored grievance plus its rating aggregate into
// the response shape. baseURL is the scheme://host of the current request.
func ToGrievanceView(g models.Grievance, baseURL string, rating services.RatingSummary) GrievanceView {
	view := GrievanceView{
		ID:             g.ID,
		Title:          g.Title,
		Description:    g.Description,
		Category:       g.Category,
		Subcategory:    g.Subcategory,
		Location:       g.Location,
		Status:         g.Status,
		UserID:         g.UserID,
		OfficerID:      g.OfficerID,
		Priority:       g.Priority,
		CreatedAt:      g.CreatedAt,
		ResolutionNote: g.ResolutionNote,
		ResolvedAt:     g.ResolvedAt,
		ReopenNote:     g.ReopenNote,
		AverageRating:  rating.Average,
		RatingCount:    rating.Count,
	}

	if g.Deadline != nil {
		d := g.Deadline.Format("2006-01-02")
		view.Deadline = &d
	}
	if g.HasImage() {
		view.ImageURL = imageURL(baseURL, g.ID, "image")
	}
	if g.HasResolutionImage() {
		view.ResolutionImageURL = imageURL(baseURL, g.ID, "resolution/image")
	}
	if g.HasReopenImage() {
		view.ReopenImageURL = imageURL(baseURL, g.ID, "reopen/image")
	}

	return view
}

func imageURL(baseURL string, id uint64, slot string) *string {
	url := fmt.Sprintf("%s/api/grievances/%d/%s", baseURL, id, slot)
	return &url
}
