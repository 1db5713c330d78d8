package review

import (
	"strings"
	"time"
)

const (
	MinRating = 1
	MaxRating = 5

	// LatestLimit caps the home page feed.
	LatestLimit = 20
)

type Review struct {
	ID          string    `json:"_id"`
	ProductID   string    `json:"productId"`
	AuthorName  string    `json:"name"`
	AuthorEmail string    `json:"email"`
	AuthorPhoto string    `json:"userPhoto"`
	Rating      int       `json:"rating"`
	Body        string    `json:"review"`
	PhotoURL    string    `json:"photoUrl"`
	CanEdit     bool      `json:"canEdit"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type CreateInput struct {
	ProductID string `json:"productId"`
	Body      string `json:"review"`
	Rating    int    `json:"rating"`
	PhotoURL  string `json:"photoUrl"`
}

func (in *CreateInput) Validate() error {
	in.ProductID = strings.TrimSpace(in.ProductID)
	in.Body = strings.TrimSpace(in.Body)
	in.PhotoURL = strings.TrimSpace(in.PhotoURL)
	if in.Body == "" {
		return ErrReviewRequired
	}
	return validRating(in.Rating)
}

// UpdateInput edits the text; a nil rating keeps the stored one.
type UpdateInput struct {
	Body   string `json:"review"`
	Rating *int   `json:"rating,omitempty"`
}

func (in *UpdateInput) Validate() error {
	in.Body = strings.TrimSpace(in.Body)
	if in.Body == "" {
		return ErrReviewRequired
	}
	if in.Rating != nil {
		return validRating(*in.Rating)
	}
	return nil
}

func validRating(r int) error {
	if r < MinRating || r > MaxRating {
		return ErrInvalidRating
	}
	return nil
}
