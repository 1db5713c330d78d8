package seller

import (
	"strings"
	"time"
)

// Seller is an application to sell, kept for the admin to review.
type Seller struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	NIDFront  string    `json:"nidFront"`
	NIDBack   string    `json:"nidBack"`
	Photo     string    `json:"photo"`
	Role      string    `json:"role,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type ApplyInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	NIDFront string `json:"nidFront"`
	NIDBack  string `json:"nidBack"`
	Photo    string `json:"photo"`
}

func (in *ApplyInput) Validate() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)
	in.NIDFront = strings.TrimSpace(in.NIDFront)
	in.NIDBack = strings.TrimSpace(in.NIDBack)
	in.Photo = strings.TrimSpace(in.Photo)

	switch {
	case in.Name == "":
		return ErrNameRequired
	case in.Phone == "":
		return ErrPhoneRequired
	case in.NIDFront == "" || in.NIDBack == "":
		return ErrDocumentsRequired
	}
	return nil
}
