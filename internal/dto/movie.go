package dto

import "time"

// Movie is the transfer object for model.Movie.  When a movie is embedded
// in another transfer object (as the owner of a twitter post) only ID is
// populated.
type Movie struct {
	ID               *uint64    `json:"id,omitempty"`
	Name             *string    `json:"name,omitempty" validate:"required,min=1" patch:"omitempty,min=1"`
	Director         *string    `json:"director,omitempty"`
	Synopsis         *string    `json:"synopsis,omitempty"`
	Comment          *string    `json:"comment,omitempty"`
	StartDate        *time.Time `json:"startDate,omitempty"`
	Image            []byte     `json:"image,omitempty"`
	ImageContentType *string    `json:"imageContentType,omitempty"`
	User             *User      `json:"user,omitempty" validate:"-" patch:"-"`
}

// Equal compares transfer objects by identifier only.
func (m Movie) Equal(o Movie) bool { return sameID(m.ID, o.ID) }
