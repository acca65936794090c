package dto

import "time"

// News is the transfer object for model.News.
type News struct {
	ID               *uint64    `json:"id,omitempty"`
	Headerline       *string    `json:"headerline,omitempty" validate:"required,min=1" patch:"omitempty,min=1"`
	URL              *string    `json:"url,omitempty" validate:"required,min=1" patch:"omitempty,min=1"`
	PubDate          *time.Time `json:"pubDate,omitempty"`
	Image            []byte     `json:"image,omitempty"`
	ImageContentType *string    `json:"imageContentType,omitempty"`
	User             *User      `json:"user,omitempty" validate:"-" patch:"-"`
}

// Equal compares transfer objects by identifier only.
func (n News) Equal(o News) bool { return sameID(n.ID, o.ID) }
