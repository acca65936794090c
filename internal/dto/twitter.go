package dto

import "time"

// Twitter is the transfer object for model.Twitter.  Movie carries the
// id-only projection of the owning movie.
type Twitter struct {
	ID        *uint64    `json:"id,omitempty"`
	Content   *string    `json:"content,omitempty" validate:"required,min=1" patch:"omitempty,min=1"`
	PubDate   *time.Time `json:"pubDate,omitempty"`
	Publisher *string    `json:"publisher,omitempty"`
	Movie     *Movie     `json:"movie,omitempty" validate:"-" patch:"-"`
}

// Equal compares transfer objects by identifier only.
func (t Twitter) Equal(o Twitter) bool { return sameID(t.ID, o.ID) }
