package model

import "time"

// Twitter represents a twitter post stored in the `twitter` table.  The
// post owns the Movie association: twitter.movie_id is the only place the
// link is persisted.
type Twitter struct {
	ID        uint64     // twitter.id
	Content   string     // twitter.content
	PubDate   *time.Time // twitter.pub_date
	Publisher *string    // twitter.publisher
	Movie     *Movie     // twitter.movie_id
}

// Equal reports whether t and o denote the same persisted post.
func (t *Twitter) Equal(o *Twitter) bool {
	if t == nil || o == nil {
		return false
	}
	return t.ID != 0 && t.ID == o.ID
}
