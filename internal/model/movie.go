package model

import "time"

// Movie represents a row in the `movie` table.
//
// Fields:
//  ID        – primary key identifier, 0 until the movie is first saved.
//  Name      – title of the movie (required).
//  Director  – optional director name.
//  Synopsis  – optional plot summary.
//  Comment   – optional free-form comment.
//  StartDate – optional release/screening date.
//  Image     – optional poster (bytes + content type).
//  User      – optional owning user (movie.user_id).
//  Twitters  – posts whose movie reference points at this movie.  The
//              collection is derived from twitter.movie_id and is never
//              written back by the store.
type Movie struct {
	ID        uint64     // movie.id
	Name      string     // movie.name
	Director  *string    // movie.director
	Synopsis  *string    // movie.synopsis
	Comment   *string    // movie.comment
	StartDate *time.Time // movie.start_date
	Image     *Image     // movie.image + movie.image_content_type
	User      *User      // movie.user_id
	Twitters  []*Twitter // derived from twitter.movie_id
}

// Equal reports whether m and o denote the same persisted movie.  A movie
// without an identifier has no identity and is never equal to anything.
func (m *Movie) Equal(o *Movie) bool {
	if m == nil || o == nil {
		return false
	}
	return m.ID != 0 && m.ID == o.ID
}
