// Package mapper converts between entities (internal/model) and transfer
// objects (internal/dto).
//
// The To* functions are total: every entity field has a transfer field
// and the reverse.  Related records are narrowed when embedded: an owner
// becomes {id, login} and a movie referenced by a twitter post becomes
// {id}.  Movie.Twitters is never read from a transfer object; it is a
// derived collection maintained by package association.
//
// The Merge* functions apply a merge patch: every non-nil field of the
// patch overwrites the entity, nil fields are left untouched.
package mapper

import (
	"time"

	"github.com/iliyamo/movie-news/internal/dto"
	"github.com/iliyamo/movie-news/internal/model"
)

// UserRef projects a user to its identifier and login.
func UserRef(u *model.User) *dto.User {
	if u == nil {
		return nil
	}
	return &dto.User{ID: idPtr(u.ID), Login: u.Login}
}

// userFromRef builds the reference half of the owner association.  Only
// the identifier is taken from the client; the login is resolved by the
// store on read.
func userFromRef(r *dto.User) *model.User {
	if r == nil || r.ID == nil {
		return nil
	}
	return &model.User{ID: *r.ID}
}

// MovieRef projects a movie to its identifier only.
func MovieRef(m *model.Movie) *dto.Movie {
	if m == nil {
		return nil
	}
	return &dto.Movie{ID: idPtr(m.ID)}
}

func movieFromRef(r *dto.Movie) *model.Movie {
	if r == nil || r.ID == nil {
		return nil
	}
	return &model.Movie{ID: *r.ID}
}

func idPtr(id uint64) *uint64 {
	if id == 0 {
		return nil
	}
	return &id
}

func idOf(p *uint64) uint64 {
	if p == nil {
		return 0
	}
	return *p
}

func strPtr(s string) *string { return &s }

func strVal(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func cloneStr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneTime(p *time.Time) *time.Time {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// imageParts splits an entity image into the two transfer fields.
func imageParts(img *model.Image) ([]byte, *string) {
	if img == nil {
		return nil, nil
	}
	c := img.Clone()
	return c.Data, strPtr(c.ContentType)
}

// imageFromParts joins the two transfer fields.  Callers validate the pair
// beforehand, so a half-set pair is treated as absent.
func imageFromParts(data []byte, contentType *string) *model.Image {
	if data == nil || contentType == nil {
		return nil
	}
	return (&model.Image{Data: data, ContentType: *contentType}).Clone()
}
