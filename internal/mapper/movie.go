package mapper

import (
	"github.com/iliyamo/movie-news/internal/dto"
	"github.com/iliyamo/movie-news/internal/model"
)

// MovieToDTO converts a movie to its transfer object.  The owner is
// embedded by login; the derived twitter collection is not embedded.
func MovieToDTO(m *model.Movie) dto.Movie {
	img, ct := imageParts(m.Image)
	return dto.Movie{
		ID:               idPtr(m.ID),
		Name:             strPtr(m.Name),
		Director:         cloneStr(m.Director),
		Synopsis:         cloneStr(m.Synopsis),
		Comment:          cloneStr(m.Comment),
		StartDate:        cloneTime(m.StartDate),
		Image:            img,
		ImageContentType: ct,
		User:             UserRef(m.User),
	}
}

// MovieToEntity converts a transfer object into a movie.  Every field is
// authoritative: nil fields become nil on the entity.
func MovieToEntity(d dto.Movie) *model.Movie {
	return &model.Movie{
		ID:        idOf(d.ID),
		Name:      strVal(d.Name),
		Director:  cloneStr(d.Director),
		Synopsis:  cloneStr(d.Synopsis),
		Comment:   cloneStr(d.Comment),
		StartDate: cloneTime(d.StartDate),
		Image:     imageFromParts(d.Image, d.ImageContentType),
		User:      userFromRef(d.User),
	}
}

// MergeMovie applies the non-nil fields of patch onto m.  The image pair
// is replaced only when both halves are present.
func MergeMovie(m *model.Movie, patch dto.Movie) {
	if patch.Name != nil {
		m.Name = *patch.Name
	}
	if patch.Director != nil {
		m.Director = cloneStr(patch.Director)
	}
	if patch.Synopsis != nil {
		m.Synopsis = cloneStr(patch.Synopsis)
	}
	if patch.Comment != nil {
		m.Comment = cloneStr(patch.Comment)
	}
	if patch.StartDate != nil {
		m.StartDate = cloneTime(patch.StartDate)
	}
	if img := imageFromParts(patch.Image, patch.ImageContentType); img != nil {
		m.Image = img
	}
	if u := userFromRef(patch.User); u != nil {
		m.User = u
	}
}
