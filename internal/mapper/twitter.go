package mapper

import (
	"github.com/iliyamo/movie-news/internal/association"
	"github.com/iliyamo/movie-news/internal/dto"
	"github.com/iliyamo/movie-news/internal/model"
)

// TwitterToDTO converts a post to its transfer object; the owning movie is
// embedded as {id} only.
func TwitterToDTO(t *model.Twitter) dto.Twitter {
	return dto.Twitter{
		ID:        idPtr(t.ID),
		Content:   strPtr(t.Content),
		PubDate:   cloneTime(t.PubDate),
		Publisher: cloneStr(t.Publisher),
		Movie:     MovieRef(t.Movie),
	}
}

// TwitterToEntity converts a transfer object into a post.  The movie
// reference goes through the association manager so the referenced movie
// lists the post in its collection.
func TwitterToEntity(d dto.Twitter) *model.Twitter {
	t := &model.Twitter{
		ID:        idOf(d.ID),
		Content:   strVal(d.Content),
		PubDate:   cloneTime(d.PubDate),
		Publisher: cloneStr(d.Publisher),
	}
	association.SetMovie(t, movieFromRef(d.Movie))
	return t
}

// MergeTwitter applies the non-nil fields of patch onto t.  A movie
// reference in the patch moves the post to that movie.
func MergeTwitter(t *model.Twitter, patch dto.Twitter) {
	if patch.Content != nil {
		t.Content = *patch.Content
	}
	if patch.PubDate != nil {
		t.PubDate = cloneTime(patch.PubDate)
	}
	if patch.Publisher != nil {
		t.Publisher = cloneStr(patch.Publisher)
	}
	if m := movieFromRef(patch.Movie); m != nil && !m.Equal(t.Movie) {
		association.SetMovie(t, m)
	}
}
