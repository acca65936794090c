package mapper

import (
	"github.com/iliyamo/movie-news/internal/dto"
	"github.com/iliyamo/movie-news/internal/model"
)

// NewsToDTO converts a news item to its transfer object.
func NewsToDTO(n *model.News) dto.News {
	img, ct := imageParts(n.Image)
	return dto.News{
		ID:               idPtr(n.ID),
		Headerline:       strPtr(n.Headerline),
		URL:              strPtr(n.URL),
		PubDate:          cloneTime(n.PubDate),
		Image:            img,
		ImageContentType: ct,
		User:             UserRef(n.User),
	}
}

// NewsToEntity converts a transfer object into a news item.
func NewsToEntity(d dto.News) *model.News {
	return &model.News{
		ID:         idOf(d.ID),
		Headerline: strVal(d.Headerline),
		URL:        strVal(d.URL),
		PubDate:    cloneTime(d.PubDate),
		Image:      imageFromParts(d.Image, d.ImageContentType),
		User:       userFromRef(d.User),
	}
}

// MergeNews applies the non-nil fields of patch onto n.
func MergeNews(n *model.News, patch dto.News) {
	if patch.Headerline != nil {
		n.Headerline = *patch.Headerline
	}
	if patch.URL != nil {
		n.URL = *patch.URL
	}
	if patch.PubDate != nil {
		n.PubDate = cloneTime(patch.PubDate)
	}
	if img := imageFromParts(patch.Image, patch.ImageContentType); img != nil {
		n.Image = img
	}
	if u := userFromRef(patch.User); u != nil {
		n.User = u
	}
}
