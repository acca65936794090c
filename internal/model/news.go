package model

import "time"

// News represents a row in the `news` table.  Headerline and URL are
// required; the rest is optional.
type News struct {
	ID         uint64     // news.id
	Headerline string     // news.headerline
	URL        string     // news.url
	PubDate    *time.Time // news.pub_date
	Image      *Image     // news.image + news.image_content_type
	User       *User      // news.user_id
}

// Equal reports whether n and o denote the same persisted news item.
func (n *News) Equal(o *News) bool {
	if n == nil || o == nil {
		return false
	}
	return n.ID != 0 && n.ID == o.ID
}
