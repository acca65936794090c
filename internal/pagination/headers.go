package pagination

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// HeaderTotalCount carries the number of elements across all pages.
const HeaderTotalCount = "X-Total-Count"

// Headers builds the X-Total-Count and RFC 5988 Link headers for a page
// served at base.  Existing query parameters other than page and size are
// preserved in the links.
func Headers[T any](base *url.URL, p Page[T]) http.Header {
	h := http.Header{}
	h.Set(HeaderTotalCount, strconv.FormatInt(p.TotalElements, 10))

	var links []string
	add := func(page int, rel string) {
		links = append(links, fmt.Sprintf(`<%s>; rel="%s"`, pageURL(base, page, p.Size), rel))
	}
	if p.Number+1 < p.TotalPages {
		add(p.Number+1, "next")
	}
	if p.Number > 0 {
		add(p.Number-1, "prev")
	}
	last := 0
	if p.TotalPages > 0 {
		last = p.TotalPages - 1
	}
	add(last, "last")
	add(0, "first")
	h.Set("Link", strings.Join(links, ","))
	return h
}

func pageURL(base *url.URL, page, size int) string {
	u := *base
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	u.RawQuery = q.Encode()
	return u.String()
}
