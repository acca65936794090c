package mapper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-news/internal/dto"
	"github.com/iliyamo/movie-news/internal/model"
)

func ptr[T any](v T) *T { return &v }

var released = time.Date(2010, 7, 16, 0, 0, 0, 0, time.UTC)

func fullMovie() *model.Movie {
	return &model.Movie{
		ID:        3,
		Name:      "Inception",
		Director:  ptr("Nolan"),
		Synopsis:  ptr("dreams"),
		Comment:   ptr("great"),
		StartDate: ptr(released),
		Image:     &model.Image{Data: []byte{1, 2, 3}, ContentType: "image/png"},
		User:      &model.User{ID: 9, Login: "alice"},
	}
}

func TestMovieRoundTrip(t *testing.T) {
	m := fullMovie()
	d := MovieToDTO(m)
	assert.Equal(t, "alice", d.User.Login)

	back := MovieToEntity(d)
	// the owner comes back as a bare reference; the login is resolved on read
	want := fullMovie()
	want.User = &model.User{ID: 9}
	// model types define identity-only Equal methods, so compare deeply
	assert.Equal(t, want, back)
}

func TestMovieToDTO_DoesNotAlias(t *testing.T) {
	m := fullMovie()
	d := MovieToDTO(m)
	*d.Director = "changed"
	d.Image[0] = 42
	assert.Equal(t, "Nolan", *m.Director)
	assert.Equal(t, byte(1), m.Image.Data[0])
}

func TestMovieToEntity_NilFields(t *testing.T) {
	m := MovieToEntity(dto.Movie{Name: ptr("x")})
	assert.Equal(t, &model.Movie{Name: "x"}, m)
}

func TestMergeMovie(t *testing.T) {
	tests := []struct {
		name  string
		patch dto.Movie
		edit  func(*model.Movie)
	}{
		{"empty patch", dto.Movie{}, func(*model.Movie) {}},
		{"name only", dto.Movie{Name: ptr("X")}, func(m *model.Movie) { m.Name = "X" }},
		{"director", dto.Movie{Director: ptr("Villeneuve")}, func(m *model.Movie) { m.Director = ptr("Villeneuve") }},
		{"empty string is a value", dto.Movie{Comment: ptr("")}, func(m *model.Movie) { m.Comment = ptr("") }},
		{
			"image pair",
			dto.Movie{Image: []byte{7}, ImageContentType: ptr("image/gif")},
			func(m *model.Movie) { m.Image = &model.Image{Data: []byte{7}, ContentType: "image/gif"} },
		},
		{"half image pair is ignored", dto.Movie{Image: []byte{7}}, func(*model.Movie) {}},
		{"owner", dto.Movie{User: &dto.User{ID: ptr(uint64(4))}}, func(m *model.Movie) { m.User = &model.User{ID: 4} }},
		{"id is not merged", dto.Movie{ID: ptr(uint64(99))}, func(*model.Movie) {}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := fullMovie()
			MergeMovie(got, tt.patch)
			want := fullMovie()
			tt.edit(want)
			assert.Equal(t, want, got)
		})
	}
}

func TestNewsRoundTripAndMerge(t *testing.T) {
	n := &model.News{ID: 1, Headerline: "h", URL: "u", PubDate: ptr(released)}
	back := NewsToEntity(NewsToDTO(n))
	assert.Equal(t, n, back)

	MergeNews(back, dto.News{URL: ptr("v")})
	assert.Equal(t, "h", back.Headerline)
	assert.Equal(t, "v", back.URL)
	assert.Equal(t, released, *back.PubDate)
}

func TestTwitterToDTO_NarrowsMovie(t *testing.T) {
	m := fullMovie()
	p := &model.Twitter{ID: 5, Content: "hi", Movie: m}
	d := TwitterToDTO(p)
	require.NotNil(t, d.Movie)
	assert.Equal(t, dto.Movie{ID: ptr(uint64(3))}, *d.Movie)
}

func TestTwitterToEntity_AttachesMovie(t *testing.T) {
	p := TwitterToEntity(dto.Twitter{Content: ptr("hi"), Movie: &dto.Movie{ID: ptr(uint64(3))}})
	require.NotNil(t, p.Movie)
	assert.Equal(t, uint64(3), p.Movie.ID)
	assert.Same(t, p, p.Movie.Twitters[0], "the referenced movie lists the post")
}

func TestMergeTwitter(t *testing.T) {
	a := &model.Movie{ID: 1}
	p := &model.Twitter{ID: 5, Content: "hi", Publisher: ptr("me"), Movie: a}
	a.Twitters = []*model.Twitter{p}

	MergeTwitter(p, dto.Twitter{Content: ptr("bye")})
	assert.Equal(t, "bye", p.Content)
	assert.Equal(t, "me", *p.Publisher)
	assert.Same(t, a, p.Movie)

	MergeTwitter(p, dto.Twitter{Movie: &dto.Movie{ID: ptr(uint64(2))}})
	assert.Equal(t, uint64(2), p.Movie.ID)
	assert.Empty(t, a.Twitters, "the previous movie no longer lists the post")
}
