// Package association keeps both ends of the Movie ⇄ Twitter association
// in agreement.
//
// Twitter.Movie is the owning side and the only end the store persists.
// Movie.Twitters is the inverse, derived collection.  Every function here
// updates both ends before returning, so that for any post p and movie m,
// p.Movie == m holds exactly when p is a member of m.Twitters.  Callers
// never assign either end directly.
package association

import "github.com/iliyamo/movie-news/internal/model"

// Attach makes m the owning movie of p.  If p was attached to another
// movie it is first removed from that movie's collection.
func Attach(m *model.Movie, p *model.Twitter) {
	if m == nil || p == nil {
		return
	}
	if p.Movie != nil && p.Movie != m {
		remove(p.Movie, p)
	}
	p.Movie = m
	if !contains(m, p) {
		m.Twitters = append(m.Twitters, p)
	}
}

// Detach clears the owning movie of p when it is m and drops p from the
// collection of m.
func Detach(m *model.Movie, p *model.Twitter) {
	if m == nil || p == nil {
		return
	}
	remove(m, p)
	if p.Movie == m || p.Movie.Equal(m) {
		p.Movie = nil
	}
}

// SetMovie is the post-side entry point: it moves p to m, or detaches it
// from its current movie when m is nil.
func SetMovie(p *model.Twitter, m *model.Movie) {
	if p == nil {
		return
	}
	if m == nil {
		if p.Movie != nil {
			Detach(p.Movie, p)
		}
		return
	}
	Attach(m, p)
}

// ReplaceTwitters replaces the collection of m wholesale.  Posts that are
// no longer in the collection lose their movie reference, posts in the new
// collection point at m.  It returns every post whose owning reference
// changed, which is the set the caller must persist.
func ReplaceTwitters(m *model.Movie, posts []*model.Twitter) []*model.Twitter {
	if m == nil {
		return nil
	}
	var changed []*model.Twitter
	for _, old := range append([]*model.Twitter(nil), m.Twitters...) {
		if !containsPost(posts, old) {
			Detach(m, old)
			changed = append(changed, old)
		}
	}
	for _, p := range posts {
		if p == nil {
			continue
		}
		before := p.Movie
		Attach(m, p)
		if before == nil || !before.Equal(m) && before != m {
			changed = append(changed, p)
		}
	}
	return changed
}

// DetachAll clears every post of m, used before m is deleted.
func DetachAll(m *model.Movie) []*model.Twitter {
	return ReplaceTwitters(m, nil)
}

func contains(m *model.Movie, p *model.Twitter) bool {
	return containsPost(m.Twitters, p)
}

func containsPost(posts []*model.Twitter, p *model.Twitter) bool {
	for _, q := range posts {
		if q == p || q.Equal(p) {
			return true
		}
	}
	return false
}

func remove(m *model.Movie, p *model.Twitter) {
	out := m.Twitters[:0]
	for _, q := range m.Twitters {
		if q == p || q.Equal(p) {
			continue
		}
		out = append(out, q)
	}
	for i := len(out); i < len(m.Twitters); i++ {
		m.Twitters[i] = nil
	}
	m.Twitters = out
}
