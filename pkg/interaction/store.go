package interaction

import (
	"fmt"
	"slices"
	"sync"

	"github.com/skillshare/cli/pkg/api"
	clierrors "github.com/skillshare/cli/pkg/errors"
	"github.com/skillshare/cli/pkg/logger"
)

// table is an ordered, mutex-guarded collection. Entries are held by pointer
// so a toggle can tell whether the entity it started on is still present.
type table[E any] struct {
	mu    sync.Mutex
	items map[int64]*E
	order []int64
}

func newTable[E any]() *table[E] {
	return &table[E]{items: make(map[int64]*E)}
}

// put must be called with mu held
func (t *table[E]) put(id int64, e *E) {
	if _, ok := t.items[id]; !ok {
		t.order = append(t.order, id)
	}
	t.items[id] = e
}

func (t *table[E]) remove(id int64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.items[id]; !ok {
		return false
	}
	delete(t.items, id)
	t.order = slices.DeleteFunc(t.order, func(v int64) bool { return v == id })
	return true
}

func (t *table[E]) get(id int64, clone func(E) E) (E, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.items[id]
	if !ok {
		var zero E
		return zero, false
	}
	return clone(*e), true
}

func (t *table[E]) all(clone func(E) E) []E {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]E, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, clone(*t.items[id]))
	}
	return out
}

// PostState is a loaded post. LikedBy, LikeCount, IsFavorited and
// FavoriteCount are the locally maintained interaction fields. IsFavorited
// is scoped to the actor; FavoritedBy is folded into it on load.
type PostState struct {
	api.Post
}

// LikedByActor reports whether actor is in LikedBy
func (p PostState) LikedByActor(actor int64) bool {
	return p.LikedBy.Contains(actor)
}

func clonePost(p PostState) PostState {
	p.LikedBy = slices.Clone(p.LikedBy)
	p.FavoritedBy = slices.Clone(p.FavoritedBy)
	p.LikerInfo = slices.Clone(p.LikerInfo)
	p.Comments = slices.Clone(p.Comments)
	if p.User != nil {
		u := *p.User
		p.User = &u
	}
	return p
}

// FollowState is the actor's relationship to one user. Counts live only in
// Profile, refreshed from the API after each confirmed toggle.
type FollowState struct {
	TargetID  int64
	Following bool
	Profile   *api.User
}

func cloneFollow(f FollowState) FollowState {
	if f.Profile != nil {
		p := *f.Profile
		f.Profile = &p
	}
	return f
}

// LoadPosts replaces or adds posts. Server state is reconciled on the way
// in: duplicate likers are dropped, likeCount follows the likedBy list, and
// favoriteCount is clamped at zero. A toggle in flight on a replaced post
// resolves as Discarded.
func (s *Synchronizer) LoadPosts(posts []api.Post) {
	actor, hasActor := s.session.CurrentActor()

	type repair struct {
		kind   Kind
		id     int64
		detail string
	}
	var repairs []repair
	s.posts.mu.Lock()
	for _, p := range posts {
		state := clonePost(PostState{Post: p})
		if hasActor {
			state.IsFavorited = state.FavoritedByActor(actor)
		}
		state.FavoritedBy = nil
		if detail := reconcileLikes(&state.Post); detail != "" {
			repairs = append(repairs, repair{KindLike, state.ID, detail})
		}
		if state.FavoriteCount < 0 {
			repairs = append(repairs, repair{KindFavorite, state.ID, fmt.Sprintf("favoriteCount %d below zero", state.FavoriteCount)})
			state.FavoriteCount = 0
		}
		s.posts.put(state.ID, &state)
	}
	s.posts.mu.Unlock()

	for _, r := range repairs {
		s.desync(r.kind, r.id, r.detail)
	}
	logger.Debug("Loaded posts", "count", len(posts), "repaired", len(repairs))
}

// Post returns a copy of a loaded post
func (s *Synchronizer) Post(id int64) (PostState, bool) {
	return s.posts.get(id, clonePost)
}

// Posts returns copies of all loaded posts in load order
func (s *Synchronizer) Posts() []PostState {
	return s.posts.all(clonePost)
}

// RemovePost drops a post. A toggle in flight on it resolves as Discarded.
func (s *Synchronizer) RemovePost(id int64) bool {
	return s.posts.remove(id)
}

// LoadFollow records the actor's relationship to targetID
func (s *Synchronizer) LoadFollow(targetID int64, following bool, profile *api.User) {
	state := cloneFollow(FollowState{TargetID: targetID, Following: following, Profile: profile})
	s.follows.mu.Lock()
	s.follows.put(targetID, &state)
	s.follows.mu.Unlock()
}

// Follow returns a copy of the relationship to targetID
func (s *Synchronizer) Follow(targetID int64) (FollowState, bool) {
	return s.follows.get(targetID, cloneFollow)
}

// RemoveFollow forgets targetID. A toggle in flight on it resolves as Discarded.
func (s *Synchronizer) RemoveFollow(targetID int64) bool {
	return s.follows.remove(targetID)
}

// reconcileLikes drops duplicate likers and makes LikeCount agree with
// LikedBy when the list is present. It returns a description of any repair.
func reconcileLikes(p *api.Post) string {
	if p.LikedBy == nil {
		return ""
	}
	var detail string
	seen := make(map[int64]struct{}, len(p.LikedBy))
	unique := p.LikedBy[:0]
	for _, id := range p.LikedBy {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	if len(unique) != len(p.LikedBy) {
		detail = fmt.Sprintf("likedBy had %d duplicate entries", len(p.LikedBy)-len(unique))
	}
	p.LikedBy = unique
	if p.LikeCount != len(p.LikedBy) {
		if detail != "" {
			detail += "; "
		}
		detail += fmt.Sprintf("likeCount %d but likedBy has %d", p.LikeCount, len(p.LikedBy))
		p.LikeCount = len(p.LikedBy)
	}
	return detail
}

func (s *Synchronizer) desync(kind Kind, id int64, detail string) {
	err := clierrors.StateDesyncError(string(kind), id, detail)
	logger.Warn("Repaired interaction state", "kind", kind, "id", id, "error", err)
	s.metrics.RecordDesync(string(kind))
}
