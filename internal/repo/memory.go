package repo

import (
	"context"
	"sort"
	"sync"
	"time"

	dom "github.com/vaheaslanyan/hoopscoop-backend/internal/domain"
)

// MemStore is an in-process Store for development and tests.
// Transactions hold the store lock for their whole duration and restore a
// snapshot taken at begin when fn fails.
type MemStore struct {
	mu   sync.Mutex
	data *memData
}

type memData struct {
	users  map[string]dom.User
	places map[string]dom.Place
	emails map[string]string // email -> user id
}

// NewMemStore returns an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{data: &memData{
		users:  map[string]dom.User{},
		places: map[string]dom.Place{},
		emails: map[string]string{},
	}}
}

func (s *MemStore) Users() UserRepo   { return memUsers{s: s} }
func (s *MemStore) Places() PlaceRepo { return memPlaces{s: s} }

func (s *MemStore) WithinTx(ctx context.Context, fn func(tx Store) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	if err := fn(memTx{s: s}); err != nil {
		s.data = snapshot
		return err
	}
	return nil
}

// memTx is the store view handed to a transaction; the lock is already held.
type memTx struct{ s *MemStore }

func (t memTx) Users() UserRepo   { return memUsers{s: t.s, inTx: true} }
func (t memTx) Places() PlaceRepo { return memPlaces{s: t.s, inTx: true} }

func (t memTx) WithinTx(ctx context.Context, fn func(tx Store) error) error {
	return fn(t)
}

func (d *memData) clone() *memData {
	cp := &memData{
		users:  make(map[string]dom.User, len(d.users)),
		places: make(map[string]dom.Place, len(d.places)),
		emails: make(map[string]string, len(d.emails)),
	}
	for k, u := range d.users {
		u.PlaceIDs = append([]string(nil), u.PlaceIDs...)
		cp.users[k] = u
	}
	for k, p := range d.places {
		cp.places[k] = p
	}
	for k, v := range d.emails {
		cp.emails[k] = v
	}
	return cp
}

func lockFor(s *MemStore, inTx bool) func() {
	if inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

type memUsers struct {
	s    *MemStore
	inTx bool
}

func (r memUsers) List(ctx context.Context) ([]dom.User, error) {
	defer lockFor(r.s, r.inTx)()
	list := make([]dom.User, 0, len(r.s.data.users))
	for _, u := range r.s.data.users {
		list = append(list, copyUser(u))
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list, nil
}

func (r memUsers) GetByID(ctx context.Context, id string) (dom.User, error) {
	defer lockFor(r.s, r.inTx)()
	u, ok := r.s.data.users[id]
	if !ok {
		return dom.User{}, ErrNotFound
	}
	return copyUser(u), nil
}

func (r memUsers) GetByEmail(ctx context.Context, email string) (dom.User, error) {
	defer lockFor(r.s, r.inTx)()
	id, ok := r.s.data.emails[email]
	if !ok {
		return dom.User{}, ErrNotFound
	}
	return copyUser(r.s.data.users[id]), nil
}

func (r memUsers) Create(ctx context.Context, u dom.User) (dom.User, error) {
	defer lockFor(r.s, r.inTx)()
	if _, ok := r.s.data.emails[u.Email]; ok {
		return dom.User{}, ErrDuplicateEmail
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	u = copyUser(u)
	if u.PlaceIDs == nil {
		u.PlaceIDs = []string{}
	}
	r.s.data.users[u.ID] = u
	r.s.data.emails[u.Email] = u.ID
	return copyUser(u), nil
}

func (r memUsers) AddPlace(ctx context.Context, userID, placeID string) error {
	defer lockFor(r.s, r.inTx)()
	u, ok := r.s.data.users[userID]
	if !ok {
		return ErrNotFound
	}
	u.PlaceIDs = append(append([]string(nil), u.PlaceIDs...), placeID)
	r.s.data.users[userID] = u
	return nil
}

func (r memUsers) RemovePlace(ctx context.Context, userID, placeID string) error {
	defer lockFor(r.s, r.inTx)()
	u, ok := r.s.data.users[userID]
	if !ok {
		return ErrNotFound
	}
	kept := make([]string, 0, len(u.PlaceIDs))
	for _, id := range u.PlaceIDs {
		if id != placeID {
			kept = append(kept, id)
		}
	}
	u.PlaceIDs = kept
	r.s.data.users[userID] = u
	return nil
}

func copyUser(u dom.User) dom.User {
	if u.PlaceIDs != nil {
		u.PlaceIDs = append([]string{}, u.PlaceIDs...)
	}
	return u
}

type memPlaces struct {
	s    *MemStore
	inTx bool
}

func (r memPlaces) List(ctx context.Context) ([]dom.Place, error) {
	return r.filter(func(dom.Place) bool { return true }), nil
}

func (r memPlaces) ListByCreator(ctx context.Context, userID string) ([]dom.Place, error) {
	return r.filter(func(p dom.Place) bool { return p.CreatorID == userID }), nil
}

func (r memPlaces) filter(keep func(dom.Place) bool) []dom.Place {
	defer lockFor(r.s, r.inTx)()
	list := []dom.Place{}
	for _, p := range r.s.data.places {
		if keep(p) {
			list = append(list, p)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list
}

func (r memPlaces) GetByID(ctx context.Context, id string) (dom.Place, error) {
	defer lockFor(r.s, r.inTx)()
	p, ok := r.s.data.places[id]
	if !ok {
		return dom.Place{}, ErrNotFound
	}
	return p, nil
}

func (r memPlaces) Create(ctx context.Context, p dom.Place) (dom.Place, error) {
	defer lockFor(r.s, r.inTx)()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = p.CreatedAt
	}
	r.s.data.places[p.ID] = p
	return p, nil
}

func (r memPlaces) UpdateText(ctx context.Context, id, title, description string) (dom.Place, error) {
	defer lockFor(r.s, r.inTx)()
	p, ok := r.s.data.places[id]
	if !ok {
		return dom.Place{}, ErrNotFound
	}
	p.Title = title
	p.Description = description
	p.UpdatedAt = time.Now().UTC()
	r.s.data.places[id] = p
	return p, nil
}

func (r memPlaces) Delete(ctx context.Context, id string) error {
	defer lockFor(r.s, r.inTx)()
	if _, ok := r.s.data.places[id]; !ok {
		return ErrNotFound
	}
	delete(r.s.data.places, id)
	return nil
}
