// Package memory provides in-process implementations of the storage ports.
// They back the HTTP and CLI scenario tests, where Mongo and Redis are not
// available.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/worksy/marketplace/internal/core/domain"
)

// Store holds every collection behind one mutex.
type Store struct {
	mu      sync.Mutex
	seq     int
	users   map[string]*domain.User
	offers  map[string]*domain.Offer
	apps    map[string]*domain.Application
	posts   map[string]*domain.Post
	revoked map[string]time.Time
	resets  map[string]resetEntry
	now     func() time.Time
}

type resetEntry struct {
	userID  string
	expires time.Time
}

func New() *Store {
	return &Store{
		users:   make(map[string]*domain.User),
		offers:  make(map[string]*domain.Offer),
		apps:    make(map[string]*domain.Application),
		posts:   make(map[string]*domain.Post),
		revoked: make(map[string]time.Time),
		resets:  make(map[string]resetEntry),
		now:     time.Now,
	}
}

func (s *Store) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

// Users returns the store as a ports.UserRepository.
func (s *Store) Users() *UserRepository { return &UserRepository{s} }

func (s *Store) Offers() *OfferRepository { return &OfferRepository{s} }

func (s *Store) Applications() *ApplicationRepository { return &ApplicationRepository{s} }

func (s *Store) Posts() *PostRepository { return &PostRepository{s} }

func (s *Store) Revocations() *RevocationList { return &RevocationList{s} }

func (s *Store) ResetTokens() *ResetTokenStore { return &ResetTokenStore{s} }

// UserCount reports how many accounts exist.
func (s *Store) UserCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

type UserRepository struct{ s *Store }

func (r *UserRepository) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return nil, domain.ErrDuplicateEmail
		}
	}
	clone := *u
	clone.ID = r.s.nextID("user")
	r.s.users[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *UserRepository) UpdatePassword(_ context.Context, id, hash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = hash
	u.UpdatedAt = r.s.now().UTC()
	return nil
}

type OfferRepository struct{ s *Store }

func (r *OfferRepository) Create(_ context.Context, o *domain.Offer) (*domain.Offer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	clone := *o
	clone.ID = r.s.nextID("offer")
	r.s.offers[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *OfferRepository) FindByID(_ context.Context, id string) (*domain.Offer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.offers[id]
	if !ok {
		return nil, domain.ErrOfferNotFound
	}
	clone := *o
	return &clone, nil
}

func (r *OfferRepository) List(_ context.Context, t domain.OfferType) ([]*domain.Offer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*domain.Offer, 0, len(r.s.offers))
	for _, o := range r.s.offers {
		if t == "" || o.Type == t {
			clone := *o
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type ApplicationRepository struct{ s *Store }

func (r *ApplicationRepository) Create(_ context.Context, a *domain.Application) (*domain.Application, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.apps {
		if existing.OfferID == a.OfferID && existing.UserID == a.UserID {
			return nil, domain.ErrAlreadyApplied
		}
	}
	clone := *a
	clone.ID = r.s.nextID("app")
	r.s.apps[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *ApplicationRepository) ListByUser(_ context.Context, userID string) ([]*domain.Application, error) {
	return r.filter(func(a *domain.Application) bool { return a.UserID == userID }), nil
}

func (r *ApplicationRepository) ListByOffer(_ context.Context, offerID string) ([]*domain.Application, error) {
	return r.filter(func(a *domain.Application) bool { return a.OfferID == offerID }), nil
}

func (r *ApplicationRepository) filter(keep func(*domain.Application) bool) []*domain.Application {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*domain.Application, 0)
	for _, a := range r.s.apps {
		if keep(a) {
			clone := *a
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

type PostRepository struct{ s *Store }

func (r *PostRepository) Create(_ context.Context, p *domain.Post) (*domain.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	clone := *p
	clone.ID = r.s.nextID("post")
	r.s.posts[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *PostRepository) FindByID(_ context.Context, id string) (*domain.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.posts[id]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *PostRepository) List(_ context.Context) ([]*domain.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*domain.Post, 0, len(r.s.posts))
	for _, p := range r.s.posts {
		clone := *p
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *PostRepository) Update(_ context.Context, p *domain.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.posts[p.ID]; !ok {
		return domain.ErrPostNotFound
	}
	clone := *p
	r.s.posts[p.ID] = &clone
	return nil
}

func (r *PostRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.posts[id]; !ok {
		return domain.ErrPostNotFound
	}
	delete(r.s.posts, id)
	return nil
}

type RevocationList struct{ s *Store }

func (l *RevocationList) Revoke(_ context.Context, id string, until time.Time) error {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	l.s.revoked[id] = until
	return nil
}

func (l *RevocationList) IsRevoked(_ context.Context, id string) (bool, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	until, ok := l.s.revoked[id]
	return ok && l.s.now().Before(until), nil
}

type ResetTokenStore struct{ s *Store }

func (r *ResetTokenStore) Save(_ context.Context, token, userID string, ttl time.Duration) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.resets[token] = resetEntry{userID: userID, expires: r.s.now().Add(ttl)}
	return nil
}

func (r *ResetTokenStore) Consume(_ context.Context, token string) (string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	entry, ok := r.s.resets[token]
	delete(r.s.resets, token)
	if !ok || !r.s.now().Before(entry.expires) {
		return "", domain.ErrInvalidResetToken
	}
	return entry.userID, nil
}
