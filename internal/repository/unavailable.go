package repository

import (
	"context"

	"github.com/sakif/saas-starter/internal/apperror"
	"github.com/sakif/saas-starter/internal/model"
)

// Unavailable returns a Store whose every operation fails with
// apperror.ErrUnavailable.
//
// The server installs it when the configured backend cannot be reached (or no
// backend is configured at all). The process still starts and serves its
// status endpoints; data endpoints answer 503 instead of the whole service
// crash-looping on boot.
func Unavailable(cause error) Store {
	return &unavailableStore{cause: cause}
}

type unavailableStore struct {
	cause error
}

func (s *unavailableStore) err() error {
	return apperror.StoreUnavailable(s.cause)
}

func (s *unavailableStore) Users() UserRepository       { return unavailableUsers{s} }
func (s *unavailableStore) Blogs() BlogRepository       { return unavailableBlogs{s} }
func (s *unavailableStore) Contacts() ContactRepository { return unavailableContacts{s} }

func (s *unavailableStore) Ping(context.Context) error { return s.err() }
func (s *unavailableStore) Collections(context.Context) ([]string, error) {
	return nil, s.err()
}
func (s *unavailableStore) Close() error { return nil }

type unavailableUsers struct{ store *unavailableStore }

func (r unavailableUsers) FindByEmail(context.Context, string) (*model.User, error) {
	return nil, r.store.err()
}
func (r unavailableUsers) Insert(context.Context, *model.User) error {
	return r.store.err()
}
func (r unavailableUsers) AppendToken(context.Context, string, string) error {
	return r.store.err()
}

type unavailableBlogs struct{ store *unavailableStore }

func (r unavailableBlogs) List(context.Context, int) ([]model.BlogPost, error) {
	return nil, r.store.err()
}
func (r unavailableBlogs) GetBySlug(context.Context, string) (*model.BlogPost, error) {
	return nil, r.store.err()
}

type unavailableContacts struct{ store *unavailableStore }

func (r unavailableContacts) Insert(context.Context, *model.ContactMessage) error {
	return r.store.err()
}
