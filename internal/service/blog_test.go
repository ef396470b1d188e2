package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/sakif/saas-starter/internal/apperror"
	"github.com/sakif/saas-starter/internal/model"
)

// fakeBlogRepo records the limit it was asked for, so tests can assert the
// service's defaulting/clamping without a real store.
type fakeBlogRepo struct {
	posts     []model.BlogPost
	lastLimit int
	listErr   error
}

func (f *fakeBlogRepo) List(_ context.Context, limit int) ([]model.BlogPost, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	f.lastLimit = limit
	if limit > len(f.posts) {
		limit = len(f.posts)
	}
	return f.posts[:limit], nil
}

func (f *fakeBlogRepo) GetBySlug(_ context.Context, slug string) (*model.BlogPost, error) {
	for i := range f.posts {
		if f.posts[i].Slug == slug {
			return &f.posts[i], nil
		}
	}
	return nil, apperror.NotFound("post", slug)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestBlogList_DefaultLimit(t *testing.T) {
	repo := &fakeBlogRepo{}
	svc := NewBlogService(repo, testLogger())

	if _, err := svc.List(context.Background(), 0); err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if repo.lastLimit != defaultBlogLimit {
		t.Errorf("limit passed to repo = %d, want default %d", repo.lastLimit, defaultBlogLimit)
	}
}

func TestBlogList_ClampsExcessiveLimit(t *testing.T) {
	repo := &fakeBlogRepo{}
	svc := NewBlogService(repo, testLogger())

	if _, err := svc.List(context.Background(), 10_000); err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if repo.lastLimit != maxBlogLimit {
		t.Errorf("limit passed to repo = %d, want clamp %d", repo.lastLimit, maxBlogLimit)
	}
}

func TestBlogGetBySlug_NotFoundPropagates(t *testing.T) {
	svc := NewBlogService(&fakeBlogRepo{}, testLogger())

	_, err := svc.GetBySlug(context.Background(), "missing")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetBySlug() error = %v, want ErrNotFound", err)
	}
}

func TestBlogGetBySlug_EmptySlug(t *testing.T) {
	svc := NewBlogService(&fakeBlogRepo{}, testLogger())

	_, err := svc.GetBySlug(context.Background(), "")
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("GetBySlug(\"\") error = %v, want ErrValidation", err)
	}
}

// =========================================================================
// CONTACT TESTS
// =========================================================================

type fakeContactRepo struct {
	inserted  []model.ContactMessage
	insertErr error
}

func (f *fakeContactRepo) Insert(_ context.Context, msg *model.ContactMessage) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	msg.ID = "contact-1"
	f.inserted = append(f.inserted, *msg)
	return nil
}

func TestContactSubmit(t *testing.T) {
	repo := &fakeContactRepo{}
	svc := NewContactService(repo, testLogger())

	msg := &model.ContactMessage{
		Name:    "  Visitor ",
		Email:   " visitor@example.com ",
		Message: "Hello there",
	}
	if err := svc.Submit(context.Background(), msg); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if len(repo.inserted) != 1 {
		t.Fatalf("inserted %d messages, want 1", len(repo.inserted))
	}
	if repo.inserted[0].Name != "Visitor" || repo.inserted[0].Email != "visitor@example.com" {
		t.Errorf("fields not trimmed: %+v", repo.inserted[0])
	}
}

func TestContactSubmit_Validation(t *testing.T) {
	svc := NewContactService(&fakeContactRepo{}, testLogger())
	ctx := context.Background()

	tests := []struct {
		name string
		msg  model.ContactMessage
	}{
		{"missing name", model.ContactMessage{Email: "a@b.com", Message: "hi"}},
		{"missing email", model.ContactMessage{Name: "A", Message: "hi"}},
		{"malformed email", model.ContactMessage{Name: "A", Email: "nope", Message: "hi"}},
		{"missing message", model.ContactMessage{Name: "A", Email: "a@b.com"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.msg
			if err := svc.Submit(ctx, &msg); !errors.Is(err, apperror.ErrValidation) {
				t.Errorf("Submit() error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestContactSubmit_StoreErrorPropagates(t *testing.T) {
	repo := &fakeContactRepo{insertErr: apperror.StoreUnavailable(errors.New("down"))}
	svc := NewContactService(repo, testLogger())

	err := svc.Submit(context.Background(), &model.ContactMessage{
		Name: "A", Email: "a@b.com", Message: "hi",
	})
	if !errors.Is(err, apperror.ErrUnavailable) {
		t.Errorf("Submit() error = %v, want ErrUnavailable", err)
	}
}
