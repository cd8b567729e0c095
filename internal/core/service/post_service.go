package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/worksy/marketplace/internal/core/domain"
	"github.com/worksy/marketplace/internal/core/ports"
)

type PostService struct {
	repo   ports.PostRepository
	logger zerolog.Logger
}

func NewPostService(repo ports.PostRepository, logger zerolog.Logger) *PostService {
	return &PostService{repo: repo, logger: logger}
}

func (s *PostService) Create(ctx context.Context, caller *domain.User, in ports.CreatePostInput) (*domain.Post, error) {
	if caller == nil {
		return nil, domain.ErrUnauthenticated
	}
	title, body := strings.TrimSpace(in.Title), strings.TrimSpace(in.Body)
	if err := validatePost(title, body); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	post, err := s.repo.Create(ctx, &domain.Post{
		AuthorID:  caller.ID,
		Title:     title,
		Body:      body,
		Images:    cleanList(in.Images),
		Tags:      cleanList(in.Tags),
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create post")
		return nil, err
	}

	s.logger.Info().Str("post_id", post.ID).Str("author_id", caller.ID).Msg("post created")
	return post, nil
}

func (s *PostService) Get(ctx context.Context, id string) (*domain.Post, error) {
	if id == "" {
		return nil, domain.ErrPostNotFound
	}
	return s.repo.FindByID(ctx, id)
}

func (s *PostService) List(ctx context.Context) ([]*domain.Post, error) {
	return s.repo.List(ctx)
}

// Update applies patch to a post. Only the author may edit.
func (s *PostService) Update(ctx context.Context, caller *domain.User, id string, patch domain.PostPatch) (*domain.Post, error) {
	if caller == nil {
		return nil, domain.ErrUnauthenticated
	}
	post, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != caller.ID {
		return nil, domain.ErrForbidden
	}

	if patch.Title != nil {
		post.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Body != nil {
		post.Body = strings.TrimSpace(*patch.Body)
	}
	if patch.Images != nil {
		post.Images = cleanList(*patch.Images)
	}
	if patch.Tags != nil {
		post.Tags = cleanList(*patch.Tags)
	}
	if err := validatePost(post.Title, post.Body); err != nil {
		return nil, err
	}
	post.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// Delete removes a post. The author and admins may delete.
func (s *PostService) Delete(ctx context.Context, caller *domain.User, id string) error {
	if caller == nil {
		return domain.ErrUnauthenticated
	}
	post, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if post.AuthorID != caller.ID && caller.Role != domain.RoleAdmin {
		return domain.ErrForbidden
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Str("post_id", id).Str("deleted_by", caller.ID).Msg("post deleted")
	return nil
}

func validatePost(title, body string) error {
	if title == "" {
		return fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if body == "" {
		return fmt.Errorf("%w: body is required", domain.ErrValidation)
	}
	return nil
}
