package lookup

import (
	"context"

	"github.com/google/uuid"

	"github.com/hirenbhut/social-api/internal/repository"
)

// Service resolves weak polymorphic references at render time. Every lookup
// treats a missing row as a normal outcome, not an error: the referenced
// object may have been deleted after the activity or notification was
// written.
type Service struct {
	users    repository.UserRepository
	posts    repository.PostRepository
	comments repository.CommentRepository
}

func NewService(users repository.UserRepository, posts repository.PostRepository, comments repository.CommentRepository) *Service {
	return &Service{users: users, posts: posts, comments: comments}
}

func (s *Service) PostTitle(ctx context.Context, id uuid.UUID) (string, bool) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return "", false
	}
	return post.Title, true
}

func (s *Service) PostPath(ctx context.Context, id uuid.UUID) (string, bool) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return "", false
	}
	return post.Path(), true
}

func (s *Service) UserDisplayName(ctx context.Context, id uuid.UUID) (string, bool) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return "", false
	}
	return user.DisplayName(), true
}

func (s *Service) UserProfilePath(ctx context.Context, id uuid.UUID) (string, bool) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return "", false
	}
	return user.ProfilePath(), true
}

func (s *Service) CommentExists(ctx context.Context, id uuid.UUID) bool {
	_, err := s.comments.GetByID(ctx, id)
	return err == nil
}
