package service

import (
	"context"
	"strings"

	"farmfit/internal/models"
	"farmfit/internal/repository"
)

// CreatePostInput carries the fields for a new feed post.
type CreatePostInput struct {
	Content  string `json:"content"`
	PhotoURL string `json:"photo_url"`
	PetName  string `json:"pet_name"`
}

// PostService provides feed post business logic.
type PostService struct {
	postRepo repository.PostRepository
	isAdmin  func(ctx context.Context, userID uint) (bool, error)
}

// NewPostService returns a new PostService.
func NewPostService(postRepo repository.PostRepository, isAdmin func(ctx context.Context, userID uint) (bool, error)) *PostService {
	return &PostService{postRepo: postRepo, isAdmin: isAdmin}
}

// Create publishes a new post to the feed.
func (s *PostService) Create(ctx context.Context, userID uint, input CreatePostInput) (*models.Post, error) {
	if strings.TrimSpace(input.Content) == "" {
		return nil, models.NewValidationError("content is required")
	}
	if len(input.Content) > 5000 {
		return nil, models.NewValidationError("content must not exceed 5000 characters")
	}
	if len(input.PetName) > 80 {
		return nil, models.NewValidationError("pet_name must not exceed 80 characters")
	}

	post := &models.Post{
		Content:  input.Content,
		PhotoURL: input.PhotoURL,
		PetName:  input.PetName,
		UserID:   userID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID, userID)
}

// Get returns a single post with counts computed for the viewing user.
func (s *PostService) Get(ctx context.Context, postID, currentUserID uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, postID, currentUserID)
}

// List returns a page of the feed, newest first.
func (s *PostService) List(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.postRepo.List(ctx, limit, offset, currentUserID)
}

// ListByUser returns a page of a user's posts.
func (s *PostService) ListByUser(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.postRepo.GetByUserID(ctx, userID, limit, offset, currentUserID)
}

// Update edits a post owned by the acting user.
func (s *PostService) Update(ctx context.Context, userID, postID uint, content string) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID, userID)
	if err != nil {
		return nil, err
	}
	if post.UserID != userID {
		return nil, models.NewUnauthorizedError("You can only edit your own posts")
	}
	if strings.TrimSpace(content) == "" {
		return nil, models.NewValidationError("content is required")
	}

	post.Content = content
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// Delete removes a post. Owners may delete their own; admins may delete any.
// The deleted post is returned so callers can clean up attached media.
func (s *PostService) Delete(ctx context.Context, userID, postID uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID, userID)
	if err != nil {
		return nil, err
	}
	if post.UserID != userID {
		admin, err := s.isAdmin(ctx, userID)
		if err != nil {
			return nil, err
		}
		if !admin {
			return nil, models.NewUnauthorizedError("You can only delete your own posts")
		}
	}
	if err := s.postRepo.Delete(ctx, postID); err != nil {
		return nil, err
	}
	return post, nil
}

// Like records a like; liking twice is a conflict.
func (s *PostService) Like(ctx context.Context, userID, postID uint) error {
	if _, err := s.postRepo.GetByID(ctx, postID, userID); err != nil {
		return err
	}
	return s.postRepo.Like(ctx, userID, postID)
}

// Unlike removes a like.
func (s *PostService) Unlike(ctx context.Context, userID, postID uint) error {
	return s.postRepo.Unlike(ctx, userID, postID)
}
