package service

import (
	"context"
	"strings"

	"farmfit/internal/models"
	"farmfit/internal/repository"
)

// CommentService provides threaded comment business logic.
type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	isAdmin     func(ctx context.Context, userID uint) (bool, error)
}

// NewCommentService returns a new CommentService.
func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		isAdmin:     isAdmin,
	}
}

// Create adds a comment to a post, optionally as a reply. Reply depth is
// bounded; replies to a comment already at the maximum depth are rejected.
func (s *CommentService) Create(ctx context.Context, userID, postID uint, parentID *uint, content string) (*models.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, models.NewValidationError("content is required")
	}
	if len(content) > 2000 {
		return nil, models.NewValidationError("content must not exceed 2000 characters")
	}

	if _, err := s.postRepo.GetByID(ctx, postID, 0); err != nil {
		return nil, err
	}

	depth := 1
	if parentID != nil {
		parent, err := s.commentRepo.GetByID(ctx, *parentID)
		if err != nil {
			return nil, err
		}
		if parent.PostID != postID {
			return nil, models.NewValidationError("parent comment belongs to a different post")
		}
		if parent.Depth >= models.MaxCommentDepth {
			return nil, models.NewValidationError("maximum reply depth reached")
		}
		depth = parent.Depth + 1
	}

	comment := &models.Comment{
		Content:  content,
		UserID:   userID,
		PostID:   postID,
		ParentID: parentID,
		Depth:    depth,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return s.commentRepo.GetByID(ctx, comment.ID)
}

// ListByPost returns all comments on a post in thread order: top-level
// comments chronologically, with replies nested under their parents.
func (s *CommentService) ListByPost(ctx context.Context, postID uint) ([]*models.Comment, error) {
	return s.commentRepo.ListByPost(ctx, postID)
}

// Update edits a comment owned by the acting user.
func (s *CommentService) Update(ctx context.Context, userID, commentID uint, content string) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.UserID != userID {
		return nil, models.NewUnauthorizedError("You can only edit your own comments")
	}
	if strings.TrimSpace(content) == "" {
		return nil, models.NewValidationError("content is required")
	}

	comment.Content = content
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// Delete removes a comment. Owners may delete their own; admins may delete any.
func (s *CommentService) Delete(ctx context.Context, userID, commentID uint) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.UserID != userID {
		admin, err := s.isAdmin(ctx, userID)
		if err != nil {
			return err
		}
		if !admin {
			return models.NewUnauthorizedError("You can only delete your own comments")
		}
	}
	return s.commentRepo.Delete(ctx, commentID)
}
