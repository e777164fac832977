package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/ChathuminaK/SkillWave-sub000/api"
	"github.com/pkg/errors"
)

// Comment is a comment on an educational post.
type Comment struct {
	ID        int64     `json:"id,omitempty"`
	PostID    int64     `json:"postId"`
	UserID    int64     `json:"userId,omitempty"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// CommentPage is the backend's pagination envelope for comments.
type CommentPage struct {
	Comments    []Comment `json:"comments"`
	TotalPages  int       `json:"totalPages"`
	CurrentPage int       `json:"currentPage"`
}

// CommentService issues authenticated calls for the comments feature.
type CommentService struct {
	api *api.Client
}

func NewCommentService(client *api.Client) (*CommentService, error) {
	if client == nil {
		return nil, errors.New("[NewCommentService] api client is required")
	}
	return &CommentService{api: client}, nil
}

func (s *CommentService) ListByPost(ctx context.Context, postID int64, page, size int) (*CommentPage, error) {
	if size <= 0 {
		size = 10
	}
	values := url.Values{}
	values.Set("page", strconv.Itoa(page))
	values.Set("size", strconv.Itoa(size))

	commentPage := &CommentPage{}
	path := fmt.Sprintf("/api/comments/post/%d/paginated?%s", postID, values.Encode())
	if err := s.api.Get(ctx, path, commentPage); err != nil {
		return nil, err
	}
	return commentPage, nil
}

func (s *CommentService) Create(ctx context.Context, comment Comment) (*Comment, error) {
	created := &Comment{}
	if err := s.api.Post(ctx, "/api/comments", comment, created); err != nil {
		return nil, err
	}
	return created, nil
}

// Update edits a comment. The backend authorizes the edit against the
// acting user passed in the query string.
func (s *CommentService) Update(ctx context.Context, id, userID int64, comment Comment) (*Comment, error) {
	updated := &Comment{}
	path := fmt.Sprintf("/api/comments/%d?userId=%d", id, userID)
	if err := s.api.Put(ctx, path, comment, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a comment. postOwnerID is optional; when non-zero it
// lets the post owner delete comments on their own post.
func (s *CommentService) Delete(ctx context.Context, id, userID, postOwnerID int64) error {
	values := url.Values{}
	values.Set("userId", strconv.FormatInt(userID, 10))
	if postOwnerID != 0 {
		values.Set("postOwnerId", strconv.FormatInt(postOwnerID, 10))
	}
	return s.api.Delete(ctx, fmt.Sprintf("/api/comments/%d?%s", id, values.Encode()))
}
