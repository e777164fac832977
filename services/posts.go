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

// Post is an educational post as served by /api/educational-posts.
type Post struct {
	ID          int64     `json:"id,omitempty"`
	UserID      int64     `json:"userId,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
	MediaURLs   []string  `json:"mediaUrls,omitempty"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
}

// PostPage is the backend's pagination envelope for posts.
type PostPage struct {
	Content       []Post `json:"content"`
	TotalPages    int    `json:"totalPages"`
	TotalElements int64  `json:"totalElements"`
	Number        int    `json:"number"`
}

// ListPostsOptions narrows and orders a post listing. Zero values mean
// first page, default size, all categories, newest first.
type ListPostsOptions struct {
	Page      int
	Size      int
	Category  string
	SortBy    string
	Direction string
}

// PostService issues authenticated calls for the educational-posts
// feature. It holds no state of its own; everything goes through the
// request pipeline.
type PostService struct {
	api *api.Client
}

func NewPostService(client *api.Client) (*PostService, error) {
	if client == nil {
		return nil, errors.New("[NewPostService] api client is required")
	}
	return &PostService{api: client}, nil
}

func (s *PostService) List(ctx context.Context, opts ListPostsOptions) (*PostPage, error) {
	if opts.Size <= 0 {
		opts.Size = 10
	}
	if opts.SortBy == "" {
		opts.SortBy = "createdAt"
	}
	if opts.Direction == "" {
		opts.Direction = "desc"
	}

	values := url.Values{}
	values.Set("page", strconv.Itoa(opts.Page))
	values.Set("size", strconv.Itoa(opts.Size))
	values.Set("sortBy", opts.SortBy)
	values.Set("direction", opts.Direction)
	if opts.Category != "" && opts.Category != "all" {
		values.Set("category", opts.Category)
	}

	page := &PostPage{}
	if err := s.api.Get(ctx, "/api/educational-posts?"+values.Encode(), page); err != nil {
		return nil, err
	}
	return page, nil
}

func (s *PostService) GetByID(ctx context.Context, id int64) (*Post, error) {
	post := &Post{}
	if err := s.api.Get(ctx, fmt.Sprintf("/api/educational-posts/%d", id), post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) Create(ctx context.Context, post Post) (*Post, error) {
	created := &Post{}
	if err := s.api.Post(ctx, "/api/educational-posts", post, created); err != nil {
		return nil, err
	}
	return created, nil
}

func (s *PostService) Update(ctx context.Context, id int64, post Post) (*Post, error) {
	updated := &Post{}
	if err := s.api.Put(ctx, fmt.Sprintf("/api/educational-posts/%d", id), post, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *PostService) Delete(ctx context.Context, id int64) error {
	return s.api.Delete(ctx, fmt.Sprintf("/api/educational-posts/%d", id))
}

type likeRequest struct {
	UserID int64 `json:"userId"`
}

// LikeResult carries the post's like count after a like or unlike.
type LikeResult struct {
	LikeCount int `json:"likeCount"`
}

func (s *PostService) Like(ctx context.Context, id, userID int64) (*LikeResult, error) {
	return s.setLiked(ctx, id, userID, "like")
}

func (s *PostService) Unlike(ctx context.Context, id, userID int64) (*LikeResult, error) {
	return s.setLiked(ctx, id, userID, "unlike")
}

func (s *PostService) setLiked(ctx context.Context, id, userID int64, action string) (*LikeResult, error) {
	result := &LikeResult{}
	path := fmt.Sprintf("/api/posts/%d/%s", id, action)
	if err := s.api.Post(ctx, path, likeRequest{UserID: userID}, result); err != nil {
		return nil, err
	}
	return result, nil
}
