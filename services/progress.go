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

// Progress record statuses used by the backend.
const (
	ProgressInProgress = "IN_PROGRESS"
	ProgressCompleted  = "COMPLETED"
)

// ProgressRecord tracks a user's advancement through a piece of content.
type ProgressRecord struct {
	ID          int64     `json:"id,omitempty"`
	UserID      int64     `json:"userId"`
	ContentID   int64     `json:"contentId"`
	ContentType string    `json:"contentType,omitempty"`
	Status      string    `json:"status,omitempty"`
	Progress    int       `json:"progress"`
	UpdatedAt   time.Time `json:"updatedAt,omitempty"`
}

// ProgressPage is the backend's pagination envelope for progress records.
type ProgressPage struct {
	Content       []ProgressRecord `json:"content"`
	TotalPages    int              `json:"totalPages"`
	TotalElements int64            `json:"totalElements"`
	Number        int              `json:"number"`
}

// ProgressSummary aggregates a user's progress counts.
type ProgressSummary struct {
	UserID          int64 `json:"userId"`
	TotalCount      int   `json:"totalCount"`
	InProgressCount int   `json:"inProgressCount"`
	CompletedCount  int   `json:"completedCount"`
}

// ProgressService issues authenticated calls for the progress-tracking
// feature.
type ProgressService struct {
	api *api.Client
}

func NewProgressService(client *api.Client) (*ProgressService, error) {
	if client == nil {
		return nil, errors.New("[NewProgressService] api client is required")
	}
	return &ProgressService{api: client}, nil
}

// GetUserProgress lists a user's in-progress records.
func (s *ProgressService) GetUserProgress(ctx context.Context, userID int64, page, size int) (*ProgressPage, error) {
	return s.listByStatus(ctx, userID, ProgressInProgress, page, size)
}

// GetCompletedProgress lists a user's completed records.
func (s *ProgressService) GetCompletedProgress(ctx context.Context, userID int64, page, size int) (*ProgressPage, error) {
	return s.listByStatus(ctx, userID, ProgressCompleted, page, size)
}

func (s *ProgressService) listByStatus(ctx context.Context, userID int64, status string, page, size int) (*ProgressPage, error) {
	if size <= 0 {
		size = 10
	}
	values := url.Values{}
	values.Set("page", strconv.Itoa(page))
	values.Set("size", strconv.Itoa(size))
	values.Set("status", status)

	progressPage := &ProgressPage{}
	path := fmt.Sprintf("/api/progress/user/%d?%s", userID, values.Encode())
	if err := s.api.Get(ctx, path, progressPage); err != nil {
		return nil, err
	}
	return progressPage, nil
}

func (s *ProgressService) GetSummary(ctx context.Context, userID int64) (*ProgressSummary, error) {
	summary := &ProgressSummary{}
	if err := s.api.Get(ctx, fmt.Sprintf("/api/progress/summary/%d", userID), summary); err != nil {
		return nil, err
	}
	return summary, nil
}

// UpdateLearningPlanProgress sets a user's progress percentage on a
// learning plan. Only learning plans support direct progress updates.
func (s *ProgressService) UpdateLearningPlanProgress(ctx context.Context, planID, userID int64, progress int) (*ProgressRecord, error) {
	record := &ProgressRecord{}
	path := fmt.Sprintf("/api/learning-plans/%d/progress/%d/%d", planID, userID, progress)
	if err := s.api.Put(ctx, path, nil, record); err != nil {
		return nil, err
	}
	return record, nil
}
