package services

import (
	"context"
	"fmt"
	"time"

	"github.com/ChathuminaK/SkillWave-sub000/api"
	"github.com/pkg/errors"
)

// LearningPlan is a user-authored study plan.
type LearningPlan struct {
	ID          int64     `json:"id,omitempty"`
	UserID      int64     `json:"userId,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Topics      []string  `json:"topics,omitempty"`
	Progress    int       `json:"progress,omitempty"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
}

// LearningPlanService issues authenticated calls for the learning-plans
// feature.
type LearningPlanService struct {
	api *api.Client
}

func NewLearningPlanService(client *api.Client) (*LearningPlanService, error) {
	if client == nil {
		return nil, errors.New("[NewLearningPlanService] api client is required")
	}
	return &LearningPlanService{api: client}, nil
}

func (s *LearningPlanService) GetAll(ctx context.Context) ([]LearningPlan, error) {
	plans := []LearningPlan{}
	if err := s.api.Get(ctx, "/learning-plans", &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

func (s *LearningPlanService) GetByID(ctx context.Context, id int64) (*LearningPlan, error) {
	plan := &LearningPlan{}
	if err := s.api.Get(ctx, fmt.Sprintf("/learning-plans/%d", id), plan); err != nil {
		return nil, err
	}
	return plan, nil
}

func (s *LearningPlanService) Create(ctx context.Context, plan LearningPlan) (*LearningPlan, error) {
	created := &LearningPlan{}
	if err := s.api.Post(ctx, "/learning-plans", plan, created); err != nil {
		return nil, err
	}
	return created, nil
}

func (s *LearningPlanService) Update(ctx context.Context, id int64, plan LearningPlan) (*LearningPlan, error) {
	updated := &LearningPlan{}
	if err := s.api.Put(ctx, fmt.Sprintf("/learning-plans/%d", id), plan, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *LearningPlanService) Delete(ctx context.Context, id int64) error {
	return s.api.Delete(ctx, fmt.Sprintf("/learning-plans/%d", id))
}
