package services_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ChathuminaK/SkillWave-sub000/api"
	"github.com/ChathuminaK/SkillWave-sub000/credentials"
	"github.com/ChathuminaK/SkillWave-sub000/services"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	Method string
	Path   string
	Query  string
	Auth   string
}

func newServiceFixture(t *testing.T, respond func(r *http.Request) any) (*api.Client, *[]recordedRequest) {
	t.Helper()

	requests := &[]recordedRequest{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*requests = append(*requests, recordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Auth:   r.Header.Get("Authorization"),
		})
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(respond(r))
	}))
	t.Cleanup(server.Close)

	store := credentials.NewInMemoryStore()
	require.NoError(t, store.Set(credentials.KeyAccessToken, "access-1"))
	client, err := api.NewClient(server.URL, store)
	require.NoError(t, err)
	return client, requests
}

func TestPostServiceListBuildsQueryAndAuthenticates(t *testing.T) {
	client, requests := newServiceFixture(t, func(r *http.Request) any {
		return services.PostPage{Content: []services.Post{{ID: 1, Title: "Intro to Go"}}, TotalPages: 1}
	})
	posts, err := services.NewPostService(client)
	require.NoError(t, err)

	page, err := posts.List(context.Background(), services.ListPostsOptions{Page: 2, Category: "programming"})
	require.NoError(t, err)
	require.Len(t, page.Content, 1)
	require.Equal(t, "Intro to Go", page.Content[0].Title)

	request := (*requests)[0]
	require.Equal(t, http.MethodGet, request.Method)
	require.Equal(t, "/api/educational-posts", request.Path)
	require.Contains(t, request.Query, "page=2")
	require.Contains(t, request.Query, "size=10")
	require.Contains(t, request.Query, "sortBy=createdAt")
	require.Contains(t, request.Query, "direction=desc")
	require.Contains(t, request.Query, "category=programming")
	require.Equal(t, "Bearer access-1", request.Auth)
}

func TestPostServiceListAllCategoriesOmitsFilter(t *testing.T) {
	client, requests := newServiceFixture(t, func(r *http.Request) any { return services.PostPage{} })
	posts, err := services.NewPostService(client)
	require.NoError(t, err)

	_, err = posts.List(context.Background(), services.ListPostsOptions{Category: "all"})
	require.NoError(t, err)
	require.NotContains(t, (*requests)[0].Query, "category=")
}

func TestPostServiceLikePaths(t *testing.T) {
	client, requests := newServiceFixture(t, func(r *http.Request) any {
		return services.LikeResult{LikeCount: 3}
	})
	posts, err := services.NewPostService(client)
	require.NoError(t, err)

	result, err := posts.Like(context.Background(), 42, 9)
	require.NoError(t, err)
	require.Equal(t, 3, result.LikeCount)
	require.Equal(t, http.MethodPost, (*requests)[0].Method)
	require.Equal(t, "/api/posts/42/like", (*requests)[0].Path)

	_, err = posts.Unlike(context.Background(), 42, 9)
	require.NoError(t, err)
	require.Equal(t, "/api/posts/42/unlike", (*requests)[1].Path)
}

func TestCommentServicePaths(t *testing.T) {
	client, requests := newServiceFixture(t, func(r *http.Request) any {
		return services.CommentPage{Comments: []services.Comment{{ID: 7, Content: "nice"}}}
	})
	comments, err := services.NewCommentService(client)
	require.NoError(t, err)

	_, err = comments.ListByPost(context.Background(), 42, 0, 10)
	require.NoError(t, err)
	require.Equal(t, "/api/comments/post/42/paginated", (*requests)[0].Path)

	_, err = comments.Update(context.Background(), 7, 9, services.Comment{Content: "edited"})
	require.NoError(t, err)
	require.Equal(t, "/api/comments/7", (*requests)[1].Path)
	require.Contains(t, (*requests)[1].Query, "userId=9")

	err = comments.Delete(context.Background(), 7, 9, 3)
	require.NoError(t, err)
	require.Equal(t, http.MethodDelete, (*requests)[2].Method)
	require.Contains(t, (*requests)[2].Query, "postOwnerId=3")
}

func TestLearningPlanServiceCRUDPaths(t *testing.T) {
	client, requests := newServiceFixture(t, func(r *http.Request) any {
		return services.LearningPlan{ID: 5, Title: "Go in a month"}
	})
	plans, err := services.NewLearningPlanService(client)
	require.NoError(t, err)

	created, err := plans.Create(context.Background(), services.LearningPlan{Title: "Go in a month"})
	require.NoError(t, err)
	require.Equal(t, int64(5), created.ID)
	require.Equal(t, "/learning-plans", (*requests)[0].Path)
	require.Equal(t, http.MethodPost, (*requests)[0].Method)

	_, err = plans.GetByID(context.Background(), 5)
	require.NoError(t, err)
	require.Equal(t, "/learning-plans/5", (*requests)[1].Path)

	require.NoError(t, plans.Delete(context.Background(), 5))
	require.Equal(t, http.MethodDelete, (*requests)[2].Method)
}

func TestProgressServicePaths(t *testing.T) {
	client, requests := newServiceFixture(t, func(r *http.Request) any {
		switch r.URL.Path {
		case "/api/progress/summary/9":
			return services.ProgressSummary{UserID: 9, TotalCount: 4, CompletedCount: 1}
		default:
			return services.ProgressPage{Content: []services.ProgressRecord{{UserID: 9, Progress: 50}}}
		}
	})
	progress, err := services.NewProgressService(client)
	require.NoError(t, err)

	_, err = progress.GetUserProgress(context.Background(), 9, 0, 10)
	require.NoError(t, err)
	require.Contains(t, (*requests)[0].Query, "status=IN_PROGRESS")

	_, err = progress.GetCompletedProgress(context.Background(), 9, 0, 10)
	require.NoError(t, err)
	require.Contains(t, (*requests)[1].Query, "status=COMPLETED")

	summary, err := progress.GetSummary(context.Background(), 9)
	require.NoError(t, err)
	require.Equal(t, 4, summary.TotalCount)

	_, err = progress.UpdateLearningPlanProgress(context.Background(), 5, 9, 75)
	require.NoError(t, err)
	require.Equal(t, "/api/learning-plans/5/progress/9/75", (*requests)[3].Path)
	require.Equal(t, http.MethodPut, (*requests)[3].Method)
}
