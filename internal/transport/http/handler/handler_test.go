package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"devconnect/internal/app"
	"devconnect/internal/model"
	"devconnect/internal/transport/http/middleware"
)

const testSecret = "test-secret"

// In-memory stores standing in for the mongo repositories. The profile
// store mirrors the document store's partial-update merge.

type memUserStore struct {
	users map[primitive.ObjectID]model.User
}

func (s *memUserStore) Create(_ context.Context, user *model.User) error {
	user.ID = primitive.NewObjectID()
	s.users[user.ID] = *user
	return nil
}

func (s *memUserStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (s *memUserStore) GetByID(_ context.Context, id primitive.ObjectID) (*model.User, error) {
	if u, ok := s.users[id]; ok {
		return &u, nil
	}
	return nil, nil
}

func (s *memUserStore) GetByIDs(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]model.User, error) {
	out := map[primitive.ObjectID]model.User{}
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

func (s *memUserStore) Delete(_ context.Context, id primitive.ObjectID) error {
	delete(s.users, id)
	return nil
}

type memProfileStore struct {
	profiles map[primitive.ObjectID]*model.Profile
}

func (s *memProfileStore) GetByUserID(_ context.Context, userID primitive.ObjectID) (*model.Profile, error) {
	if p, ok := s.profiles[userID]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (s *memProfileStore) GetAll(_ context.Context) ([]model.Profile, error) {
	out := []model.Profile{}
	for _, p := range s.profiles {
		out = append(out, *p)
	}
	return out, nil
}

func (s *memProfileStore) Upsert(_ context.Context, userID primitive.ObjectID, patch model.ProfilePatch) (*model.Profile, error) {
	p, ok := s.profiles[userID]
	if !ok {
		p = &model.Profile{
			ID:         primitive.NewObjectID(),
			UserID:     userID,
			Experience: []model.Experience{},
			Education:  []model.Education{},
		}
		s.profiles[userID] = p
	}
	if patch.Company != nil {
		p.Company = *patch.Company
	}
	if patch.Website != nil {
		p.Website = *patch.Website
	}
	if patch.Location != nil {
		p.Location = *patch.Location
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	if patch.Bio != nil {
		p.Bio = *patch.Bio
	}
	if patch.GithubUsername != nil {
		p.GithubUsername = *patch.GithubUsername
	}
	if patch.Skills != nil {
		p.Skills = patch.Skills
	}
	if patch.Social != nil {
		p.Social = *patch.Social
	}
	p.UpdatedAt = time.Now()
	cp := *p
	return &cp, nil
}

func (s *memProfileStore) AddExperience(_ context.Context, userID primitive.ObjectID, exp model.Experience) (*model.Profile, error) {
	p, ok := s.profiles[userID]
	if !ok {
		return nil, nil
	}
	p.Experience = append([]model.Experience{exp}, p.Experience...)
	cp := *p
	return &cp, nil
}

func (s *memProfileStore) RemoveExperience(_ context.Context, userID, expID primitive.ObjectID) (*model.Profile, error) {
	p, ok := s.profiles[userID]
	if !ok {
		return nil, nil
	}
	kept := p.Experience[:0]
	for _, e := range p.Experience {
		if e.ID != expID {
			kept = append(kept, e)
		}
	}
	p.Experience = kept
	cp := *p
	return &cp, nil
}

func (s *memProfileStore) AddEducation(_ context.Context, userID primitive.ObjectID, edu model.Education) (*model.Profile, error) {
	p, ok := s.profiles[userID]
	if !ok {
		return nil, nil
	}
	p.Education = append([]model.Education{edu}, p.Education...)
	cp := *p
	return &cp, nil
}

func (s *memProfileStore) RemoveEducation(_ context.Context, userID, eduID primitive.ObjectID) (*model.Profile, error) {
	p, ok := s.profiles[userID]
	if !ok {
		return nil, nil
	}
	kept := p.Education[:0]
	for _, e := range p.Education {
		if e.ID != eduID {
			kept = append(kept, e)
		}
	}
	p.Education = kept
	cp := *p
	return &cp, nil
}

func (s *memProfileStore) Delete(_ context.Context, userID primitive.ObjectID) error {
	delete(s.profiles, userID)
	return nil
}

type memPostStore struct {
	posts map[primitive.ObjectID]*model.Post
}

func (s *memPostStore) Create(_ context.Context, post *model.Post) error {
	post.ID = primitive.NewObjectID()
	cp := *post
	s.posts[post.ID] = &cp
	return nil
}

func (s *memPostStore) GetAll(_ context.Context) ([]model.Post, error) {
	out := []model.Post{}
	for _, p := range s.posts {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (s *memPostStore) GetByID(_ context.Context, id primitive.ObjectID) (*model.Post, error) {
	if p, ok := s.posts[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (s *memPostStore) Delete(_ context.Context, id primitive.ObjectID) error {
	delete(s.posts, id)
	return nil
}

func (s *memPostStore) DeleteByUser(_ context.Context, userID primitive.ObjectID) error {
	for id, p := range s.posts {
		if p.UserID == userID {
			delete(s.posts, id)
		}
	}
	return nil
}

func (s *memPostStore) AddLike(_ context.Context, postID primitive.ObjectID, like model.Like) (*model.Post, error) {
	p, ok := s.posts[postID]
	if !ok {
		return nil, nil
	}
	p.Likes = append([]model.Like{like}, p.Likes...)
	cp := *p
	return &cp, nil
}

func (s *memPostStore) RemoveLike(_ context.Context, postID, userID primitive.ObjectID) (*model.Post, error) {
	p, ok := s.posts[postID]
	if !ok {
		return nil, nil
	}
	kept := p.Likes[:0]
	for _, l := range p.Likes {
		if l.UserID != userID {
			kept = append(kept, l)
		}
	}
	p.Likes = kept
	cp := *p
	return &cp, nil
}

func (s *memPostStore) AddComment(_ context.Context, postID primitive.ObjectID, comment model.Comment) (*model.Post, error) {
	p, ok := s.posts[postID]
	if !ok {
		return nil, nil
	}
	p.Comments = append([]model.Comment{comment}, p.Comments...)
	cp := *p
	return &cp, nil
}

func (s *memPostStore) RemoveComment(_ context.Context, postID, commentID primitive.ObjectID) (*model.Post, error) {
	p, ok := s.posts[postID]
	if !ok {
		return nil, nil
	}
	kept := p.Comments[:0]
	for _, c := range p.Comments {
		if c.ID != commentID {
			kept = append(kept, c)
		}
	}
	p.Comments = kept
	cp := *p
	return &cp, nil
}

type testEnv struct {
	router *gin.Engine
}

func newTestEnv() *testEnv {
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	users := &memUserStore{users: map[primitive.ObjectID]model.User{}}
	profiles := &memProfileStore{profiles: map[primitive.ObjectID]*model.Profile{}}
	posts := &memPostStore{posts: map[primitive.ObjectID]*model.Post{}}

	authService := app.NewAuthService(users, nil, logger, testSecret, time.Hour)
	profileService := app.NewProfileService(profiles, users, posts, nil, logger)
	postService := app.NewPostService(posts, users, nil, logger)

	userHandler := NewUserHandler(authService, logger)
	authHandler := NewAuthHandler(authService, logger)
	profileHandler := NewProfileHandler(profileService, logger)
	postHandler := NewPostHandler(postService, logger)

	guard := middleware.AuthToken(testSecret)

	router := gin.New()
	api := router.Group("/api")

	api.GET("/users", userHandler.Index)
	api.POST("/users", userHandler.Register)

	api.GET("/auth", guard, authHandler.CurrentUser)
	api.POST("/auth", authHandler.Login)

	api.GET("/profile", profileHandler.All)
	api.GET("/profile/me", guard, profileHandler.Me)
	api.GET("/profile/user/:userID", profileHandler.ByUserID)
	api.POST("/profile", guard, profileHandler.Upsert)
	api.PUT("/profile/experience", guard, profileHandler.AddExperience)
	api.DELETE("/profile/experience/:expID", guard, profileHandler.RemoveExperience)
	api.PUT("/profile/education", guard, profileHandler.AddEducation)
	api.DELETE("/profile/education/:eduID", guard, profileHandler.RemoveEducation)
	api.DELETE("/profile", guard, profileHandler.Delete)

	postGroup := api.Group("/posts")
	postGroup.Use(guard)
	postGroup.POST("", postHandler.Create)
	postGroup.GET("", postHandler.All)
	postGroup.GET("/:id", postHandler.ByID)
	postGroup.DELETE("/:id", postHandler.Delete)
	postGroup.PUT("/like/:id", postHandler.Like)
	postGroup.PUT("/unlike/:id", postHandler.Unlike)
	postGroup.POST("/comment/:id", postHandler.AddComment)
	postGroup.DELETE("/comment/:id/:commentID", postHandler.RemoveComment)

	return &testEnv{router: router}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(middleware.TokenHeader, token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) register(t *testing.T, name, email, password string) string {
	t.Helper()

	w := e.do(t, http.MethodPost, "/api/users", "", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}
