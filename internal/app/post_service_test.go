package app

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"devconnect/internal/model"
)

type memPostStore struct {
	posts map[primitive.ObjectID]*model.Post
}

func newMemPostStore() *memPostStore {
	return &memPostStore{posts: map[primitive.ObjectID]*model.Post{}}
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

func newPostService(posts PostStore, users UserStore) *PostService {
	return NewPostService(posts, users, nil, zap.NewNop())
}

func TestPostCreate_DenormalizesAuthor(t *testing.T) {
	t.Parallel()

	users := newMemUserStore()
	posts := newMemPostStore()
	svc := newPostService(posts, users)
	user := seedUser(t, users)

	post, err := svc.Create(context.Background(), user.ID.Hex(), "hello world")
	require.NoError(t, err)
	assert.Equal(t, user.Name, post.Name)
	assert.Equal(t, user.Avatar, post.Avatar)
	assert.Equal(t, "hello world", post.Text)
	assert.WithinDuration(t, time.Now(), post.Date, time.Minute)
}

func TestPostLike_RejectsSecondLike(t *testing.T) {
	t.Parallel()

	users := newMemUserStore()
	posts := newMemPostStore()
	svc := newPostService(posts, users)
	user := seedUser(t, users)

	post, err := svc.Create(context.Background(), user.ID.Hex(), "likeable")
	require.NoError(t, err)

	liked, err := svc.Like(context.Background(), post.ID.Hex(), user.ID.Hex())
	require.NoError(t, err)
	require.Len(t, liked.Likes, 1)

	_, err = svc.Like(context.Background(), post.ID.Hex(), user.ID.Hex())
	assert.ErrorIs(t, err, ErrAlreadyLiked)
}

func TestPostUnlike_RequiresPriorLike(t *testing.T) {
	t.Parallel()

	users := newMemUserStore()
	posts := newMemPostStore()
	svc := newPostService(posts, users)
	user := seedUser(t, users)

	post, err := svc.Create(context.Background(), user.ID.Hex(), "p")
	require.NoError(t, err)

	_, err = svc.Unlike(context.Background(), post.ID.Hex(), user.ID.Hex())
	assert.ErrorIs(t, err, ErrNotLiked)

	_, err = svc.Like(context.Background(), post.ID.Hex(), user.ID.Hex())
	require.NoError(t, err)

	unliked, err := svc.Unlike(context.Background(), post.ID.Hex(), user.ID.Hex())
	require.NoError(t, err)
	assert.Empty(t, unliked.Likes)
}

func TestPostDelete_OnlyAuthor(t *testing.T) {
	t.Parallel()

	users := newMemUserStore()
	posts := newMemPostStore()
	svc := newPostService(posts, users)
	author := seedUser(t, users)
	other := &model.User{Name: "Other", Email: "other@example.com"}
	require.NoError(t, users.Create(context.Background(), other))

	post, err := svc.Create(context.Background(), author.ID.Hex(), "mine")
	require.NoError(t, err)

	err = svc.Delete(context.Background(), post.ID.Hex(), other.ID.Hex())
	assert.ErrorIs(t, err, ErrNotAuthorized)

	require.NoError(t, svc.Delete(context.Background(), post.ID.Hex(), author.ID.Hex()))

	_, err = svc.ByID(context.Background(), post.ID.Hex())
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestPostComments_AddAndRemove(t *testing.T) {
	t.Parallel()

	users := newMemUserStore()
	posts := newMemPostStore()
	svc := newPostService(posts, users)
	user := seedUser(t, users)

	post, err := svc.Create(context.Background(), user.ID.Hex(), "p")
	require.NoError(t, err)

	withComment, err := svc.AddComment(context.Background(), post.ID.Hex(), user.ID.Hex(), "nice")
	require.NoError(t, err)
	require.Len(t, withComment.Comments, 1)
	assert.Equal(t, user.Name, withComment.Comments[0].Name)

	_, err = svc.RemoveComment(context.Background(), post.ID.Hex(), primitive.NewObjectID().Hex(), user.ID.Hex())
	assert.ErrorIs(t, err, ErrCommentNotFound)

	after, err := svc.RemoveComment(context.Background(), post.ID.Hex(), withComment.Comments[0].ID.Hex(), user.ID.Hex())
	require.NoError(t, err)
	assert.Empty(t, after.Comments)
}

func TestPostByID_MalformedIDIsNotFound(t *testing.T) {
	t.Parallel()

	svc := newPostService(newMemPostStore(), newMemUserStore())

	_, err := svc.ByID(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrPostNotFound)
}
