package app

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"devconnect/internal/model"
)

var (
	ErrPostNotFound    = errors.New("post not found")
	ErrNotAuthorized   = errors.New("user not authorized")
	ErrAlreadyLiked    = errors.New("post already liked")
	ErrNotLiked        = errors.New("post has not yet been liked")
	ErrCommentNotFound = errors.New("comment does not exist")
)

// PostStore is the persistence collaborator for post documents. Mutations
// return the document as it is after the write, or nil when the post is
// gone.
type PostStore interface {
	Create(ctx context.Context, post *model.Post) error
	GetAll(ctx context.Context) ([]model.Post, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.Post, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByUser(ctx context.Context, userID primitive.ObjectID) error
	AddLike(ctx context.Context, postID primitive.ObjectID, like model.Like) (*model.Post, error)
	RemoveLike(ctx context.Context, postID, userID primitive.ObjectID) (*model.Post, error)
	AddComment(ctx context.Context, postID primitive.ObjectID, comment model.Comment) (*model.Post, error)
	RemoveComment(ctx context.Context, postID, commentID primitive.ObjectID) (*model.Post, error)
}

type PostService struct {
	posts  PostStore
	users  UserStore
	events EventPublisher
	logger *zap.Logger
}

func NewPostService(posts PostStore, users UserStore, events EventPublisher, logger *zap.Logger) *PostService {
	return &PostService{
		posts:  posts,
		users:  users,
		events: events,
		logger: logger,
	}
}

func (s *PostService) Create(ctx context.Context, userIDHex, text string) (*model.Post, error) {
	userID, err := primitive.ObjectIDFromHex(userIDHex)
	if err != nil {
		return nil, ErrUserNotFound
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	post := &model.Post{
		UserID:   userID,
		Text:     text,
		Name:     user.Name,
		Avatar:   user.Avatar,
		Likes:    []model.Like{},
		Comments: []model.Comment{},
		Date:     time.Now(),
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, model.AccountEvent{
		Kind:       model.EventPostCreated,
		UserID:     userIDHex,
		Detail:     post.ID.Hex(),
		OccurredAt: time.Now(),
	})
	return post, nil
}

func (s *PostService) All(ctx context.Context) ([]model.Post, error) {
	return s.posts.GetAll(ctx)
}

func (s *PostService) ByID(ctx context.Context, postIDHex string) (*model.Post, error) {
	post, _, err := s.load(ctx, postIDHex)
	return post, err
}

func (s *PostService) Delete(ctx context.Context, postIDHex, userIDHex string) error {
	post, userID, err := s.loadOwned(ctx, postIDHex, userIDHex)
	if err != nil {
		return err
	}
	if post.UserID != userID {
		return ErrNotAuthorized
	}
	return s.posts.Delete(ctx, post.ID)
}

func (s *PostService) Like(ctx context.Context, postIDHex, userIDHex string) (*model.Post, error) {
	post, userID, err := s.loadOwned(ctx, postIDHex, userIDHex)
	if err != nil {
		return nil, err
	}

	for _, like := range post.Likes {
		if like.UserID == userID {
			return nil, ErrAlreadyLiked
		}
	}

	updated, err := s.posts.AddLike(ctx, post.ID, model.Like{UserID: userID})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrPostNotFound
	}
	return updated, nil
}

func (s *PostService) Unlike(ctx context.Context, postIDHex, userIDHex string) (*model.Post, error) {
	post, userID, err := s.loadOwned(ctx, postIDHex, userIDHex)
	if err != nil {
		return nil, err
	}

	liked := false
	for _, like := range post.Likes {
		if like.UserID == userID {
			liked = true
			break
		}
	}
	if !liked {
		return nil, ErrNotLiked
	}

	updated, err := s.posts.RemoveLike(ctx, post.ID, userID)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrPostNotFound
	}
	return updated, nil
}

func (s *PostService) AddComment(ctx context.Context, postIDHex, userIDHex, text string) (*model.Post, error) {
	post, userID, err := s.loadOwned(ctx, postIDHex, userIDHex)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	comment := model.Comment{
		ID:     primitive.NewObjectID(),
		UserID: userID,
		Text:   text,
		Name:   user.Name,
		Avatar: user.Avatar,
		Date:   time.Now(),
	}

	updated, err := s.posts.AddComment(ctx, post.ID, comment)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrPostNotFound
	}
	return updated, nil
}

func (s *PostService) RemoveComment(ctx context.Context, postIDHex, commentIDHex, userIDHex string) (*model.Post, error) {
	post, userID, err := s.loadOwned(ctx, postIDHex, userIDHex)
	if err != nil {
		return nil, err
	}

	commentID, err := primitive.ObjectIDFromHex(commentIDHex)
	if err != nil {
		return nil, ErrCommentNotFound
	}

	var comment *model.Comment
	for i := range post.Comments {
		if post.Comments[i].ID == commentID {
			comment = &post.Comments[i]
			break
		}
	}
	if comment == nil {
		return nil, ErrCommentNotFound
	}
	if comment.UserID != userID {
		return nil, ErrNotAuthorized
	}

	updated, err := s.posts.RemoveComment(ctx, post.ID, commentID)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrPostNotFound
	}
	return updated, nil
}

func (s *PostService) load(ctx context.Context, postIDHex string) (*model.Post, primitive.ObjectID, error) {
	postID, err := primitive.ObjectIDFromHex(postIDHex)
	if err != nil {
		return nil, primitive.NilObjectID, ErrPostNotFound
	}

	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, primitive.NilObjectID, err
	}
	if post == nil {
		return nil, primitive.NilObjectID, ErrPostNotFound
	}
	return post, postID, nil
}

func (s *PostService) loadOwned(ctx context.Context, postIDHex, userIDHex string) (*model.Post, primitive.ObjectID, error) {
	userID, err := primitive.ObjectIDFromHex(userIDHex)
	if err != nil {
		return nil, primitive.NilObjectID, ErrUserNotFound
	}

	post, _, err := s.load(ctx, postIDHex)
	if err != nil {
		return nil, primitive.NilObjectID, err
	}
	return post, userID, nil
}

func (s *PostService) publishEvent(ctx context.Context, event model.AccountEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn("publish account event failed",
			zap.String("kind", event.Kind),
			zap.Error(err))
	}
}
