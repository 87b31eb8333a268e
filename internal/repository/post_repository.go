package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"devconnect/internal/model"
)

type PostRepository struct {
	col *mongo.Collection
}

func NewPostRepository(db *mongo.Database) *PostRepository {
	return &PostRepository{col: db.Collection("posts")}
}

func (r *PostRepository) Create(ctx context.Context, post *model.Post) error {
	res, err := r.col.InsertOne(ctx, post)
	if err != nil {
		return fmt.Errorf("create post failed: %w", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		post.ID = id
	}
	return nil
}

func (r *PostRepository) GetAll(ctx context.Context) ([]model.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cursor, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("query posts failed: %w", err)
	}
	defer cursor.Close(ctx)

	posts := []model.Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("decode posts failed: %w", err)
	}
	return posts, nil
}

func (r *PostRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Post, error) {
	var post model.Post
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&post); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("query post by id failed: %w", err)
	}
	return &post, nil
}

func (r *PostRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, err := r.col.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete post failed: %w", err)
	}
	return nil
}

func (r *PostRepository) DeleteByUser(ctx context.Context, userID primitive.ObjectID) error {
	if _, err := r.col.DeleteMany(ctx, bson.M{"user": userID}); err != nil {
		return fmt.Errorf("delete posts by user failed: %w", err)
	}
	return nil
}

func (r *PostRepository) AddLike(ctx context.Context, postID primitive.ObjectID, like model.Like) (*model.Post, error) {
	update := bson.M{
		"$push": bson.M{
			"likes": bson.M{
				"$each":     []model.Like{like},
				"$position": 0,
			},
		},
	}
	return r.findOneAndUpdate(ctx, postID, update, "add like")
}

func (r *PostRepository) RemoveLike(ctx context.Context, postID, userID primitive.ObjectID) (*model.Post, error) {
	update := bson.M{"$pull": bson.M{"likes": bson.M{"user": userID}}}
	return r.findOneAndUpdate(ctx, postID, update, "remove like")
}

func (r *PostRepository) AddComment(ctx context.Context, postID primitive.ObjectID, comment model.Comment) (*model.Post, error) {
	update := bson.M{
		"$push": bson.M{
			"comments": bson.M{
				"$each":     []model.Comment{comment},
				"$position": 0,
			},
		},
	}
	return r.findOneAndUpdate(ctx, postID, update, "add comment")
}

func (r *PostRepository) RemoveComment(ctx context.Context, postID, commentID primitive.ObjectID) (*model.Post, error) {
	update := bson.M{"$pull": bson.M{"comments": bson.M{"_id": commentID}}}
	return r.findOneAndUpdate(ctx, postID, update, "remove comment")
}

func (r *PostRepository) findOneAndUpdate(ctx context.Context, postID primitive.ObjectID, update bson.M, op string) (*model.Post, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var post model.Post
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": postID}, update, opts).Decode(&post); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s failed: %w", op, err)
	}
	return &post, nil
}
