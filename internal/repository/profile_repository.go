package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"devconnect/internal/model"
)

type ProfileRepository struct {
	col *mongo.Collection
}

func NewProfileRepository(db *mongo.Database) *ProfileRepository {
	return &ProfileRepository{col: db.Collection("profiles")}
}

func (r *ProfileRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) (*model.Profile, error) {
	var profile model.Profile
	if err := r.col.FindOne(ctx, bson.M{"user": userID}).Decode(&profile); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("query profile by user failed: %w", err)
	}
	return &profile, nil
}

func (r *ProfileRepository) GetAll(ctx context.Context) ([]model.Profile, error) {
	cursor, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("query profiles failed: %w", err)
	}
	defer cursor.Close(ctx)

	profiles := []model.Profile{}
	if err := cursor.All(ctx, &profiles); err != nil {
		return nil, fmt.Errorf("decode profiles failed: %w", err)
	}
	return profiles, nil
}

// Upsert applies the patch to the user's profile, creating the document if
// none exists. Only fields supplied in the patch are written; everything
// else keeps its stored value. Returns the document as it is after the
// write.
func (r *ProfileRepository) Upsert(ctx context.Context, userID primitive.ObjectID, patch model.ProfilePatch) (*model.Profile, error) {
	update := bson.M{
		"$set":         patchSetDocument(patch),
		"$setOnInsert": bson.M{"user": userID, "experience": []model.Experience{}, "education": []model.Education{}},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var profile model.Profile
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"user": userID}, update, opts).Decode(&profile); err != nil {
		return nil, fmt.Errorf("upsert profile failed: %w", err)
	}
	return &profile, nil
}

// patchSetDocument builds the $set document from a typed patch. Nil
// pointers and nil slices are left out entirely so prior values survive a
// partial update.
func patchSetDocument(patch model.ProfilePatch) bson.M {
	set := bson.M{"updated_at": time.Now()}

	if patch.Company != nil {
		set["company"] = *patch.Company
	}
	if patch.Website != nil {
		set["website"] = *patch.Website
	}
	if patch.Location != nil {
		set["location"] = *patch.Location
	}
	if patch.Status != nil {
		set["status"] = *patch.Status
	}
	if patch.Bio != nil {
		set["bio"] = *patch.Bio
	}
	if patch.GithubUsername != nil {
		set["githubusername"] = *patch.GithubUsername
	}
	if patch.Skills != nil {
		set["skills"] = patch.Skills
	}
	if patch.Social != nil {
		set["social"] = *patch.Social
	}
	return set
}

func (r *ProfileRepository) AddExperience(ctx context.Context, userID primitive.ObjectID, exp model.Experience) (*model.Profile, error) {
	update := bson.M{
		"$push": bson.M{
			"experience": bson.M{
				"$each":     []model.Experience{exp},
				"$position": 0,
			},
		},
		"$set": bson.M{"updated_at": time.Now()},
	}
	return r.findOneAndUpdateByUser(ctx, userID, update, "add experience")
}

// RemoveExperience pulls the entry with the given id. An id not present in
// the sequence leaves the document unchanged.
func (r *ProfileRepository) RemoveExperience(ctx context.Context, userID, expID primitive.ObjectID) (*model.Profile, error) {
	update := bson.M{
		"$pull": bson.M{"experience": bson.M{"_id": expID}},
		"$set":  bson.M{"updated_at": time.Now()},
	}
	return r.findOneAndUpdateByUser(ctx, userID, update, "remove experience")
}

func (r *ProfileRepository) AddEducation(ctx context.Context, userID primitive.ObjectID, edu model.Education) (*model.Profile, error) {
	update := bson.M{
		"$push": bson.M{
			"education": bson.M{
				"$each":     []model.Education{edu},
				"$position": 0,
			},
		},
		"$set": bson.M{"updated_at": time.Now()},
	}
	return r.findOneAndUpdateByUser(ctx, userID, update, "add education")
}

func (r *ProfileRepository) RemoveEducation(ctx context.Context, userID, eduID primitive.ObjectID) (*model.Profile, error) {
	update := bson.M{
		"$pull": bson.M{"education": bson.M{"_id": eduID}},
		"$set":  bson.M{"updated_at": time.Now()},
	}
	return r.findOneAndUpdateByUser(ctx, userID, update, "remove education")
}

func (r *ProfileRepository) Delete(ctx context.Context, userID primitive.ObjectID) error {
	if _, err := r.col.DeleteOne(ctx, bson.M{"user": userID}); err != nil {
		return fmt.Errorf("delete profile failed: %w", err)
	}
	return nil
}

func (r *ProfileRepository) findOneAndUpdateByUser(ctx context.Context, userID primitive.ObjectID, update bson.M, op string) (*model.Profile, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var profile model.Profile
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"user": userID}, update, opts).Decode(&profile); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s failed: %w", op, err)
	}
	return &profile, nil
}
