package repository

import (
	"context"
	"fmt"
	"time"

	"linguaclash/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ProfileRepo interface {
	GetByUserID(ctx context.Context, userID string) (*model.Profile, error)
	// ApplyMerge folds a finished-game delta into the profile exactly once
	// per (sessionCode, userID). It returns the profile after the merge and
	// whether this call performed it; a repeated call is a no-op.
	ApplyMerge(ctx context.Context, sessionCode, userID string, delta model.ProfileDelta) (*model.Profile, bool, error)
	AddBadges(ctx context.Context, userID string, badges []string) error
}

type profileRepo struct {
	profiles *mongo.Collection
	merges   *mongo.Collection
}

func NewProfileRepo(db *mongo.Database) ProfileRepo {
	return &profileRepo{
		profiles: db.Collection("profiles"),
		merges:   db.Collection("profile_merges"),
	}
}

func (r *profileRepo) GetByUserID(ctx context.Context, userID string) (*model.Profile, error) {
	var profile model.Profile
	err := r.profiles.FindOne(ctx, bson.M{"_id": userID}).Decode(&profile)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil // Profile not found
		}
		return nil, err
	}

	return &profile, nil
}

func (r *profileRepo) ApplyMerge(ctx context.Context, sessionCode, userID string, delta model.ProfileDelta) (*model.Profile, bool, error) {
	// Claim the merge first. The ledger _id is unique per session+user, so
	// a retry after a crash or a concurrent duplicate hits a duplicate-key
	// error and skips the increment.
	ledgerID := fmt.Sprintf("%s:%s", sessionCode, userID)
	_, err := r.merges.InsertOne(ctx, bson.M{"_id": ledgerID, "appliedAt": time.Now()})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			profile, getErr := r.GetByUserID(ctx, userID)
			return profile, false, getErr
		}
		return nil, false, err
	}

	update := bson.M{
		"$inc": bson.M{
			"points":      delta.Points,
			"gamesPlayed": delta.GamesPlayed,
			"wins":        delta.Wins,
		},
		"$set": bson.M{"updatedAt": time.Now()},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var profile model.Profile
	if err := r.profiles.FindOneAndUpdate(ctx, bson.M{"_id": userID}, update, opts).Decode(&profile); err != nil {
		return nil, false, err
	}

	return &profile, true, nil
}

func (r *profileRepo) AddBadges(ctx context.Context, userID string, badges []string) error {
	if len(badges) == 0 {
		return nil
	}

	// $addToSet keeps badges a set, so re-awarding is harmless
	update := bson.M{
		"$addToSet": bson.M{"badges": bson.M{"$each": badges}},
		"$set":      bson.M{"updatedAt": time.Now()},
	}
	opts := options.Update().SetUpsert(true)
	_, err := r.profiles.UpdateOne(ctx, bson.M{"_id": userID}, update, opts)
	return err
}
