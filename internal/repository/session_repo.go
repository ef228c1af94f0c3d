package repository

import (
	"context"
	"time"

	"linguaclash/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type SessionRepo interface {
	Create(ctx context.Context, session *model.GameSession) error
	GetByCode(ctx context.Context, code string) (*model.GameSession, error)
	Update(ctx context.Context, session *model.GameSession) error
	Exists(ctx context.Context, code string) (bool, error)
}

type sessionRepo struct {
	collection *mongo.Collection
}

func NewSessionRepo(db *mongo.Database) SessionRepo {
	return &sessionRepo{
		collection: db.Collection("sessions"),
	}
}

func (r *sessionRepo) Create(ctx context.Context, session *model.GameSession) error {
	session.CreatedAt = time.Now()
	session.UpdatedAt = session.CreatedAt

	// Insert the session into MongoDB
	_, err := r.collection.InsertOne(ctx, session)
	if err != nil {
		return err
	}

	return nil
}

func (r *sessionRepo) GetByCode(ctx context.Context, code string) (*model.GameSession, error) {
	// Find the session by code
	var session model.GameSession
	err := r.collection.FindOne(ctx, bson.M{"code": code}).Decode(&session)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil // Session not found
		}
		return nil, err
	}

	return &session, nil
}

func (r *sessionRepo) Update(ctx context.Context, session *model.GameSession) error {
	session.UpdatedAt = time.Now()

	// Replace the session by code
	_, err := r.collection.ReplaceOne(ctx, bson.M{"code": session.Code}, session)
	return err
}

func (r *sessionRepo) Exists(ctx context.Context, code string) (bool, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{"code": code})
	return n > 0, err
}
