package repository

import (
	"context"

	"linguaclash/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type CurriculumRepo interface {
	Create(ctx context.Context, module *model.CurriculumModule) error
	GetByID(ctx context.Context, id string) (*model.CurriculumModule, error)
	GetAll(ctx context.Context) ([]*model.CurriculumModule, error)
}

type curriculumRepo struct {
	collection *mongo.Collection
}

func NewCurriculumRepo(db *mongo.Database) CurriculumRepo {
	return &curriculumRepo{
		collection: db.Collection("modules"),
	}
}

func (r *curriculumRepo) Create(ctx context.Context, module *model.CurriculumModule) error {
	_, err := r.collection.InsertOne(ctx, module)
	if err != nil {
		return err
	}

	return nil
}

func (r *curriculumRepo) GetByID(ctx context.Context, id string) (*model.CurriculumModule, error) {
	var module model.CurriculumModule
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&module)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil // Module not found
		}
		return nil, err
	}

	return &module, nil
}

func (r *curriculumRepo) GetAll(ctx context.Context) ([]*model.CurriculumModule, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var modules []*model.CurriculumModule
	if err := cursor.All(ctx, &modules); err != nil {
		return nil, err
	}

	return modules, nil
}
