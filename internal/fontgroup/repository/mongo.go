package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/typeshelf/typeshelf/backend/go-services/internal/fontgroup"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepo stores one Mongo document per group, keyed by the string "id"
// field (unique index). Single-document writes are atomic, so no extra
// locking is needed here.
type MongoRepo struct {
	col *mongo.Collection
}

func NewMongoRepo(ctx context.Context, col *mongo.Collection) (*MongoRepo, error) {
	idxModel := mongo.IndexModel{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)}
	if _, err := col.Indexes().CreateOne(ctx, idxModel); err != nil {
		return nil, fmt.Errorf("font_groups index: %w", err)
	}
	return &MongoRepo{col: col}, nil
}

func (m *MongoRepo) Create(ctx context.Context, g *fontgroup.Group) error {
	if _, err := m.col.InsertOne(ctx, g); err != nil {
		return fmt.Errorf("insert font group: %w", err)
	}
	return nil
}

func (m *MongoRepo) Get(ctx context.Context, id string) (*fontgroup.Group, error) {
	var g fontgroup.Group
	if err := m.col.FindOne(ctx, bson.M{"id": id}).Decode(&g); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &g, nil
}

// List sorts by createdAt then _id; ObjectIDs grow with insertion time, so
// this reproduces insertion order.
func (m *MongoRepo) List(ctx context.Context) ([]*fontgroup.Group, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := m.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*fontgroup.Group{}
	for cur.Next(ctx) {
		var g fontgroup.Group
		if err := cur.Decode(&g); err != nil {
			return nil, err
		}
		out = append(out, &g)
	}
	return out, cur.Err()
}

func (m *MongoRepo) Update(ctx context.Context, id string, in fontgroup.Input, at time.Time) (*fontgroup.Group, error) {
	set := bson.M{"title": in.Title, "fonts": in.Fonts, "updatedAt": at}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var g fontgroup.Group
	err := m.col.FindOneAndUpdate(ctx, bson.M{"id": id}, bson.M{"$set": set}, opts).Decode(&g)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &g, nil
}

func (m *MongoRepo) Delete(ctx context.Context, id string) error {
	res, err := m.col.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
