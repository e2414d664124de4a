package expertRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"equipass/database"
	"equipass/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoExpertRepo implements ExpertRepository using MongoDB.
type MongoExpertRepo struct {
	coll *mongo.Collection
}

// NewMongoExpertRepo creates a new instance of ExpertRepository using MongoDB.
func NewMongoExpertRepo() ExpertRepository {
	return &MongoExpertRepo{coll: database.Collection("experts")}
}

func (r *MongoExpertRepo) GetByID(id string) (*models.Expert, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var expert models.Expert
	filter := bson.M{"id": id}
	if err := r.coll.FindOne(ctx, filter).Decode(&expert); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch expert with id %s: %w", id, err)
	}
	return &expert, nil
}

func (r *MongoExpertRepo) Create(expert *models.Expert) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := r.coll.InsertOne(ctx, expert); err != nil {
		return fmt.Errorf("failed to create expert: %w", err)
	}
	return nil
}

func (r *MongoExpertRepo) Update(expert *models.Expert) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	filter := bson.M{"id": expert.ID}
	update := bson.M{"$set": expert}
	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update expert with id %s: %w", expert.ID, err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoExpertRepo) Increment(id, field string, delta int) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	filter := bson.M{"id": id}
	update := bson.M{"$inc": bson.M{field: delta}}
	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to increment %s for expert %s: %w", field, id, err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoExpertRepo) List(criteria ExpertSearchCriteria) ([]models.Expert, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if criteria.ServiceType != "" {
		filter["serviceTypes"] = bson.M{"$regex": criteria.ServiceType, "$options": "i"}
	}
	if criteria.MinRating > 0 {
		filter["avgRating"] = bson.M{"$gte": criteria.MinRating}
	}

	limit := criteria.Limit
	if limit <= 0 {
		limit = 50
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "avgRating", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list experts: %w", err)
	}
	defer cursor.Close(ctx)

	var experts []models.Expert
	for cursor.Next(ctx) {
		var e models.Expert
		if err := cursor.Decode(&e); err != nil {
			return nil, fmt.Errorf("failed to decode expert: %w", err)
		}
		experts = append(experts, e)
	}
	return experts, nil
}
