package requestRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"equipass/database"
	"equipass/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoServiceRequestRepo implements ServiceRequestRepository using MongoDB.
type MongoServiceRequestRepo struct {
	coll *mongo.Collection
}

// NewMongoServiceRequestRepo creates a new instance of ServiceRequestRepository using MongoDB.
func NewMongoServiceRequestRepo() ServiceRequestRepository {
	return &MongoServiceRequestRepo{coll: database.Collection("service_requests")}
}

func (r *MongoServiceRequestRepo) GetByID(id string) (*models.ServiceRequest, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var request models.ServiceRequest
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&request); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch service request with id %s: %w", id, err)
	}
	return &request, nil
}

func (r *MongoServiceRequestRepo) Create(request *models.ServiceRequest) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := r.coll.InsertOne(ctx, request); err != nil {
		return fmt.Errorf("failed to create service request: %w", err)
	}
	return nil
}

func (r *MongoServiceRequestRepo) Update(request *models.ServiceRequest) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	filter := bson.M{"id": request.ID}
	update := bson.M{"$set": request}
	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update service request with id %s: %w", request.ID, err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
