package recordRepo

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

// MongoServiceRecordRepo implements ServiceRecordRepository using MongoDB.
type MongoServiceRecordRepo struct {
	coll     *mongo.Collection
	counters *mongo.Collection
}

// NewMongoServiceRecordRepo creates a new instance of ServiceRecordRepository using MongoDB.
func NewMongoServiceRecordRepo() ServiceRecordRepository {
	return &MongoServiceRecordRepo{
		coll:     database.Collection("service_records"),
		counters: database.Collection("counters"),
	}
}

func (r *MongoServiceRecordRepo) GetByID(id string) (*models.ServiceRecord, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var record models.ServiceRecord
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&record); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch service record with id %s: %w", id, err)
	}
	return &record, nil
}

func (r *MongoServiceRecordRepo) GetByRequestAndExpert(serviceRequestID, expertID string) (*models.ServiceRecord, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var record models.ServiceRecord
	filter := bson.M{"serviceRequestId": serviceRequestID, "expertId": expertID}
	if err := r.coll.FindOne(ctx, filter).Decode(&record); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch service record for request %s and expert %s: %w", serviceRequestID, expertID, err)
	}
	return &record, nil
}

func (r *MongoServiceRecordRepo) Create(record *models.ServiceRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := r.coll.InsertOne(ctx, record); err != nil {
		return fmt.Errorf("failed to create service record: %w", err)
	}
	return nil
}

func (r *MongoServiceRecordRepo) Update(record *models.ServiceRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	filter := bson.M{"id": record.ID}
	update := bson.M{"$set": record}
	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update service record with id %s: %w", record.ID, err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoServiceRecordRepo) FindByExpert(expertID string, status *models.ServiceRecordStatus, limit int64) ([]models.ServiceRecord, error) {
	filter := bson.M{"expertId": expertID}
	if status != nil {
		filter["status"] = *status
	}
	return r.find(filter, limit)
}

func (r *MongoServiceRecordRepo) FindByCustomer(customerUserID string, status *models.ServiceRecordStatus, limit int64) ([]models.ServiceRecord, error) {
	filter := bson.M{"customerUserId": customerUserID}
	if status != nil {
		filter["status"] = *status
	}
	return r.find(filter, limit)
}

func (r *MongoServiceRecordRepo) find(filter bson.M, limit int64) ([]models.ServiceRecord, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if limit <= 0 {
		limit = 50
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find service records: %w", err)
	}
	defer cursor.Close(ctx)

	var records []models.ServiceRecord
	for cursor.Next(ctx) {
		var rec models.ServiceRecord
		if err := cursor.Decode(&rec); err != nil {
			return nil, fmt.Errorf("failed to decode service record: %w", err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func (r *MongoServiceRecordRepo) CountActiveByExpert(expertID string) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	filter := bson.M{
		"expertId": expertID,
		"status": bson.M{"$in": []models.ServiceRecordStatus{
			models.RecordStatusPending,
			models.RecordStatusInProgress,
		}},
	}
	count, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count active records for expert %s: %w", expertID, err)
	}
	return count, nil
}

// NextSequence atomically increments and returns the per-month counter.
// The upsert makes the first record of a month start the sequence at 1.
func (r *MongoServiceRecordRepo) NextSequence(monthKey string) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filter := bson.M{"id": monthKey}
	update := bson.M{"$inc": bson.M{"seq": int64(1)}}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var counter struct {
		Seq int64 `bson:"seq"`
	}
	if err := r.counters.FindOneAndUpdate(ctx, filter, update, opts).Decode(&counter); err != nil {
		return 0, fmt.Errorf("failed to advance record code counter %s: %w", monthKey, err)
	}
	return counter.Seq, nil
}
