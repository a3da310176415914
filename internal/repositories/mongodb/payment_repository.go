package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rifas-el-negro/raffle-backend/internal/models"
	"github.com/rifas-el-negro/raffle-backend/internal/repositories"
)

// PaymentRepository implements the repositories.PaymentRepository interface
type PaymentRepository struct {
	collection *mongo.Collection
}

// NewPaymentRepository creates a new PaymentRepository
func NewPaymentRepository(db *mongo.Database) repositories.PaymentRepository {
	return &PaymentRepository{
		collection: db.Collection("payments"),
	}
}

// Create creates a new payment record
func (r *PaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	payment.CreatedAt = time.Now()
	payment.UpdatedAt = time.Now()
	result, err := r.collection.InsertOne(ctx, payment)
	if err != nil {
		return err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		payment.ID = oid
	}
	return nil
}

// FindByID finds a payment by ID
func (r *PaymentRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Payment, error) {
	var payment models.Payment
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&payment)
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// HasPendingForNumber reports whether the user already has an
// unresolved payment for the given raffle number. Scoped to the user so
// a pending payment orphaned by hold expiry does not block the number's
// next holder.
func (r *PaymentRepository) HasPendingForNumber(ctx context.Context, numberID, userID primitive.ObjectID) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{
		"raffleNumberId": numberID,
		"userId":         userID,
		"status":         models.PaymentStatusPending,
	})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindAll returns payments newest first, optionally narrowed by status
// and/or method
func (r *PaymentRepository) FindAll(ctx context.Context, filter models.PaymentFilter) ([]*models.Payment, error) {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Method != "" {
		query["method"] = filter.Method
	}

	opts := options.Find().SetSort(bson.M{"createdAt": -1})

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var payments []*models.Payment
	if err := cursor.All(ctx, &payments); err != nil {
		return nil, err
	}
	return payments, nil
}

// FindByUser returns a user's payments newest first
func (r *PaymentRepository) FindByUser(ctx context.Context, userID primitive.ObjectID) ([]*models.Payment, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})

	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var payments []*models.Payment
	if err := cursor.All(ctx, &payments); err != nil {
		return nil, err
	}
	return payments, nil
}

// FindRecent returns the most recently submitted payments
func (r *PaymentRepository) FindRecent(ctx context.Context, limit int) ([]*models.Payment, error) {
	opts := options.Find().
		SetSort(bson.M{"createdAt": -1}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var payments []*models.Payment
	if err := cursor.All(ctx, &payments); err != nil {
		return nil, err
	}
	return payments, nil
}

// Resolve atomically moves a pending payment to validated or rejected,
// stamping the deciding staff member, the decision time and the note.
// The pending status is part of the filter: when two staff race,
// exactly one call matches and the loser reports false.
func (r *PaymentRepository) Resolve(ctx context.Context, id primitive.ObjectID, status models.PaymentStatus, staffID primitive.ObjectID, at time.Time, notes string) (bool, error) {
	set := bson.M{
		"status":      status,
		"validatedBy": staffID,
		"validatedAt": at,
		"updatedAt":   at,
	}
	if notes != "" {
		set["notes"] = notes
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.PaymentStatusPending},
		bson.M{"$set": set},
	)
	if err != nil {
		return false, err
	}
	return result.ModifiedCount == 1, nil
}

// SumValidatedAmount returns the revenue over all validated payments
func (r *PaymentRepository) SumValidatedAmount(ctx context.Context) (float64, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"status": models.PaymentStatusValidated}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": "$amount"},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var results []struct {
		Total float64 `bson:"total"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, err
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].Total, nil
}

// CountByStatus counts payments in the given status
func (r *PaymentRepository) CountByStatus(ctx context.Context, status models.PaymentStatus) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"status": status})
}
