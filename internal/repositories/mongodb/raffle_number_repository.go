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

// RaffleNumberRepository implements the repositories.RaffleNumberRepository interface
type RaffleNumberRepository struct {
	collection *mongo.Collection
}

// NewRaffleNumberRepository creates a new RaffleNumberRepository
func NewRaffleNumberRepository(db *mongo.Database) repositories.RaffleNumberRepository {
	return &RaffleNumberRepository{
		collection: db.Collection("raffle_numbers"),
	}
}

// BulkCreate inserts a raffle's numbers in one batch
func (r *RaffleNumberRepository) BulkCreate(ctx context.Context, numbers []*models.RaffleNumber) error {
	now := time.Now()
	docs := make([]interface{}, 0, len(numbers))
	for _, n := range numbers {
		n.CreatedAt = now
		n.UpdatedAt = now
		docs = append(docs, n)
	}
	_, err := r.collection.InsertMany(ctx, docs)
	return err
}

// FindByID finds a raffle number by ID
func (r *RaffleNumberRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.RaffleNumber, error) {
	var number models.RaffleNumber
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&number)
	if err != nil {
		return nil, err
	}
	return &number, nil
}

// FindByRaffleAndNumber finds one slot by its raffle and formatted number
func (r *RaffleNumberRepository) FindByRaffleAndNumber(ctx context.Context, raffleID primitive.ObjectID, number string) (*models.RaffleNumber, error) {
	var n models.RaffleNumber
	err := r.collection.FindOne(ctx, bson.M{"raffleId": raffleID, "number": number}).Decode(&n)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// FindByRaffle returns all numbers of a raffle in numeric order
// ("2" sorts before "10" because ordering is on the numeric value, not
// the string).
func (r *RaffleNumberRepository) FindByRaffle(ctx context.Context, raffleID primitive.ObjectID) ([]*models.RaffleNumber, error) {
	opts := options.Find().SetSort(bson.M{"value": 1})

	cursor, err := r.collection.Find(ctx, bson.M{"raffleId": raffleID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var numbers []*models.RaffleNumber
	if err := cursor.All(ctx, &numbers); err != nil {
		return nil, err
	}
	return numbers, nil
}

// FindByHolder returns the numbers currently held (reserved or sold) by a user
func (r *RaffleNumberRepository) FindByHolder(ctx context.Context, holderID primitive.ObjectID) ([]*models.RaffleNumber, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "reservedAt", Value: -1},
		{Key: "soldAt", Value: -1},
	})

	cursor, err := r.collection.Find(ctx, bson.M{"holderId": holderID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var numbers []*models.RaffleNumber
	if err := cursor.All(ctx, &numbers); err != nil {
		return nil, err
	}
	return numbers, nil
}

// Reserve atomically transitions an available number to reserved. The
// status is part of the update filter, so of N racing callers exactly
// one matches the document; the rest report false.
func (r *RaffleNumberRepository) Reserve(ctx context.Context, id, holderID primitive.ObjectID, reservedAt, expiresAt time.Time) (bool, error) {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.NumberStatusAvailable},
		bson.M{"$set": bson.M{
			"status":     models.NumberStatusReserved,
			"holderId":   holderID,
			"reservedAt": reservedAt,
			"expiresAt":  expiresAt,
			"updatedAt":  time.Now(),
		}},
	)
	if err != nil {
		return false, err
	}
	return result.ModifiedCount == 1, nil
}

// Release forces a reserved number back to available, clearing the
// holder and timestamps. Releasing a number that is not reserved
// matches nothing and is a no-op, which makes the call idempotent.
func (r *RaffleNumberRepository) Release(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.NumberStatusReserved},
		bson.M{
			"$set":   bson.M{"status": models.NumberStatusAvailable, "updatedAt": time.Now()},
			"$unset": bson.M{"holderId": "", "reservedAt": "", "expiresAt": ""},
		},
	)
	return err
}

// ReleaseExpired sweeps a raffle, returning every reserved number whose
// deadline has passed to the pool. Returns how many were reclaimed.
func (r *RaffleNumberRepository) ReleaseExpired(ctx context.Context, raffleID primitive.ObjectID, now time.Time) (int64, error) {
	result, err := r.collection.UpdateMany(ctx,
		bson.M{
			"raffleId":  raffleID,
			"status":    models.NumberStatusReserved,
			"expiresAt": bson.M{"$lt": now},
		},
		bson.M{
			"$set":   bson.M{"status": models.NumberStatusAvailable, "updatedAt": now},
			"$unset": bson.M{"holderId": "", "reservedAt": "", "expiresAt": ""},
		},
	)
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}

// MarkSold transitions a reserved number to sold. Sold is terminal:
// there is no path back to reserved or available. The holder is part of
// the filter so a number re-reserved by someone else never matches.
func (r *RaffleNumberRepository) MarkSold(ctx context.Context, id, holderID primitive.ObjectID, soldAt time.Time) (bool, error) {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.NumberStatusReserved, "holderId": holderID},
		bson.M{
			"$set":   bson.M{"status": models.NumberStatusSold, "soldAt": soldAt, "updatedAt": soldAt},
			"$unset": bson.M{"reservedAt": "", "expiresAt": ""},
		},
	)
	if err != nil {
		return false, err
	}
	return result.ModifiedCount == 1, nil
}

// CountByStatus counts numbers across all raffles in the given status
func (r *RaffleNumberRepository) CountByStatus(ctx context.Context, status models.NumberStatus) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"status": status})
}

// CountByRaffleAndStatus counts one raffle's numbers in the given status
func (r *RaffleNumberRepository) CountByRaffleAndStatus(ctx context.Context, raffleID primitive.ObjectID, status models.NumberStatus) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"raffleId": raffleID, "status": status})
}
