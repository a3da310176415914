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

// RaffleRepository implements the repositories.RaffleRepository interface
type RaffleRepository struct {
	collection *mongo.Collection
}

// NewRaffleRepository creates a new RaffleRepository
func NewRaffleRepository(db *mongo.Database) repositories.RaffleRepository {
	return &RaffleRepository{
		collection: db.Collection("raffles"),
	}
}

// Create creates a new raffle
func (r *RaffleRepository) Create(ctx context.Context, raffle *models.Raffle) error {
	raffle.CreatedAt = time.Now()
	raffle.UpdatedAt = time.Now()
	result, err := r.collection.InsertOne(ctx, raffle)
	if err != nil {
		return err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		raffle.ID = oid
	}
	return nil
}

// FindByID finds a raffle by ID
func (r *RaffleRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Raffle, error) {
	var raffle models.Raffle
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&raffle)
	if err != nil {
		return nil, err
	}
	return &raffle, nil
}

// FindActive returns active raffles newest first
func (r *RaffleRepository) FindActive(ctx context.Context) ([]*models.Raffle, error) {
	return r.find(ctx, bson.M{"status": models.RaffleStatusActive})
}

// FindAll returns all raffles newest first
func (r *RaffleRepository) FindAll(ctx context.Context) ([]*models.Raffle, error) {
	return r.find(ctx, bson.M{})
}

func (r *RaffleRepository) find(ctx context.Context, query bson.M) ([]*models.Raffle, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var raffles []*models.Raffle
	if err := cursor.All(ctx, &raffles); err != nil {
		return nil, err
	}
	return raffles, nil
}

// CountByStatus counts raffles in the given status
func (r *RaffleRepository) CountByStatus(ctx context.Context, status models.RaffleStatus) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"status": status})
}
