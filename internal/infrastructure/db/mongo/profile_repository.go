package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/trekha/identity-service/internal/core/domain"
)

const profileCollection = "passenger_profiles"

type MongoProfileRepository struct {
	coll *mongo.Collection
}

func NewProfileRepository(db *mongo.Database) *MongoProfileRepository {
	return &MongoProfileRepository{coll: db.Collection(profileCollection)}
}

type mongoProfile struct {
	PrincipalID int64  `bson:"principal_id"`
	FirstName   string `bson:"first_name"`
	LastName    string `bson:"last_name"`
	CreatedAt   int64  `bson:"created_at"`
	UpdatedAt   int64  `bson:"updated_at"`
}

func (r *MongoProfileRepository) Create(ctx context.Context, profile *domain.PassengerProfile) error {
	doc := mongoProfile{
		PrincipalID: profile.PrincipalID,
		FirstName:   profile.FirstName,
		LastName:    profile.LastName,
		CreatedAt:   profile.CreatedAt.Unix(),
		UpdatedAt:   profile.UpdatedAt.Unix(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

func (r *MongoProfileRepository) FindByPrincipal(ctx context.Context, principalID int64) (*domain.PassengerProfile, error) {
	var mp mongoProfile
	if err := r.coll.FindOne(ctx, bson.M{"principal_id": principalID}).Decode(&mp); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrPrincipalNotFound
		}
		return nil, fmt.Errorf("find profile: %w", err)
	}
	return &domain.PassengerProfile{
		PrincipalID: mp.PrincipalID,
		FirstName:   mp.FirstName,
		LastName:    mp.LastName,
		CreatedAt:   unixToTime(mp.CreatedAt),
		UpdatedAt:   unixToTime(mp.UpdatedAt),
	}, nil
}
