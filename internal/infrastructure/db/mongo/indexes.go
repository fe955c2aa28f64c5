package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes the identity collections depend on.
// Uniqueness of email and mobile number is enforced here, at the storage
// layer; the sparse option lets the absent identifier stay null across
// many documents. Token expiry is handled lazily on access, so there is
// deliberately no TTL index on the token collections.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	principalIdx := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
		{
			Keys:    bson.D{{Key: "mobile_number", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
	}
	if _, err := db.Collection(principalCollection).Indexes().CreateMany(ctx, principalIdx); err != nil {
		return fmt.Errorf("principal indexes: %w", err)
	}

	tokenIdx := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "token", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "principal_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	for _, coll := range []string{verificationTokenCollection, passwordResetTokenCollection} {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, tokenIdx); err != nil {
			return fmt.Errorf("%s indexes: %w", coll, err)
		}
	}

	profileIdx := mongo.IndexModel{
		Keys:    bson.D{{Key: "principal_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := db.Collection(profileCollection).Indexes().CreateOne(ctx, profileIdx); err != nil {
		return fmt.Errorf("profile indexes: %w", err)
	}
	return nil
}
