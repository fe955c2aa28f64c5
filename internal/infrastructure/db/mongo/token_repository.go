package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/trekha/identity-service/internal/core/domain"
)

const (
	verificationTokenCollection  = "verification_tokens"
	passwordResetTokenCollection = "password_reset_tokens"
)

type tokenDoc struct {
	Token       string `bson:"token"`
	PrincipalID int64  `bson:"principal_id"`
	ExpiresAt   int64  `bson:"expires_at"`
}

// tokenStore is the shared persistence shape for both single-use token
// collections. DeleteOne with a token filter is the single-winner consume
// gate: of two concurrent consumers exactly one observes DeletedCount == 1.
type tokenStore struct {
	coll *mongo.Collection
}

// save installs doc as the principal's single live token. ReplaceOne with
// upsert swaps the prior token for the new one in a single write, so a
// reissue can never be observed half-done. Two concurrent upserts for the
// same principal can still collide on the unique principal_id index; the
// loser retries once and its replace then matches the winner's document.
func (s *tokenStore) save(ctx context.Context, doc tokenDoc) error {
	opts := options.Replace().SetUpsert(true)
	for attempt := 0; ; attempt++ {
		_, err := s.coll.ReplaceOne(ctx, bson.M{"principal_id": doc.PrincipalID}, doc, opts)
		if err == nil {
			return nil
		}
		if mongo.IsDuplicateKeyError(err) && attempt == 0 {
			continue
		}
		return fmt.Errorf("save token: %w", err)
	}
}

func (s *tokenStore) findByToken(ctx context.Context, token string) (*tokenDoc, error) {
	var doc tokenDoc
	if err := s.coll.FindOne(ctx, bson.M{"token": token}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrTokenNotFound
		}
		return nil, fmt.Errorf("find token: %w", err)
	}
	return &doc, nil
}

func (s *tokenStore) findByPrincipal(ctx context.Context, principalID int64) (*tokenDoc, error) {
	var doc tokenDoc
	if err := s.coll.FindOne(ctx, bson.M{"principal_id": principalID}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrTokenNotFound
		}
		return nil, fmt.Errorf("find token: %w", err)
	}
	return &doc, nil
}

func (s *tokenStore) delete(ctx context.Context, token string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"token": token})
	if err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrTokenNotFound
	}
	return nil
}

// MongoVerificationTokenRepository persists identity-verification tokens.
type MongoVerificationTokenRepository struct {
	store tokenStore
}

func NewVerificationTokenRepository(db *mongo.Database) *MongoVerificationTokenRepository {
	return &MongoVerificationTokenRepository{store: tokenStore{coll: db.Collection(verificationTokenCollection)}}
}

func (r *MongoVerificationTokenRepository) Save(ctx context.Context, token *domain.VerificationToken) error {
	return r.store.save(ctx, tokenDoc{Token: token.Token, PrincipalID: token.PrincipalID, ExpiresAt: token.ExpiresAt.Unix()})
}

func (r *MongoVerificationTokenRepository) FindByToken(ctx context.Context, token string) (*domain.VerificationToken, error) {
	doc, err := r.store.findByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	return verificationFromDoc(doc), nil
}

func (r *MongoVerificationTokenRepository) FindByPrincipal(ctx context.Context, principalID int64) (*domain.VerificationToken, error) {
	doc, err := r.store.findByPrincipal(ctx, principalID)
	if err != nil {
		return nil, err
	}
	return verificationFromDoc(doc), nil
}

func (r *MongoVerificationTokenRepository) Delete(ctx context.Context, token string) error {
	return r.store.delete(ctx, token)
}

func verificationFromDoc(doc *tokenDoc) *domain.VerificationToken {
	return &domain.VerificationToken{
		Token:       doc.Token,
		PrincipalID: doc.PrincipalID,
		ExpiresAt:   time.Unix(doc.ExpiresAt, 0).UTC(),
	}
}

// MongoPasswordResetTokenRepository persists password-reset tokens.
type MongoPasswordResetTokenRepository struct {
	store tokenStore
}

func NewPasswordResetTokenRepository(db *mongo.Database) *MongoPasswordResetTokenRepository {
	return &MongoPasswordResetTokenRepository{store: tokenStore{coll: db.Collection(passwordResetTokenCollection)}}
}

func (r *MongoPasswordResetTokenRepository) Save(ctx context.Context, token *domain.PasswordResetToken) error {
	return r.store.save(ctx, tokenDoc{Token: token.Token, PrincipalID: token.PrincipalID, ExpiresAt: token.ExpiresAt.Unix()})
}

func (r *MongoPasswordResetTokenRepository) FindByToken(ctx context.Context, token string) (*domain.PasswordResetToken, error) {
	doc, err := r.store.findByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	return resetFromDoc(doc), nil
}

func (r *MongoPasswordResetTokenRepository) FindByPrincipal(ctx context.Context, principalID int64) (*domain.PasswordResetToken, error) {
	doc, err := r.store.findByPrincipal(ctx, principalID)
	if err != nil {
		return nil, err
	}
	return resetFromDoc(doc), nil
}

func (r *MongoPasswordResetTokenRepository) Delete(ctx context.Context, token string) error {
	return r.store.delete(ctx, token)
}

func resetFromDoc(doc *tokenDoc) *domain.PasswordResetToken {
	return &domain.PasswordResetToken{
		Token:       doc.Token,
		PrincipalID: doc.PrincipalID,
		ExpiresAt:   time.Unix(doc.ExpiresAt, 0).UTC(),
	}
}
