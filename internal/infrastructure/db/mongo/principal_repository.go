package mongo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/trekha/identity-service/internal/core/domain"
)

const (
	principalCollection = "principals"
	counterCollection   = "counters"
)

type MongoPrincipalRepository struct {
	coll     *mongo.Collection
	counters *mongo.Collection
}

func NewPrincipalRepository(db *mongo.Database) *MongoPrincipalRepository {
	return &MongoPrincipalRepository{
		coll:     db.Collection(principalCollection),
		counters: db.Collection(counterCollection),
	}
}

type mongoPrincipal struct {
	ID             int64    `bson:"_id"`
	Email          string   `bson:"email,omitempty"`
	MobileNumber   string   `bson:"mobile_number,omitempty"`
	PasswordHash   string   `bson:"password_hash"`
	Channel        string   `bson:"registration_channel"`
	Active         bool     `bson:"active"`
	EmailVerified  bool     `bson:"email_verified"`
	MobileVerified bool     `bson:"mobile_verified"`
	Roles          []string `bson:"roles"`
	CreatedAt      int64    `bson:"created_at"`
	UpdatedAt      int64    `bson:"updated_at"`
	LastLoginAt    int64    `bson:"last_login_at,omitempty"`
}

// nextID allocates a monotonically increasing numeric id from the counters
// collection, preserving the relational identity shape of the principal.
func (r *MongoPrincipalRepository) nextID(ctx context.Context) (int64, error) {
	var out struct {
		Seq int64 `bson:"seq"`
	}
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": principalCollection},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&out)
	if err != nil {
		return 0, fmt.Errorf("allocate principal id: %w", err)
	}
	return out.Seq, nil
}

func (r *MongoPrincipalRepository) Create(ctx context.Context, p *domain.Principal) (*domain.Principal, error) {
	id, err := r.nextID(ctx)
	if err != nil {
		return nil, err
	}

	doc := toMongoPrincipal(p)
	doc.ID = id

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, duplicateKeyError(err, p)
		}
		return nil, fmt.Errorf("insert principal: %w", err)
	}

	created := *p
	created.ID = id
	return &created, nil
}

func (r *MongoPrincipalRepository) Update(ctx context.Context, p *domain.Principal) error {
	doc := toMongoPrincipal(p)
	doc.ID = p.ID
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": p.ID}, doc)
	if err != nil {
		return fmt.Errorf("update principal: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrPrincipalNotFound
	}
	return nil
}

func (r *MongoPrincipalRepository) FindByID(ctx context.Context, id int64) (*domain.Principal, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoPrincipalRepository) FindByEmail(ctx context.Context, email string) (*domain.Principal, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MongoPrincipalRepository) FindByMobile(ctx context.Context, mobile string) (*domain.Principal, error) {
	return r.findOne(ctx, bson.M{"mobile_number": mobile})
}

func (r *MongoPrincipalRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, bson.M{"email": email})
}

func (r *MongoPrincipalRepository) ExistsByMobile(ctx context.Context, mobile string) (bool, error) {
	return r.exists(ctx, bson.M{"mobile_number": mobile})
}

func (r *MongoPrincipalRepository) findOne(ctx context.Context, filter bson.M) (*domain.Principal, error) {
	var mp mongoPrincipal
	if err := r.coll.FindOne(ctx, filter).Decode(&mp); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrPrincipalNotFound
		}
		return nil, fmt.Errorf("find principal: %w", err)
	}
	return fromMongoPrincipal(&mp), nil
}

func (r *MongoPrincipalRepository) exists(ctx context.Context, filter bson.M) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count principals: %w", err)
	}
	return n > 0, nil
}

func toMongoPrincipal(p *domain.Principal) *mongoPrincipal {
	doc := &mongoPrincipal{
		ID:             p.ID,
		Email:          p.Email,
		MobileNumber:   p.MobileNumber,
		PasswordHash:   p.PasswordHash,
		Channel:        string(p.Channel),
		Active:         p.Active,
		EmailVerified:  p.EmailVerified,
		MobileVerified: p.MobileVerified,
		Roles:          p.Roles,
		CreatedAt:      p.CreatedAt.Unix(),
		UpdatedAt:      p.UpdatedAt.Unix(),
	}
	if !p.LastLoginAt.IsZero() {
		doc.LastLoginAt = p.LastLoginAt.Unix()
	}
	return doc
}

func fromMongoPrincipal(mp *mongoPrincipal) *domain.Principal {
	return &domain.Principal{
		ID:             mp.ID,
		Email:          mp.Email,
		MobileNumber:   mp.MobileNumber,
		PasswordHash:   mp.PasswordHash,
		Channel:        domain.RegistrationChannel(mp.Channel),
		Active:         mp.Active,
		EmailVerified:  mp.EmailVerified,
		MobileVerified: mp.MobileVerified,
		Roles:          mp.Roles,
		CreatedAt:      unixToTime(mp.CreatedAt),
		UpdatedAt:      unixToTime(mp.UpdatedAt),
		LastLoginAt:    unixToTime(mp.LastLoginAt),
	}
}

// duplicateKeyError maps a storage-level uniqueness violation onto the
// conflicting identifier.
func duplicateKeyError(err error, p *domain.Principal) error {
	if strings.Contains(err.Error(), "mobile_number") {
		return domain.ErrMobileTaken
	}
	if strings.Contains(err.Error(), "email") {
		return domain.ErrEmailTaken
	}
	if p.Channel == domain.ChannelMobile {
		return domain.ErrMobileTaken
	}
	return domain.ErrEmailTaken
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
