package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"gotours/internal/apperrors"
	"gotours/internal/models"
	"gotours/internal/repositories/interfaces"
	"gotours/internal/utils"
)

type userRepository struct {
	*Repository[models.User]
	cache CacheService
}

func NewUserRepository(db *mongo.Database, cache CacheService) interfaces.UserRepository {
	return &userRepository{
		Repository: NewRepository[models.User](db, "users", "user"),
		cache:      cache,
	}
}

// cachedUser carries the auth fields that the JSON tags hide from API
// responses, so a cache round trip does not drop them.
type cachedUser struct {
	User              *models.User `json:"user"`
	PasswordChangedAt *time.Time   `json:"password_changed_at"`
	Active            bool         `json:"active"`
}

// activeScope hides soft-deleted users from every read path.
func activeScope() bson.M {
	return bson.M{"active": bson.M{"$ne": false}}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	user.PrePersist()
	if err := user.Validate(); err != nil {
		return apperrors.Validation(err)
	}

	id, err := r.InsertOne(ctx, user)
	if err != nil {
		return err
	}
	user.ID = id
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	cacheKey := utils.CacheUserPrefix + id.Hex()
	if r.cache != nil {
		var cached cachedUser
		if err := r.cache.Get(ctx, cacheKey, &cached); err == nil && cached.User != nil {
			cached.User.PasswordChangedAt = cached.PasswordChangedAt
			cached.User.Active = cached.Active
			return cached.User, nil
		}
	}

	user, err := r.FindByID(ctx, id, activeScope())
	if err != nil {
		return nil, err
	}

	if r.cache != nil {
		_ = r.cache.Set(ctx, cacheKey, cachedUser{
			User:              user,
			PasswordChangedAt: user.PasswordChangedAt,
			Active:            user.Active,
		}, utils.UserCacheTTL)
	}
	return user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	filter := mergeScope(bson.M{"email": email}, activeScope())

	var user models.User
	if err := r.collection.FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, apperrors.FromDatabase(err, r.resource)
	}
	return &user, nil
}

// GetByResetToken looks up a user by the hashed reset token, requiring
// the token to be unexpired.
func (r *userRepository) GetByResetToken(ctx context.Context, hashedToken string) (*models.User, error) {
	filter := mergeScope(bson.M{
		"password_reset_token":   hashedToken,
		"password_reset_expires": bson.M{"$gt": time.Now()},
	}, activeScope())

	var user models.User
	if err := r.collection.FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, apperrors.FromDatabase(err, r.resource)
	}
	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, id primitive.ObjectID, updates bson.M) (*models.User, error) {
	updates["updated_at"] = time.Now()

	merged, err := r.PreviewUpdate(ctx, id, updates, activeScope())
	if err != nil {
		return nil, err
	}
	if err := merged.Validate(); err != nil {
		return nil, apperrors.Validation(err)
	}

	user, err := r.UpdateByID(ctx, id, updates, activeScope())
	if err != nil {
		return nil, err
	}

	r.invalidate(ctx, user)
	return user, nil
}

// Save persists the password, password-changed marker and reset-token
// fields of an already-loaded user.
func (r *userRepository) Save(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now()

	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{
		"$set": bson.M{
			"password":               user.Password,
			"password_changed_at":    user.PasswordChangedAt,
			"password_reset_token":   user.PasswordResetToken,
			"password_reset_expires": user.PasswordResetExpires,
			"updated_at":             user.UpdatedAt,
		},
	})
	if err != nil {
		return apperrors.FromDatabase(err, r.resource)
	}

	r.invalidate(ctx, user)
	return nil
}

// Deactivate soft-deletes a user. The account disappears from reads
// but the document is retained.
func (r *userRepository) Deactivate(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.UpdateOne(ctx, mergeScope(bson.M{"_id": id}, activeScope()), bson.M{
		"$set": bson.M{"active": false, "updated_at": time.Now()},
	})
	if err != nil {
		return apperrors.FromDatabase(err, r.resource)
	}
	if result.MatchedCount == 0 {
		return apperrors.NotFound(r.resource)
	}

	if r.cache != nil {
		_ = r.cache.Delete(ctx, utils.CacheUserPrefix+id.Hex())
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := r.DeleteByID(ctx, id, nil); err != nil {
		return err
	}
	if r.cache != nil {
		_ = r.cache.Delete(ctx, utils.CacheUserPrefix+id.Hex())
	}
	return nil
}

func (r *userRepository) Find(ctx context.Context, features *utils.Features, scope bson.M) ([]*models.User, int64, error) {
	return r.Repository.Find(ctx, features, mergeScope(scope, activeScope()))
}

func (r *userRepository) invalidate(ctx context.Context, user *models.User) {
	if r.cache == nil {
		return
	}
	_ = r.cache.Delete(ctx,
		utils.CacheUserPrefix+user.ID.Hex(),
		utils.CacheUserEmailPrefix+user.Email,
	)
}
