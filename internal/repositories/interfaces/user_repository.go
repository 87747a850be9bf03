package interfaces

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"gotours/internal/models"
	"gotours/internal/utils"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByResetToken(ctx context.Context, hashedToken string) (*models.User, error)
	Update(ctx context.Context, id primitive.ObjectID, updates bson.M) (*models.User, error)
	// Save persists password and reset-token fields of an already-loaded user.
	Save(ctx context.Context, user *models.User) error
	Deactivate(ctx context.Context, id primitive.ObjectID) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	Find(ctx context.Context, features *utils.Features, scope bson.M) ([]*models.User, int64, error)
}
