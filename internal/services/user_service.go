package services

import (
	"context"
	"net/url"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"gotours/internal/apperrors"
	"gotours/internal/models"
	"gotours/internal/repositories/interfaces"
	"gotours/internal/utils"
	"gotours/pkg/logger"
)

// UpdateMeRequest captures the profile fields a user may change about
// themselves. Password fields are bound on purpose so their presence
// can be rejected with a pointer to the right route.
type UpdateMeRequest struct {
	Name            string `json:"name" validate:"omitempty,min=2,max=100"`
	Email           string `json:"email" validate:"omitempty,email"`
	Photo           string `json:"photo"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
}

type UserService struct {
	userRepo interfaces.UserRepository
	logger   *logger.Logger
}

func NewUserService(userRepo interfaces.UserRepository, log *logger.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		logger:   log,
	}
}

func (s *UserService) GetUser(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *UserService) ListUsers(ctx context.Context, params url.Values) ([]*models.User, int64, error) {
	features := utils.NewFeatures(params).Filter().Sort().LimitFields().Paginate()
	return s.userRepo.Find(ctx, features, nil)
}

// UpdateMe changes the caller's own profile. Password changes go
// through the dedicated route and are rejected here.
func (s *UserService) UpdateMe(ctx context.Context, id primitive.ObjectID, req *UpdateMeRequest) (*models.User, error) {
	if req.Password != "" || req.PasswordConfirm != "" {
		return nil, apperrors.BadRequest("This route is not for password updates. Please use /updateMyPassword")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Validation(err)
	}

	updates := bson.M{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Email != "" {
		updates["email"] = req.Email
	}
	if req.Photo != "" {
		updates["photo"] = req.Photo
	}
	if len(updates) == 0 {
		return s.userRepo.GetByID(ctx, id)
	}

	return s.userRepo.Update(ctx, id, updates)
}

// DeleteMe soft-deletes the caller's account.
func (s *UserService) DeleteMe(ctx context.Context, id primitive.ObjectID) error {
	if err := s.userRepo.Deactivate(ctx, id); err != nil {
		return err
	}
	s.logger.WithUserID(id).Info("user deactivated")
	return nil
}

// UpdateUser is the admin update path. Passwords are still off limits;
// they can only change through the auth flows.
func (s *UserService) UpdateUser(ctx context.Context, id primitive.ObjectID, updates bson.M) (*models.User, error) {
	delete(updates, "password")
	delete(updates, "password_confirm")
	return s.userRepo.Update(ctx, id, updates)
}

// DeleteUser is the admin hard delete.
func (s *UserService) DeleteUser(ctx context.Context, id primitive.ObjectID) error {
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.WithUserID(id).Info("user deleted")
	return nil
}
