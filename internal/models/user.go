package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"gotours/internal/utils"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleGuide     Role = "guide"
	RoleLeadGuide Role = "lead-guide"
	RoleAdmin     Role = "admin"
)

type User struct {
	ID                   primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name                 string             `json:"name" bson:"name" validate:"required,min=2,max=50"`
	Email                string             `json:"email" bson:"email" validate:"required,email"`
	Photo                string             `json:"photo,omitempty" bson:"photo,omitempty"`
	Role                 Role               `json:"role" bson:"role" validate:"omitempty,role"`
	Password             string             `json:"-" bson:"password"`
	PasswordChangedAt    *time.Time         `json:"-" bson:"password_changed_at,omitempty"`
	PasswordResetToken   string             `json:"-" bson:"password_reset_token,omitempty"`
	PasswordResetExpires *time.Time         `json:"-" bson:"password_reset_expires,omitempty"`
	Active               bool               `json:"-" bson:"active"`
	CreatedAt            time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt            time.Time          `json:"updated_at" bson:"updated_at"`
}

// PrePersist stamps timestamps before the user is written.
func (u *User) PrePersist() {
	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
}

// HashPassword replaces the plaintext password with its bcrypt hash.
// Invoked by the service layer before any persist that touches the
// password, never implicitly.
func (u *User) HashPassword(cost int) error {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), cost)
	if err != nil {
		return err
	}
	u.Password = string(hash)
	return nil
}

func (u *User) CheckPassword(candidate string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(candidate)) == nil
}

// MarkPasswordChanged records the change slightly in the past so a token
// issued in the same instant still passes the staleness check.
func (u *User) MarkPasswordChanged() {
	changed := time.Now().Add(-utils.PasswordChangedSkew)
	u.PasswordChangedAt = &changed
}

// ChangedPasswordAfter reports whether the password changed after the
// given token issue time, which invalidates the token.
func (u *User) ChangedPasswordAfter(issuedAt time.Time) bool {
	if u.PasswordChangedAt == nil {
		return false
	}
	return u.PasswordChangedAt.After(issuedAt)
}

// CreatePasswordResetToken generates a random token, stores only its
// hash plus a short expiry on the user, and returns the raw token for
// delivery to the user.
func (u *User) CreatePasswordResetToken(ttl time.Duration) string {
	raw := utils.GenerateRandomToken(utils.ResetTokenLength)
	u.PasswordResetToken = utils.HashToken(raw)
	expires := time.Now().Add(ttl)
	u.PasswordResetExpires = &expires
	return raw
}

// ClearPasswordReset drops the reset fields, both after redemption and
// when the delivery email fails and the token must be rolled back.
func (u *User) ClearPasswordReset() {
	u.PasswordResetToken = ""
	u.PasswordResetExpires = nil
}

func (u *User) Validate() error {
	return utils.ValidateStruct(u)
}
