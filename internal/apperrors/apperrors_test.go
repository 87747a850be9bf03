package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"gotours/internal/utils"
)

func TestStatusWord(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{http.StatusBadRequest, "fail"},
		{http.StatusNotFound, "fail"},
		{http.StatusTooManyRequests, "fail"},
		{http.StatusInternalServerError, "error"},
		{http.StatusBadGateway, "error"},
	}

	for _, tt := range tests {
		if got := statusWord(tt.code); got != tt.want {
			t.Errorf("statusWord(%d) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestNotFoundMessage(t *testing.T) {
	err := NotFound("tour")
	if err.Code != http.StatusNotFound {
		t.Errorf("code = %d, want 404", err.Code)
	}
	if err.Message != "No tour found with that ID" {
		t.Errorf("message = %q", err.Message)
	}
	if !err.Operational {
		t.Error("not-found must be operational")
	}
}

func TestInternalIsNotOperational(t *testing.T) {
	cause := errors.New("boom")
	err := Internal(cause)

	if err.Operational {
		t.Error("internal errors must not be operational")
	}
	if !errors.Is(err, cause) {
		t.Error("internal error must wrap its cause")
	}
}

func TestFromDatabaseNoDocuments(t *testing.T) {
	err := FromDatabase(mongo.ErrNoDocuments, "tour")
	if err.Code != http.StatusNotFound {
		t.Errorf("code = %d, want 404", err.Code)
	}
}

func TestFromDatabaseWrappedNoDocuments(t *testing.T) {
	wrapped := fmt.Errorf("failed to fetch tour: %w", mongo.ErrNoDocuments)
	err := FromDatabase(wrapped, "tour")
	if err.Code != http.StatusNotFound {
		t.Errorf("code = %d, want 404", err.Code)
	}
}

func TestFromDatabaseDuplicateKey(t *testing.T) {
	dup := mongo.WriteException{
		WriteErrors: mongo.WriteErrors{{
			Code:    11000,
			Message: `E11000 duplicate key error collection: gotours.users index: email_1 dup key: { email: "a@b.c" }`,
		}},
	}

	err := FromDatabase(dup, "user")
	if err.Code != http.StatusConflict {
		t.Fatalf("code = %d, want 409", err.Code)
	}
	if err.Message != "Duplicate field value for email: please use another value" {
		t.Errorf("message = %q", err.Message)
	}
}

func TestFromDatabaseInvalidHex(t *testing.T) {
	_, hexErr := primitive.ObjectIDFromHex("nope")
	err := FromDatabase(hexErr, "tour")
	if err.Code != http.StatusBadRequest {
		t.Errorf("code = %d, want 400", err.Code)
	}
}

func TestFromDatabaseUnknownError(t *testing.T) {
	err := FromDatabase(errors.New("socket reset"), "tour")
	if err.Code != http.StatusInternalServerError {
		t.Errorf("code = %d, want 500", err.Code)
	}
	if err.Operational {
		t.Error("unknown database errors must not be operational")
	}
}

func TestFromDatabasePassesThroughAppError(t *testing.T) {
	original := BadRequest("already shaped")
	err := FromDatabase(original, "tour")
	if err != original {
		t.Error("existing app errors must pass through untouched")
	}
}

func TestFromTokenExpired(t *testing.T) {
	key := []byte("secret")
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	})
	signed, err := token.SignedString(key)
	if err != nil {
		t.Fatal(err)
	}

	_, parseErr := jwt.Parse(signed, func(*jwt.Token) (interface{}, error) { return key, nil })
	appErr := FromToken(parseErr)
	if appErr.Code != http.StatusUnauthorized {
		t.Errorf("code = %d, want 401", appErr.Code)
	}
	if appErr.Message != "Your token has expired. Please log in again" {
		t.Errorf("message = %q", appErr.Message)
	}
}

func TestAsWrapsUnknownErrors(t *testing.T) {
	appErr := As(errors.New("surprise"))
	if appErr.Code != http.StatusInternalServerError {
		t.Errorf("code = %d, want 500", appErr.Code)
	}
	if appErr.Message != utils.ErrInternalServer {
		t.Errorf("message = %q", appErr.Message)
	}
}

func TestValidationCollectsFieldMessages(t *testing.T) {
	type form struct {
		Email string `validate:"required,email"`
		Name  string `validate:"required,min=2"`
	}

	err := utils.ValidateStruct(&form{Email: "not-an-email", Name: ""})
	if err == nil {
		t.Fatal("expected validation failure")
	}

	appErr := Validation(err)
	if appErr.Code != http.StatusBadRequest {
		t.Errorf("code = %d, want 400", appErr.Code)
	}
	if appErr.Fields["email"] != "must be a valid email address" {
		t.Errorf("email message = %q", appErr.Fields["email"])
	}
	if appErr.Fields["name"] != "this field is required" {
		t.Errorf("name message = %q", appErr.Fields["name"])
	}
}
