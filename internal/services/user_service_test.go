package services

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"gotours/internal/apperrors"
	"gotours/internal/models"
)

func activeUser() *models.User {
	return &models.User{
		ID:     primitive.NewObjectID(),
		Name:   "Alice Example",
		Email:  "alice@example.com",
		Role:   models.RoleUser,
		Active: true,
	}
}

func TestUpdateMeRejectsPasswordPayload(t *testing.T) {
	user := activeUser()
	svc := NewUserService(newFakeUserRepo(user), testLogger(t))

	_, err := svc.UpdateMe(context.Background(), user.ID, &UpdateMeRequest{
		Name:     "New Name",
		Password: "sneaky-change",
	})
	if err == nil {
		t.Fatal("expected rejection of password field")
	}
	appErr := apperrors.As(err)
	if appErr.Code != http.StatusBadRequest {
		t.Errorf("code = %d, want 400", appErr.Code)
	}
	if !strings.Contains(appErr.Message, "updateMyPassword") {
		t.Errorf("message = %q, want pointer to the password route", appErr.Message)
	}
}

func TestUpdateMeFiltersFields(t *testing.T) {
	user := activeUser()
	repo := newFakeUserRepo(user)
	svc := NewUserService(repo, testLogger(t))

	updated, err := svc.UpdateMe(context.Background(), user.ID, &UpdateMeRequest{
		Name:  "Renamed User",
		Email: "renamed@example.com",
	})
	if err != nil {
		t.Fatalf("UpdateMe: %v", err)
	}
	if updated.Name != "Renamed User" {
		t.Errorf("name = %q", updated.Name)
	}
	if _, ok := repo.updates["role"]; ok {
		t.Error("role must never reach the update document")
	}
}

func TestUpdateMeEmptyBodyReturnsCurrentUser(t *testing.T) {
	user := activeUser()
	svc := NewUserService(newFakeUserRepo(user), testLogger(t))

	got, err := svc.UpdateMe(context.Background(), user.ID, &UpdateMeRequest{})
	if err != nil {
		t.Fatalf("UpdateMe: %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("returned user %s, want %s", got.ID.Hex(), user.ID.Hex())
	}
}

func TestDeleteMeSoftDeletes(t *testing.T) {
	user := activeUser()
	repo := newFakeUserRepo(user)
	svc := NewUserService(repo, testLogger(t))

	if err := svc.DeleteMe(context.Background(), user.ID); err != nil {
		t.Fatalf("DeleteMe: %v", err)
	}

	if user.Active {
		t.Error("user still active after DeleteMe")
	}
	if _, err := repo.GetByID(context.Background(), user.ID); err == nil {
		t.Error("deactivated user still readable")
	}
	if _, ok := repo.users[user.ID]; !ok {
		t.Error("soft delete must keep the document")
	}
}

func TestUpdateUserStripsPassword(t *testing.T) {
	user := activeUser()
	repo := newFakeUserRepo(user)
	svc := NewUserService(repo, testLogger(t))

	_, err := svc.UpdateUser(context.Background(), user.ID, bson.M{
		"name":     "Admin Renamed",
		"password": "nope",
	})
	if err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}
	if _, ok := repo.updates["password"]; ok {
		t.Error("password must be stripped from admin updates")
	}
}
