package mongodb

import (
	"net/url"
	"testing"

	"go.mongodb.org/mongo-driver/bson"

	"gotours/internal/models"
	"gotours/internal/utils"
)

func storedTour() *models.Tour {
	tour := &models.Tour{
		Name:         "The Forest Hiker",
		Duration:     5,
		MaxGroupSize: 25,
		Difficulty:   models.DifficultyEasy,
		Price:        500,
		Summary:      "Breathtaking hike through the Canadian Banff National Park",
		ImageCover:   "tour-1-cover.jpg",
	}
	tour.PrePersist()
	return tour
}

func TestApplyUpdatesInvalidPatchFailsValidation(t *testing.T) {
	merged, err := applyUpdates(storedTour(), bson.M{"price_discount": float64(5000)})
	if err != nil {
		t.Fatalf("applyUpdates: %v", err)
	}

	if err := merged.Validate(); err == nil {
		t.Fatal("discount above the base price passed validation")
	}
}

func TestApplyUpdatesValidPatchKeepsUnpatchedFields(t *testing.T) {
	merged, err := applyUpdates(storedTour(), bson.M{"price_discount": float64(100)})
	if err != nil {
		t.Fatalf("applyUpdates: %v", err)
	}

	if err := merged.Validate(); err != nil {
		t.Fatalf("valid discount rejected: %v", err)
	}
	if merged.PriceDiscount != 100 {
		t.Errorf("price_discount = %v, want 100", merged.PriceDiscount)
	}
	if merged.Name != "The Forest Hiker" || merged.Price != 500 {
		t.Error("unpatched fields changed")
	}
}

func TestApplyUpdatesCatchesRatingOutOfBounds(t *testing.T) {
	merged, err := applyUpdates(storedTour(), bson.M{"ratings_average": float64(9)})
	if err != nil {
		t.Fatalf("applyUpdates: %v", err)
	}
	if err := merged.Validate(); err == nil {
		t.Fatal("rating above 5 passed validation")
	}
}

func TestSecretScopeExcludesSecretTours(t *testing.T) {
	scope := secretScope()
	want := bson.M{"$ne": true}

	got, ok := scope["secret_tour"].(bson.M)
	if !ok {
		t.Fatalf("secret_tour condition = %#v, want bson.M", scope["secret_tour"])
	}
	if got["$ne"] != want["$ne"] {
		t.Errorf("secret_tour condition = %v, want %v", got, want)
	}
}

func TestSecretScopeOverridesClientFilter(t *testing.T) {
	params, _ := url.ParseQuery("secret_tour=true&difficulty=easy")
	filter, _ := utils.NewFeatures(params).Filter().Build()

	merged := mergeScope(filter, secretScope())

	cond, ok := merged["secret_tour"].(bson.M)
	if !ok {
		t.Fatalf("secret_tour = %#v, client filter survived the scope", merged["secret_tour"])
	}
	if cond["$ne"] != true {
		t.Errorf("secret_tour = %v, want $ne true", cond)
	}
	if merged["difficulty"] != "easy" {
		t.Errorf("difficulty = %v, scope merge dropped the client filter", merged["difficulty"])
	}
}

func TestActiveScopeHidesDeactivatedUsers(t *testing.T) {
	merged := mergeScope(bson.M{"role": "guide"}, activeScope())

	cond, ok := merged["active"].(bson.M)
	if !ok {
		t.Fatalf("active condition = %#v, want bson.M", merged["active"])
	}
	if cond["$ne"] != false {
		t.Errorf("active condition = %v, want $ne false", cond)
	}
}
