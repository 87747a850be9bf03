package utils

import (
	"net/url"
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func TestFilterEquality(t *testing.T) {
	params := url.Values{}
	params.Set("difficulty", "easy")
	params.Set("duration", "5")

	filter, _ := NewFeatures(params).Filter().Build()

	if filter["difficulty"] != "easy" {
		t.Errorf("difficulty = %v, want easy", filter["difficulty"])
	}
	if filter["duration"] != int64(5) {
		t.Errorf("duration = %v (%T), want int64 5", filter["duration"], filter["duration"])
	}
}

func TestFilterComparisonOperators(t *testing.T) {
	tests := []struct {
		key   string
		value string
		field string
		op    string
		want  interface{}
	}{
		{"price[gte]", "500", "price", "$gte", int64(500)},
		{"price[lte]", "1500.5", "price", "$lte", 1500.5},
		{"duration[gt]", "3", "duration", "$gt", int64(3)},
		{"ratings_average[lt]", "4.8", "ratings_average", "$lt", 4.8},
	}

	for _, tt := range tests {
		params := url.Values{}
		params.Set(tt.key, tt.value)

		filter, _ := NewFeatures(params).Filter().Build()

		cond, ok := filter[tt.field].(bson.M)
		if !ok {
			t.Errorf("%s: filter[%s] = %v, want bson.M", tt.key, tt.field, filter[tt.field])
			continue
		}
		if cond[tt.op] != tt.want {
			t.Errorf("%s: %s = %v (%T), want %v", tt.key, tt.op, cond[tt.op], cond[tt.op], tt.want)
		}
	}
}

func TestFilterCombinesOperatorsOnOneField(t *testing.T) {
	params := url.Values{}
	params.Set("price[gte]", "500")
	params.Set("price[lte]", "2000")

	filter, _ := NewFeatures(params).Filter().Build()

	cond, ok := filter["price"].(bson.M)
	if !ok {
		t.Fatalf("filter[price] = %v, want bson.M", filter["price"])
	}
	if cond["$gte"] != int64(500) || cond["$lte"] != int64(2000) {
		t.Errorf("price condition = %v, want $gte 500 and $lte 2000", cond)
	}
}

func TestFilterStripsReservedParams(t *testing.T) {
	params := url.Values{}
	params.Set("page", "3")
	params.Set("sort", "price")
	params.Set("limit", "10")
	params.Set("fields", "name")
	params.Set("difficulty", "medium")

	filter, _ := NewFeatures(params).Filter().Build()

	if len(filter) != 1 {
		t.Fatalf("filter = %v, want only difficulty", filter)
	}
	if filter["difficulty"] != "medium" {
		t.Errorf("difficulty = %v, want medium", filter["difficulty"])
	}
}

func TestFilterUnknownBracketOperatorPassesThrough(t *testing.T) {
	params := url.Values{}
	params.Set("price[between]", "100")

	filter, _ := NewFeatures(params).Filter().Build()

	if _, ok := filter["price[between]"]; !ok {
		t.Errorf("filter = %v, want price[between] kept verbatim", filter)
	}
}

func TestSortDefaultsToNewestFirst(t *testing.T) {
	_, opts := NewFeatures(url.Values{}).Sort().Build()

	want := bson.D{{Key: "created_at", Value: -1}}
	if !reflect.DeepEqual(opts.Sort, want) {
		t.Errorf("sort = %v, want %v", opts.Sort, want)
	}
}

func TestSortMultipleFields(t *testing.T) {
	params := url.Values{}
	params.Set("sort", "-ratings_average,price")

	_, opts := NewFeatures(params).Sort().Build()

	want := bson.D{
		{Key: "ratings_average", Value: -1},
		{Key: "price", Value: 1},
	}
	if !reflect.DeepEqual(opts.Sort, want) {
		t.Errorf("sort = %v, want %v", opts.Sort, want)
	}
}

func TestLimitFieldsProjection(t *testing.T) {
	params := url.Values{}
	params.Set("fields", "name,price,duration")

	_, opts := NewFeatures(params).LimitFields().Build()

	want := bson.M{"name": 1, "price": 1, "duration": 1}
	if !reflect.DeepEqual(opts.Projection, want) {
		t.Errorf("projection = %v, want %v", opts.Projection, want)
	}
}

func TestLimitFieldsExclusion(t *testing.T) {
	params := url.Values{}
	params.Set("fields", "-description,-images")

	_, opts := NewFeatures(params).LimitFields().Build()

	want := bson.M{"description": 0, "images": 0}
	if !reflect.DeepEqual(opts.Projection, want) {
		t.Errorf("projection = %v, want %v", opts.Projection, want)
	}
}

func TestLimitFieldsAbsentMeansNoProjection(t *testing.T) {
	_, opts := NewFeatures(url.Values{}).LimitFields().Build()

	if opts.Projection != nil {
		t.Errorf("projection = %v, want nil", opts.Projection)
	}
}

func TestPaginate(t *testing.T) {
	tests := []struct {
		name      string
		page      string
		limit     string
		wantSkip  int64
		wantLimit int64
	}{
		{"defaults", "", "", 0, int64(DefaultLimit)},
		{"second page", "2", "10", 10, 10},
		{"deep page", "5", "25", 100, 25},
		{"invalid page falls back", "abc", "10", 0, 10},
		{"zero page falls back", "0", "10", 0, 10},
		{"limit capped", "1", "99999", 0, int64(MaxLimit)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := url.Values{}
			if tt.page != "" {
				params.Set("page", tt.page)
			}
			if tt.limit != "" {
				params.Set("limit", tt.limit)
			}

			_, opts := NewFeatures(params).Paginate().Build()

			if opts.Skip == nil || *opts.Skip != tt.wantSkip {
				t.Errorf("skip = %v, want %d", opts.Skip, tt.wantSkip)
			}
			if opts.Limit == nil || *opts.Limit != tt.wantLimit {
				t.Errorf("limit = %v, want %d", opts.Limit, tt.wantLimit)
			}
		})
	}
}

func TestFullChain(t *testing.T) {
	params, err := url.ParseQuery("duration[gte]=5&difficulty=easy&sort=price&fields=name,price&page=2&limit=10")
	if err != nil {
		t.Fatal(err)
	}

	filter, opts := NewFeatures(params).Filter().Sort().LimitFields().Paginate().Build()

	if filter["difficulty"] != "easy" {
		t.Errorf("difficulty = %v, want easy", filter["difficulty"])
	}
	cond, ok := filter["duration"].(bson.M)
	if !ok || cond["$gte"] != int64(5) {
		t.Errorf("duration = %v, want {$gte: 5}", filter["duration"])
	}
	if opts.Skip == nil || *opts.Skip != 10 {
		t.Errorf("skip = %v, want 10", opts.Skip)
	}
}
