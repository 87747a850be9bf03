package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestAliasTopTours(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := &TourHandler{}
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/tours/top-5-cheap", nil)

	h.AliasTopTours(c)

	query := c.Request.URL.Query()
	if query.Get("limit") != "5" {
		t.Errorf("limit = %q, want 5", query.Get("limit"))
	}
	if query.Get("sort") != "-ratings_average,price" {
		t.Errorf("sort = %q", query.Get("sort"))
	}
	if query.Get("fields") != "name,price,ratings_average,summary,difficulty" {
		t.Errorf("fields = %q", query.Get("fields"))
	}
}

func TestAliasTopToursOverridesClientParams(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := &TourHandler{}
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/tours/top-5-cheap?limit=500&sort=price", nil)

	h.AliasTopTours(c)

	query := c.Request.URL.Query()
	if query.Get("limit") != "5" {
		t.Errorf("limit = %q, want 5 regardless of the request", query.Get("limit"))
	}
	if query.Get("sort") != "-ratings_average,price" {
		t.Errorf("sort = %q, want the alias ordering", query.Get("sort"))
	}
}

func TestParseObjectID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Params = gin.Params{{Key: "id", Value: "5c88fa8cf4afda39709c2955"}}

	if _, err := parseObjectID(c, "id"); err != nil {
		t.Errorf("valid hex rejected: %v", err)
	}

	c.Params = gin.Params{{Key: "id", Value: "not-hex"}}
	if _, err := parseObjectID(c, "id"); err == nil {
		t.Error("invalid hex accepted")
	}
}
