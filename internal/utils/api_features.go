package utils

import (
	"net/url"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// comparison keywords rewritten into store-native operators
var comparisonOps = map[string]string{
	"gte": "$gte",
	"gt":  "$gt",
	"lte": "$lte",
	"lt":  "$lt",
}

// reserved parameters stripped from the equality filter
var reservedParams = map[string]bool{
	"page":   true,
	"sort":   true,
	"limit":  true,
	"fields": true,
}

// Features translates a request's query parameters into a Mongo filter and
// find options through four chained, order-sensitive transformations. Each
// method mutates and returns the builder; nothing here executes a query.
type Features struct {
	params url.Values
	filter bson.M
	opts   *options.FindOptions
}

func NewFeatures(params url.Values) *Features {
	return &Features{
		params: params,
		filter: bson.M{},
		opts:   options.Find(),
	}
}

// Filter strips the reserved pagination/sort/projection keys and applies
// the rest as equality or comparison conditions. A key of the form
// "price[gte]" becomes {"price": {"$gte": v}}; plain keys are equality
// matches. Values that parse as numbers or booleans are coerced so Mongo
// compares them natively.
func (f *Features) Filter() *Features {
	for key, values := range f.params {
		if reservedParams[key] || len(values) == 0 {
			continue
		}

		field, op := splitFilterKey(key)
		value := coerceValue(values[len(values)-1])

		if op == "" {
			f.filter[field] = value
			continue
		}

		cond, ok := f.filter[field].(bson.M)
		if !ok {
			cond = bson.M{}
		}
		cond[op] = value
		f.filter[field] = cond
	}
	return f
}

// Sort applies the comma-separated sort list in order, a leading '-'
// meaning descending. Without a sort parameter, newest first.
func (f *Features) Sort() *Features {
	sortParam := f.params.Get("sort")
	if sortParam == "" {
		f.opts.SetSort(bson.D{{Key: "created_at", Value: -1}})
		return f
	}

	var sortDoc bson.D
	for _, field := range strings.Split(sortParam, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		direction := 1
		if strings.HasPrefix(field, "-") {
			direction = -1
			field = field[1:]
		}
		sortDoc = append(sortDoc, bson.E{Key: field, Value: direction})
	}
	if len(sortDoc) > 0 {
		f.opts.SetSort(sortDoc)
	}
	return f
}

// LimitFields projects exactly the requested comma-separated fields; a
// '-' prefix turns the list into an exclusion set instead.
func (f *Features) LimitFields() *Features {
	fieldsParam := f.params.Get("fields")
	if fieldsParam == "" {
		return f
	}

	projection := bson.M{}
	for _, field := range strings.Split(fieldsParam, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		if strings.HasPrefix(field, "-") {
			projection[field[1:]] = 0
		} else {
			projection[field] = 1
		}
	}
	if len(projection) > 0 {
		f.opts.SetProjection(projection)
	}
	return f
}

// Paginate computes skip = (page-1)*limit from the numeric page and limit
// parameters, defaulting to page 1 and limit 100.
func (f *Features) Paginate() *Features {
	page := positiveInt(f.params.Get("page"), DefaultPage)
	limit := positiveInt(f.params.Get("limit"), DefaultLimit)
	if limit > MaxLimit {
		limit = MaxLimit
	}

	f.opts.SetSkip(int64((page - 1) * limit))
	f.opts.SetLimit(int64(limit))
	return f
}

// Build returns the accumulated filter and find options. The zero-value
// chain (no methods invoked) yields an empty filter and default options.
func (f *Features) Build() (bson.M, *options.FindOptions) {
	return f.filter, f.opts
}

// splitFilterKey parses "price[gte]" into ("price", "$gte"). Keys with an
// unknown bracket operator pass through untouched; the data layer rejects
// them downstream.
func splitFilterKey(key string) (field, op string) {
	open := strings.Index(key, "[")
	if open <= 0 || !strings.HasSuffix(key, "]") {
		return key, ""
	}

	keyword := key[open+1 : len(key)-1]
	if mongoOp, ok := comparisonOps[keyword]; ok {
		return key[:open], mongoOp
	}
	return key, ""
}

func coerceValue(raw string) interface{} {
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return i
	}
	if fv, err := strconv.ParseFloat(raw, 64); err == nil {
		return fv
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	return raw
}

func positiveInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
