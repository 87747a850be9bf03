package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"gotours/internal/apperrors"
	"gotours/internal/utils"
)

// Repository is the generic persistence base shared by the entity
// repositories. It handles id lookups, partial updates, scoped list
// queries and the translation of driver errors into API errors.
type Repository[T any] struct {
	collection *mongo.Collection
	resource   string
}

func NewRepository[T any](db *mongo.Database, collection, resource string) *Repository[T] {
	return &Repository[T]{
		collection: db.Collection(collection),
		resource:   resource,
	}
}

func (r *Repository[T]) Collection() *mongo.Collection {
	return r.collection
}

// InsertOne inserts the document and returns the generated id.
func (r *Repository[T]) InsertOne(ctx context.Context, doc *T) (primitive.ObjectID, error) {
	result, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return primitive.NilObjectID, apperrors.FromDatabase(err, r.resource)
	}

	id, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, apperrors.Internal(nil)
	}
	return id, nil
}

// FindByID fetches a single document by id, restricted by scope.
func (r *Repository[T]) FindByID(ctx context.Context, id primitive.ObjectID, scope bson.M) (*T, error) {
	filter := mergeScope(bson.M{"_id": id}, scope)

	var doc T
	if err := r.collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, apperrors.FromDatabase(err, r.resource)
	}
	return &doc, nil
}

// UpdateByID applies a partial update and returns the post-update
// document. A miss (wrong id or out of scope) is a not-found error.
func (r *Repository[T]) UpdateByID(ctx context.Context, id primitive.ObjectID, updates bson.M, scope bson.M) (*T, error) {
	filter := mergeScope(bson.M{"_id": id}, scope)
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc T
	err := r.collection.FindOneAndUpdate(ctx, filter, bson.M{"$set": updates}, opts).Decode(&doc)
	if err != nil {
		return nil, apperrors.FromDatabase(err, r.resource)
	}
	return &doc, nil
}

// PreviewUpdate loads the current document and applies the partial
// update in memory, returning the document as it would read after the
// write. Callers validate the result before anything is persisted.
func (r *Repository[T]) PreviewUpdate(ctx context.Context, id primitive.ObjectID, updates bson.M, scope bson.M) (*T, error) {
	current, err := r.FindByID(ctx, id, scope)
	if err != nil {
		return nil, err
	}
	return applyUpdates(current, updates)
}

// applyUpdates overlays a $set-style partial update onto a document
// via a bson round trip.
func applyUpdates[T any](current *T, updates bson.M) (*T, error) {
	raw, err := bson.Marshal(current)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	doc := bson.M{}
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, apperrors.Internal(err)
	}
	for k, v := range updates {
		doc[k] = v
	}

	raw, err = bson.Marshal(doc)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	var merged T
	if err := bson.Unmarshal(raw, &merged); err != nil {
		return nil, apperrors.Internal(err)
	}
	return &merged, nil
}

// DeleteByID removes a single document. A miss is a not-found error.
func (r *Repository[T]) DeleteByID(ctx context.Context, id primitive.ObjectID, scope bson.M) error {
	filter := mergeScope(bson.M{"_id": id}, scope)

	result, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return apperrors.FromDatabase(err, r.resource)
	}
	if result.DeletedCount == 0 {
		return apperrors.NotFound(r.resource)
	}
	return nil
}

// Find runs the query built by features, restricted by scope, and
// returns the matching documents together with the total count for the
// filter (ignoring pagination). An empty result is not an error.
func (r *Repository[T]) Find(ctx context.Context, features *utils.Features, scope bson.M) ([]*T, int64, error) {
	filter, opts := features.Build()
	filter = mergeScope(filter, scope)

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, apperrors.FromDatabase(err, r.resource)
	}

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, apperrors.FromDatabase(err, r.resource)
	}
	defer cursor.Close(ctx)

	docs := make([]*T, 0)
	for cursor.Next(ctx) {
		var doc T
		if err := cursor.Decode(&doc); err != nil {
			return nil, 0, apperrors.FromDatabase(err, r.resource)
		}
		docs = append(docs, &doc)
	}
	if err := cursor.Err(); err != nil {
		return nil, 0, apperrors.FromDatabase(err, r.resource)
	}

	return docs, total, nil
}

// Aggregate runs a pipeline and decodes all results into out, which
// must be a pointer to a slice.
func (r *Repository[T]) Aggregate(ctx context.Context, pipeline mongo.Pipeline, out interface{}) error {
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return apperrors.FromDatabase(err, r.resource)
	}
	defer cursor.Close(ctx)

	if err := cursor.All(ctx, out); err != nil {
		return apperrors.FromDatabase(err, r.resource)
	}
	return nil
}

// mergeScope folds the repository scope into a query filter. Scope
// keys win, so user-supplied filters cannot widen past the scope.
func mergeScope(filter, scope bson.M) bson.M {
	if len(scope) == 0 {
		return filter
	}
	merged := bson.M{}
	for k, v := range filter {
		merged[k] = v
	}
	for k, v := range scope {
		merged[k] = v
	}
	return merged
}
