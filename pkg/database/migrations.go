package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Migration struct {
	Version     int
	Description string
	Up          func(*mongo.Database) error
}

type Migrator struct {
	db         *mongo.Database
	migrations []Migration
}

func NewMigrator(db *mongo.Database) *Migrator {
	return &Migrator{
		db:         db,
		migrations: getMigrations(),
	}
}

// Up applies every migration above the recorded version.
func (m *Migrator) Up() error {
	currentVersion, err := m.getCurrentVersion()
	if err != nil {
		return err
	}

	for _, migration := range m.migrations {
		if migration.Version <= currentVersion {
			continue
		}
		if err := migration.Up(m.db); err != nil {
			return fmt.Errorf("migration %d (%s) failed: %w", migration.Version, migration.Description, err)
		}
		if err := m.updateVersion(migration.Version); err != nil {
			return fmt.Errorf("failed to record migration version: %w", err)
		}
	}

	return nil
}

func (m *Migrator) getCurrentVersion() (int, error) {
	ctx := context.Background()

	var result struct {
		Version int `bson:"version"`
	}
	err := m.db.Collection("schema_migrations").FindOne(ctx, bson.M{"_id": "version"}).Decode(&result)
	if err == mongo.ErrNoDocuments {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return result.Version, nil
}

func (m *Migrator) updateVersion(version int) error {
	ctx := context.Background()
	_, err := m.db.Collection("schema_migrations").UpdateOne(
		ctx,
		bson.M{"_id": "version"},
		bson.M{"$set": bson.M{"version": version}},
		options.Update().SetUpsert(true),
	)
	return err
}

func getMigrations() []Migration {
	return []Migration{
		{
			Version:     1,
			Description: "Create users collection indexes",
			Up:          createUsersIndexes,
		},
		{
			Version:     2,
			Description: "Create tours collection indexes",
			Up:          createToursIndexes,
		},
		{
			Version:     3,
			Description: "Create reviews collection indexes",
			Up:          createReviewsIndexes,
		},
	}
}

func createUsersIndexes(db *mongo.Database) error {
	ctx := context.Background()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "active", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "password_reset_token", Value: 1}},
		},
	}

	_, err := db.Collection("users").Indexes().CreateMany(ctx, indexes)
	return err
}

func createToursIndexes(db *mongo.Database) error {
	ctx := context.Background()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "slug", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "price", Value: 1}, {Key: "ratings_average", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "start_location", Value: "2dsphere"}},
		},
		{
			Keys: bson.D{{Key: "created_at", Value: -1}},
		},
	}

	_, err := db.Collection("tours").Indexes().CreateMany(ctx, indexes)
	return err
}

func createReviewsIndexes(db *mongo.Database) error {
	ctx := context.Background()

	indexes := []mongo.IndexModel{
		{
			// One review per user per tour.
			Keys:    bson.D{{Key: "tour", Value: 1}, {Key: "user", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "created_at", Value: -1}},
		},
	}

	_, err := db.Collection("reviews").Indexes().CreateMany(ctx, indexes)
	return err
}
