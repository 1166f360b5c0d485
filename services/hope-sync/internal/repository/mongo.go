package repository

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// Collections of the hope-sync database.
const (
	UserCollection        = "users"
	DonationCollection    = "donation"
	CommentCollection     = "comments"
	TestimonialCollection = "testimonials"
	VolunteerCollection   = "volunteers"
)

// documentBSONOptions makes nested documents decode into maps so they
// serialize back to JSON objects.
var documentBSONOptions = &options.BSONOptions{DefaultDocumentM: true}

// Database owns the process-wide MongoDB connection pool.
type Database struct {
	client *mongo.Client
	db     *mongo.Database
	logger *zerolog.Logger
}

// Connect opens the connection pool and verifies the primary is reachable.
func Connect(ctx context.Context, logger *zerolog.Logger, uri, name string) (*Database, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetBSONOptions(documentBSONOptions)

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create mongo client: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	logger.Info().Str("database", name).Msg("connected to MongoDB")

	return &Database{
		client: client,
		db:     client.Database(name),
		logger: logger,
	}, nil
}

// Database returns the handle repositories are built on.
func (d *Database) Database() *mongo.Database {
	return d.db
}

// Disconnect closes the connection pool.
func (d *Database) Disconnect(ctx context.Context) error {
	if err := d.client.Disconnect(ctx); err != nil {
		return err
	}

	d.logger.Info().Msg("disconnected from MongoDB")
	return nil
}
