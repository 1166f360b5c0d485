package repository

import (
	"context"
	"errors"
	"maps"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/vasapolrittideah/hope-sync-api/services/hope-sync/internal/model"
)

var ErrDocumentNotFound = errors.New("document not found")

// DocumentRepository stores the schemaless documents of one collection.
type DocumentRepository interface {
	// ListDocuments returns every document of the collection in natural order.
	ListDocuments(ctx context.Context) ([]model.Document, error)

	// GetDocument returns the document with the given id or ErrDocumentNotFound.
	GetDocument(ctx context.Context, id model.ID) (model.Document, error)

	// InsertDocument stores doc under a newly generated id.
	InsertDocument(ctx context.Context, doc model.Document) (*model.InsertResult, error)

	// PatchDocument shallow-merges fields into the stored document: each
	// top-level key overwrites the stored value, keys not present in fields
	// are retained.
	PatchDocument(ctx context.Context, id model.ID, fields model.Document) (*model.UpdateResult, error)

	// DeleteDocument removes the document with the given id. An unknown id
	// yields a zero DeletedCount.
	DeleteDocument(ctx context.Context, id model.ID) (*model.DeleteResult, error)
}

type documentMongoRepository struct {
	collection *mongo.Collection
}

// NewDocumentMongoRepository creates a repository over the named collection.
func NewDocumentMongoRepository(db *mongo.Database, collection string) DocumentRepository {
	return &documentMongoRepository{collection: db.Collection(collection)}
}

func (r *documentMongoRepository) ListDocuments(ctx context.Context) ([]model.Document, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}

	docs := []model.Document{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	return docs, nil
}

func (r *documentMongoRepository) GetDocument(ctx context.Context, id model.ID) (model.Document, error) {
	var doc model.Document
	err := r.collection.FindOne(ctx, bson.M{"_id": id.ObjectID()}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}

	return doc, nil
}

func (r *documentMongoRepository) InsertDocument(
	ctx context.Context,
	doc model.Document,
) (*model.InsertResult, error) {
	oid := bson.NewObjectID()

	stored := make(bson.M, len(doc)+1)
	maps.Copy(stored, doc)
	stored[model.DocumentIDField] = oid

	result, err := r.collection.InsertOne(ctx, stored)
	if err != nil {
		return nil, err
	}

	return &model.InsertResult{
		Acknowledged: result.Acknowledged,
		InsertedID:   model.IDFromObjectID(oid),
	}, nil
}

func (r *documentMongoRepository) PatchDocument(
	ctx context.Context,
	id model.ID,
	fields model.Document,
) (*model.UpdateResult, error) {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id.ObjectID()},
		setFields(fields),
	)
	if err != nil {
		return nil, err
	}

	updateResult := &model.UpdateResult{
		Acknowledged:  result.Acknowledged,
		MatchedCount:  result.MatchedCount,
		ModifiedCount: result.ModifiedCount,
		UpsertedCount: result.UpsertedCount,
	}
	if oid, ok := result.UpsertedID.(bson.ObjectID); ok {
		upserted := model.IDFromObjectID(oid)
		updateResult.UpsertedID = &upserted
	}

	return updateResult, nil
}

func (r *documentMongoRepository) DeleteDocument(ctx context.Context, id model.ID) (*model.DeleteResult, error) {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id.ObjectID()})
	if err != nil {
		return nil, err
	}

	return &model.DeleteResult{
		Acknowledged: result.Acknowledged,
		DeletedCount: result.DeletedCount,
	}, nil
}

// setFields builds an update that replaces each top-level field of fields and
// leaves the rest of the stored document alone.
func setFields(fields model.Document) bson.M {
	return bson.M{"$set": bson.M(fields)}
}
