// Package repositorytest provides in-memory implementations of the repository
// interfaces for tests.
package repositorytest

import (
	"context"
	"maps"
	"reflect"
	"sync"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/vasapolrittideah/hope-sync-api/services/hope-sync/internal/model"
	"github.com/vasapolrittideah/hope-sync-api/services/hope-sync/internal/repository"
)

// UserRepository stores users in a map keyed by email and enforces email
// uniqueness the way the unique index does.
type UserRepository struct {
	mu    sync.Mutex
	users map[string]model.User

	// Err, when set, is returned by every call.
	Err error
	// CreateErr, when set, is returned by CreateUser only.
	CreateErr error
}

var _ repository.UserRepository = (*UserRepository)(nil)

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]model.User)}
}

func (r *UserRepository) CreateUser(_ context.Context, user *model.User) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return nil, r.Err
	}
	if r.CreateErr != nil {
		return nil, r.CreateErr
	}
	if _, ok := r.users[user.Email]; ok {
		return nil, mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000, Message: "E11000 duplicate key error"}}}
	}

	user.ID = bson.NewObjectID()
	r.users[user.Email] = *user

	return user, nil
}

func (r *UserRepository) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return nil, r.Err
	}

	user, ok := r.users[email]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}

	return &user, nil
}

// User returns the stored user with the given email.
func (r *UserRepository) User(email string) (model.User, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[email]
	return user, ok
}

// DocumentRepository keeps documents in insertion order.
type DocumentRepository struct {
	mu   sync.Mutex
	ids  []model.ID
	docs map[model.ID]model.Document

	// Err, when set, is returned by every call.
	Err error
}

var _ repository.DocumentRepository = (*DocumentRepository)(nil)

func NewDocumentRepository() *DocumentRepository {
	return &DocumentRepository{docs: make(map[model.ID]model.Document)}
}

func (r *DocumentRepository) ListDocuments(context.Context) ([]model.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return nil, r.Err
	}

	docs := make([]model.Document, 0, len(r.ids))
	for _, id := range r.ids {
		docs = append(docs, maps.Clone(r.docs[id]))
	}

	return docs, nil
}

func (r *DocumentRepository) GetDocument(_ context.Context, id model.ID) (model.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return nil, r.Err
	}

	doc, ok := r.docs[id]
	if !ok {
		return nil, repository.ErrDocumentNotFound
	}

	return maps.Clone(doc), nil
}

func (r *DocumentRepository) InsertDocument(_ context.Context, doc model.Document) (*model.InsertResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return nil, r.Err
	}

	id := model.NewID()
	stored := maps.Clone(doc)
	if stored == nil {
		stored = model.Document{}
	}
	stored[model.DocumentIDField] = id.ObjectID()

	r.ids = append(r.ids, id)
	r.docs[id] = stored

	return &model.InsertResult{Acknowledged: true, InsertedID: id}, nil
}

func (r *DocumentRepository) PatchDocument(
	_ context.Context,
	id model.ID,
	fields model.Document,
) (*model.UpdateResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return nil, r.Err
	}

	doc, ok := r.docs[id]
	if !ok {
		return &model.UpdateResult{Acknowledged: true}, nil
	}

	var modified int64
	for k, v := range fields {
		if current, exists := doc[k]; !exists || !reflect.DeepEqual(current, v) {
			modified = 1
		}
		doc[k] = v
	}

	return &model.UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: modified}, nil
}

func (r *DocumentRepository) DeleteDocument(_ context.Context, id model.ID) (*model.DeleteResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return nil, r.Err
	}

	if _, ok := r.docs[id]; !ok {
		return &model.DeleteResult{Acknowledged: true}, nil
	}

	delete(r.docs, id)
	for i, existing := range r.ids {
		if existing == id {
			r.ids = append(r.ids[:i], r.ids[i+1:]...)
			break
		}
	}

	return &model.DeleteResult{Acknowledged: true, DeletedCount: 1}, nil
}
