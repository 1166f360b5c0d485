package usecase

import (
	"context"
	"errors"
	"maps"

	"github.com/vasapolrittideah/hope-sync-api/services/hope-sync/internal/model"
	"github.com/vasapolrittideah/hope-sync-api/services/hope-sync/internal/repository"
)

var (
	ErrEmptyDocument = errors.New("document has no fields")
	ErrEmptyPatch    = errors.New("patch has no fields")
)

// DocumentUsecase implements the passthrough operations of a content
// collection.
type DocumentUsecase interface {
	List(ctx context.Context) ([]model.Document, error)
	Get(ctx context.Context, id model.ID) (model.Document, error)
	Create(ctx context.Context, doc model.Document) (*model.InsertResult, error)

	// Patch overwrites the given top-level fields and keeps every other
	// stored field. The identifier field cannot be patched and is dropped.
	Patch(ctx context.Context, id model.ID, fields model.Document) (*model.UpdateResult, error)

	Delete(ctx context.Context, id model.ID) (*model.DeleteResult, error)
}

type documentUsecase struct {
	repo repository.DocumentRepository
}

// NewDocumentUsecase creates a DocumentUsecase over one collection.
func NewDocumentUsecase(repo repository.DocumentRepository) DocumentUsecase {
	return &documentUsecase{repo: repo}
}

func (u *documentUsecase) List(ctx context.Context) ([]model.Document, error) {
	return u.repo.ListDocuments(ctx)
}

func (u *documentUsecase) Get(ctx context.Context, id model.ID) (model.Document, error) {
	return u.repo.GetDocument(ctx, id)
}

func (u *documentUsecase) Create(ctx context.Context, doc model.Document) (*model.InsertResult, error) {
	doc = withoutID(doc)
	if len(doc) == 0 {
		return nil, ErrEmptyDocument
	}

	return u.repo.InsertDocument(ctx, doc)
}

func (u *documentUsecase) Patch(
	ctx context.Context,
	id model.ID,
	fields model.Document,
) (*model.UpdateResult, error) {
	fields = withoutID(fields)
	if len(fields) == 0 {
		return nil, ErrEmptyPatch
	}

	return u.repo.PatchDocument(ctx, id, fields)
}

func (u *documentUsecase) Delete(ctx context.Context, id model.ID) (*model.DeleteResult, error) {
	return u.repo.DeleteDocument(ctx, id)
}

// withoutID returns a copy of doc without the identifier field. Identifiers
// are always generated by the store.
func withoutID(doc model.Document) model.Document {
	out := maps.Clone(doc)
	delete(out, model.DocumentIDField)
	return out
}
