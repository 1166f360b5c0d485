package model

// Document is a schemaless record of one of the content collections
// (donation, comments, testimonials, volunteers). The "_id" key holds the
// generated identifier.
type Document map[string]any

const DocumentIDField = "_id"

// InsertResult reports the outcome of storing a new document.
type InsertResult struct {
	Acknowledged bool `json:"acknowledged"`
	InsertedID   ID   `json:"insertedId"`
}

// UpdateResult reports the outcome of patching a document.
type UpdateResult struct {
	Acknowledged  bool  `json:"acknowledged"`
	MatchedCount  int64 `json:"matchedCount"`
	ModifiedCount int64 `json:"modifiedCount"`
	UpsertedCount int64 `json:"upsertedCount"`
	UpsertedID    *ID   `json:"upsertedId"`
}

// DeleteResult reports the outcome of deleting a document. Deleting an
// unknown identifier is not an error; DeletedCount is zero.
type DeleteResult struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}
