package model

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
)

var ErrInvalidID = errors.New("invalid identifier")

// ID identifies a stored document. The zero value is not a valid ID; obtain
// one from ParseID or NewID.
type ID struct {
	oid bson.ObjectID
}

// ParseID validates a 24 character hex identifier.
func ParseID(s string) (ID, error) {
	oid, err := bson.ObjectIDFromHex(s)
	if err != nil {
		return ID{}, fmt.Errorf("%w: %q", ErrInvalidID, s)
	}
	return ID{oid: oid}, nil
}

// NewID generates a fresh identifier.
func NewID() ID {
	return ID{oid: bson.NewObjectID()}
}

// IDFromObjectID wraps a database-generated object id.
func IDFromObjectID(oid bson.ObjectID) ID {
	return ID{oid: oid}
}

func (id ID) ObjectID() bson.ObjectID {
	return id.oid
}

func (id ID) String() string {
	return id.oid.Hex()
}

func (id ID) IsZero() bool {
	return id.oid.IsZero()
}

func (id ID) MarshalText() ([]byte, error) {
	return []byte(id.oid.Hex()), nil
}
