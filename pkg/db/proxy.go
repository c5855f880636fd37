package db

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Proxy :
// Intended as a common wrapper to access the document
// store through a convenience way. It exposes the small
// set of operations the game relies on: fetch by id,
// fetch by field match, fetch all, insert, patch and
// delete a single document. This helps hiding both the
// driver and the precise layout of the collections from
// the rest of the application.
// Note that no multi-document transaction is provided:
// the game is designed so that every state transition
// is achievable through independent single-document
// updates.
//
// The `dbase` is the database that is wrapped by this
// object.
type Proxy struct {
	dbase *DB
}

// ErrNoDocument : Indicates that the requested document does not exist.
var ErrNoDocument = fmt.Errorf("No such document in collection")

// NewProxy :
// Performs the creation of a new proxy from the input
// database.
//
// The `dbase` defines the DB wrapped by this object.
//
// Returns the created object.
func NewProxy(dbase *DB) Proxy {
	return Proxy{
		dbase: dbase,
	}
}

// FindByID :
// Fetches the document with the specified identifier in
// the input collection and decodes it into `doc`.
//
// The `ctx` defines the deadline for the operation.
//
// The `collection` defines the collection to search.
//
// The `id` defines the identifier of the document.
//
// The `doc` is the destination of the decoding.
//
// Returns `ErrNoDocument` in case the identifier does
// not exist and any other error as is.
func (p Proxy) FindByID(ctx context.Context, collection string, id string, doc interface{}) error {
	return p.FindOneByFieldMatch(ctx, collection, bson.M{"_id": id}, doc)
}

// FindOneByFieldMatch :
// Fetches the first document matching the input filter
// in the collection and decodes it into `doc`.
//
// The `filter` defines the fields that the document
// should match.
//
// Returns `ErrNoDocument` in case nothing matches.
func (p Proxy) FindOneByFieldMatch(ctx context.Context, collection string, filter bson.M, doc interface{}) error {
	col, err := p.dbase.Collection(collection)
	if err != nil {
		return err
	}

	err = col.FindOne(ctx, filter).Decode(doc)
	if err == mongo.ErrNoDocuments {
		return ErrNoDocument
	}

	return err
}

// FindByFieldMatch :
// Fetches all the documents matching the input filter
// in the collection and decodes them into `docs` which
// should be a pointer to a slice.
//
// Returns any error. An empty result is not an error.
func (p Proxy) FindByFieldMatch(ctx context.Context, collection string, filter bson.M, docs interface{}) error {
	col, err := p.dbase.Collection(collection)
	if err != nil {
		return err
	}

	cursor, err := col.Find(ctx, filter)
	if err != nil {
		return err
	}

	return cursor.All(ctx, docs)
}

// FindAll :
// Fetches all the documents of the collection and
// decodes them into `docs` which should be a pointer
// to a slice.
//
// Returns any error.
func (p Proxy) FindAll(ctx context.Context, collection string, docs interface{}) error {
	return p.FindByFieldMatch(ctx, collection, bson.M{}, docs)
}

// InsertOne :
// Inserts the input document in the collection. The
// document should carry its own `_id` field.
//
// Returns any error.
func (p Proxy) InsertOne(ctx context.Context, collection string, doc interface{}) error {
	col, err := p.dbase.Collection(collection)
	if err != nil {
		return err
	}

	_, err = col.InsertOne(ctx, doc)

	return err
}

// UpdateOne :
// Applies the input patch to the document with the
// specified identifier. The patch only describes the
// fields to modify, the rest of the document is left
// unchanged. The update of a single document is atomic
// which is the only guarantee the game builds upon.
//
// The `id` defines the identifier of the document.
//
// The `patch` defines the fields to set.
//
// Returns `ErrNoDocument` in case the identifier does
// not exist.
func (p Proxy) UpdateOne(ctx context.Context, collection string, id string, patch bson.M) error {
	col, err := p.dbase.Collection(collection)
	if err != nil {
		return err
	}

	res, err := col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": patch})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNoDocument
	}

	return nil
}

// DeleteOne :
// Removes the document with the specified identifier
// from the collection.
//
// Returns `ErrNoDocument` in case the identifier does
// not exist.
func (p Proxy) DeleteOne(ctx context.Context, collection string, id string) error {
	col, err := p.dbase.Collection(collection)
	if err != nil {
		return err
	}

	res, err := col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNoDocument
	}

	return nil
}
