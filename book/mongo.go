package book

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Document is one position of a book stored in MongoDB.
type Document struct {
	Key   string         `bson:"key"`
	Moves map[string]int `bson:"moves"`
}

// MongoSource loads a book from a collection of Documents.
type MongoSource struct {
	Collection *mongo.Collection
}

// ConnectMongo opens a client and returns a source on db.collection.
func ConnectMongo(ctx context.Context, uri, db, collection string) (*MongoSource, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return &MongoSource{Collection: client.Database(db).Collection(collection)}, nil
}

func (s *MongoSource) Load(ctx context.Context) (*Book, error) {
	cur, err := s.Collection.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("mongo book: %w", err)
	}
	var docs []Document
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo book: %w", err)
	}
	return FromDocuments(docs)
}

// FromDocuments builds a book from decoded documents. A key listed twice is a
// schema violation.
func FromDocuments(docs []Document) (*Book, error) {
	raw := make(map[string]map[string]int, len(docs))
	for _, d := range docs {
		if _, dup := raw[d.Key]; dup {
			return nil, fmt.Errorf("%w: key %q listed twice", ErrSchema, d.Key)
		}
		raw[d.Key] = d.Moves
	}
	return New(raw)
}

func (s *MongoSource) Close(ctx context.Context) error {
	return s.Collection.Database().Client().Disconnect(ctx)
}
