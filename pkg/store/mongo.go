package store

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/example/jewelrystore/pkg/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoStore struct {
	client   *mongo.Client
	database *mongo.Database
	config   *config.MongoConfig
}

func NewMongoStore(cfg *config.MongoConfig) (*MongoStore, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, err
	}

	return &MongoStore{
		client:   client,
		database: client.Database(cfg.Database),
		config:   cfg,
	}, nil
}

func (m *MongoStore) Insert(ctx context.Context, collection string, doc Document) (string, error) {
	res, err := m.database.Collection(collection).InsertOne(ctx, bson.M(doc))
	if err != nil {
		return "", err
	}

	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		return oid.Hex(), nil
	}
	return fmt.Sprintf("%v", res.InsertedID), nil
}

func (m *MongoStore) Find(ctx context.Context, collection string, q Query) ([]Document, error) {
	opts := options.Find().SetLimit(q.limit())

	cursor, err := m.database.Collection(collection).Find(ctx, mongoFilter(q), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []Document
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	for _, doc := range docs {
		for k, v := range doc {
			doc[k] = plainValue(v)
		}
	}
	return docs, nil
}

// plainValue rewrites driver-specific container types into plain maps
// and slices so Document consumers never see bson internals.
func plainValue(v interface{}) interface{} {
	switch t := v.(type) {
	case primitive.A:
		out := make([]interface{}, len(t))
		for i, e := range t {
			out[i] = plainValue(e)
		}
		return out
	case primitive.D:
		out := make(map[string]interface{}, len(t))
		for _, e := range t {
			out[e.Key] = plainValue(e.Value)
		}
		return out
	case primitive.M:
		out := make(map[string]interface{}, len(t))
		for k, e := range t {
			out[k] = plainValue(e)
		}
		return out
	case primitive.ObjectID:
		return t.Hex()
	default:
		return v
	}
}

// mongoFilter translates a Query into a MongoDB filter document. The
// substring search becomes an unanchored case-insensitive regex with the
// needle quoted, so metacharacters in user input match literally.
func mongoFilter(q Query) bson.M {
	filter := bson.M{}
	for field, value := range q.Equals {
		filter[field] = value
	}

	if q.Search != "" && len(q.SearchFields) > 0 {
		pattern := regexp.QuoteMeta(q.Search)
		or := make(bson.A, 0, len(q.SearchFields))
		for _, field := range q.SearchFields {
			or = append(or, bson.M{field: bson.M{"$regex": pattern, "$options": "i"}})
		}
		filter["$or"] = or
	}

	return filter
}

func (m *MongoStore) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, nil)
}

func (m *MongoStore) Collections(ctx context.Context) ([]string, error) {
	return m.database.ListCollectionNames(ctx, bson.M{})
}

func (m *MongoStore) Name() string {
	return m.database.Name()
}

func (m *MongoStore) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
