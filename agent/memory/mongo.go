package memory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	contractx "github.com/tanpawarit/Chative-Music-Store-Support/agent/contract"
)

type MongoConfig struct {
	URI        string `envconfig:"URI" split_words:"true"`
	Database   string `envconfig:"DATABASE" split_words:"true" default:"music_store"`
	Collection string `envconfig:"COLLECTION" split_words:"true" default:"store_kv"`
}

const mongoCloseTimeout = 5 * time.Second

type kvDocument struct {
	Namespace string    `bson:"namespace"`
	Key       string    `bson:"key"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// MongoKV stores one document per (namespace, key).
type MongoKV struct {
	client     *mongo.Client
	collection *mongo.Collection
}

func NewMongoKV(ctx context.Context, cfg MongoConfig) (*MongoKV, error) {
	if strings.TrimSpace(cfg.URI) == "" {
		return nil, errors.New("mongo uri is required")
	}
	if cfg.Database == "" || cfg.Collection == "" {
		return nil, errors.New("mongo database and collection are required")
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("%w: connect mongo: %v", contractx.ErrStoreUnavailable, err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("%w: ping mongo: %v", contractx.ErrStoreUnavailable, err)
	}
	coll := client.Database(cfg.Database).Collection(cfg.Collection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "namespace", Value: 1}, {Key: "key", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("%w: create mongo index: %v", contractx.ErrStoreUnavailable, err)
	}
	return &MongoKV{client: client, collection: coll}, nil
}

func (m *MongoKV) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), mongoCloseTimeout)
	defer cancel()
	return m.client.Disconnect(ctx)
}

func (m *MongoKV) Get(ctx context.Context, namespace []string, key string) ([]byte, bool, error) {
	var doc kvDocument
	err := m.collection.FindOne(ctx, bson.M{"namespace": joinNamespace(namespace), "key": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: read mongo kv: %v", contractx.ErrStoreUnavailable, err)
	}
	return []byte(doc.Value), true, nil
}

func (m *MongoKV) Put(ctx context.Context, namespace []string, key string, value []byte) error {
	ns := joinNamespace(namespace)
	_, err := m.collection.UpdateOne(ctx,
		bson.M{"namespace": ns, "key": key},
		bson.M{"$set": kvDocument{Namespace: ns, Key: key, Value: string(value), UpdatedAt: time.Now().UTC()}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("%w: write mongo kv: %v", contractx.ErrStoreUnavailable, err)
	}
	return nil
}
