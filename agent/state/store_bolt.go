package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"
)

var threadsBucket = []byte("threads")

type BoltConfig struct {
	Path    string        `envconfig:"PATH" split_words:"true" default:"data/threads.db"`
	Timeout time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"1s"`
}

// BoltStore keeps checkpoints in a local bbolt file, one JSON value per thread.
type BoltStore struct {
	db *bolt.DB
}

func NewBoltStore(cfg BoltConfig) (*BoltStore, error) {
	path := strings.TrimSpace(cfg.Path)
	if path == "" {
		return nil, errors.New("bolt path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create bolt dir: %w", err)
		}
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = time.Second
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: timeout})
	if err != nil {
		return nil, fmt.Errorf("open bolt db: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(threadsBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create threads bucket: %w", err)
	}
	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

func (s *BoltStore) Load(ctx context.Context, threadID string) (*Conversation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	threadID = strings.TrimSpace(threadID)
	if threadID == "" {
		return nil, ErrInvalidThread
	}

	var raw []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(threadsBucket).Get([]byte(threadID))
		if v == nil {
			return ErrStateNotFound
		}
		// v is only valid inside the transaction.
		raw = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return decodeConversation(raw)
}

func (s *BoltStore) Save(ctx context.Context, c *Conversation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := checkSave(c); err != nil {
		return err
	}
	payload, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal conversation: %w", err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(threadsBucket).Put([]byte(c.ThreadID), payload)
	})
}

func (s *BoltStore) Delete(ctx context.Context, threadID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	threadID = strings.TrimSpace(threadID)
	if threadID == "" {
		return ErrInvalidThread
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(threadsBucket).Delete([]byte(threadID))
	})
}
