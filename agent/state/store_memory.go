package state

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

// MemoryStore is a process-local Store. Values are stored encoded so callers
// never share a Conversation with the store.
type MemoryStore struct {
	mu      sync.RWMutex
	threads map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{threads: make(map[string][]byte)}
}

func (s *MemoryStore) Load(_ context.Context, threadID string) (*Conversation, error) {
	threadID = strings.TrimSpace(threadID)
	if threadID == "" {
		return nil, ErrInvalidThread
	}
	s.mu.RLock()
	raw, ok := s.threads[threadID]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrStateNotFound
	}
	return decodeConversation(raw)
}

func (s *MemoryStore) Save(_ context.Context, c *Conversation) error {
	if err := checkSave(c); err != nil {
		return err
	}
	raw, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal conversation: %w", err)
	}
	s.mu.Lock()
	s.threads[c.ThreadID] = raw
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, threadID string) error {
	threadID = strings.TrimSpace(threadID)
	if threadID == "" {
		return ErrInvalidThread
	}
	s.mu.Lock()
	delete(s.threads, threadID)
	s.mu.Unlock()
	return nil
}
