package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	contractx "github.com/tanpawarit/Chative-Music-Store-Support/agent/contract"
)

const (
	profileNamespace = "memory_profile"
	profileKey       = "user_memory"
)

// ProfileStore reads and writes Profiles on top of a KV.
type ProfileStore struct {
	kv KV
}

func NewProfileStore(kv KV) (*ProfileStore, error) {
	if kv == nil {
		return nil, errors.New("memory kv is required")
	}
	return &ProfileStore{kv: kv}, nil
}

func profileNS(customerID int) []string {
	return []string{profileNamespace, contractx.ScopeFor(&customerID).CustomerKey()}
}

// Load returns the stored profile, or nil when none has been saved yet.
func (s *ProfileStore) Load(ctx context.Context, customerID int) (*Profile, error) {
	raw, ok, err := s.kv.Get(ctx, profileNS(customerID), profileKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	var p Profile
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("decode profile customer_id=%d: %w", customerID, err)
	}
	return &p, nil
}

func (s *ProfileStore) Save(ctx context.Context, customerID int, p Profile) error {
	if p.MusicPreferences == nil {
		p.MusicPreferences = []string{}
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	return s.kv.Put(ctx, profileNS(customerID), profileKey, raw)
}
