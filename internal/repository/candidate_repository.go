package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"

	"github.com/fadilmartias/candidate-screener/internal/model"
	"github.com/fadilmartias/candidate-screener/internal/util"
)

// ErrConcurrentUpdate is returned when a record keeps changing underneath Update.
var ErrConcurrentUpdate = errors.New("candidate was modified concurrently, giving up")

const maxUpdateAttempts = 3

// CandidateRepository stores candidates as JSON documents in a KVStore and
// exposes the email and access-code lookups as indexed operations. Stores
// implementing FieldFinder answer them directly; others fall back to a
// prefix scan.
type CandidateRepository struct {
	store KVStore
}

func NewCandidateRepository(store KVStore) *CandidateRepository {
	return &CandidateRepository{store}
}

// Save writes c under c.Key, replacing whatever was there.
func (r *CandidateRepository) Save(ctx context.Context, c *model.Candidate) error {
	value, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode candidate %q: %w", c.Key, err)
	}
	return r.store.Set(ctx, c.Key, value)
}

// Get returns the candidate and its store version, or nil when the key is absent.
func (r *CandidateRepository) Get(ctx context.Context, key string) (*model.Candidate, int64, error) {
	entry, err := r.store.Get(ctx, key)
	if err != nil || entry == nil {
		return nil, 0, err
	}
	c, ok := decodeCandidate(*entry)
	if !ok {
		return nil, 0, fmt.Errorf("candidate %q is malformed", key)
	}
	return c, entry.Version, nil
}

// List returns every well-formed candidate, newest submission first.
func (r *CandidateRepository) List(ctx context.Context) ([]model.Candidate, error) {
	entries, err := r.store.GetByPrefix(ctx, model.CandidateKeyPrefix)
	if err != nil {
		return nil, err
	}
	return decodeSorted(entries), nil
}

// FindByEmail returns the newest candidate with the given email, or nil.
func (r *CandidateRepository) FindByEmail(ctx context.Context, email string) (*model.Candidate, int64, error) {
	return r.findBy(ctx, "candidateEmail", email)
}

// FindByAccessCode returns the candidate holding code, or nil. code must already be normalized.
func (r *CandidateRepository) FindByAccessCode(ctx context.Context, code string) (*model.Candidate, int64, error) {
	return r.findBy(ctx, "accessCode", code)
}

func (r *CandidateRepository) findBy(ctx context.Context, field, value string) (*model.Candidate, int64, error) {
	var (
		entries []model.KVEntry
		err     error
	)
	if finder, ok := r.store.(FieldFinder); ok {
		entries, err = finder.FindByField(ctx, model.CandidateKeyPrefix, field, value)
	} else {
		entries, err = r.store.GetByPrefix(ctx, model.CandidateKeyPrefix)
	}
	if err != nil {
		return nil, 0, err
	}

	versions := make(map[string]int64, len(entries))
	for _, e := range entries {
		versions[e.Key] = e.Version
	}
	for _, c := range decodeSorted(entries) {
		if fieldValue(&c, field) == value {
			found := c
			return &found, versions[c.Key], nil
		}
	}
	return nil, 0, nil
}

// Update applies fn to the current record at key and writes it back with a
// compare-and-swap, re-reading and re-applying fn when another writer got in
// first. An error from fn aborts without writing.
func (r *CandidateRepository) Update(ctx context.Context, key string, fn func(*model.Candidate) error) (*model.Candidate, error) {
	for attempt := 1; attempt <= maxUpdateAttempts; attempt++ {
		c, version, err := r.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		if c == nil {
			return nil, &util.NotFoundError{Resource: "candidate", Key: key}
		}
		if err := fn(c); err != nil {
			return nil, err
		}
		c.Key = key

		value, err := json.Marshal(c)
		if err != nil {
			return nil, fmt.Errorf("encode candidate %q: %w", key, err)
		}
		ok, err := r.store.CompareAndSwap(ctx, key, version, value)
		if err != nil {
			return nil, err
		}
		if ok {
			return c, nil
		}
		log.Printf("Candidate %s changed during update, retrying (%d/%d)", key, attempt, maxUpdateAttempts)
	}
	return nil, ErrConcurrentUpdate
}

func decodeCandidate(entry model.KVEntry) (*model.Candidate, bool) {
	if entry.Key == "" || len(entry.Value) == 0 {
		return nil, false
	}
	var c *model.Candidate
	if err := json.Unmarshal(entry.Value, &c); err != nil || c == nil {
		return nil, false
	}
	c.Key = entry.Key
	return c, true
}

func decodeSorted(entries []model.KVEntry) []model.Candidate {
	candidates := make([]model.Candidate, 0, len(entries))
	for _, e := range entries {
		c, ok := decodeCandidate(e)
		if !ok {
			log.Printf("Skipping malformed candidate entry %q", e.Key)
			continue
		}
		candidates = append(candidates, *c)
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return model.KeyTimestamp(candidates[i].Key) > model.KeyTimestamp(candidates[j].Key)
	})
	return candidates
}

func fieldValue(c *model.Candidate, field string) string {
	switch field {
	case "candidateEmail":
		return c.CandidateEmail
	case "accessCode":
		return c.AccessCode
	}
	return ""
}
