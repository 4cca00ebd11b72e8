package config

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"arbor.dev/arbor/internal/git"
)

// Store is a persisted string key/value store. Implementations must make
// writes synchronously durable; Unset on an absent key is a no-op.
type Store interface {
	// Get returns the value for key and whether it is present
	Get(key string) (string, bool)
	// Set writes key to value
	Set(key, value string) error
	// Unset removes key; removing an absent key is not an error
	Unset(key string) error
	// ListMatching returns all entries whose key starts with prefix
	ListMatching(prefix string) (map[string]string, error)
}

// gitConfigStore persists keys in the repository's local git config
type gitConfigStore struct {
	run *git.CommandRunner
}

// NewGitConfigStore returns a Store backed by the local git config of the
// repository at workingDir.
func NewGitConfigStore(workingDir string) Store {
	return &gitConfigStore{run: git.NewCommandRunner(workingDir)}
}

func (s *gitConfigStore) Get(key string) (string, bool) {
	// --null keeps multi-line values intact; output is value + NUL
	output, err := s.run.RunRaw(context.Background(), "config", "--local", "--null", "--get", key)
	if err != nil {
		return "", false
	}
	return strings.TrimSuffix(output, "\x00"), true
}

func (s *gitConfigStore) Set(key, value string) error {
	_, err := s.run.Run(context.Background(), "config", "--local", key, value)
	if err != nil {
		return fmt.Errorf("failed to write config key %s: %w", key, err)
	}
	return nil
}

func (s *gitConfigStore) Unset(key string) error {
	_, err := s.run.Run(context.Background(), "config", "--local", "--unset", key)
	if err != nil {
		// Exit code 5 means the key was not set
		if git.ExitCode(err) == 5 {
			return nil
		}
		return fmt.Errorf("failed to unset config key %s: %w", key, err)
	}
	return nil
}

func (s *gitConfigStore) ListMatching(prefix string) (map[string]string, error) {
	// --null separates entries with NUL and key from value with a newline
	output, err := s.run.RunRaw(context.Background(), "config", "--local", "--null", "--get-regexp", "^"+strings.ReplaceAll(prefix, ".", `\.`))
	if err != nil {
		// Exit code 1 means no keys matched
		if git.ExitCode(err) == 1 {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("failed to list config keys %s*: %w", prefix, err)
	}

	result := make(map[string]string)
	for _, entry := range strings.Split(output, "\x00") {
		if entry == "" {
			continue
		}
		key, value, found := strings.Cut(entry, "\n")
		if !found {
			// A key present without a value
			result[entry] = ""
			continue
		}
		result[key] = value
	}
	return result, nil
}

// MemoryStore is an in-memory Store for tests and dry runs
type MemoryStore struct {
	mu   sync.Mutex
	data map[string]string
}

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

// Get returns the value for key and whether it is present
func (s *MemoryStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.data[key]
	return value, ok
}

// Set writes key to value
func (s *MemoryStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

// Unset removes key
func (s *MemoryStore) Unset(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// ListMatching returns all entries whose key starts with prefix
func (s *MemoryStore) ListMatching(prefix string) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make(map[string]string)
	for key, value := range s.data {
		if strings.HasPrefix(key, prefix) {
			result[key] = value
		}
	}
	return result, nil
}

// Keys returns all keys in the store, sorted. Test helper.
func (s *MemoryStore) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.data))
	for key := range s.data {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
