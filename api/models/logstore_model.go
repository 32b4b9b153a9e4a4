package models

import (
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/frvega/conversor-go/tool"
	"github.com/frvega/conversor-go/types"
)

// LogStore keeps the per-conversion summary records served by /api/logs.
// Records live in memory and, when a path is configured, survive restarts in
// a YAML file.
type LogStore struct {
	mu      sync.RWMutex
	path    string
	records []types.LogRecord
}

// NewLogStore creates a store. An empty path keeps records in memory only.
func NewLogStore(path string) *LogStore {
	s := &LogStore{path: path}
	if path != "" {
		if err := s.load(); err != nil {
			tool.DefaultLogger.Warnf("Failed to load log records: %v", err)
		}
	}
	return s
}

func (s *LogStore) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read log file: %v", err)
	}
	var records []types.LogRecord
	if err := yaml.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("failed to parse log file: %v", err)
	}
	s.records = records
	return nil
}

// Append adds one record and persists when a file is configured.
func (s *LogStore) Append(record types.LogRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record)
	if s.path == "" {
		return
	}
	data, err := yaml.Marshal(s.records)
	if err != nil {
		tool.DefaultLogger.Warnf("Failed to encode log records: %v", err)
		return
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		tool.DefaultLogger.Warnf("Failed to persist log records: %v", err)
	}
}

// List returns all records, newest first.
func (s *LogStore) List() []types.LogRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.LogRecord, len(s.records))
	for i, r := range s.records {
		out[len(s.records)-1-i] = r
	}
	return out
}
