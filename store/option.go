package store

import (
	"log/slog"

	"github.com/viant/afs"
)

// Format identifies the snapshot encoding
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
)

type Option func(*Store)

// WithFormat sets the encoding used by Save and expected by Load, JSON by default
func WithFormat(format Format) Option {
	return func(s *Store) {
		s.format = format
	}
}

// WithFS sets the storage service
func WithFS(fs afs.Service) Option {
	return func(s *Store) {
		s.fs = fs
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}
