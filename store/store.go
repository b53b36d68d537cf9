// Package store persists field lineage snapshots under any afs supported location (file://, mem://, s3://, gs://).
// Each snapshot is stored once under its checksum.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/url"
	"github.com/viant/fieldlineage/info"
	"github.com/viant/fieldlineage/linage"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

// FormatVersion is the version of the snapshot layout written by Save.
// Snapshots with a different major version cannot be loaded.
const FormatVersion = "v1.0.0"

const graphsFolder = "graphs"

var (
	ErrSnapshotNotFound    = errors.New("snapshot not found")
	ErrIncompatibleVersion = errors.New("incompatible snapshot version")
	ErrUnsupportedFormat   = errors.New("unsupported snapshot format")
)

// snapshot is the persisted form of a field lineage
type snapshot struct {
	Version    string          `json:"version" yaml:"version"`
	Checksum   int64           `json:"checksum" yaml:"checksum"`
	Operations []linage.Record `json:"operations" yaml:"operations"`
}

// Store saves and loads field lineage snapshots keyed by checksum
type Store struct {
	baseURL string
	format  Format
	fs      afs.Service
	logger  *slog.Logger
}

// New creates a store rooted at baseURL
func New(baseURL string, opts ...Option) *Store {
	s := &Store{baseURL: baseURL, format: JSON}
	for _, opt := range opts {
		opt(s)
	}
	if s.fs == nil {
		s.fs = afs.New()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// URL returns the location of the snapshot with the given checksum
func (s *Store) URL(checksum int64) string {
	return url.Join(s.baseURL, fmt.Sprintf("%016x.%s", uint64(checksum), s.format))
}

// Save writes the snapshot and returns its location; saving an already stored checksum is a no-op
func (s *Store) Save(ctx context.Context, lineage *info.FieldLineage) (string, error) {
	if lineage == nil {
		return "", errors.New("field lineage was nil")
	}
	URL := s.URL(lineage.Checksum())
	exists, err := s.fs.Exists(ctx, URL)
	if err != nil {
		return "", fmt.Errorf("failed to check snapshot %v: %w", URL, err)
	}
	if exists {
		s.logger.Debug("snapshot already stored", "url", URL)
		return URL, nil
	}
	data, err := s.encode(&snapshot{
		Version:    FormatVersion,
		Checksum:   lineage.Checksum(),
		Operations: linage.ToRecords(lineage.Operations()),
	})
	if err != nil {
		return "", err
	}
	if err = s.fs.Upload(ctx, URL, os.FileMode(0644), bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("failed to upload snapshot %v: %w", URL, err)
	}
	s.logger.Debug("saved snapshot", "url", URL, "operations", len(lineage.Operations()))
	return URL, nil
}

// Load reads the snapshot with the given checksum, re-validates its operations and verifies the checksum
func (s *Store) Load(ctx context.Context, checksum int64, opts ...info.Option) (*info.FieldLineage, error) {
	URL := s.URL(checksum)
	exists, err := s.fs.Exists(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to check snapshot %v: %w", URL, err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: %v", ErrSnapshotNotFound, URL)
	}
	data, err := s.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to download snapshot %v: %w", URL, err)
	}
	snap := &snapshot{}
	if err = s.decode(data, snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %v: %w", URL, err)
	}
	if !semver.IsValid(snap.Version) || semver.Major(snap.Version) != semver.Major(FormatVersion) {
		s.logger.Warn("incompatible snapshot version", "url", URL, "version", snap.Version, "supported", FormatVersion)
		return nil, fmt.Errorf("%w: %q, expected %v", ErrIncompatibleVersion, snap.Version, semver.Major(FormatVersion))
	}
	ops, err := linage.FromRecords(snap.Operations)
	if err != nil {
		return nil, err
	}
	result, err := info.New(ops, opts...)
	if err != nil {
		return nil, err
	}
	if result.Checksum() != snap.Checksum || result.Checksum() != checksum {
		return nil, fmt.Errorf("%w: snapshot %v declares %d, computed %d", info.ErrChecksumMismatch, URL, snap.Checksum, result.Checksum())
	}
	s.logger.Debug("loaded snapshot", "url", URL)
	return result, nil
}

// Exists reports whether a snapshot with the given checksum is stored
func (s *Store) Exists(ctx context.Context, checksum int64) (bool, error) {
	return s.fs.Exists(ctx, s.URL(checksum))
}

// Delete removes the snapshot with the given checksum
func (s *Store) Delete(ctx context.Context, checksum int64) error {
	URL := s.URL(checksum)
	exists, err := s.fs.Exists(ctx, URL)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %v", ErrSnapshotNotFound, URL)
	}
	if err = s.fs.Delete(ctx, URL); err != nil {
		return err
	}
	s.logger.Debug("deleted snapshot", "url", URL)
	return nil
}

// List returns the checksums of stored snapshots in the store format, sorted
func (s *Store) List(ctx context.Context) ([]int64, error) {
	exists, err := s.fs.Exists(ctx, s.baseURL)
	if err != nil || !exists {
		return []int64{}, err
	}
	objects, err := s.fs.List(ctx, s.baseURL)
	if err != nil {
		return nil, err
	}
	suffix := "." + string(s.format)
	result := make([]int64, 0, len(objects))
	for _, object := range objects {
		if object.IsDir() || !strings.HasSuffix(object.Name(), suffix) {
			continue
		}
		value, err := strconv.ParseUint(strings.TrimSuffix(object.Name(), suffix), 16, 64)
		if err != nil {
			continue
		}
		result = append(result, int64(value))
	}
	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result, nil
}

// Export writes graph under the graphs folder of the store, encoded in the store format
func (s *Store) Export(ctx context.Context, graph *info.Graph) error {
	URL := url.Join(s.baseURL, graphsFolder, fmt.Sprintf("%016x.%s", uint64(graph.Checksum), s.format))
	data, err := s.encode(graph)
	if err != nil {
		return err
	}
	if err = s.fs.Upload(ctx, URL, os.FileMode(0644), bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to upload graph %v: %w", URL, err)
	}
	s.logger.Debug("exported graph", "url", URL, "nodes", len(graph.Nodes), "edges", len(graph.Edges))
	return nil
}

func (s *Store) encode(value any) ([]byte, error) {
	switch s.format {
	case JSON:
		return json.MarshalIndent(value, "", "  ")
	case YAML:
		return yaml.Marshal(value)
	}
	return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, s.format)
}

func (s *Store) decode(data []byte, snap *snapshot) error {
	switch s.format {
	case JSON:
		return json.Unmarshal(data, snap)
	case YAML:
		return yaml.Unmarshal(data, snap)
	}
	return fmt.Errorf("%w: %v", ErrUnsupportedFormat, s.format)
}
