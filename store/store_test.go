package store

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
	"github.com/viant/fieldlineage/info"
	"github.com/viant/fieldlineage/linage"
)

func newLineage(t *testing.T, field string) *info.FieldLineage {
	t.Helper()
	lineage, err := info.New([]linage.Operation{
		linage.NewRead("read", "", linage.NewEndPoint("ns", "src"), field),
		linage.NewWrite("write", "", linage.NewEndPoint("ns", "dst"), linage.NewInputField("read", field)),
	})
	require.NoError(t, err)
	return lineage
}

func TestStore_SaveLoad(t *testing.T) {
	tests := []struct {
		description string
		baseURL     string
		format      Format
	}{
		{description: "json", baseURL: "mem://localhost/lineage/json", format: JSON},
		{description: "yaml", baseURL: "mem://localhost/lineage/yaml", format: YAML},
	}
	ctx := context.Background()
	for _, tc := range tests {
		t.Run(tc.description, func(t *testing.T) {
			store := New(tc.baseURL, WithFormat(tc.format))
			expected := newLineage(t, "id")

			URL, err := store.Save(ctx, expected)
			require.NoError(t, err)
			assert.Equal(t, store.URL(expected.Checksum()), URL)

			again, err := store.Save(ctx, expected)
			require.NoError(t, err)
			assert.Equal(t, URL, again)

			exists, err := store.Exists(ctx, expected.Checksum())
			require.NoError(t, err)
			assert.True(t, exists)

			actual, err := store.Load(ctx, expected.Checksum())
			require.NoError(t, err)
			assert.True(t, expected.Equal(actual))
			assert.Equal(t, expected.IncomingSummary(), actual.IncomingSummary())
		})
	}
}

func TestStore_List(t *testing.T) {
	ctx := context.Background()
	store := New("mem://localhost/lineage/list")

	empty, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	first := newLineage(t, "a")
	second := newLineage(t, "b")
	for _, lineage := range []*info.FieldLineage{first, second} {
		_, err := store.Save(ctx, lineage)
		require.NoError(t, err)
	}
	actual, err := store.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{first.Checksum(), second.Checksum()}, actual)
	assert.IsIncreasing(t, actual)

	require.NoError(t, store.Delete(ctx, first.Checksum()))
	actual, err = store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{second.Checksum()}, actual)

	assert.ErrorIs(t, store.Delete(ctx, first.Checksum()), ErrSnapshotNotFound)
}

func TestStore_LoadErrors(t *testing.T) {
	ctx := context.Background()
	fs := afs.New()
	baseURL := "mem://localhost/lineage/errors"
	store := New(baseURL, WithFS(fs))
	lineage := newLineage(t, "id")
	other := newLineage(t, "name")

	upload := func(checksum int64, content string) {
		require.NoError(t, fs.Upload(ctx, store.URL(checksum), os.FileMode(0644), bytes.NewReader([]byte(content))))
	}

	_, err := store.Load(ctx, lineage.Checksum())
	assert.ErrorIs(t, err, ErrSnapshotNotFound)

	upload(lineage.Checksum(), `{"version":"v2.0.0","checksum":0,"operations":[]}`)
	_, err = store.Load(ctx, lineage.Checksum())
	assert.ErrorIs(t, err, ErrIncompatibleVersion)

	upload(lineage.Checksum(), `{"version":"v1.1.0","checksum":0,"operations":[]}`)
	_, err = store.Load(ctx, lineage.Checksum())
	assert.ErrorIs(t, err, info.ErrEmptyReadSet)

	require.NoError(t, fs.Delete(ctx, store.URL(lineage.Checksum())))
	_, err = New(baseURL, WithFS(fs)).Save(ctx, other)
	require.NoError(t, err)
	data, err := fs.DownloadWithURL(ctx, store.URL(other.Checksum()))
	require.NoError(t, err)
	upload(lineage.Checksum(), string(data))
	_, err = store.Load(ctx, lineage.Checksum())
	assert.ErrorIs(t, err, info.ErrChecksumMismatch)

	_, err = New(baseURL, WithFormat("xml")).Save(ctx, lineage)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestStore_Export(t *testing.T) {
	ctx := context.Background()
	fs := afs.New()
	store := New("mem://localhost/lineage/export", WithFS(fs), WithFormat(YAML))
	lineage := newLineage(t, "id")

	require.NoError(t, lineage.Export(ctx, store))
	data, err := fs.DownloadWithURL(ctx, "mem://localhost/lineage/export/graphs/"+fmt.Sprintf("%016x.yaml", uint64(lineage.Checksum())))
	require.NoError(t, err)
	assert.Contains(t, string(data), "ns:src")

	actual, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, actual)
}
