package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/owlscrubber/config"
)

func TestParseLocation(t *testing.T) {
	tests := []struct {
		input   string
		want    Location
		wantErr bool
	}{
		{input: "Thesaurus.owl", want: Location{Scheme: SchemeFile, Path: "Thesaurus.owl"}},
		{input: "file:///data/in.owl", want: Location{Scheme: SchemeFile, Path: filepath.FromSlash("/data/in.owl")}},
		{input: "s3://evs/releases/out.owl", want: Location{Scheme: SchemeS3, Bucket: "evs", Key: "releases/out.owl"}},
		{input: "s3://evs", wantErr: true},
		{input: "s3:///key", wantErr: true},
		{input: "http://example.org/x.owl", wantErr: true},
		{input: "  ", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseLocation(tc.input)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestLocationNameAndString(t *testing.T) {
	loc := Location{Scheme: SchemeS3, Bucket: "evs", Key: "a/b/flat.txt"}
	assert.Equal(t, "flat.txt", loc.Name())
	assert.Equal(t, "s3://evs/a/b/flat.txt", loc.String())
	assert.True(t, loc.IsRemote())

	local := Location{Scheme: SchemeFile, Path: filepath.Join("out", "x.ttl")}
	assert.Equal(t, "x.ttl", local.Name())
	assert.False(t, local.IsRemote())
}

type memStore struct {
	objects map[string]string
	putErr  error
}

func (m *memStore) Get(_ context.Context, bucket, key string) (io.ReadCloser, error) {
	v, ok := m.objects[bucket+"/"+key]
	if !ok {
		return nil, ErrNotFound
	}
	return io.NopCloser(strings.NewReader(v)), nil
}

func (m *memStore) Put(_ context.Context, bucket, key, localPath string) error {
	if m.putErr != nil {
		return m.putErr
	}
	data, err := os.ReadFile(localPath)
	if err != nil {
		return err
	}
	if m.objects == nil {
		m.objects = make(map[string]string)
	}
	m.objects[bucket+"/"+key] = string(data)
	return nil
}

func TestLocalOutputRoundTrip(t *testing.T) {
	ctx := context.Background()
	loc := Location{Scheme: SchemeFile, Path: filepath.Join(t.TempDir(), "nested", "out.owl")}

	out, err := Create(loc, nil)
	require.NoError(t, err)
	_, err = io.WriteString(out, "hello")
	require.NoError(t, err)
	require.NoError(t, out.Commit(ctx))
	require.NoError(t, out.Commit(ctx), "second commit is a no-op")

	r, err := Open(ctx, loc, nil)
	require.NoError(t, err)
	defer r.Close()
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestOpenMissingLocalFile(t *testing.T) {
	_, err := Open(context.Background(), Location{Scheme: SchemeFile, Path: filepath.Join(t.TempDir(), "none.owl")}, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRemoteOutputUploadsOnCommit(t *testing.T) {
	ctx := context.Background()
	store := &memStore{}
	loc := Location{Scheme: SchemeS3, Bucket: "evs", Key: "out/flat.txt"}

	out, err := Create(loc, store)
	require.NoError(t, err)
	assert.Equal(t, "s3://evs/out/flat.txt", out.Location().String())
	staged := out.file.Name()
	_, err = io.WriteString(out, "C1\t<x>\n")
	require.NoError(t, err)
	assert.Empty(t, store.objects, "nothing is uploaded before commit")

	require.NoError(t, out.Commit(ctx))
	assert.Equal(t, "C1\t<x>\n", store.objects["evs/out/flat.txt"])
	_, statErr := os.Stat(staged)
	assert.True(t, errors.Is(statErr, os.ErrNotExist), "staged file removed")

	r, err := Open(ctx, loc, store)
	require.NoError(t, err)
	r.Close()
}

func TestRemoteOutputUploadError(t *testing.T) {
	store := &memStore{putErr: errors.New("access denied")}
	out, err := Create(Location{Scheme: SchemeS3, Bucket: "evs", Key: "o.owl"}, store)
	require.NoError(t, err)
	err = out.Commit(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
}

func TestRemoteWithoutStore(t *testing.T) {
	loc := Location{Scheme: SchemeS3, Bucket: "evs", Key: "o.owl"}
	_, err := Create(loc, nil)
	assert.ErrorIs(t, err, ErrNoObjectStore)
	_, err = Open(context.Background(), loc, nil)
	assert.ErrorIs(t, err, ErrNoObjectStore)
}

func TestAbortRemovesStagedFile(t *testing.T) {
	out, err := Create(Location{Scheme: SchemeS3, Bucket: "evs", Key: "o.owl"}, &memStore{})
	require.NoError(t, err)
	staged := out.file.Name()
	require.NoError(t, out.Abort())
	_, statErr := os.Stat(staged)
	assert.True(t, errors.Is(statErr, os.ErrNotExist))
}

func TestNewS3StoreValidation(t *testing.T) {
	_, err := NewS3Store(config.S3Config{})
	assert.Error(t, err)

	_, err = NewS3Store(config.S3Config{Endpoint: "localhost:9000"})
	assert.Error(t, err)

	s, err := NewS3Store(config.S3Config{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "b"})
	require.NoError(t, err)
	assert.Equal(t, "us-east-1", s.region)
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "application/rdf+xml", contentType("x/Thesaurus.owl"))
	assert.Equal(t, "text/turtle", contentType("x.ttl"))
	assert.Equal(t, "text/tab-separated-values", contentType("flat.txt"))
}
