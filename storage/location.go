// Package storage resolves input and output locations: local paths,
// file:// URIs, and s3://bucket/key objects on an S3-compatible store.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Scheme identifies where a location lives.
type Scheme string

const (
	SchemeFile Scheme = "file"
	SchemeS3   Scheme = "s3"
)

// Location is a parsed input or output location.
type Location struct {
	Scheme Scheme
	// Path is the local file path for SchemeFile.
	Path string
	// Bucket and Key address the object for SchemeS3.
	Bucket string
	Key    string
}

// ParseLocation parses a local path, a file:// URI, or an s3://bucket/key
// URI.
func ParseLocation(s string) (Location, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Location{}, fmt.Errorf("empty location")
	}

	switch {
	case strings.HasPrefix(s, "s3://"):
		bucket, key, ok := strings.Cut(strings.TrimPrefix(s, "s3://"), "/")
		key = strings.TrimLeft(key, "/")
		if !ok || bucket == "" || key == "" {
			return Location{}, fmt.Errorf("invalid s3 location %q: want s3://bucket/key", s)
		}
		return Location{Scheme: SchemeS3, Bucket: bucket, Key: key}, nil
	case strings.HasPrefix(s, "file://"):
		p := strings.TrimPrefix(s, "file://")
		if p == "" {
			return Location{}, fmt.Errorf("invalid file location %q", s)
		}
		return Location{Scheme: SchemeFile, Path: filepath.FromSlash(p)}, nil
	case strings.Contains(s, "://"):
		scheme, _, _ := strings.Cut(s, "://")
		return Location{}, fmt.Errorf("unsupported location scheme %q", scheme)
	default:
		return Location{Scheme: SchemeFile, Path: s}, nil
	}
}

// String returns the location in the form ParseLocation accepts.
func (l Location) String() string {
	if l.Scheme == SchemeS3 {
		return "s3://" + l.Bucket + "/" + l.Key
	}
	return l.Path
}

// IsRemote reports whether the location lives on the object store.
func (l Location) IsRemote() bool {
	return l.Scheme == SchemeS3
}

// Name returns the base name of the location, used to pick a format from
// the extension.
func (l Location) Name() string {
	if l.IsRemote() {
		return l.Key[strings.LastIndexByte(l.Key, '/')+1:]
	}
	return filepath.Base(l.Path)
}

// Open opens the location for reading. store may be nil for local
// locations.
func Open(ctx context.Context, loc Location, store ObjectStore) (io.ReadCloser, error) {
	if !loc.IsRemote() {
		f, err := os.Open(loc.Path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("open %s: %w", loc, ErrNotFound)
			}
			return nil, fmt.Errorf("open %s: %w", loc, err)
		}
		return f, nil
	}
	if store == nil {
		return nil, fmt.Errorf("open %s: %w", loc, ErrNoObjectStore)
	}
	return store.Get(ctx, loc.Bucket, loc.Key)
}

// Output is a writable destination. Local outputs are written in place;
// remote outputs are staged in a temporary file and uploaded on Commit.
type Output struct {
	loc   Location
	store ObjectStore
	file  *os.File
	done  bool
}

// Create opens loc for writing, creating parent directories of local
// paths.
func Create(loc Location, store ObjectStore) (*Output, error) {
	if loc.IsRemote() {
		if store == nil {
			return nil, fmt.Errorf("create %s: %w", loc, ErrNoObjectStore)
		}
		f, err := os.CreateTemp("", "owlscrubber-*-"+loc.Name())
		if err != nil {
			return nil, fmt.Errorf("stage %s: %w", loc, err)
		}
		return &Output{loc: loc, store: store, file: f}, nil
	}

	if dir := filepath.Dir(loc.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	f, err := os.Create(loc.Path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", loc, err)
	}
	return &Output{loc: loc, file: f}, nil
}

// Location returns the destination.
func (o *Output) Location() Location {
	return o.loc
}

// Write implements io.Writer.
func (o *Output) Write(p []byte) (int, error) {
	return o.file.Write(p)
}

// Commit closes the output and, for remote locations, uploads the staged
// file and removes it.
func (o *Output) Commit(ctx context.Context) error {
	if o.done {
		return nil
	}
	o.done = true
	if err := o.file.Close(); err != nil {
		return fmt.Errorf("close %s: %w", o.loc, err)
	}
	if !o.loc.IsRemote() {
		return nil
	}
	defer os.Remove(o.file.Name())
	if err := o.store.Put(ctx, o.loc.Bucket, o.loc.Key, o.file.Name()); err != nil {
		return fmt.Errorf("upload %s: %w", o.loc, err)
	}
	return nil
}

// Abort closes the output without publishing it. Staged files are removed;
// a partially written local file is left in place.
func (o *Output) Abort() error {
	if o.done {
		return nil
	}
	o.done = true
	err := o.file.Close()
	if o.loc.IsRemote() {
		os.Remove(o.file.Name())
	}
	return err
}
