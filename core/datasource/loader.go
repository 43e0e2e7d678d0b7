package datasource

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gyrinx-content/core/storage"

	"github.com/minio/minio-go/v7"
	"golang.org/x/sync/errgroup"
)

// parseWorkers bounds the number of files parsed at once.
const parseWorkers = 8

// IsDataFile reports whether a path names a YAML data file.
func IsDataFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}

// LoadDir walks dir recursively and parses every YAML file it finds.
// A missing directory yields an empty Set with a warning.
func LoadDir(ctx context.Context, dir string) (*Set, error) {
	info, err := os.Stat(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return &Set{Warnings: []string{fmt.Sprintf("directory %s does not exist, no content loaded", dir)}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	var files []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && IsDataFile(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", dir, err)
	}

	return parseAll(ctx, files, os.ReadFile)
}

// LoadBucket parses every YAML object stored under prefix, in key order.
func LoadBucket(ctx context.Context, client storage.Client, bucket, prefix string) (*Set, error) {
	var keys []string
	for obj := range client.ListObjects(ctx, bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list objects under %s: %w", prefix, obj.Err)
		}
		if IsDataFile(obj.Key) {
			keys = append(keys, obj.Key)
		}
	}
	if len(keys) == 0 {
		return &Set{Warnings: []string{fmt.Sprintf("no content found under %s/%s", bucket, prefix)}}, nil
	}
	sort.Strings(keys)

	return parseAll(ctx, keys, func(key string) ([]byte, error) {
		return storage.ReadObject(ctx, client, bucket, key)
	})
}

type parsed struct {
	sources []DataSource
	err     error
}

// parseAll reads and parses files concurrently and assembles the results in input order.
func parseAll(ctx context.Context, names []string, read func(string) ([]byte, error)) (*Set, error) {
	results := make([]parsed, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parseWorkers)
	for i, name := range names {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := read(name)
			if err != nil {
				results[i] = parsed{err: err}
				return nil
			}
			sources, err := Parse(name, data)
			results[i] = parsed{sources: sources, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	set := &Set{}
	for i, res := range results {
		if res.err != nil {
			set.Failures = append(set.Failures, FileError{Path: names[i], Err: res.err})
			continue
		}
		set.Sources = append(set.Sources, res.sources...)
	}
	return set, nil
}
