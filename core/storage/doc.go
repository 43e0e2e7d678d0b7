// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client to provide a simplified interface for the operations
// the importer needs: checking the bucket, listing ruleset YAML under a prefix,
// downloading it, and publishing import reports. This abstraction supports both AWS S3 and self-hosted
// MinIO instances.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making it easier
// to mock storage interactions for unit testing (see core/storage/mocks).
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	data, err := storage.ReadObject(ctx, client, cfg.Storage.Bucket, "rulesets/necromunda/data/houses.yaml")
package storage
