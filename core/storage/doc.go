// Package storage provides an abstraction layer for S3 compatible object storage.
//
// It wraps the MinIO Go client behind the small Client interface the object document
// store needs: checking and creating the bucket, and reading and writing whole objects.
// This supports both AWS S3 and self-hosted MinIO instances, and lets tests use the
// testify mock in core/storage/mocks.
//
// # Usage
//
//	client, err := storage.NewClient(config)
//	exists, err := client.BucketExists(ctx, "greenspring")
package storage
