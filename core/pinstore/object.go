package pinstore

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"greenspring/core/reconcile"
	"greenspring/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// ObjectStore keeps both documents as objects in an S3 compatible bucket.
// A PUT replaces an object atomically.
type ObjectStore struct {
	client    storage.Client
	bucket    string
	configKey string
	stateKey  string
	logger    *zap.Logger
}

// NewObjectStore creates a store writing objects under prefix in bucket.
func NewObjectStore(client storage.Client, bucket, prefix, configName, stateName string, logger *zap.Logger) *ObjectStore {
	return &ObjectStore{
		client:    client,
		bucket:    bucket,
		configKey: prefix + configName,
		stateKey:  prefix + stateName,
		logger:    logger,
	}
}

// EnsureBucket creates the bucket when it does not exist yet.
func (s *ObjectStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", s.bucket, err)
	}
	if exists {
		return nil
	}
	s.logger.Info("Creating bucket", zap.String("bucket", s.bucket))
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", s.bucket, err)
	}
	return nil
}

// LoadConfig reads the topology, returning an empty one when missing or invalid.
func (s *ObjectStore) LoadConfig(ctx context.Context) reconcile.PinConfig {
	data, ok := s.get(ctx, s.configKey)
	if !ok {
		return reconcile.EmptyConfig()
	}
	return decodeConfig(s.logger, s.configKey, data)
}

// LoadState reads the state mapping, returning an empty one when missing or invalid.
func (s *ObjectStore) LoadState(ctx context.Context) reconcile.PinState {
	data, ok := s.get(ctx, s.stateKey)
	if !ok {
		return reconcile.PinState{}
	}
	return decodeState(s.logger, s.stateKey, data)
}

// SaveConfig replaces the topology object.
func (s *ObjectStore) SaveConfig(ctx context.Context, cfg reconcile.PinConfig) error {
	data, err := reconcile.EncodeConfig(cfg)
	if err != nil {
		return err
	}
	return s.put(ctx, s.configKey, data)
}

// SaveState replaces the state object.
func (s *ObjectStore) SaveState(ctx context.Context, state reconcile.PinState) error {
	data, err := reconcile.EncodeState(state)
	if err != nil {
		return err
	}
	return s.put(ctx, s.stateKey, data)
}

func (s *ObjectStore) get(ctx context.Context, key string) ([]byte, bool) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err == nil {
		defer obj.Close()
		var data []byte
		if data, err = io.ReadAll(obj); err == nil {
			return data, true
		}
	}

	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		s.logger.Debug("Pin document not found", zap.String("key", key))
	} else {
		s.logger.Warn("Failed to read pin document", zap.String("key", key), zap.Error(err))
	}
	return nil, false
}

func (s *ObjectStore) put(ctx context.Context, key string, data []byte) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return nil
}
