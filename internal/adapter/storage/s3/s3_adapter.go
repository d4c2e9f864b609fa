package s3

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/logger"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// S3Storage keeps product images and avatars in a MinIO/S3 bucket.
// Object URLs have the form <endpoint>/<bucket>/<key>.
type S3Storage struct {
	client  *minio.Client
	bucket  string
	baseURL string
	logger  *logger.Logger
}

func NewS3Storage(ctx context.Context, endpoint, accessKey, secretKey, bucketName string, useSSL bool, log *logger.Logger) (*S3Storage, error) {
	log = log.Named("S3Storage")
	log.Info("Initializing S3 MinIO Storage",
		zap.String("endpoint", endpoint),
		zap.String("bucket", bucketName),
		zap.Bool("use_ssl", useSSL),
	)

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		log.Error("Failed to create MinIO client", zap.String("endpoint", endpoint), zap.Error(err))
		return nil, fmt.Errorf("failed to create minio client for endpoint %s: %w", endpoint, err)
	}

	if err := client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{}); err != nil {
		exists, errBucketExists := client.BucketExists(ctx, bucketName)
		if errBucketExists != nil || !exists {
			log.Error("Failed to make or verify bucket",
				zap.String("bucket", bucketName),
				zap.NamedError("make_bucket_error", err),
				zap.NamedError("check_exists_error", errBucketExists),
			)
			return nil, fmt.Errorf("failed to make/verify bucket %s: (make: %v / exists_check: %v)", bucketName, err, errBucketExists)
		}
		log.Info("Bucket already exists", zap.String("bucket", bucketName))
	}

	return newS3Storage(client, bucketName, log), nil
}

func newS3Storage(client *minio.Client, bucket string, log *logger.Logger) *S3Storage {
	return &S3Storage{
		client:  client,
		bucket:  bucket,
		baseURL: fmt.Sprintf("%s/%s", strings.TrimSuffix(client.EndpointURL().String(), "/"), bucket),
		logger:  log,
	}
}

// Upload stores data under key, replacing any previous object, and returns its URL.
func (s *S3Storage) Upload(ctx context.Context, key string, data []byte) (string, error) {
	info, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: http.DetectContentType(data),
	})
	if err != nil {
		s.logger.Error("PutObject failed", zap.String("bucket", s.bucket), zap.String("key", key), zap.Error(err))
		return "", fmt.Errorf("failed to upload object %s to bucket %s: %w", key, s.bucket, err)
	}

	s.logger.Debug("Object uploaded",
		zap.String("key", info.Key),
		zap.String("etag", info.ETag),
		zap.Int64("size", info.Size),
	)
	return s.urlFor(key), nil
}

func (s *S3Storage) Delete(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		s.logger.Error("RemoveObject failed", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("failed to delete object %s: %w", key, err)
	}
	return nil
}

// DeleteFolder removes every object under prefix.
func (s *S3Storage) DeleteFolder(ctx context.Context, prefix string) error {
	prefix = strings.TrimSuffix(prefix, "/") + "/"

	objects := make(chan minio.ObjectInfo)
	listErr := make(chan error, 1)
	go func() {
		defer close(objects)
		for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
			if obj.Err != nil {
				listErr <- obj.Err
				return
			}
			objects <- obj
		}
	}()

	var failed int
	var firstErr error
	for res := range s.client.RemoveObjects(ctx, s.bucket, objects, minio.RemoveObjectsOptions{}) {
		failed++
		if firstErr == nil {
			firstErr = res.Err
		}
		s.logger.Warn("Failed to remove object", zap.String("key", res.ObjectName), zap.Error(res.Err))
	}

	select {
	case err := <-listErr:
		return fmt.Errorf("failed to list objects under %s: %w", prefix, err)
	default:
	}
	if failed > 0 {
		return fmt.Errorf("failed to remove %d objects under %s: %w", failed, prefix, firstErr)
	}
	return nil
}

// KeyFromURL returns the object key of a URL produced by Upload.
func (s *S3Storage) KeyFromURL(url string) (string, bool) {
	key, ok := strings.CutPrefix(url, s.baseURL+"/")
	if !ok || key == "" {
		return "", false
	}
	return key, true
}

func (s *S3Storage) urlFor(key string) string {
	return s.baseURL + "/" + key
}
