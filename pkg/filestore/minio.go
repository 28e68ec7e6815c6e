package filestore

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/hikuken/submission-project/pkg/collection/types"
)

const (
	defaultUploadExpiry   = 15 * time.Minute
	defaultDownloadExpiry = time.Hour
)

type MinioConfig struct {
	Endpoint       string        `json:"endpoint" yaml:"endpoint"`
	AccessKey      string        `json:"access_key" yaml:"access_key"`
	SecretKey      string        `json:"secret_key" yaml:"secret_key"`
	Bucket         string        `json:"bucket" yaml:"bucket"`
	UseSSL         bool          `json:"use_ssl" yaml:"use_ssl"`
	UploadExpiry   time.Duration `json:"upload_expiry" yaml:"upload_expiry"`
	DownloadExpiry time.Duration `json:"download_expiry" yaml:"download_expiry"`
}

// MinioStore implements ObjectStore on a MinIO / S3-compatible bucket with
// presigned URLs, so attachment bytes never pass through this service.
type MinioStore struct {
	client         *minio.Client
	bucket         string
	uploadExpiry   time.Duration
	downloadExpiry time.Duration
}

func NewMinioStore(ctx context.Context, config MinioConfig) (*MinioStore, error) {
	client, err := minio.New(config.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(config.AccessKey, config.SecretKey, ""),
		Secure: config.UseSSL,
	})
	if err != nil {
		return nil, err
	}

	exists, err := client.BucketExists(ctx, config.Bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		slog.Info("attachment bucket does not exist yet, creating it", slog.String("bucket", config.Bucket))
		if err := client.MakeBucket(ctx, config.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, err
		}
	}

	uploadExpiry := config.UploadExpiry
	if uploadExpiry <= 0 {
		uploadExpiry = defaultUploadExpiry
	}
	downloadExpiry := config.DownloadExpiry
	if downloadExpiry <= 0 {
		downloadExpiry = defaultDownloadExpiry
	}

	return &MinioStore{
		client:         client,
		bucket:         config.Bucket,
		uploadExpiry:   uploadExpiry,
		downloadExpiry: downloadExpiry,
	}, nil
}

func (s *MinioStore) IssueUploadTarget(ctx context.Context) (UploadTarget, error) {
	handle := types.AttachmentHandlePrefix + uuid.NewString()

	presignedURL, err := s.client.PresignedPutObject(ctx, s.bucket, handle, s.uploadExpiry)
	if err != nil {
		return UploadTarget{}, err
	}

	return UploadTarget{
		Handle:    handle,
		URL:       presignedURL.String(),
		Method:    http.MethodPut,
		ExpiresAt: time.Now().Add(s.uploadExpiry).Unix(),
	}, nil
}

func (s *MinioStore) ResolveURL(ctx context.Context, handle string) (string, error) {
	if _, err := s.client.StatObject(ctx, s.bucket, handle, minio.StatObjectOptions{}); err != nil {
		errResp := minio.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" || errResp.StatusCode == http.StatusNotFound {
			return "", ErrObjectNotFound
		}
		return "", err
	}

	presignedURL, err := s.client.PresignedGetObject(ctx, s.bucket, handle, s.downloadExpiry, url.Values{})
	if err != nil {
		return "", err
	}
	return presignedURL.String(), nil
}
