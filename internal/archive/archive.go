// Package archive keeps a copy of every saved report in an S3-compatible
// bucket. The database stays the source of truth; the bucket is a convenience
// for people who want the Markdown files themselves.
package archive

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"github.com/mindsetos/teamreport/api/schemas"
	"github.com/mindsetos/teamreport/internal/config"
)

const (
	keyPrefix       = "reports"
	markdownType    = "text/markdown; charset=utf-8"
	defaultS3Region = "us-east-1"
)

// objectAPI is the subset of *minio.Client the archiver uses.
type objectAPI interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// Archiver writes report Markdown to a bucket.
type Archiver struct {
	client objectAPI
	bucket string
	region string

	mu    sync.Mutex
	ready bool
}

// New connects to the bucket described by cfg.
func New(cfg config.ArchiveConfig) (*Archiver, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("archive endpoint is required")
	}
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, fmt.Errorf("archive bucket is required")
	}
	access := strings.TrimSpace(cfg.AccessKey)
	secret := strings.TrimSpace(cfg.SecretKey)
	if access == "" || secret == "" {
		return nil, fmt.Errorf("archive access key and secret key are required")
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(access, secret, ""),
		Secure: cfg.UseSSL,
		Region: regionOrDefault(cfg.Region),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create archive client: %w", err)
	}
	return newArchiver(client, bucket, cfg.Region), nil
}

func newArchiver(client objectAPI, bucket, region string) *Archiver {
	return &Archiver{client: client, bucket: bucket, region: regionOrDefault(region)}
}

func regionOrDefault(region string) string {
	if r := strings.TrimSpace(region); r != "" {
		return r
	}
	return defaultS3Region
}

// ObjectKey is where a report lands: reports/<teamId>/<createdAt>.md.
func ObjectKey(teamID string, createdAt int64) string {
	return keyPrefix + "/" + strings.Trim(strings.TrimSpace(teamID), "/") + "/" + strconv.FormatInt(createdAt, 10) + ".md"
}

// ensureBucket creates the bucket if needed. Only success is remembered, so a
// failed check is retried by the next Put.
func (a *Archiver) ensureBucket(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.ready {
		return nil
	}
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return err
	}
	if !exists {
		if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{Region: a.region}); err != nil {
			return err
		}
	}
	a.ready = true
	return nil
}

// Put stores markdown under ObjectKey(teamID, createdAt) and returns the key.
func (a *Archiver) Put(ctx context.Context, teamID string, createdAt int64, markdown string) (string, error) {
	if strings.TrimSpace(teamID) == "" {
		return "", fmt.Errorf("teamId is required")
	}
	if err := a.ensureBucket(ctx); err != nil {
		return "", fmt.Errorf("ensure bucket %q: %w", a.bucket, err)
	}
	key := ObjectKey(teamID, createdAt)
	body := []byte(markdown)
	_, err := a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(body), int64(len(body)), minio.PutObjectOptions{
		ContentType: markdownType,
	})
	if err != nil {
		return "", fmt.Errorf("put %s: %w", key, err)
	}
	return key, nil
}

// -- Store Decorator --

// Putter stores one report's Markdown.
type Putter interface {
	Put(ctx context.Context, teamID string, createdAt int64, markdown string) (string, error)
}

// Store archives every successfully saved report. Archive failures are logged
// and never fail the save.
type Store struct {
	schemas.Store
	archive Putter
	logger  *zap.Logger
}

// Wrap decorates inner so saved reports are also written to archive.
func Wrap(inner schemas.Store, archive Putter, logger *zap.Logger) *Store {
	return &Store{Store: inner, archive: archive, logger: logger.Named("archive")}
}

// SaveReport saves through the wrapped store, then archives.
func (s *Store) SaveReport(ctx context.Context, teamID, version string, moduleIDs []string, markdown string) (int64, error) {
	createdAt, err := s.Store.SaveReport(ctx, teamID, version, moduleIDs, markdown)
	if err != nil {
		return 0, err
	}
	key, err := s.archive.Put(ctx, teamID, createdAt, markdown)
	if err != nil {
		s.logger.Warn("Failed to archive report.",
			zap.String("team_id", teamID), zap.Int64("created_at", createdAt), zap.Error(err))
		return createdAt, nil
	}
	s.logger.Debug("Report archived.", zap.String("key", key))
	return createdAt, nil
}

var _ schemas.Store = (*Store)(nil)
