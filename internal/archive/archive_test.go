package archive

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mindsetos/teamreport/api/schemas"
	"github.com/mindsetos/teamreport/internal/config"
	"github.com/mindsetos/teamreport/internal/mocks"
	"github.com/mindsetos/teamreport/internal/store"
)

type mockObjects struct {
	mock.Mock
	bodies map[string]string
}

func (m *mockObjects) BucketExists(ctx context.Context, bucket string) (bool, error) {
	args := m.Called(ctx, bucket)
	return args.Bool(0), args.Error(1)
}

func (m *mockObjects) MakeBucket(ctx context.Context, bucket string, opts minio.MakeBucketOptions) error {
	return m.Called(ctx, bucket, opts).Error(0)
}

func (m *mockObjects) PutObject(ctx context.Context, bucket, key string, r io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return minio.UploadInfo{}, err
	}
	if m.bodies == nil {
		m.bodies = map[string]string{}
	}
	m.bodies[key] = string(data)
	args := m.Called(ctx, bucket, key, size, opts.ContentType)
	return minio.UploadInfo{Key: key, Size: size}, args.Error(0)
}

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "reports/team-1/1700000000000.md", ObjectKey("team-1", 1700000000000))
	assert.Equal(t, "reports/team-1/5.md", ObjectKey(" /team-1/ ", 5))
}

func TestNew_Validation(t *testing.T) {
	_, err := New(config.ArchiveConfig{Bucket: "b", AccessKey: "a", SecretKey: "s"})
	assert.ErrorContains(t, err, "endpoint is required")

	_, err = New(config.ArchiveConfig{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "s"})
	assert.ErrorContains(t, err, "bucket is required")

	_, err = New(config.ArchiveConfig{Endpoint: "localhost:9000", Bucket: "b"})
	assert.ErrorContains(t, err, "access key and secret key")

	a, err := New(config.ArchiveConfig{Endpoint: "localhost:9000", Bucket: "b", AccessKey: "a", SecretKey: "s"})
	require.NoError(t, err)
	assert.Equal(t, defaultS3Region, a.region)
}

func TestArchiver_Put(t *testing.T) {
	ctx := context.Background()

	t.Run("creates the bucket once", func(t *testing.T) {
		objs := new(mockObjects)
		a := newArchiver(objs, "reports-bucket", "eu-west-1")

		objs.On("BucketExists", ctx, "reports-bucket").Return(false, nil).Once()
		objs.On("MakeBucket", ctx, "reports-bucket", minio.MakeBucketOptions{Region: "eu-west-1"}).Return(nil).Once()
		objs.On("PutObject", ctx, "reports-bucket", mock.Anything, mock.Anything, markdownType).Return(nil).Twice()

		key, err := a.Put(ctx, "team-1", 100, "# One")
		require.NoError(t, err)
		assert.Equal(t, "reports/team-1/100.md", key)
		_, err = a.Put(ctx, "team-1", 101, "# Two")
		require.NoError(t, err)

		assert.Equal(t, "# One", objs.bodies["reports/team-1/100.md"])
		assert.Equal(t, "# Two", objs.bodies["reports/team-1/101.md"])
		objs.AssertExpectations(t)
	})

	t.Run("bucket check failure", func(t *testing.T) {
		objs := new(mockObjects)
		a := newArchiver(objs, "b", "")
		objs.On("BucketExists", ctx, "b").Return(false, errors.New("access denied")).Once()

		_, err := a.Put(ctx, "team-1", 1, "# x")
		assert.ErrorContains(t, err, "access denied")
		objs.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("bucket check is retried after a transient failure", func(t *testing.T) {
		objs := new(mockObjects)
		a := newArchiver(objs, "b", "")
		objs.On("BucketExists", ctx, "b").Return(false, errors.New("transient")).Once()
		objs.On("BucketExists", ctx, "b").Return(true, nil).Once()
		objs.On("PutObject", ctx, "b", mock.Anything, mock.Anything, markdownType).Return(nil).Twice()

		_, err := a.Put(ctx, "team-1", 1, "# first")
		assert.ErrorContains(t, err, "transient")

		key, err := a.Put(ctx, "team-1", 2, "# second")
		require.NoError(t, err)
		assert.Equal(t, "reports/team-1/2.md", key)

		_, err = a.Put(ctx, "team-1", 3, "# third")
		require.NoError(t, err)
		objs.AssertExpectations(t)
		objs.AssertNumberOfCalls(t, "BucketExists", 2)
	})

	t.Run("missing team id", func(t *testing.T) {
		_, err := newArchiver(new(mockObjects), "b", "").Put(ctx, " ", 1, "# x")
		assert.ErrorContains(t, err, "teamId is required")
	})
}

type fakePutter struct {
	err  error
	keys []string
}

func (f *fakePutter) Put(_ context.Context, teamID string, createdAt int64, _ string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	key := ObjectKey(teamID, createdAt)
	f.keys = append(f.keys, key)
	return key, nil
}

func TestStore_SaveReport(t *testing.T) {
	ctx := context.Background()

	t.Run("archives after a successful save", func(t *testing.T) {
		mem := store.NewMemoryStore()
		p := &fakePutter{}
		s := Wrap(mem, p, zap.NewNop())

		createdAt, err := s.SaveReport(ctx, "team-1", "v1", []string{"a"}, "# Report")
		require.NoError(t, err)
		assert.Equal(t, []string{ObjectKey("team-1", createdAt)}, p.keys)

		latest, err := s.GetLatestReport(ctx, "team-1")
		require.NoError(t, err)
		require.NotNil(t, latest)
		assert.Equal(t, "# Report", latest.Markdown)
	})

	t.Run("archive failure is not fatal", func(t *testing.T) {
		core, logs := observer.New(zapcore.WarnLevel)
		s := Wrap(store.NewMemoryStore(), &fakePutter{err: errors.New("bucket unreachable")}, zap.New(core))

		createdAt, err := s.SaveReport(ctx, "team-1", "v1", nil, "# Report")
		require.NoError(t, err)
		assert.NotZero(t, createdAt)
		require.Equal(t, 1, logs.FilterMessage("Failed to archive report.").Len())
	})

	t.Run("failed save is not archived", func(t *testing.T) {
		inner := new(mocks.MockStore)
		p := &fakePutter{}
		inner.On("SaveReport", ctx, "team-1", "v1", []string{"a"}, "# x").
			Return(int64(0), schemas.ErrPersistenceFailed).Once()

		_, err := Wrap(inner, p, zap.NewNop()).SaveReport(ctx, "team-1", "v1", []string{"a"}, "# x")
		assert.ErrorIs(t, err, schemas.ErrPersistenceFailed)
		assert.Empty(t, p.keys)
	})
}
