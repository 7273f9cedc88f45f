package repository

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/duty-tracker/internal/logging"
	"github.com/yukikurage/duty-tracker/internal/models"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// exerciseBackend checks the contract every DocumentBackend shares.
func exerciseBackend(t *testing.T, backend DocumentBackend) {
	t.Helper()
	ctx := context.Background()

	data, err := backend.Load(ctx, "users.json")
	require.NoError(t, err)
	assert.Nil(t, data, "missing document reads as nil")

	require.NoError(t, backend.Save(ctx, "users.json", []byte(`[{"username":"alice"}]`)))
	data, err = backend.Load(ctx, "users.json")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"username":"alice"}]`, string(data))

	require.NoError(t, backend.Save(ctx, "users.json", []byte(`[]`)))
	data, err = backend.Load(ctx, "users.json")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	other, err := backend.Load(ctx, "projects.json")
	require.NoError(t, err)
	assert.Nil(t, other)
}

func TestMemoryBackend(t *testing.T) {
	exerciseBackend(t, NewMemoryBackend())
}

func TestFileBackend(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	backend := NewFileBackend(dir)
	exerciseBackend(t, backend)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files are renamed away")
	assert.Equal(t, "users.json", entries[0].Name())
}

func TestFileBackend_RejectsPathNames(t *testing.T) {
	backend := NewFileBackend(t.TempDir())
	_, err := backend.Load(context.Background(), "../users.json")
	assert.Error(t, err)
	assert.Error(t, backend.Save(context.Background(), "nested/users.json", nil))
}

func TestFileBackend_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	backend := NewFileBackend(t.TempDir())
	assert.ErrorIs(t, backend.Save(ctx, "users.json", []byte("[]")), context.Canceled)
}

func TestBadgerBackend_InMemory(t *testing.T) {
	backend, err := OpenBadger("", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = backend.Close() })

	exerciseBackend(t, backend)
}

func TestGormBackend_SQLite(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Document{}))

	exerciseBackend(t, NewGormBackend(db))

	var count int64
	require.NoError(t, db.Model(&models.Document{}).Count(&count).Error)
	assert.Equal(t, int64(1), count, "saves upsert a single row per document")
}

func TestGormBackend_MySQLDialect(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	backend := NewGormBackend(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `documents`") + ".*ON DUPLICATE KEY UPDATE").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, backend.Save(context.Background(), "projects.json", []byte("[]")))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `documents` WHERE name = ?")).
		WillReturnRows(sqlmock.NewRows([]string{"name", "body", "updated_at"}).
			AddRow("projects.json", []byte("[]"), time.Now()))
	data, err := backend.Load(context.Background(), "projects.json")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOpenGorm_ClosesHandleWhenMigrationFails(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	// No statement is expected, so the first migration query fails.
	mock.ExpectClose()

	_, _, err = openGorm(db, logging.Discard())
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	body, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{Message: aws.String("no such key")}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(body))}, nil
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func TestS3Backend(t *testing.T) {
	client := &fakeS3{objects: make(map[string][]byte)}
	exerciseBackend(t, newS3Backend(client, "duties", "prod"))

	_, ok := client.objects["duties/prod/users.json"]
	assert.True(t, ok, "documents live under the key prefix")
}

func TestNewS3Backend_RequiresBucket(t *testing.T) {
	_, err := NewS3Backend(context.Background(), S3Config{})
	assert.Error(t, err)
}
