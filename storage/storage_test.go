package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	ctx := context.Background()

	s, err := New(ctx, Config{BaseDir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &LocalStorage{}, s)

	s, err = New(ctx, Config{Type: "LOCAL", BaseDir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &LocalStorage{}, s)

	_, err = New(ctx, Config{Type: "gcs", BaseDir: "out"})
	assert.ErrorIs(t, err, ErrUnsupportedType)

	_, err = New(ctx, Config{Type: "s3", S3Region: "eu-central-1"})
	assert.ErrorIs(t, err, ErrMissingBucket)

	_, err = New(ctx, Config{Type: "s3", S3Bucket: "reports"})
	assert.ErrorIs(t, err, ErrMissingRegion)
}

func TestNew_S3(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test")

	s, err := New(context.Background(), Config{
		Type:            "s3",
		BaseDir:         "./out/run-1/",
		S3Bucket:        "reports",
		S3Region:        "eu-central-1",
		S3PresignExpiry: 0,
	})
	require.NoError(t, err)

	s3s, ok := s.(*S3Storage)
	require.True(t, ok)
	assert.Equal(t, "reports", s3s.bucket)
	assert.Equal(t, "out/run-1", s3s.prefix)
	assert.Equal(t, DefaultPresignExpiry, s3s.presignExpiration)
}

func TestCleanKey(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"a.csv", "a.csv", false},
		{"./a/b.json", "a/b.json", false},
		{"a/./b/../c.html", "a/c.html", false},
		{"", "", true},
		{"..", "", true},
		{"../a", "", true},
		{"/abs", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := cleanKey(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPath)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestS3Storage_Key(t *testing.T) {
	s := &S3Storage{prefix: "out"}
	k, err := s.key("results_full.json")
	require.NoError(t, err)
	assert.Equal(t, "out/results_full.json", k)

	s = &S3Storage{}
	k, err = s.key("nested/a.csv")
	require.NoError(t, err)
	assert.Equal(t, "nested/a.csv", k)

	_, err = s.key("../x")
	assert.ErrorIs(t, err, ErrInvalidPath)
}

func TestS3Prefix(t *testing.T) {
	assert.Equal(t, "", s3Prefix(""))
	assert.Equal(t, "", s3Prefix("."))
	assert.Equal(t, "", s3Prefix("/"))
	assert.Equal(t, "out", s3Prefix("./out"))
	assert.Equal(t, "reports/2024", s3Prefix("/reports/2024/"))
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "text/csv; charset=utf-8", ContentType("a/apps_metrics.csv"))
	assert.Equal(t, "application/json", ContentType("results_full.JSON"))
	assert.Equal(t, "text/html; charset=utf-8", ContentType("complexity_report.html"))
	assert.Equal(t, "application/octet-stream", ContentType("blob"))
}

func TestIsS3NotFoundError(t *testing.T) {
	assert.True(t, isS3NotFoundError(&smithy.GenericAPIError{Code: "NoSuchKey"}))
	assert.True(t, isS3NotFoundError(&smithy.GenericAPIError{Code: "NotFound"}))
	assert.False(t, isS3NotFoundError(&smithy.GenericAPIError{Code: "AccessDenied"}))
	assert.False(t, isS3NotFoundError(errors.New("boom")))
}
