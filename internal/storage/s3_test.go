package storage

import (
	"context"
	"errors"
	"io"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"myblog/internal/models"
)

type fakeS3 struct {
	put     *s3.PutObjectInput
	body    string
	deleted string
	err     error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.put = in
	b, _ := io.ReadAll(in.Body)
	f.body = string(b)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.deleted = aws.ToString(in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func TestNewWithoutCredentials(t *testing.T) {
	c, err := New("", "fsn1", "", "", "bucket", "")
	assert.NoError(t, err)
	assert.Nil(t, c)

	_, err = New("https://s3.example.com", "fsn1", "key", "secret", "", "")
	assert.Error(t, err, "bucket is required")
}

func TestSaveHeadImage(t *testing.T) {
	api := &fakeS3{}
	c := newClient(api, "https://s3.example.com/", "media", "")
	c.now = func() time.Time { return time.Date(2026, 3, 7, 23, 0, 0, 0, time.UTC) }

	key, err := c.SaveHeadImage(context.Background(), models.ImageUpload{
		OriginalName: "Cover.JPG", ContentType: "image/jpeg", SizeBytes: 5,
	}, strings.NewReader("bytes"))
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^blog/2026/03/07/[0-9a-f-]{36}\.jpg$`), key)
	require.NotNil(t, api.put)
	assert.Equal(t, "media", aws.ToString(api.put.Bucket))
	assert.Equal(t, key, aws.ToString(api.put.Key))
	assert.Equal(t, "image/jpeg", aws.ToString(api.put.ContentType))
	assert.Equal(t, "bytes", api.body)
}

func TestSaveHeadImageValidation(t *testing.T) {
	api := &fakeS3{}
	c := newClient(api, "https://s3.example.com", "media", "")

	_, err := c.SaveHeadImage(context.Background(), models.ImageUpload{
		OriginalName: "notes.pdf", ContentType: "application/pdf", SizeBytes: 10,
	}, strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrNotImage)

	_, err = c.SaveHeadImage(context.Background(), models.ImageUpload{
		OriginalName: "huge.png", ContentType: "image/png", SizeBytes: MaxHeadImageSize + 1,
	}, strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrTooLarge)

	assert.Nil(t, api.put, "nothing should be uploaded")
}

func TestSaveHeadImageUploadError(t *testing.T) {
	boom := errors.New("boom")
	c := newClient(&fakeS3{err: boom}, "https://s3.example.com", "media", "")

	_, err := c.SaveHeadImage(context.Background(), models.ImageUpload{
		OriginalName: "a.png", ContentType: "image/png", SizeBytes: 1,
	}, strings.NewReader("x"))
	assert.ErrorIs(t, err, boom)
}

func TestDelete(t *testing.T) {
	api := &fakeS3{}
	c := newClient(api, "https://s3.example.com", "media", "")

	require.NoError(t, c.Delete(context.Background(), "blog/2026/01/01/x.png"))
	assert.Equal(t, "blog/2026/01/01/x.png", api.deleted)
}

func TestFileURLAndOrigin(t *testing.T) {
	pathStyle := newClient(&fakeS3{}, "https://s3.example.com/", "media", "")
	assert.Equal(t, "https://s3.example.com/media/blog/k.png", pathStyle.FileURL("blog/k.png"))
	assert.Equal(t, "https://s3.example.com", pathStyle.Origin())

	cdn := newClient(&fakeS3{}, "https://s3.example.com", "media", "https://cdn.example.com/blog-media/")
	assert.Equal(t, "https://cdn.example.com/blog-media/blog/k.png", cdn.FileURL("blog/k.png"))
	assert.Equal(t, "https://cdn.example.com", cdn.Origin())
}
