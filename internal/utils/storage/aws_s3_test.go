package storage

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	objects map[string][]byte
	types   map[string]string
	putErr  error
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	body, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	key := aws.ToString(params.Key)
	f.objects[key] = body
	f.types[key] = aws.ToString(params.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, aws.ToString(params.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))))
	return buf.Bytes()
}

func TestUploadFile(t *testing.T) {
	fake := newFakeS3()
	store := newAwsS3(fake, "food-bucket", "ap-southeast-1")
	data := pngBytes(t)

	key, err := store.UploadFile(context.Background(), "meal-1", data, "food-logs", AllowImage...)
	require.NoError(t, err)
	assert.Equal(t, "food-logs/meal-1.png", key)
	assert.Equal(t, data, fake.objects[key])
	assert.Equal(t, "image/png", fake.types[key])

	link := store.GetPublicLinkKey(key)
	assert.Equal(t, "https://food-bucket.s3.ap-southeast-1.amazonaws.com/food-logs/meal-1.png", link)
	assert.Equal(t, key, store.GetObjectKeyFromLink(link))
	assert.Equal(t, "", store.GetObjectKeyFromLink("https://elsewhere.example/x.png"))

	require.NoError(t, store.DeleteFile(context.Background(), key))
	assert.NotContains(t, fake.objects, key)
}

func TestUploadFile_Rejects(t *testing.T) {
	fake := newFakeS3()
	store := newAwsS3(fake, "food-bucket", "us-east-1")

	_, err := store.UploadFile(context.Background(), "x", nil, "food-logs", AllowImage...)
	assert.ErrorIs(t, err, ErrEmptyFile)

	_, err = store.UploadFile(context.Background(), "x", []byte("plain text"), "food-logs", AllowImage...)
	assert.ErrorIs(t, err, ErrFileTypeNotAllowed)

	fake.putErr = errors.New("access denied")
	_, err = store.UploadFile(context.Background(), "x", pngBytes(t), "food-logs", AllowImage...)
	assert.ErrorContains(t, err, "access denied")
	assert.Empty(t, fake.objects)
}

func TestNewAwsS3_RequiresBucket(t *testing.T) {
	_, err := NewAwsS3(context.Background(), "", "us-east-1", "", "")
	assert.Error(t, err)
}
