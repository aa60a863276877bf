package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsAllowedImage(t *testing.T) {
	assert.True(t, IsAllowedImage("closet/shirt.JPG"))
	assert.True(t, IsAllowedImage("closet/shoes.heic"))
	assert.False(t, IsAllowedImage("closet/notes.pdf"))
	assert.False(t, IsAllowedImage("closet/noext"))
}

func TestImageMIMEType(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n0000")
	assert.Equal(t, "image/png", ImageMIMEType("whatever.jpg", png))
	assert.Equal(t, "image/heic", ImageMIMEType("photo.HEIC", []byte("not sniffable")))
	assert.Equal(t, "image/jpeg", ImageMIMEType("photo", []byte("not sniffable")))
}

func TestReadFileFromUrl(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		assert.Equal(t, "no-cache", r.Header.Get("Cache-Control"))
		w.Write([]byte("image-bytes"))
	}))
	defer server.Close()

	content, err := ReadFileFromUrl(context.Background(), server.URL+"/shirt.jpg")
	require.NoError(t, err)
	assert.Equal(t, "image-bytes", string(content))

	_, err = ReadFileFromUrl(context.Background(), server.URL+"/missing")
	assert.Error(t, err)
}

func TestStrPointer(t *testing.T) {
	assert.Nil(t, StrPointer(""))
	require.NotNil(t, StrPointer("x"))
	assert.Equal(t, "x", *StrPointer("x"))
}

type presignStub struct {
	url string
}

func (p presignStub) InitPresignClient(ctx context.Context) error { return nil }

func (p presignStub) GetPresignedR2FileReadURL(ctx context.Context, bucketName, fileKey string) (string, error) {
	return p.url + "/" + bucketName + "/" + fileKey, nil
}

func (p presignStub) PresignLink(ctx context.Context, bucketName, fileKey string) (string, error) {
	return p.url + "/upload/" + fileKey, nil
}

func TestURLCacheServiceLoadsOnMiss(t *testing.T) {
	svc, err := NewURLCacheService(presignStub{url: "https://r2.example"}, "closet")
	require.NoError(t, err)

	url, err := svc.GetReadURL(context.Background(), "items/1.jpg")
	require.NoError(t, err)
	assert.Equal(t, "https://r2.example/closet/items/1.jpg", url)

	empty, err := svc.GetReadURL(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestAWSServiceRequiresInit(t *testing.T) {
	_, err := (&AWSService{}).GetPresignedR2FileReadURL(context.Background(), "b", "k")
	assert.Error(t, err)
}
