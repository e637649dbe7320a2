package gateway

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeDataURI(t *testing.T) {
	payload := []byte("fake-jpeg-bytes")
	uri := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(payload)

	data, mime, err := DecodeDataURI(uri)
	require.NoError(t, err)
	require.Equal(t, payload, data)
	require.Equal(t, "image/jpeg", mime)
}

func TestDecodeDataURIRejectsPlainURL(t *testing.T) {
	_, _, err := DecodeDataURI("https://example.com/photo.jpg")
	require.Error(t, err)
	require.False(t, IsDataURI("https://example.com/photo.jpg"))
}

func TestDecodeDataURIRejectsMalformed(t *testing.T) {
	for _, uri := range []string{
		"data:image/jpeg;base64",          // no payload separator
		"data:image/jpeg,plain",           // not base64
		"data:image/jpeg;base64,!!not64!", // bad payload
	} {
		_, _, err := DecodeDataURI(uri)
		require.Error(t, err, uri)
	}
}

func TestFilesystemStorageUpload(t *testing.T) {
	dir := t.TempDir()
	store := NewFilesystemStorage(dir, "http://localhost:8080/uploads/")

	url, err := store.Upload(context.Background(), "fuel/42_photo.jpg", []byte("bytes"), "image/jpeg")
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8080/uploads/fuel/42_photo.jpg", url)

	data, err := os.ReadFile(filepath.Join(dir, "fuel", "42_photo.jpg"))
	require.NoError(t, err)
	require.Equal(t, []byte("bytes"), data)
}

func TestExtensionForMIME(t *testing.T) {
	require.Equal(t, ".jpg", ExtensionForMIME("image/jpeg"))
	require.Equal(t, ".pdf", ExtensionForMIME("application/pdf"))
	require.Equal(t, ".bin", ExtensionForMIME("application/octet-stream"))
}
