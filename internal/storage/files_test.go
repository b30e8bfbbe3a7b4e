package storage

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func uploadRequest(t *testing.T, field, filename, content string) *http.Request {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	req := uploadRequest(t, "image", "cover.png", "png-bytes")
	require.NoError(t, req.ParseMultipartForm(1<<20))
	_, header, err := req.FormFile("image")
	require.NoError(t, err)

	ref, err := store.Save(header)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(ref, "/uploads/"))
	require.True(t, strings.HasSuffix(ref, ".png"))

	data, err := os.ReadFile(filepath.Join(dir, strings.TrimPrefix(ref, "/uploads/")))
	require.NoError(t, err)
	require.Equal(t, "png-bytes", string(data))
}

func TestSaveUniqueNames(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	req := uploadRequest(t, "image", "cover.png", "a")
	require.NoError(t, req.ParseMultipartForm(1<<20))
	_, header, err := req.FormFile("image")
	require.NoError(t, err)

	first, err := store.Save(header)
	require.NoError(t, err)
	second, err := store.Save(header)
	require.NoError(t, err)
	require.NotEqual(t, first, second)
}
