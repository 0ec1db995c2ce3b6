package filestorage

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uploadHeader(t *testing.T, filename, body string) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(body))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["file"][0]
}

func TestSaveResolveDelete(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir(), "http://localhost:8080/", 0)
	require.NoError(t, err)

	ref, err := store.Save(uploadHeader(t, "transcript.PDF", "grades"), CategoryDocuments)
	require.NoError(t, err)
	assert.Equal(t, "transcript.PDF", ref.Name)
	assert.True(t, strings.HasPrefix(ref.Path, "documents/"))
	assert.True(t, strings.HasSuffix(ref.Path, ".pdf"))
	assert.Equal(t, int64(6), ref.Size)
	assert.Equal(t, "http://localhost:8080/api/v1/files/"+ref.Path, store.URL(ref.Path))

	full, err := store.Resolve(ref.Path)
	require.NoError(t, err)
	content, err := os.ReadFile(full)
	require.NoError(t, err)
	assert.Equal(t, "grades", string(content))

	require.NoError(t, store.Delete(ref.Path))
	_, err = store.Resolve(ref.Path)
	assert.ErrorIs(t, err, ErrStoredFileNotFound)
	assert.NoError(t, store.Delete(ref.Path))
}

func TestSaveRejectsUnsupportedAndLargeFiles(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir(), "", 4)
	require.NoError(t, err)

	_, err = store.Save(uploadHeader(t, "run.exe", "x"), CategoryTasks)
	assert.ErrorIs(t, err, ErrUnsupportedFile)

	_, err = store.Save(uploadHeader(t, "big.txt", "too large"), CategoryTasks)
	assert.ErrorIs(t, err, ErrFileTooLarge)

	ref, err := store.Save(nil, CategoryTasks)
	require.NoError(t, err)
	assert.True(t, ref.IsZero())
}

func TestResolveRejectsTraversal(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir(), "", 0)
	require.NoError(t, err)

	for _, p := range []string{"../etc/passwd", "documents/../../x", "secrets/a.pdf", "documents/", "documents"} {
		_, err := store.Resolve(p)
		assert.ErrorIs(t, err, ErrInvalidFilePath, p)
	}
}
