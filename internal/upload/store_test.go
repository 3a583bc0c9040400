package upload

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreSave(t *testing.T) {
	store, err := New(t.TempDir(), "/uploads/")
	require.NoError(t, err)

	desc, err := store.Save("report.pdf", "application/pdf", strings.NewReader("content"))
	require.NoError(t, err)

	assert.Equal(t, "report.pdf", desc.OriginalName)
	assert.Equal(t, "application/pdf", desc.MimeType)
	assert.Equal(t, int64(len("content")), desc.Size)
	assert.True(t, strings.HasPrefix(desc.URL, "/uploads/"))
	assert.True(t, strings.HasSuffix(desc.Filename, "-report.pdf"))

	data, err := os.ReadFile(filepath.Join(store.Dir(), desc.Filename))
	require.NoError(t, err)
	assert.Equal(t, "content", string(data))
}

func TestStoreSaveSanitizesFilename(t *testing.T) {
	store, err := New(t.TempDir(), "/uploads")
	require.NoError(t, err)

	desc, err := store.Save("../../etc/passwd.txt", "text/plain", strings.NewReader("x"))
	require.NoError(t, err)
	assert.Equal(t, "passwd.txt", desc.OriginalName)
	assert.NotContains(t, desc.Filename, "..")
}

func TestStoreSaveRejectsDisallowedTypes(t *testing.T) {
	store, err := New(t.TempDir(), "/uploads")
	require.NoError(t, err)

	for _, name := range []string{"malware.exe", "script.sh", "noext"} {
		_, err := store.Save(name, "application/octet-stream", strings.NewReader("x"))
		assert.ErrorIs(t, err, ErrDisallowedType, name)
	}
}

func TestAllowed(t *testing.T) {
	assert.True(t, Allowed("photo.JPG"))
	assert.True(t, Allowed("doc.pdf"))
	assert.False(t, Allowed("binary.exe"))
	assert.False(t, Allowed("archive.tar.gz"))
}
