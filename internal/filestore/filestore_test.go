package filestore

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := New(filepath.Join(t.TempDir(), "uploads"))
	s.now = func() time.Time { return time.UnixMilli(1760761200000) }
	return s
}

func TestSaveCreatesDirAndPrefixesName(t *testing.T) {
	s := newTestStore(t)

	stored, err := s.Save("../../etc/report.txt", "text/plain", strings.NewReader("hello"))
	require.NoError(t, err)
	assert.Equal(t, "1760761200000-report.txt", stored.Filename)
	assert.Equal(t, "report.txt", stored.OriginalName)
	assert.Equal(t, int64(5), stored.Size)
	assert.Equal(t, "text/plain", stored.Type)

	b, err := os.ReadFile(filepath.Join(s.Dir(), stored.Filename))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(b))
}

func TestSaveRejectsEmptyName(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Save("", "text/plain", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestListSkipsDirectories(t *testing.T) {
	s := newTestStore(t)

	files, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, files)

	_, err = s.Save("a.txt", "text/plain", strings.NewReader("abc"))
	require.NoError(t, err)
	require.NoError(t, os.Mkdir(filepath.Join(s.Dir(), "nested"), 0o755))

	files, err = s.List()
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "1760761200000-a.txt", files[0].Filename)
	assert.Equal(t, int64(3), files[0].Size)
	assert.False(t, files[0].Modified.IsZero())
}

func TestOpen(t *testing.T) {
	s := newTestStore(t)
	stored, err := s.Save("notes.txt", "text/plain", strings.NewReader("content"))
	require.NoError(t, err)

	f, info, err := s.Open(stored.Filename)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, int64(7), info.Size())
	b, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "content", string(b))

	_, _, err = s.Open("missing.txt")
	assert.ErrorIs(t, err, ErrNotFound)

	for _, name := range []string{"../secret", "a/b.txt", `..\x`, "..", ""} {
		_, _, err := s.Open(name)
		assert.ErrorIs(t, err, ErrInvalidName, name)
	}
}

func TestPreviewText(t *testing.T) {
	s := newTestStore(t)
	stored, err := s.Save("long.txt", "text/plain", strings.NewReader(strings.Repeat("a", 20)))
	require.NoError(t, err)

	p, err := s.Preview(stored.Filename, 8)
	require.NoError(t, err)
	assert.Equal(t, "aaaaaaaa", p.Content)
	assert.True(t, p.Truncated)
	assert.Equal(t, "text/plain", p.Type)

	p, err = s.Preview(stored.Filename, 100)
	require.NoError(t, err)
	assert.False(t, p.Truncated)
	assert.Len(t, p.Content, 20)
}

func TestPreviewRejectsOtherTypes(t *testing.T) {
	s := newTestStore(t)
	stored, err := s.Save("photo.png", "image/png", strings.NewReader("\x89PNG"))
	require.NoError(t, err)

	_, err = s.Preview(stored.Filename, 100)
	assert.ErrorIs(t, err, ErrPreviewUnsupported)
}

func TestPreviewBrokenPDF(t *testing.T) {
	s := newTestStore(t)
	stored, err := s.Save("broken.pdf", "application/pdf", strings.NewReader("definitely not a pdf"))
	require.NoError(t, err)

	_, err = s.Preview(stored.Filename, 100)
	assert.Error(t, err)
}

func TestTruncateKeepsRunes(t *testing.T) {
	out, truncated := truncate("héllo", 2)
	assert.True(t, truncated)
	assert.Equal(t, "h", out)
}

func TestDetectType(t *testing.T) {
	mediaType, err := DetectType("text/plain; charset=utf-8", strings.NewReader("hi"))
	require.NoError(t, err)
	assert.Equal(t, "text/plain", mediaType)

	mediaType, err = DetectType("application/octet-stream", strings.NewReader("%PDF-1.4\n%rest of document"))
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", mediaType)

	mediaType, err = DetectType("", strings.NewReader("plain words only"))
	require.NoError(t, err)
	assert.Equal(t, "text/plain", mediaType)
}

func TestDottedNameRoundTrip(t *testing.T) {
	s := newTestStore(t)

	stored, err := s.Save("report..final.txt", "text/plain", strings.NewReader("draft"))
	require.NoError(t, err)
	assert.Equal(t, "1760761200000-report..final.txt", stored.Filename)

	files, err := s.List()
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, stored.Filename, files[0].Filename)

	f, _, err := s.Open(stored.Filename)
	require.NoError(t, err)
	b, err := io.ReadAll(f)
	require.NoError(t, f.Close())
	require.NoError(t, err)
	assert.Equal(t, "draft", string(b))

	preview, err := s.Preview(stored.Filename, 1024)
	require.NoError(t, err)
	assert.Equal(t, "draft", preview.Content)

	for _, name := range []string{"..", ".", "../secret.txt", `..\secret.txt`, "a/b.txt", ""} {
		_, _, err := s.Open(name)
		assert.ErrorIs(t, err, ErrInvalidName, name)
	}
}
