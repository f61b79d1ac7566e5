package download

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/wallfeed/internal/feed"
)

// stubOpener serves body. With failAfter set the stream errors once body
// has been read.
type stubOpener struct {
	body      string
	err       error
	failAfter bool
}

type failingReader struct{ r io.Reader }

func (f failingReader) Read(p []byte) (int, error) {
	n, err := f.r.Read(p)
	if err == io.EOF {
		return n, errors.New("connection reset")
	}
	return n, err
}

func (s stubOpener) Open(context.Context, feed.Record) (io.ReadCloser, error) {
	if s.err != nil {
		return nil, s.err
	}
	var r io.Reader = strings.NewReader(s.body)
	if s.failAfter {
		r = failingReader{r: r}
	}
	return io.NopCloser(r), nil
}

func TestSave_WritesFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "walls")
	d := New(stubOpener{body: "jpeg-bytes"}, dir)

	path, err := d.Save(context.Background(), feed.Record{ID: "12", Name: "img (12)"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "img (12).jpg"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(data))
	assertNoPartFiles(t, dir)
}

func TestSave_FailedStreamLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	d := New(stubOpener{body: "partial", failAfter: true}, dir)

	_, err := d.Save(context.Background(), feed.Record{ID: "3", Name: "img (3)"})
	require.ErrorContains(t, err, "connection reset")

	assert.NoFileExists(t, filepath.Join(dir, "img (3).jpg"))
	assertNoPartFiles(t, dir)
}

func TestSave_OpenErrorIsWrapped(t *testing.T) {
	d := New(stubOpener{err: feed.ErrUnavailable}, t.TempDir())
	_, err := d.Save(context.Background(), feed.Record{ID: "3"})
	require.ErrorIs(t, err, feed.ErrUnavailable)
}

func TestSave_RequiresConfiguration(t *testing.T) {
	var d *Downloader
	_, err := d.Save(context.Background(), feed.Record{})
	assert.Error(t, err)

	_, err = New(stubOpener{}, " ").Save(context.Background(), feed.Record{})
	assert.ErrorContains(t, err, "download dir is empty")
}

func TestFileName(t *testing.T) {
	cases := map[string]feed.Record{
		"img (1).jpg":     {ID: "1", Name: "img (1)"},
		"wallpaper-9.jpg": {ID: "9"},
		"a_b_c.jpg":       {Name: "a/b\\c"},
		"hidden.jpg":      {Name: "..hidden"},
		"already.JPG":     {Name: "already.JPG"},
		"wallpaper.jpg":   {Name: "..."},
	}
	for want, rec := range cases {
		assert.Equal(t, want, FileName(rec), "record %#v", rec)
	}
}

func assertNoPartFiles(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasSuffix(e.Name(), ".part"), "leftover %s", e.Name())
	}
}
