package logstore

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

var today = time.Date(2024, time.March, 5, 10, 30, 0, 0, time.Local)

func TestOpenCreatesDatedFiles(t *testing.T) {
	root := t.TempDir()
	s := Open(root, WithClock(fixedClock(today)), WithMinFreeBytes(0))

	assert.Equal(t, "03-05-2024", s.Date())
	assert.Equal(t, filepath.Join(root, DirName), s.Dir())

	path, err := s.Resolve(CategoryDebug)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "Logs", "debug_log_03-05-2024.log"), path)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Zero(t, info.Size())

	internal, err := s.Resolve(CategoryInternal)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "Logs", "internal_log_03-05-2024.log"), internal)
	assert.FileExists(t, internal)
}

func TestOpenRemovesOtherDays(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, DirName)
	require.NoError(t, os.MkdirAll(dir, 0755))

	stale := []string{"debug_log_03-04-2024.log", "internal_log_01-01-2023.log", "notes.txt"}
	for _, name := range stale {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("old\n"), 0644))
	}
	keep := filepath.Join(dir, "extra_03-05-2024.txt")
	require.NoError(t, os.WriteFile(keep, []byte("keep\n"), 0644))

	Open(root, WithClock(fixedClock(today)), WithMinFreeBytes(0))

	for _, name := range stale {
		assert.NoFileExists(t, filepath.Join(dir, name))
	}
	assert.FileExists(t, keep)
}

func TestOpenKeepsTodaysContent(t *testing.T) {
	root := t.TempDir()
	s := Open(root, WithClock(fixedClock(today)), WithMinFreeBytes(0))
	path := s.MustResolve(CategoryDebug)
	require.NoError(t, os.WriteFile(path, []byte("a\nb\n"), 0644))

	again := Open(root, WithClock(fixedClock(today)), WithMinFreeBytes(0))
	assert.Equal(t, path, again.MustResolve(CategoryDebug))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a\nb\n", string(data))

	entries, err := os.ReadDir(again.Dir())
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestOpenNextDayRotates(t *testing.T) {
	root := t.TempDir()
	first := Open(root, WithClock(fixedClock(today)), WithMinFreeBytes(0))
	old := first.MustResolve(CategoryDebug)

	next := Open(root, WithClock(fixedClock(today.AddDate(0, 0, 1))), WithMinFreeBytes(0))
	assert.NoFileExists(t, old)
	assert.FileExists(t, next.MustResolve(CategoryDebug))
	assert.Equal(t, "03-06-2024", next.Date())
}

func TestLayoutTouchesNothing(t *testing.T) {
	root := t.TempDir()
	logs := filepath.Join(root, DirName)
	stale := filepath.Join(logs, "debug_log_03-04-2024.log")
	require.NoError(t, os.MkdirAll(logs, 0755))
	require.NoError(t, os.WriteFile(stale, []byte("old"), 0644))

	s := Layout(root, WithClock(fixedClock(today)))
	opened := Open(t.TempDir(), WithClock(fixedClock(today)), WithMinFreeBytes(0))

	assert.Equal(t, logs, s.Dir())
	assert.Equal(t, opened.Date(), s.Date())
	require.Len(t, s.Files(), 2)
	for i, f := range s.Files() {
		assert.Equal(t, filepath.Base(opened.Files()[i].Path), filepath.Base(f.Path))
		assert.NoFileExists(t, f.Path)
	}
	assert.FileExists(t, stale)
}

func TestLayoutMissingRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "absent")
	s := Layout(root, WithClock(fixedClock(today)), WithCategories(CategoryDebug))

	path, err := s.Resolve(CategoryDebug)
	require.NoError(t, err)
	assert.Equal(t, "debug_log_03-05-2024.log", filepath.Base(path))
	assert.NoDirExists(t, root)
}

func TestResolveUnregistered(t *testing.T) {
	s := Open(t.TempDir(), WithClock(fixedClock(today)), WithCategories(CategoryDebug), WithMinFreeBytes(0))

	_, err := s.Resolve(CategoryInternal)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCategoryNotRegistered)

	assert.Panics(t, func() { s.MustResolve(CategoryInternal) })
	assert.Equal(t, []Category{CategoryDebug}, s.Categories())
}

func TestOpenNeverFails(t *testing.T) {
	root := t.TempDir()
	blocker := filepath.Join(root, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	// <root>/Logs cannot be created below a regular file.
	s := Open(blocker, WithClock(fixedClock(today)))
	require.NotNil(t, s)

	path, err := s.Resolve(CategoryDebug)
	require.NoError(t, err)
	assert.NoFileExists(t, path)
}

func TestFilesOrder(t *testing.T) {
	s := Open(t.TempDir(), WithClock(fixedClock(today)), WithCategories(CategoryInternal, CategoryDebug, CategoryInternal), WithMinFreeBytes(0))

	files := s.Files()
	require.Len(t, files, 2)
	assert.Equal(t, CategoryInternal, files[0].Category)
	assert.Equal(t, CategoryDebug, files[1].Category)
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in      string
		want    Category
		wantErr bool
	}{
		{"debug", CategoryDebug, false},
		{" Internal ", CategoryInternal, false},
		{"kernel", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCategory(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownCategory)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCategoryText(t *testing.T) {
	var c Category
	require.NoError(t, c.UnmarshalText([]byte("internal")))
	assert.Equal(t, CategoryInternal, c)

	b, err := CategoryDebug.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "debug", string(b))

	_, err = Category(9).MarshalText()
	assert.Error(t, err)
	assert.Equal(t, "category(9)", Category(9).String())
	assert.False(t, Category(-1).Valid())
}
