// Package logstore owns the on-disk layout of captured logs: one managed
// file per category per day under <root>/Logs, and the retention sweep that
// removes files from other days.
package logstore

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/shirou/gopsutil/v4/disk"

	"github.com/devpospicha/logcap/internal/metrics"
	"github.com/devpospicha/logcap/internal/utils"
)

const (
	// DirName is the log directory created under the storage root.
	DirName = "Logs"
	// DateLayout is MM-dd-yyyy; it is embedded in every managed file name.
	DateLayout = "01-02-2006"
	// DefaultMinFreeBytes is the free-space threshold below which Open warns.
	DefaultMinFreeBytes uint64 = 64 << 20
)

// ErrCategoryNotRegistered is a configuration error: the category was never
// registered with the store.
var ErrCategoryNotRegistered = errors.New("log category is not registered")

// ManagedFile associates a category with its file for the current day.
type ManagedFile struct {
	Category Category
	Path     string
}

// Store maps categories to managed files. It is built once by Open or Layout
// and is read-only afterwards, so it is safe for concurrent use.
type Store struct {
	dir   string
	date  string
	files map[Category]ManagedFile
	order []Category
}

type options struct {
	clock        func() time.Time
	categories   []Category
	minFreeBytes uint64
}

// Option customises Open.
type Option func(*options)

// WithClock sets the time source used to compute today's date.
func WithClock(clock func() time.Time) Option {
	return func(o *options) { o.clock = clock }
}

// WithCategories registers only the given categories instead of all of them.
func WithCategories(categories ...Category) Option {
	return func(o *options) { o.categories = categories }
}

// WithMinFreeBytes sets the free-space warning threshold. 0 disables the check.
func WithMinFreeBytes(n uint64) Option {
	return func(o *options) { o.minFreeBytes = n }
}

// Open builds the registry under root, creates missing managed files and
// removes every entry of the log directory whose name does not contain
// today's date. It never fails: I/O problems are logged and the store is
// returned with whatever guarantees could be kept.
func Open(root string, opts ...Option) *Store {
	s, o := newStore(root, opts)

	for _, c := range s.order {
		path := s.files[c].Path
		if err := ensureFile(path); err != nil {
			utils.Error("Failed to create log file %s: %v", path, err)
		}
	}

	s.checkCapacity(o.minFreeBytes)
	s.sweep()

	utils.Info("Log store ready: %d categories in %s (date %s)", len(s.order), s.dir, s.date)
	return s
}

// Layout builds the same registry as Open without touching the disk: no
// files are created and nothing is swept.
func Layout(root string, opts ...Option) *Store {
	s, _ := newStore(root, opts)
	return s
}

func newStore(root string, opts []Option) (*Store, options) {
	o := options{
		clock:        time.Now,
		categories:   All(),
		minFreeBytes: DefaultMinFreeBytes,
	}
	for _, opt := range opts {
		opt(&o)
	}

	dir := filepath.Join(root, DirName)
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}

	s := &Store{
		dir:   dir,
		date:  o.clock().Format(DateLayout),
		files: make(map[Category]ManagedFile, len(o.categories)),
	}

	for _, c := range o.categories {
		if !c.Valid() {
			utils.Warn("Ignoring invalid log category %d", int(c))
			continue
		}
		if _, dup := s.files[c]; dup {
			continue
		}
		s.files[c] = ManagedFile{Category: c, Path: filepath.Join(dir, c.FileName(s.date))}
		s.order = append(s.order, c)
	}
	return s, o
}

// ensureFile creates the parent directories and an empty file if absent.
func ensureFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		if os.IsExist(err) {
			return nil
		}
		return err
	}
	return f.Close()
}

// sweep removes every directory entry not carrying today's date.
func (s *Store) sweep() {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		utils.Warn("Skipping log rotation, cannot list %s: %v", s.dir, err)
		return
	}

	removed := 0
	for _, entry := range entries {
		if strings.Contains(entry.Name(), s.date) {
			continue
		}
		path := filepath.Join(s.dir, entry.Name())
		if err := os.Remove(path); err != nil {
			utils.Debug("Could not remove stale log %s: %v", path, err)
			continue
		}
		removed++
	}

	if removed > 0 {
		utils.Info("Rotated %d stale log files from %s", removed, s.dir)
		metrics.ObserveRotation(removed)
	}
}

func (s *Store) checkCapacity(minFree uint64) {
	if err := checkWritable(s.dir); err != nil {
		utils.Warn("Log directory %s is not writable: %v", s.dir, err)
	}
	if minFree == 0 {
		return
	}
	usage, err := disk.Usage(s.dir)
	if err != nil || usage == nil {
		utils.Debug("Could not read disk usage for %s: %v", s.dir, err)
		return
	}
	if usage.Free < minFree {
		utils.Warn("Low disk space for logs: %d bytes free in %s (threshold %d)", usage.Free, s.dir, minFree)
	}
}

// Resolve returns the managed file path for category.
func (s *Store) Resolve(category Category) (string, error) {
	f, ok := s.files[category]
	if !ok {
		return "", errors.WithHint(
			errors.Wrapf(ErrCategoryNotRegistered, "category %s", category),
			"register the category when opening the log store",
		)
	}
	return f.Path, nil
}

// MustResolve is Resolve for callers that treat an unregistered category as
// a programming error.
func (s *Store) MustResolve(category Category) string {
	path, err := s.Resolve(category)
	if err != nil {
		panic(err)
	}
	return path
}

// Files returns the registered managed files in category order.
func (s *Store) Files() []ManagedFile {
	out := make([]ManagedFile, 0, len(s.order))
	for _, c := range s.order {
		out = append(out, s.files[c])
	}
	return out
}

// Categories returns the registered categories in order.
func (s *Store) Categories() []Category {
	return append([]Category(nil), s.order...)
}

// Dir returns the absolute log directory.
func (s *Store) Dir() string { return s.dir }

// Date returns the date string embedded in today's file names.
func (s *Store) Date() string { return s.date }
