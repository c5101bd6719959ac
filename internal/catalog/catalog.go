// Package catalog indexes initial-condition directories on disk.
//
// A catalog is built by scanning base directories for settings files
// (default pattern *_settings.yaml). A settings file is kept only when the
// IC file it names under filenames.ic_file_name exists next to it. Each
// record is the settings document as a nested map, plus two keys added
// during the scan: dir (the settings directory) and ic_name (the IC file),
// both real paths.
//
// Records are read back by dotted attribute path:
//
//	cat, _ := catalog.Open("", catalog.Options{}, "runs")
//	ecc, _ := cat.Floats("physical.binsys.e")
package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// DefaultFilter matches the settings files written by the storage package.
const DefaultFilter = "*_settings.yaml"

var (
	ErrUnknownOption = errors.New("catalog: unknown option")
	ErrNotNumeric    = errors.New("catalog: value is not numeric")
	ErrEmpty         = errors.New("catalog: no values")
)

// Record is one settings document.
type Record map[string]any

// Options tune a scan. The zero value searches recursively and logs
// nothing.
type Options struct {
	// ExactDirs searches only the given directories, not their children,
	// and keeps duplicate hits.
	ExactDirs bool
	Logger    *zerolog.Logger
}

// ParseOptions builds Options from key=value pairs as given on a command
// line. Unknown keys are rejected.
func ParseOptions(kv map[string]string) (Options, error) {
	var opts Options
	for key, val := range kv {
		switch key {
		case "exact_dirs":
			b, err := strconv.ParseBool(val)
			if err != nil {
				return Options{}, fmt.Errorf("exact_dirs: %w", err)
			}
			opts.ExactDirs = b
		default:
			return Options{}, fmt.Errorf("%w: %s", ErrUnknownOption, key)
		}
	}
	return opts, nil
}

type Catalog struct {
	filter  string
	dirs    []string
	opts    Options
	log     zerolog.Logger
	records []Record
}

// Open scans dirs (default ".") for files matching filter (default
// DefaultFilter) and loads every settings file whose IC file exists.
func Open(filter string, opts Options, dirs ...string) (*Catalog, error) {
	if filter == "" {
		filter = DefaultFilter
	}
	if _, err := filepath.Match(filter, ""); err != nil {
		return nil, fmt.Errorf("filter %q: %w", filter, err)
	}
	if len(dirs) == 0 {
		dirs = []string{"."}
	}

	c := &Catalog{filter: filter, dirs: dirs, opts: opts, log: zerolog.Nop()}
	if opts.Logger != nil {
		c.log = *opts.Logger
	}
	if err := c.Refresh(); err != nil {
		return nil, err
	}
	return c, nil
}

// Refresh rebuilds the catalog from disk using the filter and directories given to Open.
func (c *Catalog) Refresh() error {
	c.log.Info().Int("dirs", len(c.dirs)).Str("filter", c.filter).Msg("building catalog")

	var matches []string
	for _, dir := range c.dirs {
		found, err := scanDir(dir, c.filter, !c.opts.ExactDirs)
		if err != nil {
			return err
		}
		c.log.Debug().Str("dir", dir).Int("files", len(found)).Msg("scanned")
		matches = append(matches, found...)
	}
	if !c.opts.ExactDirs {
		matches = dedupe(matches)
	}

	records := make([]Record, 0, len(matches))
	for _, path := range matches {
		rec, err := loadRecord(path)
		if err != nil {
			c.log.Warn().Err(err).Str("file", path).Msg("skipping settings file")
			continue
		}
		if rec != nil {
			records = append(records, rec)
		}
	}
	c.records = records

	c.log.Info().Int("records", len(records)).Msg("catalog built")
	return nil
}

func scanDir(dir, filter string, recursive bool) ([]string, error) {
	var matches []string
	add := func(path string) error {
		resolved, err := realpath(path)
		if err != nil {
			return err
		}
		matches = append(matches, resolved)
		return nil
	}

	if !recursive {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if ok, _ := filepath.Match(filter, entry.Name()); ok && !entry.IsDir() {
				if err := add(filepath.Join(dir, entry.Name())); err != nil {
					return nil, err
				}
			}
		}
		return matches, nil
	}

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if ok, _ := filepath.Match(filter, d.Name()); ok {
			return add(path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return matches, nil
}

func realpath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}

func dedupe(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	out := paths[:0]
	for _, p := range paths {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}

// loadRecord returns nil without error when the named IC file is absent.
func loadRecord(path string) (Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rec Record
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, nil
	}

	name, ok := lookup(rec, "filenames.ic_file_name").(string)
	if !ok || name == "" {
		return nil, nil
	}

	dir := filepath.Dir(path)
	ic := name
	if !filepath.IsAbs(ic) {
		ic = filepath.Join(dir, ic)
	}
	ic, err = realpath(ic)
	if err != nil {
		return nil, nil
	}
	if info, err := os.Stat(ic); err != nil || info.IsDir() {
		return nil, nil
	}

	rec["dir"] = dir
	rec["ic_name"] = ic
	return rec, nil
}

// Len returns the number of records.
func (c *Catalog) Len() int { return len(c.records) }

// Record returns the i'th record.
func (c *Catalog) Record(i int) Record { return c.records[i] }

// Query returns the value at a dotted path for every record, nil where the
// path is absent.
func (c *Catalog) Query(path string) []any {
	out := make([]any, len(c.records))
	for i, rec := range c.records {
		out[i] = lookup(rec, path)
	}
	return out
}

// Get returns the value at a dotted path, or nil.
func (r Record) Get(path string) any { return lookup(r, path) }

func lookup(rec Record, path string) any {
	var cur any = map[string]any(rec)
	for _, key := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		if cur, ok = m[key]; !ok {
			return nil
		}
	}
	return cur
}
