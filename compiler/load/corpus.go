package load

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/boyter/gocodewalker"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/syssam/fortigen"
)

// Extensions lists the file extensions recognised as schema documents.
var Extensions = []string{"json", "yaml", "yml"}

// Corpus is the result of loading a schema directory.
type Corpus struct {
	// Schemas are sorted by category, then path.
	Schemas []*Schema
	// Skipped lists the documents that failed to load, in file order,
	// followed by the paths the walk could not read.
	Skipped []Skip
	// Files is the number of schema documents discovered.
	Files int
}

// Skip records a document that was not loaded.
type Skip struct {
	File string
	Err  error
}

// CorpusOption configures LoadCorpus.
type CorpusOption func(*corpusOptions)

type corpusOptions struct {
	workers int
	log     *zap.Logger
}

// WithWorkers bounds the number of documents parsed concurrently.
func WithWorkers(n int) CorpusOption {
	return func(o *corpusOptions) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithLogger sets the logger used to report skipped documents.
func WithLogger(l *zap.Logger) CorpusOption {
	return func(o *corpusOptions) {
		if l != nil {
			o.log = l
		}
	}
}

// LoadCorpus discovers and parses every schema document below root. The first
// directory below root is the category, the rest of the relative path (without
// extension) is the API path:
//
//	<root>/cmdb/firewall/policy.json  ->  category "cmdb", path "firewall/policy"
//
// Documents that fail to parse, and directories or ignore files the walk
// cannot read, are recorded in Corpus.Skipped and the load continues. A
// missing root yields a *fortigen.DownloadError and a root
// without any schema document yields fortigen.ErrEmptyCorpus.
func LoadCorpus(ctx context.Context, root string, opts ...CorpusOption) (*Corpus, error) {
	o := corpusOptions{workers: runtime.GOMAXPROCS(0), log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fortigen.NewDownloadError(root, err)
	}
	if !info.IsDir() {
		return nil, fortigen.NewDownloadError(root, fmt.Errorf("not a directory"))
	}
	files, walkErrs, err := discover(root)
	if err != nil {
		return nil, fortigen.NewDownloadError(root, err)
	}
	if len(files) == 0 {
		return nil, fortigen.ErrEmptyCorpus
	}

	var (
		schemas = make([]*Schema, len(files))
		errs    = make([]error, len(files))
	)
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(o.workers)
	for i, file := range files {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			category, apiPath := splitLocation(root, file)
			schemas[i], errs[i] = LoadFile(file, category, apiPath)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	c := &Corpus{Files: len(files)}
	for i, s := range schemas {
		if errs[i] != nil {
			o.log.Warn("skipping schema", zap.String("file", files[i]), zap.Error(errs[i]))
			c.Skipped = append(c.Skipped, Skip{File: files[i], Err: errs[i]})
			continue
		}
		c.Schemas = append(c.Schemas, s)
	}
	for _, sk := range walkErrs {
		o.log.Warn("skipping unreadable path", zap.String("file", sk.File), zap.Error(sk.Err))
		c.Skipped = append(c.Skipped, sk)
	}
	Sort(c.Schemas)
	return c, nil
}

// Sort orders schemas by category, then path.
func Sort(schemas []*Schema) {
	sort.SliceStable(schemas, func(i, j int) bool {
		if schemas[i].Category != schemas[j].Category {
			return schemas[i].Category < schemas[j].Category
		}
		return schemas[i].Path < schemas[j].Path
	})
}

// Select returns the schemas whose "category/path" or path starts with one
// of prefixes, keeping their order. With no prefixes it returns schemas.
func Select(schemas []*Schema, prefixes ...string) []*Schema {
	if len(prefixes) == 0 {
		return schemas
	}
	var out []*Schema
	for _, s := range schemas {
		for _, p := range prefixes {
			if strings.HasPrefix(s.ID(), p) || strings.HasPrefix(s.Path, p) {
				out = append(out, s)
				break
			}
		}
	}
	return out
}

// discover lists schema documents below root, honouring .gitignore files.
// Paths the walker cannot read are returned as skips; only a failure of the
// walk itself is an error.
func discover(root string) ([]string, []Skip, error) {
	queue := make(chan *gocodewalker.File, 100)
	walker := gocodewalker.NewFileWalker(root, queue)
	walker.AllowListExtensions = Extensions

	var (
		mu    sync.Mutex
		skips []Skip
	)
	walker.SetErrorHandler(func(e error) bool {
		file := root
		var pe *fs.PathError
		if errors.As(e, &pe) {
			file = pe.Path
		}
		mu.Lock()
		skips = append(skips, Skip{File: file, Err: e})
		mu.Unlock()
		return true
	})

	var (
		files []string
		wg    sync.WaitGroup
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		for f := range queue {
			files = append(files, f.Location)
		}
	}()
	err := walker.Start()
	wg.Wait()
	if err != nil {
		return nil, nil, err
	}
	sort.Strings(files)
	sort.Slice(skips, func(i, j int) bool { return skips[i].File < skips[j].File })
	return files, skips, nil
}

// splitLocation derives category and API path from a file location.
func splitLocation(root, file string) (category, apiPath string) {
	rel, err := filepath.Rel(root, file)
	if err != nil {
		rel = filepath.Base(file)
	}
	rel = filepath.ToSlash(strings.TrimSuffix(rel, filepath.Ext(rel)))
	category, apiPath, found := strings.Cut(rel, "/")
	if !found {
		return "", rel
	}
	return category, apiPath
}
