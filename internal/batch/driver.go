package batch

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/rs/zerolog/log"

	"github.com/mweigel/odrlint/internal/audit"
	"github.com/mweigel/odrlint/internal/logging"
	"github.com/mweigel/odrlint/internal/odrl"
	"github.com/mweigel/odrlint/internal/resolver"
)

// Driver runs the duplication resolver over files and directories of
// JSON-LD policy documents. Files are independent, so they can be
// processed concurrently; all shared state is the stats block behind a
// mutex.
type Driver struct {
	resolver *resolver.Resolver
	auditor  audit.Auditor
	log      logging.Logger
	filter   *vm.Program
	workers  int

	mu    sync.Mutex
	stats resolver.Stats
}

type Option func(*Driver)

func WithAuditor(auditor audit.Auditor) Option {
	return func(d *Driver) {
		d.auditor = auditor
	}
}

func WithLogger(logger logging.Logger) Option {
	return func(d *Driver) {
		d.log = logger
	}
}

// WithWorkers sets how many files are processed concurrently.
// Values below two mean sequential processing.
func WithWorkers(workers int) Option {
	return func(d *Driver) {
		d.workers = workers
	}
}

// WithFilter sets a compiled policy filter; policies for which the
// expression is false are skipped entirely.
func WithFilter(program *vm.Program) Option {
	return func(d *Driver) {
		d.filter = program
	}
}

// CompileFilter compiles a policy filter expression. The expression sees a
// single variable, "policy".
func CompileFilter(src string) (*vm.Program, error) {
	program, err := expr.Compile(src, expr.AsBool(), expr.Env(map[string]any{
		"policy": odrl.Policy{},
	}))
	if err != nil {
		return nil, fmt.Errorf("compiling filter expression: %w", err)
	}
	return program, nil
}

func New(res *resolver.Resolver, opts ...Option) *Driver {
	d := &Driver{
		resolver: res,
		auditor:  audit.NewNoopAuditor(),
		log:      logging.NewZLogger(log.Logger),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Stats returns a snapshot of the counters accumulated so far.
func (d *Driver) Stats() resolver.Stats {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stats
}

// ProcessInputs processes a mix of files and directories. A failing input
// is logged and skipped; the batch always runs to completion.
func (d *Driver) ProcessInputs(inputs []string) error {
	for _, input := range inputs {
		info, err := os.Stat(input)
		if err != nil {
			return fmt.Errorf("reading input %s: %w", input, err)
		}
		if info.IsDir() {
			if err := d.ProcessDirectory(input); err != nil {
				return err
			}
			continue
		}
		if _, err := d.ProcessFile(input, ""); err != nil {
			d.log.Error("processing %s: %v", input, err)
		}
	}
	return nil
}

// ProcessDirectory processes every .json and .jsonld file under the
// directory. Per-file errors do not abort the walk.
func (d *Driver) ProcessDirectory(dir string) error {
	files, err := collectPolicyFiles(dir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		d.log.Warn("no .json or .jsonld files found in %s", dir)
		return nil
	}

	d.log.Info("found %d file(s) to process", len(files))

	if d.workers < 2 {
		for _, file := range files {
			if _, err := d.ProcessFile(file, ""); err != nil {
				d.log.Error("processing %s: %v", file, err)
			}
		}
		return nil
	}

	jobs := make(chan string)
	var wg sync.WaitGroup
	for i := 0; i < d.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for file := range jobs {
				if _, err := d.ProcessFile(file, ""); err != nil {
					d.log.Error("processing %s: %v", file, err)
				}
			}
		}()
	}
	for _, file := range files {
		jobs <- file
	}
	close(jobs)
	wg.Wait()

	return nil
}

// ProcessFile cleans all policies in a single document. The output path
// defaults to the input path (in-place). It returns whether the file was
// modified (in dry-run mode: whether it would be).
func (d *Driver) ProcessFile(inputPath, outputPath string) (bool, error) {
	if outputPath == "" {
		outputPath = inputPath
	}

	d.log.Info("processing: %s", inputPath)
	d.addStats(resolver.Stats{FilesProcessed: 1})

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", inputPath, err)
	}

	doc, err := odrl.DecodeDocument(data)
	if err != nil {
		return false, fmt.Errorf("decoding %s: %w", inputPath, err)
	}

	fileModified := false
	for i := range doc.Policies {
		policy := &doc.Policies[i]

		if skip, err := d.filteredOut(policy); err != nil {
			d.log.Warn("filter failed for policy %s: %v", policy.UID, err)
			continue
		} else if skip {
			continue
		}

		modified, duplications := d.resolver.CleanReport(policy)

		stats := resolver.Stats{
			PoliciesProcessed: 1,
			DuplicationsFound: len(duplications),
		}
		if modified {
			stats.PoliciesModified = 1
			stats.DuplicationsResolved = len(duplications)
			fileModified = true

			for _, dup := range duplications {
				entry := audit.NewEntry(inputPath, policy.UID, dup, d.resolver.DryRun())
				if err := d.auditor.Log(entry); err != nil {
					d.log.Warn("writing audit entry: %v", err)
				}
			}
		}
		d.addStats(stats)
	}

	if !fileModified {
		d.log.Info("no duplications found in %s", inputPath)
		return false, nil
	}

	d.addStats(resolver.Stats{FilesModified: 1})

	if d.resolver.DryRun() {
		d.log.Info("[dry run] would save changes to: %s", outputPath)
		return true, nil
	}

	out, err := doc.Encode()
	if err != nil {
		return false, fmt.Errorf("encoding %s: %w", outputPath, err)
	}
	if err := os.WriteFile(outputPath, out, 0644); err != nil {
		return false, fmt.Errorf("writing %s: %w", outputPath, err)
	}

	d.log.Info("cleaned policy saved to: %s", outputPath)
	return true, nil
}

func (d *Driver) filteredOut(policy *odrl.Policy) (bool, error) {
	if d.filter == nil {
		return false, nil
	}
	out, err := expr.Run(d.filter, map[string]any{
		"policy": *policy,
	})
	if err != nil {
		return true, err
	}
	keep, ok := out.(bool)
	return !ok || !keep, nil
}

func (d *Driver) addStats(stats resolver.Stats) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stats.Merge(stats)
}

func collectPolicyFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".json", ".jsonld":
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}
