package batch

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/mweigel/odrlint/internal/audit"
	"github.com/mweigel/odrlint/internal/logging"
	"github.com/mweigel/odrlint/internal/odrl"
	"github.com/mweigel/odrlint/internal/resolver"
)

const graphDocument = `{
  "@context": "http://www.w3.org/ns/odrl.jsonld",
  "@graph": [
    {
      "@type": "Set",
      "uid": "http://example.com/policy:1",
      "permission": [
        {
          "action": "use",
          "constraint": {"leftOperand": "purpose", "operator": "eq", "rightOperand": "marketing"}
        }
      ],
      "prohibition": [
        {
          "constraint": [{"leftOperand": "purpose", "operator": "neq", "rightOperand": "marketing"}]
        }
      ]
    }
  ]
}`

func quiet() Option {
	return WithLogger(logging.NewZLogger(zerolog.Nop()))
}

func quietResolver(dryRun bool) *resolver.Resolver {
	return resolver.New(
		resolver.WithDryRun(dryRun),
		resolver.WithLogger(logging.NewZLogger(zerolog.Nop())),
	)
}

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}

func TestDriver_ProcessFile(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "policy.jsonld", graphDocument)

	auditor := audit.NewInMemoryAuditor()
	driver := New(quietResolver(false), quiet(), WithAuditor(auditor))

	modified, err := driver.ProcessFile(path, "")
	if err != nil {
		t.Fatalf("ProcessFile() error = %v", err)
	}
	if !modified {
		t.Fatal("ProcessFile() = false, want true")
	}

	// the rewritten file keeps its @graph envelope and lost the
	// redundant prohibition
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	doc, err := odrl.DecodeDocument(data)
	if err != nil {
		t.Fatalf("decoding output: %v", err)
	}
	if doc.Shape != odrl.ShapeGraph {
		t.Errorf("Shape = %v, want graph", doc.Shape)
	}
	if len(doc.Policies) != 1 {
		t.Fatalf("len(Policies) = %d, want 1", len(doc.Policies))
	}
	if len(doc.Policies[0].Prohibition) != 0 {
		t.Errorf("prohibition not removed: %+v", doc.Policies[0].Prohibition)
	}
	if len(doc.Policies[0].Permission) != 1 {
		t.Errorf("permission side changed: %+v", doc.Policies[0].Permission)
	}

	stats := driver.Stats()
	if stats.FilesProcessed != 1 || stats.FilesModified != 1 {
		t.Errorf("file stats = %+v", stats)
	}
	if stats.DuplicationsFound != 1 || stats.DuplicationsResolved != 1 {
		t.Errorf("duplication stats = %+v", stats)
	}

	entries := auditor.Entries()
	if len(entries) != 1 {
		t.Fatalf("len(audit entries) = %d, want 1", len(entries))
	}
	if entries[0].Kind != string(resolver.KindLogicalInverse) {
		t.Errorf("audit kind = %s", entries[0].Kind)
	}
	if entries[0].PolicyUID != "http://example.com/policy:1" {
		t.Errorf("audit policy uid = %s", entries[0].PolicyUID)
	}
}

func TestDriver_ProcessFile_DryRun(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "policy.jsonld", graphDocument)

	driver := New(quietResolver(true), quiet())

	modified, err := driver.ProcessFile(path, "")
	if err != nil {
		t.Fatalf("ProcessFile() error = %v", err)
	}
	if !modified {
		t.Fatal("ProcessFile() = false, want true (dry run still reports)")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading file: %v", err)
	}
	if !bytes.Equal(data, []byte(graphDocument)) {
		t.Error("dry run rewrote the file")
	}

	stats := driver.Stats()
	if stats.DuplicationsResolved != 1 {
		t.Errorf("DuplicationsResolved = %d, want 1", stats.DuplicationsResolved)
	}
}

func TestDriver_ProcessFile_Output(t *testing.T) {
	dir := t.TempDir()
	in := writeTestFile(t, dir, "in.jsonld", graphDocument)
	out := filepath.Join(dir, "out.jsonld")

	driver := New(quietResolver(false), quiet())
	if _, err := driver.ProcessFile(in, out); err != nil {
		t.Fatalf("ProcessFile() error = %v", err)
	}

	// input untouched, output written
	data, err := os.ReadFile(in)
	if err != nil {
		t.Fatalf("reading input: %v", err)
	}
	if !bytes.Equal(data, []byte(graphDocument)) {
		t.Error("input file was rewritten despite explicit output path")
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("output file missing: %v", err)
	}
}

func TestDriver_ProcessDirectory(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "a.jsonld", graphDocument)
	writeTestFile(t, dir, "b.json", graphDocument)
	writeTestFile(t, dir, "ignored.txt", "not a policy")
	// a broken file must not abort the batch
	writeTestFile(t, dir, "broken.json", "{nope")

	driver := New(quietResolver(false), quiet(), WithWorkers(4))
	if err := driver.ProcessDirectory(dir); err != nil {
		t.Fatalf("ProcessDirectory() error = %v", err)
	}

	stats := driver.Stats()
	if stats.FilesProcessed != 3 {
		t.Errorf("FilesProcessed = %d, want 3", stats.FilesProcessed)
	}
	if stats.FilesModified != 2 {
		t.Errorf("FilesModified = %d, want 2", stats.FilesModified)
	}
	if stats.PoliciesModified != 2 {
		t.Errorf("PoliciesModified = %d, want 2", stats.PoliciesModified)
	}
}

func TestDriver_Filter(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "policy.jsonld", graphDocument)

	program, err := CompileFilter(`policy.UID == "http://example.com/policy:other"`)
	if err != nil {
		t.Fatalf("CompileFilter() error = %v", err)
	}

	driver := New(quietResolver(false), quiet(), WithFilter(program))

	modified, err := driver.ProcessFile(path, "")
	if err != nil {
		t.Fatalf("ProcessFile() error = %v", err)
	}
	if modified {
		t.Error("ProcessFile() = true, want false (policy filtered out)")
	}

	stats := driver.Stats()
	if stats.PoliciesProcessed != 0 {
		t.Errorf("PoliciesProcessed = %d, want 0 (filtered)", stats.PoliciesProcessed)
	}
}

func TestCompileFilter_Invalid(t *testing.T) {
	if _, err := CompileFilter("policy.UID =="); err == nil {
		t.Error("CompileFilter() accepted a broken expression")
	}
}
