package relocate

import "path/filepath"

// Relocator knows where staged artifacts live and where they go.
type Relocator struct {
	PackagesDir string
	OutputDir   string
	Overwrite   bool
}

// DocsTask maps packages/<id>/docs/html to <out>/docs/<id>.
func (r Relocator) DocsTask(id string) Task {
	return Task{
		Source:      filepath.Join(r.PackagesDir, id, "docs", "html"),
		Destination: filepath.Join(r.OutputDir, "docs", id),
	}
}

// ExamplesTask maps packages/<id>/examples to <out>/examples/<id>.
func (r Relocator) ExamplesTask(id string) Task {
	return Task{
		Source:      filepath.Join(r.PackagesDir, id, "examples"),
		Destination: filepath.Join(r.OutputDir, "examples", id),
	}
}

// RelocateDocs moves a module's generated HTML documentation into the output tree.
func (r Relocator) RelocateDocs(id string) error {
	return Move(r.DocsTask(id), Options{Overwrite: r.Overwrite})
}

// RelocateExamples moves a module's examples into the output tree.
func (r Relocator) RelocateExamples(id string) error {
	return Move(r.ExamplesTask(id), Options{Overwrite: r.Overwrite})
}
