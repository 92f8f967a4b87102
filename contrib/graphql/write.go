package graphql

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"
	"golang.org/x/sync/errgroup"

	"github.com/gazorby/strawberry/compiler/gen"
)

// DefaultSchemaFile is the file name used for single-file output.
const DefaultSchemaFile = "schema.graphql"

// WriteOption configures schema file output.
type WriteOption func(*writeConfig)

type writeConfig struct {
	filename string
	split    bool
}

// WithFilename sets the output file name for single-file mode.
func WithFilename(name string) WriteOption {
	return func(c *writeConfig) { c.filename = name }
}

// WithSplitFiles writes one file per definition instead of a single schema
// file. Scalars go to scalars.graphql; each object and union goes to a file
// named after its type.
func WithSplitFiles() WriteOption {
	return func(c *writeConfig) { c.split = true }
}

// WriteSchema renders the graph and writes the SDL under dir, creating the
// directory if needed. Split mode writes files concurrently.
func WriteSchema(g *gen.Graph, dir string, opts ...WriteOption) error {
	cfg := &writeConfig{filename: DefaultSchemaFile}
	for _, opt := range opts {
		opt(cfg)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("graphql: creating output directory: %w", err)
	}
	if !cfg.split {
		sdl, err := SDL(g)
		if err != nil {
			return err
		}
		return writeFile(filepath.Join(dir, cfg.filename), []byte(sdl))
	}
	doc, err := Render(g)
	if err != nil {
		return err
	}
	var (
		grp     errgroup.Group
		scalars ast.DefinitionList
	)
	grp.SetLimit(runtime.GOMAXPROCS(0))
	for _, def := range doc.Definitions {
		if def.Kind == ast.Scalar {
			scalars = append(scalars, def)
			continue
		}
		grp.Go(func() error {
			return writeFile(filepath.Join(dir, def.Name+".graphql"), formatDefs(ast.DefinitionList{def}))
		})
	}
	if len(scalars) > 0 {
		grp.Go(func() error {
			return writeFile(filepath.Join(dir, "scalars.graphql"), formatDefs(scalars))
		})
	}
	return grp.Wait()
}

func formatDefs(defs ast.DefinitionList) []byte {
	var buf bytes.Buffer
	formatter.NewFormatter(&buf).FormatSchemaDocument(&ast.SchemaDocument{Definitions: defs})
	return buf.Bytes()
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("graphql: writing %s: %w", filepath.Base(path), err)
	}
	return nil
}
