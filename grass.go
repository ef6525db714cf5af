// Package grass compiles SCSS source text to CSS. The core never
// touches the file system on its own; @use and @import targets resolve
// through an injected Loader, so hosts control all I/O.
package grass

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/deftliang/grass/ast"
	"github.com/deftliang/grass/css"
	"github.com/deftliang/grass/diag"
	"github.com/deftliang/grass/eval"
	"github.com/deftliang/grass/parser"
	"github.com/deftliang/grass/value"
)

// Loader resolves module and import specifiers to parsed stylesheets.
type Loader = eval.Loader

// Options configures one compilation. The zero value compiles with
// expanded output, default precision and legacy imports enabled.
type Options struct {
	// Style selects expanded or compressed output.
	Style css.Style
	// Precision bounds fractional digits in emitted numbers; 0 means
	// the default of 10.
	Precision int
	// QuietDeps silences @warn coming from loaded dependencies.
	QuietDeps bool
	// DisallowLegacyImport turns Sass @import of local files into an
	// error; plain CSS imports always pass through.
	DisallowLegacyImport bool
	// SourceMap collects output-position to source-span records.
	SourceMap bool
	// Seed makes random() and unique-id() reproducible; 0 seeds from
	// the clock.
	Seed int64
	// Loader resolves @use/@forward/@import targets. Without one any
	// load fails.
	Loader Loader
	// Logger receives structured debug output; nil disables logging.
	Logger *zap.Logger
}

// Result is a successful compilation.
type Result struct {
	CSS       string
	SourceMap []css.Mapping
	Warnings  []*diag.Diagnostic
}

// Compile compiles src, using name in spans and diagnostics.
func Compile(src, name string, opts Options) (Result, error) {
	sheet, err := parser.New(src, name, opts.Logger).Parse()
	if err != nil {
		return Result{}, err
	}
	return CompileSheet(sheet, opts)
}

// CompileSheet compiles an already-parsed stylesheet.
func CompileSheet(sheet *ast.StyleSheet, opts Options) (Result, error) {
	precision := opts.Precision
	if precision == 0 {
		precision = value.DefaultFormat.Precision
	}
	ev := eval.New(eval.Options{
		Format:            value.Format{Precision: precision, Compressed: opts.Style == css.StyleCompressed},
		Loader:            opts.Loader,
		Seed:              opts.Seed,
		QuietDeps:         opts.QuietDeps,
		AllowLegacyImport: !opts.DisallowLegacyImport,
		Logger:            opts.Logger,
	})
	tree, err := ev.Evaluate(sheet)
	if err != nil {
		return Result{}, err
	}
	w := css.NewWriter(opts.Style)
	w.SourceMap = opts.SourceMap
	text, err := w.Write(tree)
	if err != nil {
		return Result{}, err
	}
	return Result{CSS: text, SourceMap: w.Mappings(), Warnings: ev.Warnings()}, nil
}

// CompileFile compiles the file at p. Unless opts.Loader is set,
// imports resolve relative to the file plus any CWD fallback.
func CompileFile(p string, opts Options) (Result, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return Result{}, diag.Errorf(diag.IOError, "%v", err)
	}
	if opts.Loader == nil {
		opts.Loader = &FileLoader{Roots: []string{filepath.Dir(p)}, Logger: opts.Logger}
	}
	return Compile(string(data), p, opts)
}

// FileLoader resolves specifiers against the requesting file's
// directory first, then each configured root. It understands partials
// (_name.scss) and directory indexes (name/_index.scss).
type FileLoader struct {
	Roots  []string
	Logger *zap.Logger
}

// Resolve implements Loader.
func (l *FileLoader) Resolve(spec, from string) (*ast.StyleSheet, string, error) {
	dirs := make([]string, 0, len(l.Roots)+1)
	if from != "" {
		dirs = append(dirs, filepath.Dir(from))
	}
	dirs = append(dirs, l.Roots...)
	for _, dir := range dirs {
		for _, cand := range candidates(filepath.Join(dir, filepath.FromSlash(spec))) {
			data, err := os.ReadFile(cand)
			if err != nil {
				continue
			}
			canonical, err := filepath.Abs(cand)
			if err != nil {
				canonical = filepath.Clean(cand)
			}
			sheet, err := parser.New(string(data), cand, l.Logger).Parse()
			if err != nil {
				return nil, "", err
			}
			return sheet, canonical, nil
		}
	}
	return nil, "", fmt.Errorf("can't find stylesheet %q", spec)
}

// candidates lists the paths a specifier may refer to, in priority
// order.
func candidates(p string) []string {
	dir, base := filepath.Split(p)
	if filepath.Ext(base) != "" {
		return []string{p, dir + "_" + base}
	}
	return []string{
		p + ".scss",
		dir + "_" + base + ".scss",
		filepath.Join(p, "index.scss"),
		filepath.Join(p, "_index.scss"),
	}
}

// MapLoader serves stylesheets from memory, keyed by specifier. Tests
// and embedded themes use it.
type MapLoader map[string]string

// Resolve implements Loader.
func (l MapLoader) Resolve(spec, from string) (*ast.StyleSheet, string, error) {
	for _, key := range []string{spec, spec + ".scss", "_" + spec + ".scss"} {
		if src, ok := l[key]; ok {
			sheet, err := parser.Parse(src, key)
			if err != nil {
				return nil, "", err
			}
			return sheet, key, nil
		}
	}
	return nil, "", fmt.Errorf("can't find stylesheet %q", spec)
}
