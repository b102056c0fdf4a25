// Package gen generates FixedWidthFields methods from `fixed` struct tags.
package gen

import (
	"bytes"
	"embed"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"sort"
	"strconv"
	"strings"
	"text/template"

	"github.com/pkg/errors"

	fixedwidth "github.com/sthagen/twking7-fixed-width"
)

//go:embed templates/*
var f embed.FS
var templates = template.Must(template.ParseFS(f, "templates/*.tmpl"))

// Config controls a generator run.
type Config struct {
	// Dir is the package directory to read.
	Dir string
	// Types restricts generation to the named types. When empty every
	// struct with at least one `fixed` tag is generated.
	Types []string
	// Output is the file name written into Dir. It defaults to
	// "<package>_fixedwidth.go".
	Output string
}

type templateData struct {
	Package string
	Types   []typeData
}

type typeData struct {
	Name  string
	Nodes []string
}

// Run generates the methods for cfg and writes them to the output file.
// It returns the path written.
func Run(cfg Config) (string, error) {
	pkg, src, err := Generate(cfg)
	if err != nil {
		return "", err
	}
	out := cfg.Output
	if out == "" {
		out = pkg + "_fixedwidth.go"
	}
	path := filepath.Join(cfg.Dir, out)
	if err := os.WriteFile(path, src, 0o644); err != nil {
		return "", errors.Wrap(err, "gen: write output")
	}
	return path, nil
}

// Generate returns the package name and the formatted source of the
// generated file.
func Generate(cfg Config) (string, []byte, error) {
	files, err := parseDir(cfg)
	if err != nil {
		return "", nil, err
	}
	if len(files) == 0 {
		return "", nil, errors.Errorf("gen: no Go files in %s", cfg.Dir)
	}

	structs := map[string]*ast.StructType{}
	for _, file := range files {
		for _, decl := range file.Decls {
			gd, ok := decl.(*ast.GenDecl)
			if !ok || gd.Tok != token.TYPE {
				continue
			}
			for _, spec := range gd.Specs {
				ts := spec.(*ast.TypeSpec)
				if st, ok := ts.Type.(*ast.StructType); ok && ts.TypeParams == nil {
					structs[ts.Name.Name] = st
				}
			}
		}
	}

	names := cfg.Types
	if len(names) == 0 {
		for name, st := range structs {
			if hasFixedTag(st) {
				names = append(names, name)
			}
		}
		sort.Strings(names)
	}
	if len(names) == 0 {
		return "", nil, errors.Errorf("gen: no structs with %q tags in %s", fixedwidth.TagName, cfg.Dir)
	}

	data := templateData{Package: files[0].Name.Name}
	for _, name := range names {
		st, ok := structs[name]
		if !ok {
			return "", nil, errors.Errorf("gen: struct type %s not found", name)
		}
		nodes, err := structNodes(name, st, structs, names)
		if err != nil {
			return "", nil, err
		}
		data.Types = append(data.Types, typeData{Name: name, Nodes: nodes})
	}

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "fields.tmpl", data); err != nil {
		return "", nil, errors.Wrap(err, "gen: render")
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return "", nil, errors.Wrap(err, "gen: format")
	}
	return data.Package, src, nil
}

func parseDir(cfg Config) ([]*ast.File, error) {
	paths, err := filepath.Glob(filepath.Join(cfg.Dir, "*.go"))
	if err != nil {
		return nil, err
	}
	fset := token.NewFileSet()
	var files []*ast.File
	for _, path := range paths {
		base := filepath.Base(path)
		if strings.HasSuffix(base, "_test.go") || strings.HasSuffix(base, "_fixedwidth.go") || base == cfg.Output {
			continue
		}
		file, err := parser.ParseFile(fset, path, nil, parser.SkipObjectResolution)
		if err != nil {
			return nil, errors.Wrap(err, "gen: parse")
		}
		files = append(files, file)
	}
	return files, nil
}

func fieldTag(field *ast.Field) (string, bool) {
	if field.Tag == nil {
		return "", false
	}
	s, err := strconv.Unquote(field.Tag.Value)
	if err != nil {
		return "", false
	}
	return reflect.StructTag(s).Lookup(fixedwidth.TagName)
}

func hasFixedTag(st *ast.StructType) bool {
	for _, field := range st.Fields.List {
		if _, ok := fieldTag(field); ok {
			return true
		}
	}
	return false
}

// structNodes renders one Go expression per field node of the struct.
// Untagged fields of a generated struct type become nested groups.
func structNodes(name string, st *ast.StructType, structs map[string]*ast.StructType, generated []string) ([]string, error) {
	var nodes []string
	for _, field := range st.Fields.List {
		tag, hasTag := fieldTag(field)
		for _, ident := range fieldNames(field) {
			if !ident.IsExported() {
				continue
			}
			if !hasTag {
				typ, ok := field.Type.(*ast.Ident)
				if !ok || structs[typ.Name] == nil || !slices.Contains(generated, typ.Name) {
					return nil, errors.Errorf("gen: missing range for field %s.%s", name, ident.Name)
				}
				nodes = append(nodes, typ.Name+"{}.FixedWidthFields()")
				continue
			}
			spec, skip, err := fixedwidth.ParseTag(tag)
			if err != nil {
				return nil, errors.Wrapf(err, "gen: field %s.%s", name, ident.Name)
			}
			if skip {
				continue
			}
			if spec.Name == "" {
				spec.Name = ident.Name
			}
			nodes = append(nodes, fieldExpr(spec))
		}
	}
	return nodes, nil
}

// fieldNames returns the names of a field, or the type name of an
// embedded one.
func fieldNames(field *ast.Field) []*ast.Ident {
	if len(field.Names) > 0 {
		return field.Names
	}
	switch t := field.Type.(type) {
	case *ast.Ident:
		return []*ast.Ident{t}
	case *ast.StarExpr:
		if id, ok := t.X.(*ast.Ident); ok {
			return []*ast.Ident{id}
		}
	}
	return nil
}

func fieldExpr(spec fixedwidth.FieldSpec) string {
	var b strings.Builder
	b.WriteString("fixedwidth.NewField(")
	b.WriteString(strconv.Itoa(spec.Range.Start))
	b.WriteString(", ")
	b.WriteString(strconv.Itoa(spec.Range.End))
	b.WriteString(").WithName(")
	b.WriteString(strconv.Quote(spec.Name))
	b.WriteString(")")
	if spec.Pad != 0 && spec.Pad != fixedwidth.DefaultPad {
		b.WriteString(".PadWith(")
		if spec.Pad < 0x80 {
			b.WriteString(strconv.QuoteRune(rune(spec.Pad)))
		} else {
			b.WriteString(strconv.Itoa(int(spec.Pad)))
		}
		b.WriteString(")")
	}
	if spec.Justify == fixedwidth.Right {
		b.WriteString(".WithJustify(fixedwidth.Right)")
	}
	return b.String()
}
