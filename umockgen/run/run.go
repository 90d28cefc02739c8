// Package run implements the umockgen pipeline: parse the package, find
// the requested interface, and render a typed proxy struct whose methods
// delegate to a umock.Mock.
package run

import (
	"errors"
	"fmt"
	"go/format"
	"go/token"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dave/dst"
	"github.com/dave/dst/decorator"
)

var (
	// ErrUsage signals bad command-line arguments.
	ErrUsage = errors.New("usage: umockgen [--dir <path>] [--name <ProxyName>] <InterfaceName>")

	// ErrInterfaceNotFound signals that no interface with the requested
	// name exists in the parsed package.
	ErrInterfaceNotFound = errors.New("interface not found")

	// ErrUnsupported signals an interface shape the generator cannot
	// render (embedded interfaces, generic methods, multiple non-error
	// results beyond what the []any convention covers).
	ErrUnsupported = errors.New("unsupported interface shape")
)

// FileSystem abstracts the file operations the generator needs.
type FileSystem interface {
	Glob(pattern string) ([]string, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm os.FileMode) error
}

// Run executes the generator: args is os.Args (args[0] ignored).
func Run(args []string, fsys FileSystem, stdout io.Writer) error {
	opts, err := parseArgs(args)
	if err != nil {
		return err
	}

	pkgName, iface, imports, err := findInterface(fsys, opts.dir, opts.ifaceName)
	if err != nil {
		return err
	}

	code, err := Generate(pkgName, opts.ifaceName, opts.proxyName, iface, imports)
	if err != nil {
		return err
	}

	outPath := filepath.Join(opts.dir, strings.ToLower(opts.proxyName)+"_umock.go")

	if err := fsys.WriteFile(outPath, []byte(code), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}

	fmt.Fprintf(stdout, "wrote %s\n", outPath)

	return nil
}

type options struct {
	dir       string
	ifaceName string
	proxyName string
}

func parseArgs(args []string) (options, error) {
	opts := options{dir: "."}

	rest := args[1:]
	for len(rest) > 0 {
		switch arg := rest[0]; arg {
		case "--dir":
			if len(rest) < 2 {
				return opts, fmt.Errorf("%w: --dir needs a value", ErrUsage)
			}

			opts.dir = rest[1]
			rest = rest[2:]
		case "--name":
			if len(rest) < 2 {
				return opts, fmt.Errorf("%w: --name needs a value", ErrUsage)
			}

			opts.proxyName = rest[1]
			rest = rest[2:]
		default:
			if opts.ifaceName != "" {
				return opts, fmt.Errorf("%w: unexpected argument %q", ErrUsage, arg)
			}

			opts.ifaceName = arg
			rest = rest[1:]
		}
	}

	if opts.ifaceName == "" {
		return opts, ErrUsage
	}

	if opts.proxyName == "" {
		opts.proxyName = opts.ifaceName + "Mock"
	}

	return opts, nil
}

// findInterface parses every non-test Go file in dir until it finds the
// named interface declaration. Returns the package name and the declaring
// file's imports alongside it.
func findInterface(fsys FileSystem, dir, name string) (string, *dst.InterfaceType, []Import, error) {
	paths, err := fsys.Glob(filepath.Join(dir, "*.go"))
	if err != nil {
		return "", nil, nil, fmt.Errorf("globbing %s: %w", dir, err)
	}

	for _, path := range paths {
		if strings.HasSuffix(path, "_test.go") || strings.HasSuffix(path, "_umock.go") {
			continue
		}

		src, err := fsys.ReadFile(path)
		if err != nil {
			return "", nil, nil, err
		}

		file, err := decorator.Parse(src)
		if err != nil {
			return "", nil, nil, fmt.Errorf("parsing %s: %w", path, err)
		}

		if iface := interfaceIn(file, name); iface != nil {
			return file.Name.Name, iface, fileImports(file), nil
		}
	}

	return "", nil, nil, fmt.Errorf("%w: %q in %s", ErrInterfaceNotFound, name, dir)
}

func interfaceIn(file *dst.File, name string) *dst.InterfaceType {
	for _, decl := range file.Decls {
		genDecl, ok := decl.(*dst.GenDecl)
		if !ok {
			continue
		}

		for _, spec := range genDecl.Specs {
			typeSpec, ok := spec.(*dst.TypeSpec)
			if !ok || typeSpec.Name.Name != name {
				continue
			}

			if iface, ok := typeSpec.Type.(*dst.InterfaceType); ok {
				return iface
			}
		}
	}

	return nil
}

// Import is one import of the scanned source file: a local alias (empty
// when none) and the import path. The generated proxy re-imports whichever
// of these its method signatures reference.
type Import struct {
	Name string
	Path string
}

// fileImports collects the import declarations of a parsed file.
func fileImports(file *dst.File) []Import {
	var imports []Import

	for _, decl := range file.Decls {
		genDecl, ok := decl.(*dst.GenDecl)
		if !ok || genDecl.Tok != token.IMPORT {
			continue
		}

		for _, spec := range genDecl.Specs {
			importSpec, ok := spec.(*dst.ImportSpec)
			if !ok {
				continue
			}

			name := ""
			if importSpec.Name != nil {
				name = importSpec.Name.Name
			}

			imports = append(imports, Import{
				Name: name,
				Path: strings.Trim(importSpec.Path.Value, `"`),
			})
		}
	}

	return imports
}

// importQualifier is the identifier a source file uses to reference an
// import: the explicit alias when there is one, else the last path segment
// with a trailing major-version segment skipped.
func importQualifier(imp Import) string {
	if imp.Name != "" {
		return imp.Name
	}

	segments := strings.Split(imp.Path, "/")
	last := segments[len(segments)-1]

	if len(segments) > 1 && isVersionSegment(last) {
		last = segments[len(segments)-2]
	}

	return last
}

func isVersionSegment(s string) bool {
	if len(s) < 2 || s[0] != 'v' {
		return false
	}

	for _, r := range s[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}

const umockImportPath = "github.com/ntoll/umock"

// proxyImports selects the source-file imports whose qualifiers appear in
// the rendered method signatures, plus the umock import itself.
func proxyImports(sourceImports []Import, quals map[string]struct{}) []Import {
	imports := []Import{{Path: umockImportPath}}

	for _, imp := range sourceImports {
		if imp.Name == "." || imp.Name == "_" || imp.Path == umockImportPath {
			continue
		}

		if _, used := quals[importQualifier(imp)]; used {
			imports = append(imports, imp)
		}
	}

	sort.Slice(imports, func(i, j int) bool { return imports[i].Path < imports[j].Path })

	return imports
}

// method describes one interface method for rendering.
type method struct {
	Name     string
	Params   []param
	Results  []string // non-error result types, in order
	HasError bool     // true when the last result is error
}

type param struct {
	Name     string
	Type     string
	Variadic bool
}

// proxyData is everything the renderer needs for one proxy file.
type proxyData struct {
	PkgName   string
	IfaceName string
	ProxyName string
	Imports   []Import
	Methods   []method
}

// Generate renders the proxy source for the given interface. imports is the
// declaring file's import list, carried over for any package-qualified
// types in the method signatures. Exposed separately from Run so tests can
// drive it without a filesystem.
func Generate(pkgName, ifaceName, proxyName string, iface *dst.InterfaceType, imports []Import) (string, error) {
	methods, quals, err := collectMethods(iface)
	if err != nil {
		return "", fmt.Errorf("interface %s: %w", ifaceName, err)
	}

	data := proxyData{
		PkgName:   pkgName,
		IfaceName: ifaceName,
		ProxyName: proxyName,
		Imports:   proxyImports(imports, quals),
		Methods:   methods,
	}

	rendered := renderProxy(data)

	formatted, err := format.Source([]byte(rendered))
	if err != nil {
		return "", fmt.Errorf("formatting generated code: %w", err)
	}

	return string(formatted), nil
}

// collectMethods walks the interface, returning its methods plus the set of
// package qualifiers their signatures reference.
func collectMethods(iface *dst.InterfaceType) ([]method, map[string]struct{}, error) {
	var methods []method

	quals := map[string]struct{}{}

	for _, field := range iface.Methods.List {
		if len(field.Names) == 0 {
			return nil, nil, fmt.Errorf("%w: embedded interfaces", ErrUnsupported)
		}

		funcType, ok := field.Type.(*dst.FuncType)
		if !ok {
			return nil, nil, fmt.Errorf("%w: non-method member %s", ErrUnsupported, field.Names[0].Name)
		}

		if funcType.TypeParams != nil {
			return nil, nil, fmt.Errorf("%w: generic method %s", ErrUnsupported, field.Names[0].Name)
		}

		for _, name := range field.Names {
			m, err := buildMethod(name.Name, funcType, quals)
			if err != nil {
				return nil, nil, err
			}

			methods = append(methods, m)
		}
	}

	return methods, quals, nil
}

func buildMethod(name string, funcType *dst.FuncType, quals map[string]struct{}) (method, error) {
	m := method{Name: name}

	if funcType.Params != nil {
		index := 0

		for _, field := range funcType.Params.List {
			ellipsis, variadic := field.Type.(*dst.Ellipsis)

			typeExpr := field.Type
			if variadic {
				typeExpr = ellipsis.Elt
			}

			typeName, err := exprString(typeExpr, quals)
			if err != nil {
				return m, fmt.Errorf("method %s: %w", name, err)
			}

			names := field.Names
			if len(names) == 0 {
				names = []*dst.Ident{{Name: fmt.Sprintf("a%d", index)}}
			}

			for _, paramName := range names {
				pname := paramName.Name
				if pname == "_" {
					pname = fmt.Sprintf("a%d", index)
				}

				m.Params = append(m.Params, param{Name: pname, Type: typeName, Variadic: variadic})
				index++
			}
		}
	}

	if funcType.Results != nil {
		var results []string

		for _, field := range funcType.Results.List {
			typeName, err := exprString(field.Type, quals)
			if err != nil {
				return m, fmt.Errorf("method %s: %w", name, err)
			}

			count := max(len(field.Names), 1)
			for j := 0; j < count; j++ {
				results = append(results, typeName)
			}
		}

		if len(results) > 0 && results[len(results)-1] == "error" {
			m.HasError = true
			results = results[:len(results)-1]
		}

		m.Results = results
	}

	return m, nil
}

// exprString renders a type expression back to source, recording any
// package qualifier it references in quals.
func exprString(expr dst.Expr, quals map[string]struct{}) (string, error) {
	switch e := expr.(type) {
	case *dst.Ident:
		return e.Name, nil
	case *dst.SelectorExpr:
		base, err := exprString(e.X, quals)
		if err != nil {
			return "", err
		}

		if ident, ok := e.X.(*dst.Ident); ok {
			quals[ident.Name] = struct{}{}
		}

		return base + "." + e.Sel.Name, nil
	case *dst.StarExpr:
		inner, err := exprString(e.X, quals)
		if err != nil {
			return "", err
		}

		return "*" + inner, nil
	case *dst.ArrayType:
		elem, err := exprString(e.Elt, quals)
		if err != nil {
			return "", err
		}

		if e.Len != nil {
			length, ok := e.Len.(*dst.BasicLit)
			if !ok {
				return "", fmt.Errorf("%w: non-literal array length", ErrUnsupported)
			}

			return "[" + length.Value + "]" + elem, nil
		}

		return "[]" + elem, nil
	case *dst.MapType:
		key, err := exprString(e.Key, quals)
		if err != nil {
			return "", err
		}

		value, err := exprString(e.Value, quals)
		if err != nil {
			return "", err
		}

		return "map[" + key + "]" + value, nil
	case *dst.InterfaceType:
		if len(e.Methods.List) == 0 {
			return "any", nil
		}

		return "", fmt.Errorf("%w: inline non-empty interface type", ErrUnsupported)
	case *dst.ChanType:
		elem, err := exprString(e.Value, quals)
		if err != nil {
			return "", err
		}

		switch e.Dir {
		case dst.RECV:
			return "<-chan " + elem, nil
		case dst.SEND:
			return "chan<- " + elem, nil
		default:
			return "chan " + elem, nil
		}
	case *dst.FuncType:
		return funcTypeString(e, quals)
	case *dst.Ellipsis:
		elem, err := exprString(e.Elt, quals)
		if err != nil {
			return "", err
		}

		return "..." + elem, nil
	default:
		return "", fmt.Errorf("%w: type expression %T", ErrUnsupported, expr)
	}
}

func funcTypeString(funcType *dst.FuncType, quals map[string]struct{}) (string, error) {
	var parts []string

	if funcType.Params != nil {
		for _, field := range funcType.Params.List {
			typeName, err := exprString(field.Type, quals)
			if err != nil {
				return "", err
			}

			count := max(len(field.Names), 1)
			for j := 0; j < count; j++ {
				parts = append(parts, typeName)
			}
		}
	}

	rendered := "func(" + strings.Join(parts, ", ") + ")"

	if funcType.Results == nil || len(funcType.Results.List) == 0 {
		return rendered, nil
	}

	var results []string

	for _, field := range funcType.Results.List {
		typeName, err := exprString(field.Type, quals)
		if err != nil {
			return "", err
		}

		count := max(len(field.Names), 1)
		for j := 0; j < count; j++ {
			results = append(results, typeName)
		}
	}

	if len(results) == 1 {
		return rendered + " " + results[0], nil
	}

	return rendered + " (" + strings.Join(results, ", ") + ")", nil
}

// Rendering.

func renderProxy(data proxyData) string {
	var b strings.Builder

	fmt.Fprintf(&b, "// Code generated by umockgen. DO NOT EDIT.\n\n")
	fmt.Fprintf(&b, "package %s\n\n", data.PkgName)
	fmt.Fprintf(&b, "import (\n")

	for _, imp := range data.Imports {
		if imp.Name != "" {
			fmt.Fprintf(&b, "\t%s %q\n", imp.Name, imp.Path)
		} else {
			fmt.Fprintf(&b, "\t%q\n", imp.Path)
		}
	}

	fmt.Fprintf(&b, ")\n\n")
	fmt.Fprintf(&b, "// %s is a typed proxy for %s: every method delegates to the\n", data.ProxyName, data.IfaceName)
	fmt.Fprintf(&b, "// child mock of the same name on M.\n")
	fmt.Fprintf(&b, "type %s struct {\n\tM *umock.Mock\n}\n\n", data.ProxyName)
	fmt.Fprintf(&b, "// New%s creates a proxy backed by a fresh mock.\n", data.ProxyName)
	fmt.Fprintf(&b, "func New%s() *%s {\n\treturn &%s{M: umock.New()}\n}\n", data.ProxyName, data.ProxyName, data.ProxyName)

	for _, m := range data.Methods {
		b.WriteString("\n")
		renderMethod(&b, data.ProxyName, m)
	}

	return b.String()
}

func renderMethod(b *strings.Builder, proxyName string, m method) {
	fmt.Fprintf(b, "func (p *%s) %s(%s)%s {\n", proxyName, m.Name, paramDecls(m.Params), resultDecls(m))

	// Gather arguments and invoke the child mock.
	resultVar := "result"
	if len(m.Results) == 0 {
		resultVar = "_"
	}

	switch {
	case len(m.Params) == 0:
		fmt.Fprintf(b, "\t%s, err := p.M.Attr(%q).Call()\n", resultVar, m.Name)
	default:
		fmt.Fprintf(b, "\tcallArgs := make([]any, 0, %d)\n", len(m.Params))

		for _, p := range m.Params {
			if p.Variadic {
				fmt.Fprintf(b, "\tfor _, v := range %s {\n\t\tcallArgs = append(callArgs, v)\n\t}\n", p.Name)
			} else {
				fmt.Fprintf(b, "\tcallArgs = append(callArgs, %s)\n", p.Name)
			}
		}

		fmt.Fprintf(b, "\t%s, err := p.M.Attr(%q).Call(callArgs...)\n", resultVar, m.Name)
	}

	// Handle the side-effect error.
	switch {
	case m.HasError && len(m.Results) == 0:
		fmt.Fprintf(b, "\treturn err\n}\n")
		return
	case m.HasError:
		fmt.Fprintf(b, "\tif err != nil {\n")

		for i, typeName := range m.Results {
			fmt.Fprintf(b, "\t\tvar zero%d %s\n", i, typeName)
		}

		fmt.Fprintf(b, "\t\treturn %s, err\n\t}\n", zeroList(len(m.Results)))
	default:
		// The signature has no error result to carry a configured error.
		fmt.Fprintf(b, "\tif err != nil {\n\t\tpanic(err)\n\t}\n")
	}

	// Convert the untyped result into the declared results.
	switch len(m.Results) {
	case 0:
		fmt.Fprintf(b, "}\n")
	case 1:
		fmt.Fprintf(b, "\tvalue0, _ := result.(%s)\n", m.Results[0])
		fmt.Fprintf(b, "\treturn value0%s\n}\n", errTail(m))
	default:
		// Multiple values travel as []any, by convention.
		fmt.Fprintf(b, "\tvalues, _ := result.([]any)\n")

		for i, typeName := range m.Results {
			fmt.Fprintf(b, "\tvar value%d %s\n", i, typeName)
			fmt.Fprintf(b, "\tif len(values) > %d {\n\t\tvalue%d, _ = values[%d].(%s)\n\t}\n", i, i, i, typeName)
		}

		fmt.Fprintf(b, "\treturn %s%s\n}\n", valueList(len(m.Results)), errTail(m))
	}
}

func paramDecls(params []param) string {
	parts := make([]string, len(params))

	for i, p := range params {
		typeName := p.Type
		if p.Variadic {
			typeName = "..." + typeName
		}

		parts[i] = p.Name + " " + typeName
	}

	return strings.Join(parts, ", ")
}

func resultDecls(m method) string {
	results := m.Results
	if m.HasError {
		results = append(append([]string{}, results...), "error")
	}

	switch len(results) {
	case 0:
		return ""
	case 1:
		return " " + results[0]
	default:
		return " (" + strings.Join(results, ", ") + ")"
	}
}

func zeroList(count int) string {
	parts := make([]string, count)
	for i := 0; i < count; i++ {
		parts[i] = fmt.Sprintf("zero%d", i)
	}

	return strings.Join(parts, ", ")
}

func valueList(count int) string {
	parts := make([]string, count)
	for i := 0; i < count; i++ {
		parts[i] = fmt.Sprintf("value%d", i)
	}

	return strings.Join(parts, ", ")
}

func errTail(m method) string {
	if m.HasError {
		return ", nil"
	}

	return ""
}
