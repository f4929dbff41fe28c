package compiler

import (
	"errors"
	"fmt"
	"go/ast"
	"go/types"

	"golang.org/x/tools/go/packages"

	"github.com/nikki93/gxwgsl/wgsl"
)

// ErrNoModules is returned by CompilePackages when no loaded file is marked
// with //wgsl:module.
var ErrNoModules = errors.New("no //wgsl:module files")

// CompilePackages loads the packages matching patterns and compiles every
// shader module in them. A package's module consists of its files marked with
// a //wgsl:module comment above the package clause; generated files are
// skipped.
func CompilePackages(dir string, opts Options, patterns ...string) ([]*Output, error) {
	if opts.HelperPath == "" {
		opts.HelperPath = wgsl.Path
	}

	// Load packages
	packagesConfig := &packages.Config{
		Dir: dir,
		Mode: packages.NeedName | packages.NeedFiles | packages.NeedImports | packages.NeedDeps |
			packages.NeedTypes | packages.NeedSyntax | packages.NeedTypesInfo,
	}
	loadPkgs, err := packages.Load(packagesConfig, patterns...)
	if err != nil {
		return nil, fmt.Errorf("load %v: %w", patterns, err)
	}
	var loadErrors ErrorList
	for _, pkg := range loadPkgs {
		for _, err := range pkg.Errors {
			loadErrors = append(loadErrors, &Error{Kind: ErrType, Msg: err.Error()})
		}
	}
	if len(loadErrors) > 0 {
		return nil, loadErrors
	}

	var outputs []*Output
	for _, pkg := range loadPkgs {
		src, ok := moduleSource(pkg, opts.HelperPath)
		if !ok {
			continue
		}
		logger().Info("compiler: compiling module", "package", pkg.PkgPath, "module", src.moduleName, "files", len(src.files))
		output, err := compile(src, opts)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", pkg.PkgPath, err)
		}
		outputs = append(outputs, output)
	}
	if len(outputs) == 0 {
		return nil, fmt.Errorf("%v: %w", patterns, ErrNoModules)
	}
	return outputs, nil
}

// moduleSource picks the module files of pkg and finds the wgsl package among
// its imports.
func moduleSource(pkg *packages.Package, helperPath string) (source, bool) {
	src := source{
		fileSet:    pkg.Fset,
		pkg:        pkg.Types,
		moduleName: pkg.Name,
		info:       pkg.TypesInfo,
	}
	for _, file := range pkg.Syntax {
		if ast.IsGenerated(file) {
			continue
		}
		if name, ok := moduleDirective(file); ok {
			if name != "" {
				src.moduleName = name
			}
			src.files = append(src.files, file)
		}
	}
	if len(src.files) == 0 {
		return source{}, false
	}

	visited := make(map[*packages.Package]bool)
	var visit func(dep *packages.Package)
	visit = func(dep *packages.Package) {
		if visited[dep] {
			return
		}
		visited[dep] = true
		if dep.PkgPath == helperPath {
			src.helperFiles = dep.Syntax
			src.helperInfo = dep.TypesInfo
			return
		}
		for _, imp := range dep.Imports {
			visit(imp)
		}
	}
	visit(pkg)
	if src.helperInfo == nil {
		src.helperInfo = &types.Info{Defs: map[*ast.Ident]types.Object{}}
	}
	return src, true
}
