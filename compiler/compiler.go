// Package compiler translates shader modules written in a subset of Go into
// WGSL compute shaders.
//
// A shader module is a Go file that imports the wgsl package. Its type
// declarations are classified by marker directives (//wgsl:config,
// //wgsl:input_array, //wgsl:output_array, //wgsl:output_vec), its functions
// are translated to WGSL and the buffers it declares are assigned binding
// slots. The result is a shader.Module plus the classification used by
// buildergen to generate matching host-side builders.
package compiler

import (
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"go/types"
	"path/filepath"
	"strings"

	"github.com/nikki93/gxwgsl/shader"
	"github.com/nikki93/gxwgsl/wgsl"
)

// Options configures compilation.
type Options struct {
	// HelperPath is the import path of the wgsl vocabulary package.
	HelperPath string

	// Validate assembles the compiled module and checks the WGSL with naga.
	Validate bool

	// WorkgroupSize is used for the validation assembly.
	WorkgroupSize [3]uint32
}

func DefaultOptions() Options {
	return Options{
		HelperPath:    wgsl.Path,
		Validate:      true,
		WorkgroupSize: shader.DefaultWorkgroupSize,
	}
}

// Output is a compiled module together with the classification it was
// compiled from.
type Output struct {
	// Package is the Go package name of the module.
	Package string

	// Dir is the directory holding the module files, named in Files.
	Dir   string
	Files []string

	Module      *shader.Module
	CustomTypes []CustomType
}

// source is everything the compiler reads: the module files, their type
// information and the syntax of the wgsl package carrying the directives.
type source struct {
	fileSet     *token.FileSet
	pkg         *types.Package
	moduleName  string
	files       []*ast.File
	info        *types.Info
	helperFiles []*ast.File
	helperInfo  *types.Info
}

//
// Compiler
//

type Compiler struct {
	opts Options
	src  source

	fileSet *token.FileSet
	types   *types.Info

	builtins     map[types.Object]string
	forms        map[types.Object]string
	fieldRenames map[types.Object]string
	externs      map[types.Object]string
	moduleTypes  map[types.Object]*CustomType
	moduleFuncs  map[types.Object]*ast.FuncDecl
	mutables     map[types.Object]bool
	genTypeExprs map[types.Type]string

	customTypes []*CustomType
	consts      []constDecl
	funcDecls   []*ast.FuncDecl

	iterPos types.Object

	indent     int
	errors     ErrorList
	output     *strings.Builder
	atBlockEnd bool
}

//
// Error and writing utilities
//

func (c *Compiler) errorf(kind error, pos token.Pos, format string, args ...interface{}) {
	var position token.Position
	if pos.IsValid() {
		position = c.fileSet.PositionFor(pos, true)
	}
	c.errors = append(c.errors, &Error{Pos: position, Kind: kind, Msg: fmt.Sprintf(format, args...)})
}

func (c *Compiler) errored() bool {
	return len(c.errors) != 0
}

func (c *Compiler) write(s string) {
	c.atBlockEnd = false
	if peek := c.output.String(); len(peek) > 0 && peek[len(peek)-1] == '\n' {
		for i := 0; i < c.indent; i++ {
			c.output.WriteString("    ")
		}
	}
	c.output.WriteString(s)
}

// capture runs gen against a fresh output and returns what it wrote.
func (c *Compiler) capture(gen func()) string {
	saved, savedIndent := c.output, c.indent
	c.output, c.indent = &strings.Builder{}, 0
	gen()
	result := c.output.String()
	c.output, c.indent = saved, savedIndent
	return result
}

// goCode prints a declaration back as Go, keyword included.
func (c *Compiler) goCode(keyword string, node interface{}) string {
	builder := &strings.Builder{}
	if keyword != "" {
		builder.WriteString(keyword)
		builder.WriteByte(' ')
	}
	if err := format.Node(builder, c.fileSet, node); err != nil {
		return ""
	}
	return builder.String()
}

//
// Entry points
//

// CompileSource compiles a single shader module file. The wgsl package is
// type-checked from its embedded source, so no Go toolchain is needed.
func CompileSource(filename string, src []byte, opts Options) (*Output, error) {
	if opts.HelperPath == "" {
		opts.HelperPath = wgsl.Path
	}

	fileSet := token.NewFileSet()
	file, err := parser.ParseFile(fileSet, filename, src, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}
	helperFile, err := parser.ParseFile(fileSet, "wgsl.go", wgsl.Source, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("parse wgsl package: %w", err)
	}

	info := newTypesInfo()
	helperPkg, err := (&types.Config{}).Check(opts.HelperPath, fileSet, []*ast.File{helperFile}, info)
	if err != nil {
		return nil, fmt.Errorf("type-check wgsl package: %w", err)
	}

	var typeErrors ErrorList
	config := &types.Config{
		Importer: importerFunc(func(path string) (*types.Package, error) {
			if path == opts.HelperPath {
				return helperPkg, nil
			}
			return nil, fmt.Errorf("shader modules may only import %s", opts.HelperPath)
		}),
		Error: func(err error) {
			if typeErr, ok := err.(types.Error); ok {
				typeErrors = append(typeErrors, &Error{
					Pos:  typeErr.Fset.Position(typeErr.Pos),
					Kind: ErrType,
					Msg:  typeErr.Msg,
				})
			}
		},
	}
	pkg, _ := config.Check(file.Name.Name, fileSet, []*ast.File{file}, info)
	if len(typeErrors) > 0 {
		return nil, typeErrors
	}

	moduleName := file.Name.Name
	if name, ok := moduleDirective(file); ok && name != "" {
		moduleName = name
	}
	return compile(source{
		fileSet:     fileSet,
		pkg:         pkg,
		moduleName:  moduleName,
		files:       []*ast.File{file},
		info:        info,
		helperFiles: []*ast.File{helperFile},
		helperInfo:  info,
	}, opts)
}

type importerFunc func(path string) (*types.Package, error)

func (f importerFunc) Import(path string) (*types.Package, error) {
	return f(path)
}

func newTypesInfo() *types.Info {
	return &types.Info{
		Types:      make(map[ast.Expr]types.TypeAndValue),
		Instances:  make(map[*ast.Ident]types.Instance),
		Defs:       make(map[*ast.Ident]types.Object),
		Uses:       make(map[*ast.Ident]types.Object),
		Implicits:  make(map[ast.Node]types.Object),
		Selections: make(map[*ast.SelectorExpr]*types.Selection),
		Scopes:     make(map[ast.Node]*types.Scope),
	}
}

func compile(src source, opts Options) (*Output, error) {
	c := &Compiler{opts: opts, src: src}
	return c.compile()
}

//
// Top-level
//

func (c *Compiler) compile() (*Output, error) {
	// Initialize maps
	c.builtins = make(map[types.Object]string)
	c.forms = make(map[types.Object]string)
	c.fieldRenames = make(map[types.Object]string)
	c.externs = make(map[types.Object]string)
	c.moduleTypes = make(map[types.Object]*CustomType)
	c.moduleFuncs = make(map[types.Object]*ast.FuncDecl)
	c.mutables = make(map[types.Object]bool)
	c.genTypeExprs = make(map[types.Type]string)

	// Initialize builders
	c.output = &strings.Builder{}

	c.fileSet = c.src.fileSet
	c.types = c.src.info

	c.collectHelperDirectives()
	c.collectDecls()
	c.checkNamingCollisions()
	c.checkReservedNames()
	if c.errored() {
		return nil, c.errors
	}

	module := &shader.Module{Name: c.src.moduleName}

	// Consts
	for _, decl := range c.consts {
		module.StaticConsts = append(module.StaticConsts, shader.ConstAssignment{
			Name: decl.name.Name,
			Code: shader.Code{
				Go:   c.goCode("const", decl.spec),
				WGSL: c.capture(func() { c.writeConstSpec(decl) }),
			},
		})
	}

	// Types
	for _, ct := range c.customTypes {
		ct.Code = shader.Code{
			Go:   c.goCode("type", ct.spec),
			WGSL: c.genTypeDefn(ct.spec),
		}
		typ := shader.Type{Name: ct.Name, Code: ct.Code}
		switch ct.Role {
		case HelperType:
			module.HelperTypes = append(module.HelperTypes, typ)
		case Uniform:
			module.Uniforms = append(module.Uniforms, typ)
		case InputArray:
			module.InputArrays = append(module.InputArrays, shader.InputArray{ItemType: typ})
		case OutputArray:
			module.OutputArrays = append(module.OutputArrays, shader.OutputArray{ItemType: typ})
		case OutputVec:
			module.OutputArrays = append(module.OutputArrays, shader.OutputArray{
				ItemType:          typ,
				AtomicCounterName: ct.Name.CounterVar(),
			})
		}
		logger().Debug("compiler: classified type", "module", module.Name, "type", ct.Name.Name, "role", ct.Role)
	}

	// Functions
	for _, decl := range c.funcDecls {
		fn := &shader.Function{
			Name: decl.Name.Name,
			Code: shader.Code{
				Go:   c.goCode("", decl),
				WGSL: c.capture(func() { c.writeFuncDecl(decl) }),
			},
		}
		if c.isMain(decl) {
			module.MainFunction = fn
		} else {
			module.HelperFunctions = append(module.HelperFunctions, *fn)
		}
	}
	if c.errored() {
		return nil, c.errors
	}

	// Bindings
	module.Bindings = allocateBindings(c.customTypes)
	for _, name := range module.Bindings.Names() {
		logger().Debug("compiler: binding", "module", module.Name, "var", name, "slot", module.Bindings[name])
	}

	if c.opts.Validate {
		opts := module.DefaultLengths(1)
		opts.WorkgroupSize = c.opts.WorkgroupSize
		text, err := module.WGSL(opts)
		if err != nil {
			return nil, err
		}
		if err := validateWGSL(text); err != nil {
			return nil, fmt.Errorf("module %s: %w", module.Name, err)
		}
	}

	output := &Output{Package: c.src.pkg.Name(), Module: module}
	for _, file := range c.src.files {
		path := c.fileSet.Position(file.Package).Filename
		output.Dir = filepath.Dir(path)
		output.Files = append(output.Files, filepath.Base(path))
	}
	for _, ct := range c.customTypes {
		output.CustomTypes = append(output.CustomTypes, *ct)
	}
	return output, nil
}
