package compiler

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"

	"github.com/nikki93/gxwgsl/shader"
)

// Role is what a type declared in a shader module is used for.
type Role int

const (
	HelperType Role = iota
	Uniform
	InputArray
	OutputArray
	OutputVec
)

func (r Role) String() string {
	switch r {
	case HelperType:
		return "helper type"
	case Uniform:
		return "config"
	case InputArray:
		return "input array"
	case OutputArray:
		return "output array"
	case OutputVec:
		return "output vec"
	}
	return fmt.Sprintf("Role(%d)", int(r))
}

// IsOutput reports whether the role is written by the shader.
func (r Role) IsOutput() bool {
	return r == OutputArray || r == OutputVec
}

// CustomType is a type declared in a shader module and its role.
type CustomType struct {
	Name shader.TypeName
	Role Role
	Code shader.Code

	spec *ast.TypeSpec
	obj  types.Object
}

// generatedNames lists the module-scope WGSL identifiers derived from the type.
func (ct *CustomType) generatedNames() []string {
	switch ct.Role {
	case Uniform:
		return []string{ct.Name.UniformVar()}
	case InputArray:
		return []string{ct.Name.InputArrayVar(), ct.Name.InputLengthConst()}
	case OutputArray:
		return []string{ct.Name.OutputArrayVar(), ct.Name.OutputLengthConst()}
	case OutputVec:
		return []string{ct.Name.OutputArrayVar(), ct.Name.OutputLengthConst(), ct.Name.CounterVar()}
	}
	return nil
}

type constDecl struct {
	spec  *ast.ValueSpec
	name  *ast.Ident
	index int
}

//
// Declarations
//

func (c *Compiler) collectDecls() {
	for _, file := range c.src.files {
		for _, decl := range file.Decls {
			switch decl := decl.(type) {
			case *ast.GenDecl:
				switch decl.Tok {
				case token.IMPORT:
				case token.TYPE:
					for _, spec := range decl.Specs {
						c.collectTypeSpec(decl, spec.(*ast.TypeSpec))
					}
				case token.CONST:
					for _, spec := range decl.Specs {
						c.collectConstSpec(decl, spec.(*ast.ValueSpec))
					}
				case token.VAR:
					c.errorf(ErrUnsupported, decl.Pos(), "package-level variables are not supported; use a const or a //wgsl:config type")
				}
			case *ast.FuncDecl:
				c.collectFuncDecl(decl)
			}
		}
	}
}

func (c *Compiler) collectTypeSpec(decl *ast.GenDecl, spec *ast.TypeSpec) {
	name := spec.Name.Name
	role := HelperType
	var marker, extern *directive
	for _, dir := range parseDirectives(decl.Doc, spec.Doc) {
		dir := dir
		if r, ok := markerRoles[dir.key]; ok {
			if marker != nil && marker.key != dir.key {
				c.errorf(ErrConflictingMarkers, dir.pos, "type %s has both //wgsl:%s and //wgsl:%s", name, marker.key, dir.key)
				continue
			}
			marker, role = &dir, r
			continue
		}
		switch dir.key {
		case "extern":
			extern = &dir
		default:
			c.errorf(ErrUnsupported, dir.pos, "unknown directive //wgsl:%s on type %s", dir.key, name)
		}
	}

	obj := c.types.Defs[spec.Name]
	if extern != nil {
		if marker != nil {
			c.errorf(ErrConflictingMarkers, extern.pos, "extern type %s cannot also be //wgsl:%s", name, marker.key)
			return
		}
		c.externs[obj] = externName(extern, name)
		return
	}
	if spec.TypeParams != nil {
		c.errorf(ErrUnsupported, spec.Pos(), "generic type %s is not supported in shaders", name)
		return
	}

	ct := &CustomType{Name: shader.NewTypeName(name), Role: role, spec: spec, obj: obj}
	c.customTypes = append(c.customTypes, ct)
	c.moduleTypes[obj] = ct
}

func (c *Compiler) collectConstSpec(decl *ast.GenDecl, spec *ast.ValueSpec) {
	for _, dir := range parseDirectives(decl.Doc, spec.Doc) {
		c.errorf(ErrUnsupported, dir.pos, "//wgsl:%s is not allowed on a const", dir.key)
	}
	for i, name := range spec.Names {
		if name.Name == "_" {
			continue
		}
		c.consts = append(c.consts, constDecl{spec: spec, name: name, index: i})
	}
}

func (c *Compiler) collectFuncDecl(decl *ast.FuncDecl) {
	name := decl.Name.Name
	obj := c.types.Defs[decl.Name]
	for _, dir := range parseDirectives(decl.Doc) {
		dir := dir
		switch {
		case dir.key == "extern":
			c.externs[obj] = externName(&dir, name)
			return
		case markerRoles[dir.key] != HelperType:
			c.errorf(ErrUnsupported, dir.pos, "//wgsl:%s applies to type declarations, not func %s", dir.key, name)
		default:
			c.errorf(ErrUnsupported, dir.pos, "unknown directive //wgsl:%s on func %s", dir.key, name)
		}
	}

	switch {
	case decl.Recv != nil:
		c.errorf(ErrUnsupported, decl.Pos(), "method %s is not supported in shaders", name)
		return
	case decl.Type.TypeParams != nil:
		c.errorf(ErrUnsupported, decl.Pos(), "generic func %s is not supported in shaders", name)
		return
	case decl.Body == nil:
		c.errorf(ErrUnsupported, decl.Pos(), "func %s has no body", name)
		return
	case name == "init":
		c.errorf(ErrUnsupported, decl.Pos(), "init functions are not supported in shaders")
		return
	}

	if c.isMain(decl) {
		c.checkMainSignature(decl)
	}
	c.moduleFuncs[obj] = decl
	c.funcDecls = append(c.funcDecls, decl)
}

func externName(dir *directive, declared string) string {
	if dir.arg != "" {
		return dir.arg
	}
	return declared
}

//
// Entry point
//

func (c *Compiler) isMain(decl *ast.FuncDecl) bool {
	return decl.Recv == nil && decl.Name.Name == "main"
}

func (c *Compiler) isIterationPosition(typ types.Type) bool {
	named, ok := types.Unalias(typ).(*types.Named)
	return ok && c.forms[named.Obj()] == "iteration_position"
}

func (c *Compiler) checkMainSignature(decl *ast.FuncDecl) {
	sig, _ := c.types.Defs[decl.Name].Type().(*types.Signature)
	if sig == nil || sig.Results().Len() != 0 || sig.Params().Len() != 1 ||
		!c.isIterationPosition(sig.Params().At(0).Type()) {
		c.errorf(ErrUnsupported, decl.Pos(), "main must be declared as func main(position wgsl.IterationPosition)")
		return
	}
	c.iterPos = sig.Params().At(0)
}

// iterPosName is the WGSL name of main's parameter.
func (c *Compiler) iterPosName() string {
	if c.iterPos == nil || c.iterPos.Name() == "" || c.iterPos.Name() == "_" {
		return "iteration_position"
	}
	return c.iterPos.Name()
}

//
// Naming
//

// checkNamingCollisions rejects modules where a declared name and a name
// derived from a buffer type, or two derived names, would be the same WGSL
// identifier.
func (c *Compiler) checkNamingCollisions() {
	owners := make(map[string]string)
	claim := func(name, owner string, pos token.Pos) {
		if prev, ok := owners[name]; ok {
			c.errorf(ErrNamingCollision, pos, "%s and %s are both named %s in WGSL", owner, prev, name)
			return
		}
		owners[name] = owner
	}

	for _, ct := range c.customTypes {
		claim(ct.Name.Name, "type "+ct.Name.Name, ct.spec.Name.Pos())
	}
	for _, decl := range c.consts {
		claim(decl.name.Name, "const "+decl.name.Name, decl.name.Pos())
	}
	for _, decl := range c.funcDecls {
		claim(decl.Name.Name, "func "+decl.Name.Name, decl.Name.Pos())
	}
	for _, ct := range c.customTypes {
		for _, name := range ct.generatedNames() {
			owner := fmt.Sprintf("%s of %s %s", name, ct.Role, ct.Name.Name)
			if kind, ok := reservedKind(name); ok {
				c.errorf(ErrNamingCollision, ct.spec.Name.Pos(), "%s is %s; rename %s", owner, kind, ct.Name.Name)
				continue
			}
			claim(name, owner, ct.spec.Name.Pos())
		}
	}
}

// checkReservedNames rejects declared names that WGSL reserves or that would
// hide one of its built-in functions. Extern declarations are not emitted and
// are skipped.
func (c *Compiler) checkReservedNames() {
	isExtern := func(name *ast.Ident) bool {
		_, ok := c.externs[c.types.Defs[name]]
		return ok
	}
	for _, file := range c.src.files {
		for _, decl := range file.Decls {
			if decl, ok := decl.(*ast.FuncDecl); ok && isExtern(decl.Name) {
				continue
			}
			ast.Inspect(decl, func(node ast.Node) bool {
				switch node := node.(type) {
				case *ast.ImportSpec:
					return false
				case *ast.TypeSpec:
					return !isExtern(node.Name)
				case *ast.Ident:
					if node.Name == "_" || c.types.Defs[node] == nil {
						return true
					}
					if kind, ok := reservedKind(node.Name); ok {
						c.errorf(ErrNamingCollision, node.Pos(), "%s is %s; rename it", node.Name, kind)
					}
				}
				return true
			})
		}
	}
}
