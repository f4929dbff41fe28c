package compiler

import (
	"go/ast"
	"go/token"
	"go/types"
	"regexp"
	"strings"
)

// directive is one //wgsl:key [arg] comment line.
type directive struct {
	pos token.Pos
	key string
	arg string
}

var directiveRe = regexp.MustCompile(`^//wgsl:([a-z_]+)(?:\s+(.*?))?\s*$`)

// Marker directives and the role each one gives a type.
var markerRoles = map[string]Role{
	"config":       Uniform,
	"input_array":  InputArray,
	"output_array": OutputArray,
	"output_vec":   OutputVec,
}

func parseDirectives(groups ...*ast.CommentGroup) []directive {
	var result []directive
	for _, group := range groups {
		if group == nil {
			continue
		}
		for _, comment := range group.List {
			if match := directiveRe.FindStringSubmatch(comment.Text); match != nil {
				result = append(result, directive{pos: comment.Pos(), key: match[1], arg: match[2]})
			}
		}
	}
	return result
}

// moduleDirective reports whether file opts into shader compilation with a
// //wgsl:module comment above its package clause, and the module name given.
func moduleDirective(file *ast.File) (string, bool) {
	for _, group := range file.Comments {
		if group.Pos() >= file.Package {
			break
		}
		for _, dir := range parseDirectives(group) {
			if dir.key == "module" {
				return strings.TrimSpace(dir.arg), true
			}
		}
	}
	return "", false
}

//
// wgsl package
//

// collectHelperDirectives records the WGSL spelling of every declaration of
// the wgsl package: builtins map to a name, forms are expanded specially.
func (c *Compiler) collectHelperDirectives() {
	for _, file := range c.src.helperFiles {
		for _, decl := range file.Decls {
			switch decl := decl.(type) {
			case *ast.FuncDecl:
				obj := c.src.helperInfo.Defs[decl.Name]
				for _, dir := range parseDirectives(decl.Doc) {
					switch dir.key {
					case "builtin":
						c.builtins[obj] = dir.arg
					case "form":
						c.forms[obj] = dir.arg
					}
				}
			case *ast.GenDecl:
				for _, spec := range decl.Specs {
					typeSpec, ok := spec.(*ast.TypeSpec)
					if !ok {
						continue
					}
					obj := c.src.helperInfo.Defs[typeSpec.Name]
					for _, dir := range parseDirectives(decl.Doc, typeSpec.Doc) {
						switch dir.key {
						case "builtin":
							c.builtins[obj] = dir.arg
							c.collectFieldRenames(obj)
						case "form":
							c.forms[obj] = dir.arg
						}
					}
				}
			}
		}
	}
}

// collectFieldRenames lowercases the fields of a builtin vector type, so
// position.X is written as position.x.
func (c *Compiler) collectFieldRenames(obj types.Object) {
	if obj == nil {
		return
	}
	if st, ok := obj.Type().Underlying().(*types.Struct); ok {
		for i := 0; i < st.NumFields(); i++ {
			field := st.Field(i)
			c.fieldRenames[field] = strings.ToLower(field.Name())
		}
	}
}
