package compiler

import (
	"fmt"
	"go/ast"
	"go/constant"
	"go/token"
	"go/types"
	"strconv"
	"strings"
)

//
// Types
//

func (c *Compiler) genTypeExpr(typ types.Type, pos token.Pos) string {
	if result, ok := c.genTypeExprs[typ]; ok {
		return result
	}

	builder := &strings.Builder{}
	switch typ := typ.(type) {
	case *types.Alias:
		if _, ok := c.moduleTypes[typ.Obj()]; ok {
			builder.WriteString(typ.Obj().Name())
		} else if ext, ok := c.externs[typ.Obj()]; ok {
			builder.WriteString(ext)
		} else {
			builder.WriteString(c.genTypeExpr(types.Unalias(typ), pos))
		}
	case *types.Basic:
		switch typ.Kind() {
		case types.Bool, types.UntypedBool:
			builder.WriteString("bool")
		case types.Int, types.Int32, types.UntypedInt, types.UntypedRune:
			builder.WriteString("i32")
		case types.Uint, types.Uint32:
			builder.WriteString("u32")
		case types.Float32, types.UntypedFloat:
			builder.WriteString("f32")
		default:
			c.errorf(ErrUnsupported, pos, "%s is not supported in shaders", typ)
			return ""
		}
	case *types.Named:
		obj := typ.Obj()
		if name, ok := c.builtins[obj]; ok {
			builder.WriteString(name)
		} else if ext, ok := c.externs[obj]; ok {
			builder.WriteString(ext)
		} else if _, ok := c.moduleTypes[obj]; ok {
			builder.WriteString(obj.Name())
		} else {
			c.errorf(ErrUnsupported, pos, "type %s is not declared in the shader module", obj.Name())
			return ""
		}
	case *types.Array:
		builder.WriteString("array<")
		builder.WriteString(c.genTypeExpr(typ.Elem(), pos))
		builder.WriteString(", ")
		builder.WriteString(strconv.FormatInt(typ.Len(), 10))
		builder.WriteString(">")
	case *types.Slice:
		c.errorf(ErrUnsupported, pos, "slices are not supported in shaders; use a fixed-size array")
		return ""
	case *types.Pointer:
		c.errorf(ErrUnsupported, pos, "pointers are not supported in shaders")
		return ""
	default:
		c.errorf(ErrUnsupported, pos, "%s is not supported in shaders", typ)
		return ""
	}

	result := builder.String()
	c.genTypeExprs[typ] = result
	return result
}

// genTypeDefn writes the WGSL declaration of a module type: a struct, or an
// alias for anything else.
func (c *Compiler) genTypeDefn(spec *ast.TypeSpec) string {
	name := spec.Name.Name
	obj := c.types.Defs[spec.Name]
	if obj == nil {
		c.errorf(ErrUnsupported, spec.Pos(), "type %s has no type information", name)
		return ""
	}

	if _, ok := spec.Type.(*ast.StructType); ok && !spec.Assign.IsValid() {
		st := obj.Type().Underlying().(*types.Struct)
		return c.capture(func() {
			c.write("struct ")
			c.write(name)
			c.write(" {\n")
			c.indent++
			for i := 0; i < st.NumFields(); i++ {
				field := st.Field(i)
				if field.Embedded() {
					c.errorf(ErrUnsupported, field.Pos(), "embedded field %s is not supported in shaders", field.Name())
					continue
				}
				c.write(field.Name())
				c.write(": ")
				c.write(c.genTypeExpr(field.Type(), field.Pos()))
				c.write(",\n")
			}
			c.indent--
			c.write("}")
		})
	}

	if _, ok := spec.Type.(*ast.InterfaceType); ok {
		c.errorf(ErrUnsupported, spec.Pos(), "interface %s is not supported in shaders", name)
		return ""
	}
	return fmt.Sprintf("alias %s = %s;", name, c.genTypeExpr(c.types.TypeOf(spec.Type), spec.Type.Pos()))
}

//
// Consts
//

func (c *Compiler) writeConstSpec(decl constDecl) {
	obj, _ := c.types.Defs[decl.name].(*types.Const)
	c.write("const ")
	c.write(decl.name.Name)
	if decl.spec.Type != nil {
		c.write(": ")
		c.write(c.genTypeExpr(c.types.TypeOf(decl.spec.Type), decl.spec.Type.Pos()))
	} else if obj != nil && !isUntyped(obj.Type()) {
		// Implicitly repeated specs like the b in const (a T = iota; b)
		c.write(": ")
		c.write(c.genTypeExpr(obj.Type(), decl.name.Pos()))
	}
	c.write(" = ")
	if decl.index < len(decl.spec.Values) && !usesIota(decl.spec.Values[decl.index]) {
		c.writeExpr(decl.spec.Values[decl.index])
	} else if obj != nil {
		c.write(c.formatConstant(obj.Val(), obj.Type(), decl.name.Pos()))
	} else {
		c.errorf(ErrUnsupported, decl.name.Pos(), "const %s has no value", decl.name.Name)
	}
	c.write(";")
}

func isUntyped(typ types.Type) bool {
	basic, ok := typ.(*types.Basic)
	return ok && basic.Info()&types.IsUntyped != 0
}

func usesIota(expr ast.Expr) bool {
	found := false
	ast.Inspect(expr, func(node ast.Node) bool {
		if ident, ok := node.(*ast.Ident); ok && ident.Name == "iota" {
			found = true
		}
		return !found
	})
	return found
}

// formatConstant spells a constant value as a WGSL literal of type typ.
func (c *Compiler) formatConstant(val constant.Value, typ types.Type, pos token.Pos) string {
	switch val.Kind() {
	case constant.Bool:
		return strconv.FormatBool(constant.BoolVal(val))
	case constant.Int:
		if basic, ok := typ.Underlying().(*types.Basic); ok && basic.Info()&types.IsFloat != 0 {
			return formatFloat(val)
		}
		return val.ExactString()
	case constant.Float:
		return formatFloat(val)
	}
	c.errorf(ErrUnsupported, pos, "constant %s is not supported in shaders", val)
	return ""
}

func formatFloat(val constant.Value) string {
	f, _ := constant.Float32Val(constant.ToFloat(val))
	s := strconv.FormatFloat(float64(f), 'g', -1, 32)
	if !strings.ContainsAny(s, ".eEn") {
		s += ".0"
	}
	return s
}
