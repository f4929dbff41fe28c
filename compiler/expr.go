package compiler

import (
	"go/ast"
	"go/token"
	"go/types"
	"strings"

	"golang.org/x/tools/go/ast/astutil"
)

//
// Expressions
//

func (c *Compiler) writeIdent(ident *ast.Ident) {
	obj := c.types.ObjectOf(ident)
	switch {
	case obj == nil:
		c.write(ident.Name)
	case obj == c.iterPos && c.iterPos != nil:
		c.write(c.iterPosName())
	case obj.Parent() == types.Universe:
		switch obj.Name() {
		case "true", "false":
			c.write(obj.Name())
		case "iota":
			if tv, ok := c.types.Types[ident]; ok && tv.Value != nil {
				c.write(tv.Value.ExactString())
			}
		default:
			c.errorf(ErrUnsupported, ident.Pos(), "%s is not supported in shaders", ident.Name)
		}
	default:
		if ext, ok := c.externs[obj]; ok {
			c.write(ext)
		} else {
			c.write(ident.Name)
		}
	}
}

func (c *Compiler) writeBasicLit(lit *ast.BasicLit) {
	switch lit.Kind {
	case token.INT:
		if tv, ok := c.types.Types[lit]; ok && tv.Value != nil {
			c.write(c.formatConstant(tv.Value, tv.Type, lit.Pos()))
		} else {
			c.write(strings.ReplaceAll(lit.Value, "_", ""))
		}
	case token.FLOAT:
		if strings.HasPrefix(strings.ToLower(lit.Value), "0x") {
			c.errorf(ErrUnsupported, lit.Pos(), "hexadecimal float literals are not supported in shaders")
			return
		}
		value := strings.ReplaceAll(lit.Value, "_", "")
		if strings.HasSuffix(value, ".") {
			value += "0"
		}
		c.write(value)
	default:
		c.errorf(ErrUnsupported, lit.Pos(), "%s literals are not supported in shaders", strings.ToLower(lit.Kind.String()))
	}
}

func (c *Compiler) writeCompositeLit(lit *ast.CompositeLit) {
	typ := c.types.TypeOf(lit)
	if typ == nil {
		c.errorf(ErrUnsupported, lit.Pos(), "composite literal has no type")
		return
	}
	typeExpr := c.genTypeExpr(typ, lit.Pos())

	switch under := typ.Underlying().(type) {
	case *types.Struct:
		c.write(typeExpr)
		c.write("(")
		if len(lit.Elts) > 0 {
			// WGSL constructors are positional, so keyed fields are put back
			// in declaration order and missing ones are zero-constructed
			values := make([]ast.Expr, under.NumFields())
			for i, elt := range lit.Elts {
				if kv, ok := elt.(*ast.KeyValueExpr); ok {
					if key, ok := kv.Key.(*ast.Ident); ok {
						for j := 0; j < under.NumFields(); j++ {
							if under.Field(j).Name() == key.Name {
								values[j] = kv.Value
							}
						}
					}
				} else if i < len(values) {
					values[i] = elt
				}
			}
			for i, value := range values {
				if i > 0 {
					c.write(", ")
				}
				if value != nil {
					c.writeExpr(value)
				} else {
					field := under.Field(i)
					c.write(c.genTypeExpr(field.Type(), lit.Pos()))
					c.write("()")
				}
			}
		}
		c.write(")")
	case *types.Array:
		c.write(typeExpr)
		c.write("(")
		if len(lit.Elts) > 0 {
			elemExpr := c.genTypeExpr(under.Elem(), lit.Pos())
			for i := int64(0); i < under.Len(); i++ {
				if i > 0 {
					c.write(", ")
				}
				if i < int64(len(lit.Elts)) {
					elt := lit.Elts[i]
					if _, ok := elt.(*ast.KeyValueExpr); ok {
						c.errorf(ErrUnsupported, elt.Pos(), "indexed array literals are not supported in shaders")
						continue
					}
					c.writeExpr(elt)
				} else {
					c.write(elemExpr)
					c.write("()")
				}
			}
		}
		c.write(")")
	default:
		c.errorf(ErrUnsupported, lit.Pos(), "%s literals are not supported in shaders", typ)
	}
}

func (c *Compiler) writeSelectorExpr(sel *ast.SelectorExpr) {
	if selection, ok := c.types.Selections[sel]; ok {
		if selection.Kind() != types.FieldVal {
			c.errorf(ErrUnsupported, sel.Pos(), "methods are not supported in shaders")
			return
		}
		if len(selection.Index()) > 1 {
			c.errorf(ErrUnsupported, sel.Pos(), "promoted fields are not supported in shaders")
			return
		}
		c.writeExpr(sel.X)
		c.write(".")
		if rename, ok := c.fieldRenames[selection.Obj()]; ok {
			c.write(rename)
		} else {
			c.write(sel.Sel.Name)
		}
		return
	}

	// Qualified identifier
	obj := c.types.Uses[sel.Sel]
	if name, ok := c.builtins[obj]; ok {
		c.write(name)
		return
	}
	c.errorf(ErrUnsupported, sel.Pos(), "%s.%s cannot be used as a value in shaders", exprName(sel.X), sel.Sel.Name)
}

func (c *Compiler) writeIndexExpr(index *ast.IndexExpr) {
	if tv, ok := c.types.Types[index.X]; ok {
		if _, ok := tv.Type.Underlying().(*types.Array); !ok {
			c.errorf(ErrUnsupported, index.Pos(), "only arrays can be indexed in shaders")
			return
		}
	}
	c.writeExpr(index.X)
	c.write("[")
	c.writeExpr(index.Index)
	c.write("]")
}

func (c *Compiler) writeCallExpr(call *ast.CallExpr) {
	fun := astutil.Unparen(call.Fun)

	// Conversions
	if tv, ok := c.types.Types[fun]; ok && tv.IsType() {
		c.write(c.genTypeExpr(tv.Type, call.Pos()))
		c.write("(")
		c.writeArgs(call.Args)
		c.write(")")
		return
	}

	// Go builtins
	if tv, ok := c.types.Types[fun]; ok && tv.IsBuiltin() {
		name := exprName(fun)
		switch name {
		case "min", "max":
			c.writeNestedBuiltin(name, call.Args)
		default:
			c.errorf(ErrUnsupported, call.Pos(), "builtin %s is not supported in shaders", name)
		}
		return
	}

	obj := c.calleeObject(fun)
	if obj == nil {
		c.errorf(ErrUnsupported, call.Pos(), "calls through function values are not supported in shaders")
		return
	}
	if form, ok := c.forms[obj]; ok {
		c.writeFormExpr(call, form)
		return
	}
	name := ""
	if builtin, ok := c.builtins[obj]; ok {
		name = builtin
	} else if ext, ok := c.externs[obj]; ok {
		name = ext
	} else if _, ok := c.moduleFuncs[obj]; ok {
		name = obj.Name()
	} else {
		c.errorf(ErrUnsupported, call.Pos(), "%s cannot be called from shaders", obj.Name())
		return
	}
	c.write(name)
	c.write("(")
	c.writeArgs(call.Args)
	c.write(")")
}

// writeNestedBuiltin writes Go's variadic min and max as nested binary calls.
func (c *Compiler) writeNestedBuiltin(name string, args []ast.Expr) {
	if len(args) == 1 {
		c.writeExpr(args[0])
		return
	}
	c.write(name)
	c.write("(")
	c.writeNestedBuiltin(name, args[:len(args)-1])
	c.write(", ")
	c.writeExpr(args[len(args)-1])
	c.write(")")
}

func (c *Compiler) writeArgs(args []ast.Expr) {
	for i, arg := range args {
		if i > 0 {
			c.write(", ")
		}
		c.writeExpr(arg)
	}
}

// calleeObject resolves the function a call refers to, looking through
// explicit instantiation like wgsl.VecLen[Position].
func (c *Compiler) calleeObject(fun ast.Expr) types.Object {
	switch fun := fun.(type) {
	case *ast.Ident:
		return c.types.Uses[fun]
	case *ast.SelectorExpr:
		if _, ok := c.types.Selections[fun]; ok {
			return nil
		}
		return c.types.Uses[fun.Sel]
	case *ast.IndexExpr:
		return c.calleeObject(astutil.Unparen(fun.X))
	case *ast.IndexListExpr:
		return c.calleeObject(astutil.Unparen(fun.X))
	}
	return nil
}

// formType finds the module type a special form is instantiated with, from
// the explicit type argument when present and the inferred one otherwise.
func (c *Compiler) formType(call *ast.CallExpr) *CustomType {
	fun := astutil.Unparen(call.Fun)
	if index, ok := fun.(*ast.IndexExpr); ok {
		if ident, ok := astutil.Unparen(index.Index).(*ast.Ident); ok {
			if ct, ok := c.moduleTypes[c.types.Uses[ident]]; ok {
				return ct
			}
		}
	}

	var ident *ast.Ident
	switch fun := fun.(type) {
	case *ast.IndexExpr:
		switch target := astutil.Unparen(fun.X).(type) {
		case *ast.SelectorExpr:
			ident = target.Sel
		case *ast.Ident:
			ident = target
		}
	case *ast.SelectorExpr:
		ident = fun.Sel
	case *ast.Ident:
		ident = fun
	}
	if ident == nil {
		return nil
	}
	inst, ok := c.types.Instances[ident]
	if !ok || inst.TypeArgs.Len() == 0 {
		return nil
	}
	switch arg := inst.TypeArgs.At(0).(type) {
	case *types.Named:
		return c.moduleTypes[arg.Obj()]
	case *types.Alias:
		return c.moduleTypes[arg.Obj()]
	}
	return nil
}

// Forms that only make sense as statements.
var statementForms = map[string]bool{
	"output_push": true,
	"output_set":  true,
}

// Roles each form accepts.
var formRoles = map[string][]Role{
	"input_len":      {InputArray},
	"input_val":      {InputArray},
	"config_get":     {Uniform},
	"output_push":    {OutputVec},
	"output_len":     {OutputVec},
	"output_max_len": {OutputArray, OutputVec},
	"output_set":     {OutputArray},
}

// checkForm resolves the type of a special form call and checks its role.
func (c *Compiler) checkForm(call *ast.CallExpr, form string) *CustomType {
	name := exprName(astutil.Unparen(call.Fun))
	roles, ok := formRoles[form]
	if !ok {
		c.errorf(ErrUnsupported, call.Pos(), "%s cannot be used in shaders", name)
		return nil
	}
	ct := c.formType(call)
	if ct == nil {
		c.errorf(ErrRoleMismatch, call.Pos(), "%s must be instantiated with a type declared in the shader module", name)
		return nil
	}
	for _, role := range roles {
		if ct.Role == role {
			return ct
		}
	}
	wants := make([]string, len(roles))
	for i, role := range roles {
		wants[i] = role.String()
	}
	c.errorf(ErrRoleMismatch, call.Pos(), "%s requires %s, but %s is %s",
		name, strings.Join(wants, " or "), ct.Name.Name, article(ct.Role.String()))
	return nil
}

func (c *Compiler) writeFormExpr(call *ast.CallExpr, form string) {
	if statementForms[form] {
		c.errorf(ErrUnsupported, call.Pos(), "%s can only be used as a statement", exprName(astutil.Unparen(call.Fun)))
		return
	}
	ct := c.checkForm(call, form)
	if ct == nil {
		return
	}
	switch form {
	case "input_len":
		c.write(ct.Name.InputLengthConst())
	case "input_val":
		c.write(ct.Name.InputArrayVar())
		c.write("[")
		c.writeArgs(call.Args)
		c.write("]")
	case "config_get":
		c.write(ct.Name.UniformVar())
	case "output_len":
		c.write("atomicLoad(&")
		c.write(ct.Name.CounterVar())
		c.write(")")
	case "output_max_len":
		c.write(ct.Name.OutputLengthConst())
	}
}

func (c *Compiler) writeUnaryExpr(unary *ast.UnaryExpr) {
	switch unary.Op {
	case token.ADD:
		c.writeExpr(unary.X)
	case token.SUB:
		c.write("-")
		// --x would lex as a decrement
		if inner, ok := unary.X.(*ast.UnaryExpr); ok && inner.Op == token.SUB {
			c.write("(")
			c.writeExpr(unary.X)
			c.write(")")
			return
		}
		c.writeExpr(unary.X)
	case token.NOT:
		c.write("!")
		c.writeExpr(unary.X)
	case token.XOR:
		c.write("~")
		c.writeExpr(unary.X)
	default:
		c.errorf(ErrUnsupported, unary.Pos(), "unary %s is not supported in shaders", unary.Op)
	}
}

func (c *Compiler) writeBinaryExpr(bin *ast.BinaryExpr) {
	switch bin.Op {
	case token.AND_NOT:
		c.errorf(ErrUnsupported, bin.OpPos, "&^ is not supported in shaders; use a & ~b")
		return
	}
	c.writeOperand(bin.Op, bin.X)
	c.write(" ")
	c.write(bin.Op.String())
	c.write(" ")
	if bin.Op == token.SHL || bin.Op == token.SHR {
		c.writeShiftCount(bin.Y)
		return
	}
	c.writeOperand(bin.Op, bin.Y)
}

// writeShiftCount writes the right side of a shift. WGSL shift counts are
// u32, while Go accepts any integer type.
func (c *Compiler) writeShiftCount(count ast.Expr) {
	if tv, ok := c.types.Types[count]; ok && !isUnsignedCount(tv) {
		c.write("u32(")
		c.writeExpr(count)
		c.write(")")
		return
	}
	c.writeOperand(token.SHL, count)
}

func isUnsignedCount(tv types.TypeAndValue) bool {
	basic, ok := tv.Type.Underlying().(*types.Basic)
	if !ok {
		return false
	}
	if basic.Info()&types.IsUntyped != 0 {
		return tv.Value != nil
	}
	return basic.Info()&types.IsUnsigned != 0
}

func (c *Compiler) writeOperand(op token.Token, operand ast.Expr) {
	if needsParens(op, operand) {
		c.write("(")
		c.writeExpr(operand)
		c.write(")")
		return
	}
	c.writeExpr(operand)
}

// needsParens reports whether operand must be parenthesized under op. WGSL
// does not mix && with ||, bitwise operators with anything else, or shifts
// and comparisons with other binary operators.
func needsParens(op token.Token, operand ast.Expr) bool {
	child, ok := operand.(*ast.BinaryExpr)
	if !ok {
		return false
	}
	switch op {
	case token.LAND, token.LOR:
		return (child.Op == token.LAND || child.Op == token.LOR) && child.Op != op ||
			isBitwise(child.Op)
	case token.AND, token.OR, token.XOR:
		return child.Op != op
	case token.SHL, token.SHR:
		return true
	case token.EQL, token.NEQ, token.LSS, token.LEQ, token.GTR, token.GEQ:
		return child.Op.Precedence() == token.EQL.Precedence() || isBitwise(child.Op)
	}
	switch child.Op {
	case token.AND, token.OR, token.XOR, token.SHL, token.SHR:
		return true
	}
	return false
}

func isBitwise(op token.Token) bool {
	return op == token.AND || op == token.OR || op == token.XOR
}

func (c *Compiler) writeExpr(expr ast.Expr) {
	switch expr := expr.(type) {
	case *ast.Ident:
		c.writeIdent(expr)
	case *ast.BasicLit:
		c.writeBasicLit(expr)
	case *ast.CompositeLit:
		c.writeCompositeLit(expr)
	case *ast.ParenExpr:
		c.write("(")
		c.writeExpr(expr.X)
		c.write(")")
	case *ast.SelectorExpr:
		c.writeSelectorExpr(expr)
	case *ast.IndexExpr:
		c.writeIndexExpr(expr)
	case *ast.CallExpr:
		c.writeCallExpr(expr)
	case *ast.UnaryExpr:
		c.writeUnaryExpr(expr)
	case *ast.BinaryExpr:
		c.writeBinaryExpr(expr)
	case *ast.FuncLit:
		c.errorf(ErrUnsupported, expr.Pos(), "function literals are not supported in shaders")
	case *ast.StarExpr:
		c.errorf(ErrUnsupported, expr.Pos(), "pointers are not supported in shaders")
	case *ast.SliceExpr:
		c.errorf(ErrUnsupported, expr.Pos(), "slicing is not supported in shaders")
	case *ast.TypeAssertExpr:
		c.errorf(ErrUnsupported, expr.Pos(), "type assertions are not supported in shaders")
	default:
		c.errorf(ErrUnsupported, expr.Pos(), "unsupported expression type")
	}
}

func exprName(expr ast.Expr) string {
	switch expr := expr.(type) {
	case *ast.Ident:
		return expr.Name
	case *ast.SelectorExpr:
		return exprName(expr.X) + "." + expr.Sel.Name
	case *ast.IndexExpr:
		return exprName(expr.X) + "[" + exprName(expr.Index) + "]"
	case *ast.IndexListExpr:
		return exprName(expr.X)
	case *ast.ParenExpr:
		return exprName(expr.X)
	}
	return "expression"
}

func article(noun string) string {
	if noun != "" && strings.ContainsRune("aeiou", rune(noun[0])) {
		return "an " + noun
	}
	return "a " + noun
}
