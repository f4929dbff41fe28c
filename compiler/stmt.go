package compiler

import (
	"go/ast"
	"go/token"
	"go/types"

	"golang.org/x/tools/go/ast/astutil"
)

//
// Statements
//

func (c *Compiler) writeExprStmt(stmt *ast.ExprStmt) {
	if call, ok := astutil.Unparen(stmt.X).(*ast.CallExpr); ok {
		if obj := c.calleeObject(astutil.Unparen(call.Fun)); obj != nil {
			switch c.forms[obj] {
			case "output_push":
				c.writePush(call)
				return
			case "output_set":
				c.writeSet(call)
				return
			}
		}
	}
	c.writeExpr(stmt.X)
}

// writePush claims the next slot of an output vec and writes the value there
// unless the vec is full.
func (c *Compiler) writePush(call *ast.CallExpr) {
	ct := c.checkForm(call, "output_push")
	if ct == nil || len(call.Args) != 1 {
		return
	}
	index := ct.Name.OutputIndexVar()
	c.write("{\n")
	c.indent++
	c.write("let ")
	c.write(index)
	c.write(" = atomicAdd(&")
	c.write(ct.Name.CounterVar())
	c.write(", 1u);\n")
	c.write("if ")
	c.write(index)
	c.write(" < ")
	c.write(ct.Name.OutputLengthConst())
	c.write(" {\n")
	c.indent++
	c.write(ct.Name.OutputArrayVar())
	c.write("[")
	c.write(index)
	c.write("] = ")
	c.writeExpr(call.Args[0])
	c.write(";\n")
	c.indent--
	c.write("}\n")
	c.indent--
	c.write("}")
	c.atBlockEnd = true
}

func (c *Compiler) writeSet(call *ast.CallExpr) {
	ct := c.checkForm(call, "output_set")
	if ct == nil || len(call.Args) != 2 {
		return
	}
	c.write(ct.Name.OutputArrayVar())
	c.write("[")
	c.writeExpr(call.Args[0])
	c.write("] = ")
	c.writeExpr(call.Args[1])
}

func (c *Compiler) writeAssignStmt(assignStmt *ast.AssignStmt) {
	if len(assignStmt.Lhs) != 1 || len(assignStmt.Rhs) != 1 {
		c.errorf(ErrUnsupported, assignStmt.Pos(), "multi-value assignment is not supported in shaders")
		return
	}
	lhs, rhs := assignStmt.Lhs[0], assignStmt.Rhs[0]
	switch assignStmt.Tok {
	case token.DEFINE:
		ident, ok := lhs.(*ast.Ident)
		if !ok {
			c.errorf(ErrUnsupported, lhs.Pos(), "unsupported := target")
			return
		}
		if obj := c.types.Defs[ident]; obj != nil && c.mutables[obj] {
			c.write("var ")
		} else {
			c.write("let ")
		}
		c.write(ident.Name)
		c.write(" = ")
		c.writeExpr(rhs)
	case token.AND_NOT_ASSIGN:
		c.errorf(ErrUnsupported, assignStmt.TokPos, "&^= is not supported in shaders")
	default:
		if ident, ok := lhs.(*ast.Ident); ok && ident.Name == "_" {
			c.write("_")
		} else {
			c.writeExpr(lhs)
		}
		c.write(" ")
		c.write(assignStmt.Tok.String())
		c.write(" ")
		if assignStmt.Tok == token.SHL_ASSIGN || assignStmt.Tok == token.SHR_ASSIGN {
			c.writeShiftCount(rhs)
			return
		}
		c.writeExpr(rhs)
	}
}

func (c *Compiler) writeDeclStmt(declStmt *ast.DeclStmt) {
	genDecl, ok := declStmt.Decl.(*ast.GenDecl)
	if !ok || (genDecl.Tok != token.VAR && genDecl.Tok != token.CONST) {
		c.errorf(ErrUnsupported, declStmt.Pos(), "only var and const declarations are supported in shader functions")
		return
	}
	if len(genDecl.Specs) != 1 {
		c.errorf(ErrUnsupported, declStmt.Pos(), "grouped declarations are not supported in shader functions")
		return
	}
	spec := genDecl.Specs[0].(*ast.ValueSpec)
	if len(spec.Names) != 1 {
		c.errorf(ErrUnsupported, declStmt.Pos(), "declare one name per statement in shader functions")
		return
	}
	name := spec.Names[0]
	if genDecl.Tok == token.CONST {
		c.writeConstSpec(constDecl{spec: spec, name: name})
		c.atBlockEnd = true
		return
	}

	c.write("var ")
	c.write(name.Name)
	if spec.Type != nil {
		c.write(": ")
		c.write(c.genTypeExpr(c.types.TypeOf(spec.Type), spec.Type.Pos()))
	}
	if len(spec.Values) > 0 {
		c.write(" = ")
		c.writeExpr(spec.Values[0])
	} else if spec.Type == nil {
		c.errorf(ErrUnsupported, declStmt.Pos(), "var %s needs a type or a value", name.Name)
	}
}

func (c *Compiler) writeIfStmt(ifStmt *ast.IfStmt) {
	if ifStmt.Init != nil {
		c.write("{\n")
		c.indent++
		c.writeStmt(ifStmt.Init)
		if !c.atBlockEnd {
			c.write(";")
		}
		c.write("\n")
		defer func() {
			c.write("\n")
			c.indent--
			c.write("}")
			c.atBlockEnd = true
		}()
	}
	c.write("if ")
	c.writeExpr(ifStmt.Cond)
	c.write(" ")
	c.writeBlockStmt(ifStmt.Body)
	if ifStmt.Else != nil {
		c.write(" else ")
		c.writeStmt(ifStmt.Else)
	}
}

func (c *Compiler) writeForStmt(forStmt *ast.ForStmt) {
	switch {
	case forStmt.Init == nil && forStmt.Post == nil && forStmt.Cond == nil:
		c.write("loop ")
	case forStmt.Init == nil && forStmt.Post == nil:
		c.write("while ")
		c.writeExpr(forStmt.Cond)
		c.write(" ")
	default:
		c.write("for (")
		if forStmt.Init != nil {
			c.writeStmt(forStmt.Init)
		}
		c.write("; ")
		if forStmt.Cond != nil {
			c.writeExpr(forStmt.Cond)
		}
		c.write("; ")
		if forStmt.Post != nil {
			c.writeStmt(forStmt.Post)
		}
		c.write(") ")
	}
	c.writeBlockStmt(forStmt.Body)
}

func (c *Compiler) writeBranchStmt(branchStmt *ast.BranchStmt) {
	if branchStmt.Label != nil {
		c.errorf(ErrUnsupported, branchStmt.Pos(), "labels are not supported in shaders")
		return
	}
	switch branchStmt.Tok {
	case token.BREAK:
		c.write("break")
	case token.CONTINUE:
		c.write("continue")
	default:
		c.errorf(ErrUnsupported, branchStmt.Pos(), "%s is not supported in shaders", branchStmt.Tok)
	}
}

func (c *Compiler) writeReturnStmt(retStmt *ast.ReturnStmt) {
	switch len(retStmt.Results) {
	case 0:
		c.write("return")
	case 1:
		c.write("return ")
		c.writeExpr(retStmt.Results[0])
	default:
		c.errorf(ErrUnsupported, retStmt.Pos(), "multiple return values are not supported in shaders")
	}
}

func (c *Compiler) writeBlockStmt(block *ast.BlockStmt) {
	c.write("{\n")
	c.indent++
	c.writeStmtList(block.List)
	c.indent--
	c.write("}")
	c.atBlockEnd = true
}

func (c *Compiler) writeStmtList(list []ast.Stmt) {
	for _, stmt := range list {
		if _, ok := stmt.(*ast.EmptyStmt); ok {
			continue
		}
		c.writeStmt(stmt)
		if !c.atBlockEnd {
			c.write(";")
		}
		c.write("\n")
	}
}

func (c *Compiler) writeStmt(stmt ast.Stmt) {
	c.atBlockEnd = false
	switch stmt := stmt.(type) {
	case *ast.ExprStmt:
		c.writeExprStmt(stmt)
	case *ast.IncDecStmt:
		c.writeExpr(stmt.X)
		c.write(stmt.Tok.String())
	case *ast.AssignStmt:
		c.writeAssignStmt(stmt)
	case *ast.DeclStmt:
		c.writeDeclStmt(stmt)
	case *ast.IfStmt:
		c.writeIfStmt(stmt)
	case *ast.ForStmt:
		c.writeForStmt(stmt)
	case *ast.BranchStmt:
		c.writeBranchStmt(stmt)
	case *ast.ReturnStmt:
		c.writeReturnStmt(stmt)
	case *ast.BlockStmt:
		c.writeBlockStmt(stmt)
	case *ast.RangeStmt:
		c.errorf(ErrUnsupported, stmt.Pos(), "range loops are not supported in shaders; use a counted for loop")
	case *ast.SwitchStmt:
		c.errorf(ErrUnsupported, stmt.Pos(), "switch statements are not supported in shaders")
	case *ast.GoStmt, *ast.DeferStmt, *ast.SelectStmt, *ast.SendStmt:
		c.errorf(ErrUnsupported, stmt.Pos(), "concurrency and defer are not supported in shaders")
	default:
		c.errorf(ErrUnsupported, stmt.Pos(), "unsupported statement type")
	}
}

//
// Functions
//

func (c *Compiler) writeFuncDecl(decl *ast.FuncDecl) {
	c.checkParamAssignments(decl)
	c.collectMutables(decl.Body)

	obj := c.types.Defs[decl.Name]
	sig, _ := obj.Type().(*types.Signature)
	if sig == nil {
		return
	}

	c.write("fn ")
	c.write(decl.Name.Name)
	c.write("(")
	if c.isMain(decl) {
		c.write("@builtin(global_invocation_id) ")
		c.write(c.iterPosName())
		c.write(": vec3<u32>")
	} else {
		for i := 0; i < sig.Params().Len(); i++ {
			param := sig.Params().At(i)
			if param.Name() == "" || param.Name() == "_" {
				c.errorf(ErrUnsupported, param.Pos(), "parameters of func %s must be named", decl.Name.Name)
			}
			if i > 0 {
				c.write(", ")
			}
			c.write(param.Name())
			c.write(": ")
			c.write(c.genTypeExpr(param.Type(), param.Pos()))
		}
	}
	c.write(")")
	switch sig.Results().Len() {
	case 0:
	case 1:
		result := sig.Results().At(0)
		if result.Name() != "" {
			c.errorf(ErrUnsupported, result.Pos(), "named results are not supported in shaders")
		}
		c.write(" -> ")
		c.write(c.genTypeExpr(result.Type(), result.Pos()))
	default:
		c.errorf(ErrUnsupported, decl.Pos(), "func %s returns multiple values", decl.Name.Name)
	}
	c.write(" ")
	c.writeBlockStmt(decl.Body)
}
