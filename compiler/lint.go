package compiler

import (
	"go/ast"
	"go/token"
	"go/types"

	"golang.org/x/tools/go/ast/astutil"
)

// assignTarget is an expression a statement writes through, and where.
type assignTarget struct {
	expr ast.Expr
	pos  token.Pos
}

// assignTargets lists every expression written to within body: the left side
// of = and op=, operands of ++ and --, and operands of &.
func assignTargets(body ast.Node) []assignTarget {
	var targets []assignTarget
	astutil.Apply(body, func(cursor *astutil.Cursor) bool {
		switch node := cursor.Node().(type) {
		case *ast.FuncLit:
			return false
		case *ast.AssignStmt:
			if node.Tok != token.DEFINE {
				for _, lhs := range node.Lhs {
					targets = append(targets, assignTarget{expr: lhs, pos: node.TokPos})
				}
			}
		case *ast.IncDecStmt:
			targets = append(targets, assignTarget{expr: node.X, pos: node.TokPos})
		case *ast.UnaryExpr:
			if node.Op == token.AND {
				targets = append(targets, assignTarget{expr: node.X, pos: node.OpPos})
			}
		}
		return true
	}, nil)
	return targets
}

// rootObject is the variable an lvalue like a.b[i].c ultimately writes to.
func (c *Compiler) rootObject(expr ast.Expr) types.Object {
	for {
		switch e := astutil.Unparen(expr).(type) {
		case *ast.Ident:
			return c.types.ObjectOf(e)
		case *ast.SelectorExpr:
			if _, ok := c.types.Selections[e]; !ok {
				return nil
			}
			expr = e.X
		case *ast.IndexExpr:
			expr = e.X
		default:
			return nil
		}
	}
}

// collectMutables marks the locals of body that are written after being
// declared, so they are declared with var instead of let.
func (c *Compiler) collectMutables(body *ast.BlockStmt) {
	for _, target := range assignTargets(body) {
		if obj := c.rootObject(target.expr); obj != nil {
			c.mutables[obj] = true
		}
	}
}

// checkParamAssignments rejects writes to parameters, which are immutable in
// WGSL. Writes to main's iteration position get their own error kind.
func (c *Compiler) checkParamAssignments(decl *ast.FuncDecl) {
	params := make(map[types.Object]bool)
	for _, field := range decl.Type.Params.List {
		for _, name := range field.Names {
			if obj := c.types.Defs[name]; obj != nil {
				params[obj] = true
			}
		}
	}
	for _, target := range assignTargets(decl.Body) {
		obj := c.rootObject(target.expr)
		switch {
		case obj == nil || !params[obj]:
		case obj == c.iterPos:
			c.errorf(ErrIterationPositionAssign, target.pos, "cannot assign to iteration position %s", obj.Name())
		default:
			c.errorf(ErrUnsupported, target.pos, "cannot assign to parameter %s; copy it to a local first", obj.Name())
		}
	}
}
