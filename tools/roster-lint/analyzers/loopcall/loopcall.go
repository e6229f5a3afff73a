// Package loopcall detects repository lookups inside loops.
package loopcall

import (
	"go/ast"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
)

// Analyzer reports filter queries, session starts and audit writes issued
// once per loop iteration. Filters take value sets, so one call can cover
// the whole loop.
var Analyzer = &analysis.Analyzer{
	Name:     "loopcall",
	Doc:      "detects repository lookups inside loops that should use a single multi-value filter",
	Requires: []*analysis.Analyzer{inspect.Analyzer},
	Run:      run,
}

// storeMethods maps method names that reach the database to the batched form.
var storeMethods = map[string]string{
	"AnyMatch":         "collect the values into one filter",
	"AllMatch":         "collect the values into one filter",
	"Where":            "collect the values into one filter",
	"WhereWithRelated": "collect the values into one filter",
	"BeginTx":          "run the loop inside one session",
	"SaveAuditRecords": "save the records in one call",
}

func run(pass *analysis.Pass) (any, error) {
	insp := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)

	nodeFilter := []ast.Node{
		(*ast.RangeStmt)(nil),
		(*ast.ForStmt)(nil),
	}

	insp.Preorder(nodeFilter, func(n ast.Node) {
		var body *ast.BlockStmt
		switch stmt := n.(type) {
		case *ast.RangeStmt:
			body = stmt.Body
		case *ast.ForStmt:
			body = stmt.Body
		}
		if body == nil {
			return
		}

		ast.Inspect(body, func(n ast.Node) bool {
			// Nested loops are visited by Preorder on their own.
			switch n.(type) {
			case *ast.RangeStmt, *ast.ForStmt, *ast.FuncLit:
				return false
			}

			call, ok := n.(*ast.CallExpr)
			if !ok {
				return true
			}

			sel, ok := call.Fun.(*ast.SelectorExpr)
			if !ok {
				return true
			}

			if hint, ok := storeMethods[sel.Sel.Name]; ok {
				pass.Reportf(call.Pos(),
					"potential N+1: %s called inside loop - %s",
					sel.Sel.Name, hint)
			}

			return true
		})
	})

	return nil, nil
}
