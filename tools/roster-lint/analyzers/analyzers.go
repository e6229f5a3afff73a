// Package analyzers provides the roster-lint analyzers.
package analyzers

import (
	"golang.org/x/tools/go/analysis"

	"github.com/ersonp/roster-core/tools/roster-lint/analyzers/loopcall"
)

// All returns all analyzers to run.
func All() []*analysis.Analyzer {
	return []*analysis.Analyzer{
		loopcall.Analyzer,
	}
}
