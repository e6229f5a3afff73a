// roster-lint flags store round-trips that the creation workflows should batch.
package main

import (
	"golang.org/x/tools/go/analysis/multichecker"

	"github.com/ersonp/roster-core/tools/roster-lint/analyzers"
)

func main() {
	multichecker.Main(analyzers.All()...)
}
