// Command eventdash serves interactive dashboards over a table of
// particle-collision events.
//
// Usage:
//
//	eventdash serve ./dielectron.csv
//	eventdash render ./dielectron.csv drill --curve 2 --out drill.png
//	eventdash inspect ./dielectron.csv --format json
//
// Example requests against a running server:
//
//	# Create a session with the default selections
//	curl -X POST http://localhost:1234/v1/sessions
//
//	# Switch the histogram and heatmap to one run
//	curl -X PUT http://localhost:1234/v1/sessions/$ID/controls/run_filter \
//	  -H "Content-Type: application/json" -d '{"value": "147115"}'
//
//	# Click the second run in the scatter
//	curl -X POST http://localhost:1234/v1/sessions/$ID/pointer \
//	  -H "Content-Type: application/json" \
//	  -d '{"source": "scatter", "kind": "click", "curve_number": 1}'
package main

import (
	"fmt"
	"os"

	"github.com/roach88/eventdash/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
