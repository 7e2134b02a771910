// Command nutrimap looks foods up across nutrition providers and reconciles
// the results.
package main

import (
	"os"

	"github.com/carebridge/nutrimap/cmd/nutrimap/app"
)

// Set by the release build.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
	builtBy = "unknown"
)

func main() {
	os.Exit(app.Run(version, commit, date, builtBy, os.Args[1:]))
}
