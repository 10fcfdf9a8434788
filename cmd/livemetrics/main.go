// Command livemetrics serves and queries live performance metrics of
// monitored entities.
package main

import "github.com/janakawicks/manageiq/cmd/cli"

// Set by ldflags during build.
var (
	version   = "dev"
	commit    = "none"
	buildTime = "unknown"
)

func main() {
	cli.SetVersion(version, commit, buildTime)
	cli.Execute()
}
