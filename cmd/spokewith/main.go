// Command spokewith keeps a log of calls in a local SQLite database.
package main

import (
	"os"

	"github.com/roach88/spokewith/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
