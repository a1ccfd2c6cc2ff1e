// Command coachctl administers a coach reports database: migrations, fixtures,
// classes, coach accounts, reports and backups.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
