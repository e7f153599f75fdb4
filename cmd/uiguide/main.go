// Command uiguide runs the design-file filter, prompt builder and response
// parser offline, reading from files or stdin.
package main

import (
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
