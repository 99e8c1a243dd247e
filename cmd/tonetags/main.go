// Command tonetags serves the tone-tag commands over HTTP and offers offline
// tooling for the standards they are built on.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
