// Command jurispanel is the operator CLI: it hashes and extracts session
// documents and inspects stored sessions and the audit log.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
