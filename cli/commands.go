// Package cli implements the pdfmark command line interface.
package cli

import (
	"fmt"
	"os"
)

// osExit is swapped out in tests.
var osExit = os.Exit

func Usage() {
	fmt.Printf("Usage: %s <command> [options] <args>\n\n", os.Args[0])
	fmt.Println("Commands:")
	fmt.Println("  mark    Apply watermarks to a PDF file")
	fmt.Println("  info    Print page information for a PDF file")
	fmt.Println("")
	fmt.Printf("Use '%s <command> -h' for command-specific help\n", os.Args[0])
	osExit(1)
}
