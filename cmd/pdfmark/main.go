package main

import (
	"os"

	"github.com/digitorus/pdfmark/cli"
)

func main() {
	if len(os.Args) < 2 {
		cli.Usage()
		return
	}

	switch os.Args[1] {
	case "mark":
		cli.MarkCommand()
	case "info":
		cli.InfoCommand()
	default:
		cli.Usage()
	}
}
