package cli

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/digitorus/pdfmark"
)

func InfoCommand() {
	infoFlags := flag.NewFlagSet("info", flag.ExitOnError)

	infoFlags.Usage = func() {
		fmt.Printf("Usage: %s info <input.pdf>\n\n", os.Args[0])
		fmt.Println("Print page count and per-page media boxes as JSON")
	}

	if err := infoFlags.Parse(os.Args[2:]); err != nil {
		log.Printf("Failed to parse info flags: %v", err)
		osExit(1)
	}

	if len(infoFlags.Args()) < 1 {
		infoFlags.Usage()
		osExit(1)
		return
	}

	InfoPDF(infoFlags.Arg(0))
}

func InfoPDF(input string) {
	info, err := pdfmark.Inspect(input)
	if err != nil {
		fmt.Println(err)
		osExit(1)
		return
	}

	jsonData, err := json.Marshal(info)
	if err != nil {
		fmt.Println(err)
		osExit(1)
		return
	}
	fmt.Println(string(jsonData))
}
