package main

import (
	"log"
	"os"

	"github.com/atotto/clipboard"
)

// systemClipboard writes through the OS clipboard.
type systemClipboard struct{}

func (systemClipboard) WriteText(text string) error {
	return clipboard.WriteAll(text)
}

func main() {
	if err := newApp(os.Stdout, systemClipboard{}).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
