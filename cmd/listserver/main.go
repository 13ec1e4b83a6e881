// Package main is the entry point of the Drawpile session listing server.
package main

import (
	"log"

	"github.com/callaa/drawpile-listing/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
