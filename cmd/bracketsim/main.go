// Command bracketsim builds and plays brackets offline, without a database or
// a running server.
package main

import (
	"log"
	"os"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
