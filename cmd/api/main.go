// Command api levanta el servicio de historial de tratamientos equinos.
//
// @title Horse Treatment Records API
// @version 1.0
// @description Per-horse vaccination, test and maintenance records for vets, stables and administrators.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"fmt"
	"os"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
