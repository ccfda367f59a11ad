// Package main provides the api-admin CLI tool for managing the api-service.
package main

import (
	"os"

	"github.com/larapida/go-webnode/cmd/api-admin/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
