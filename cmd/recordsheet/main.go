// Package main is the entry point for the recordsheet ledger.
package main

import (
	"os"

	"github.com/SscSPs/recordsheet/cmd/recordsheet/cmd"
)

// @title RecordSheet Ledger API
// @version 1.0
// @description Double-entry ledger with statement imports and reports.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
