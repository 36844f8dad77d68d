// =============================================================================
// Catalog Feed Converter - Main Entry Point
// =============================================================================
//
// This is the main entry point for the catalogfeed CLI. It delegates command
// execution to the cmd package.
//
// USAGE:
//   catalogfeed convert <input> [output] - Convert a CSV/XLSX catalog to an XML feed
//   catalogfeed validate <input>         - Check an input file without converting
//   catalogfeed fetch <url>              - GET a JSON document
//   catalogfeed version                  - Display the application version
//
// ARCHITECTURE:
//   - cmd/      : CLI command definitions (Cobra)
//   - internal/ : Readers, entity models, conversion engine, XML writer
//   - pkg/      : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/catalog-feed/cmd"
)

func main() {
	cmd.Execute()
}
