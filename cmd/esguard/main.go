// Command esguard validates, canonicalizes and gates search, ingest
// pipeline, watch and index definitions.
//
// Usage:
//
//	# Validate a document against a schema (exit status 1 when invalid)
//	esguard validate search query.json
//
//	# Print the canonical form and the patch that produced it
//	esguard canonicalize pipeline pipeline.yaml --diff
//
//	# Export a schema as JSON Schema
//	esguard schema watch
//
//	# Run the HTTP service
//	esguard serve --config esguard.yaml
package main

import "os"

func main() {
	os.Exit(execute(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
