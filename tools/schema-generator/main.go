// Command schema-generator writes the watchers.yml JSON schema to
// schema/definitions so editors can validate config files.
package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"

	"github.com/grovetools/watchers/config"
)

func main() {
	outputDir := flag.String("out", "schema/definitions", "Directory to write the schema into")
	flag.Parse()

	schemaBytes, err := config.GenerateSchema()
	if err != nil {
		log.Fatalf("Error generating schema: %v", err)
	}

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("Error creating schema directory: %v", err)
	}

	outputPath := filepath.Join(*outputDir, "watchers.schema.json")
	if err := os.WriteFile(outputPath, append(schemaBytes, '\n'), 0644); err != nil {
		log.Fatalf("Error writing schema file: %v", err)
	}

	log.Printf("Wrote %s", outputPath)
}
