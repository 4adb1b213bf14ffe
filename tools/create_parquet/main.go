// Command create_parquet writes a small directory of Parquet files to try
// pqtool against: several flat files, one file with nested columns, and a
// hidden directory that cat and head must skip.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/TFMV/pqtool/internal/fixtures"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/spf13/afero"
)

const (
	defaultOutDir   = "test_data"
	defaultFiles    = 3
	defaultRows     = 1000
	defaultRowGroup = 250
)

// Configuration for the data generator
type Config struct {
	outputDir string
	files     int
	rows      int64
	rowGroup  int64
	nested    bool
	hidden    bool
}

func main() {
	config := parseFlags()
	fs := afero.NewOsFs()

	if err := fs.MkdirAll(config.outputDir, 0o755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	opts := fixtures.Options{RowGroupLength: config.rowGroup}
	for i := 0; i < config.files; i++ {
		path := filepath.Join(config.outputDir, fmt.Sprintf("users_%02d.parquet", i))
		start := int64(i) * config.rows
		if err := fixtures.WriteUsers(fs, path, start, config.rows, opts); err != nil {
			log.Fatalf("Failed to write %s: %v", path, err)
		}
		log.Printf("Wrote %s (%d rows)", path, config.rows)
	}

	if config.nested {
		path := filepath.Join(config.outputDir, "nested.parquet")
		rec := fixtures.Nested(memory.NewGoAllocator())
		err := fixtures.WriteRecords(fs, path, fixtures.NestedSchema(), fixtures.Options{}, rec)
		rec.Release()
		if err != nil {
			log.Fatalf("Failed to write %s: %v", path, err)
		}
		log.Printf("Wrote %s", path)
	}

	if config.hidden {
		dir := filepath.Join(config.outputDir, ".hidden")
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			log.Fatalf("Failed to create hidden directory: %v", err)
		}
		path := filepath.Join(dir, "skipped.parquet")
		if err := fixtures.WriteUsers(fs, path, 0, 10, fixtures.Options{}); err != nil {
			log.Fatalf("Failed to write %s: %v", path, err)
		}
		log.Printf("Wrote %s", path)
	}
}

func parseFlags() Config {
	config := Config{}
	flag.StringVar(&config.outputDir, "out", defaultOutDir, "Output directory")
	flag.IntVar(&config.files, "files", defaultFiles, "Number of flat files to generate")
	flag.Int64Var(&config.rows, "rows", defaultRows, "Rows per flat file")
	flag.Int64Var(&config.rowGroup, "row-group", defaultRowGroup, "Maximum rows per row group")
	flag.BoolVar(&config.nested, "nested", true, "Also write a file with list, struct and map columns")
	flag.BoolVar(&config.hidden, "hidden", true, "Also write a file under a hidden directory")
	flag.Parse()

	if config.files < 0 || config.rows < 0 || config.rowGroup <= 0 {
		fmt.Fprintln(os.Stderr, "files and rows must not be negative, row-group must be positive")
		os.Exit(2)
	}
	return config
}
