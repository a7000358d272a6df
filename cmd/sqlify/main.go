package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/harendratomar/SQLify/config"
	"github.com/harendratomar/SQLify/dataset"
	"github.com/harendratomar/SQLify/output"
	"github.com/harendratomar/SQLify/pipeline"
	"github.com/harendratomar/SQLify/prompt"
	"github.com/harendratomar/SQLify/query"
	"github.com/harendratomar/SQLify/security"
)

var (
	queryFlag  = flag.String("q", "", "SQL query to run directly (e.g., \"SELECT * FROM data WHERE Rank > 3\")")
	askFlag    = flag.String("ask", "", "Natural language question; translated to SQL via the configured LLM")
	formatFlag = flag.String("f", "table", "Output format: json, csv, table")
	configFlag = flag.String("config", "", "Path to config file (required for -ask)")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <file.csv|file.parquet>\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Query CSV and Parquet files with SQL or natural language.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -q \"SELECT Country FROM data WHERE Rank > 3\" data.csv\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -ask \"which countries rank above 3?\" -config config.yaml data.csv\n", os.Args[0])
	}

	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Error: missing data file argument\n\n")
		flag.Usage()
		os.Exit(1)
	}
	filename := flag.Arg(0)

	if *queryFlag == "" && *askFlag == "" {
		fmt.Fprintf(os.Stderr, "Error: one of -q or -ask is required\n\n")
		flag.Usage()
		os.Exit(1)
	}
	if *queryFlag != "" && *askFlag != "" {
		fmt.Fprintf(os.Stderr, "Error: -q and -ask are mutually exclusive\n")
		os.Exit(1)
	}

	ds, err := loadDataset(filename)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Error: file '%s' not found\n", filename)
			fmt.Fprintf(os.Stderr, "Please check the file path and try again.\n")
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}

	var rows []dataset.Row
	if *queryFlag != "" {
		rows, err = query.Execute(ds, *queryFlag)
	} else {
		rows, err = ask(ds, *askFlag)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var formatter output.Formatter
	switch *formatFlag {
	case "json", "jsonl":
		formatter = output.NewJSONFormatter(os.Stdout)
	case "csv":
		formatter = output.NewCSVFormatter(os.Stdout)
	case "table":
		formatter = output.NewTableFormatter(os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "Error: unsupported format '%s'\n", *formatFlag)
		fmt.Fprintf(os.Stderr, "Supported formats: json, csv, table\n")
		os.Exit(1)
	}

	if err := formatter.Format(rows); err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
		os.Exit(1)
	}
}

// loadDataset reads a data file, choosing the loader by extension.
func loadDataset(path string) (*dataset.Dataset, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return dataset.LoadCSV(path)
	case ".parquet":
		return dataset.LoadParquet(path)
	default:
		return nil, fmt.Errorf("unsupported file type %q: expected .csv or .parquet", filepath.Ext(path))
	}
}

// ask translates a natural language question to SQL via the configured
// LLM and executes the result against the dataset.
func ask(ds *dataset.Dataset, question string) ([]dataset.Row, error) {
	cfg, err := config.Load(*configFlag)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	completer := prompt.NewHTTPCompleter(
		cfg.LLM.Endpoint,
		cfg.LLM.Model,
		cfg.LLM.APIKey,
		time.Duration(cfg.LLM.TimeoutSeconds)*time.Second,
	)

	// The CLI keeps its stdout clean for formatted results
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	p := pipeline.New(completer, security.NewLog(), logger)

	result, err := p.Run(context.Background(), ds, question)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(os.Stderr, "Generated SQL: %s\n", result.SQL)
	return result.Rows, nil
}
