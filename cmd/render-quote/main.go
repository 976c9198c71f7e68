// render-quote turns a saved quotation record JSON into a document
// without going through the chat flow. Useful for re-issuing a
// quotation or checking layout changes.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joelkehle/quotedesk/internal/config"
	"github.com/joelkehle/quotedesk/internal/quote"
	"github.com/joelkehle/quotedesk/internal/render"
)

func main() {
	var (
		inputPath    = flag.String("input", "", "Path to quotation record JSON")
		configPath   = flag.String("config", "quotedesk.yaml", "Path to YAML config file")
		outputDir    = flag.String("output-dir", "", "Output directory (overrides config)")
		format       = flag.String("format", "", "Output format, pdf or html (overrides config)")
		markdownOnly = flag.Bool("markdown", false, "Print the markdown document to stdout instead of rendering")
	)
	flag.Parse()

	if *inputPath == "" {
		log.Fatal("missing required -input")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *outputDir != "" {
		cfg.OutputDir = *outputDir
	}
	if *format != "" {
		cfg.DocumentFormat = *format
	}

	in, err := os.ReadFile(*inputPath)
	if err != nil {
		log.Fatalf("read input: %v", err)
	}
	var record quote.Record
	if err := json.Unmarshal(in, &record); err != nil {
		log.Fatalf("decode record JSON: %v", err)
	}

	issues := quote.Validate(&record)
	for _, issue := range issues {
		log.Printf("%s", issue)
	}
	if quote.HasFatal(issues) {
		log.Fatal("record has fatal issues, not rendering")
	}
	if missing := quote.MissingFields(&record); len(missing) > 0 {
		log.Fatalf("record is incomplete, missing: %v", missing)
	}

	q, err := quote.Finalize(&record, time.Now(), cfg.ValidityDays)
	if err != nil {
		log.Fatalf("finalize: %v", err)
	}

	if *markdownOnly {
		fmt.Print(render.BuildMarkdown(q, cfg.Company))
		return
	}

	renderer := render.NewRenderer(cfg.OutputDir, cfg.DocumentFormat, cfg.Company)
	path, err := renderer.Render(context.Background(), q)
	if err != nil {
		log.Fatalf("render: %v", err)
	}
	fmt.Println(path)
}
