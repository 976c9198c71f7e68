// quotedesk runs the quotation assembly service: an HTTP chat API that
// collects quotation details through guided or free-form dialogue,
// renders the confirmed quotation to PDF or HTML, and sweeps generated
// files after their download window.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joelkehle/quotedesk/internal/assembly"
	"github.com/joelkehle/quotedesk/internal/chatapi"
	"github.com/joelkehle/quotedesk/internal/config"
	"github.com/joelkehle/quotedesk/internal/docstore"
	"github.com/joelkehle/quotedesk/internal/extractor"
	"github.com/joelkehle/quotedesk/internal/render"
	"github.com/joelkehle/quotedesk/internal/retention"
	"github.com/joelkehle/quotedesk/internal/telemetry"
)

// llmOracle adapts the extractor to the assembly flow's oracle shape.
type llmOracle struct {
	ex *extractor.Extractor
}

func (o llmOracle) Extract(ctx context.Context, text string) (assembly.Extraction, error) {
	rec, hints, err := o.ex.Extract(ctx, text)
	if err != nil {
		return assembly.Extraction{}, err
	}
	return assembly.Extraction{
		Record:       rec,
		MissingHint:  hints,
		ReplaceItems: extractor.WantsItemReplacement(text),
	}, nil
}

func main() {
	var (
		configPath = flag.String("config", "quotedesk.yaml", "Path to YAML config file")
		addr       = flag.String("addr", "", "Listen address (overrides config)")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *addr != "" {
		cfg.ListenAddr = *addr
	}

	caller, err := extractor.NewAnthropicCallerFromEnv()
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	shutdownTracing, err := telemetry.Setup(ctx, "quotedesk", cfg.OTLPEndpoint)
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		flushCtx, flushCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer flushCancel()
		if err := shutdownTracing(flushCtx); err != nil {
			log.Printf("trace shutdown: %v", err)
		}
	}()

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		log.Fatal(err)
	}
	index, err := docstore.Open(cfg.DocIndexPath)
	if err != nil {
		log.Fatal(err)
	}
	defer index.Close()

	renderer := render.NewRenderer(cfg.OutputDir, cfg.DocumentFormat, cfg.Company)
	sink := chatapi.NewDocumentSink(renderer, index, time.Duration(cfg.RetentionMinutes)*time.Minute)
	flow := assembly.NewFlow(
		llmOracle{ex: extractor.New(caller)},
		extractor.NewSummarizer(caller),
		sink,
		cfg.ValidityDays,
	)
	sessions := assembly.NewStore()

	sweeper := retention.NewSweeper(index, time.Minute)
	go sweeper.Run(ctx)

	handler := chatapi.NewServer(flow, sessions, index, cfg.OutputDir)

	log.Printf("quotedesk listening on %s (format=%s, output=%s)", cfg.ListenAddr, cfg.DocumentFormat, cfg.OutputDir)
	srv := &http.Server{Addr: cfg.ListenAddr, Handler: handler}
	go func() {
		<-ctx.Done()
		srv.Close()
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
