package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/leozw/whois-lookup/internal/config"
	"github.com/leozw/whois-lookup/internal/logging"
	"github.com/leozw/whois-lookup/internal/lookup"
	"github.com/leozw/whois-lookup/internal/normalize"
	"github.com/leozw/whois-lookup/internal/upstream"
)

// whois runs a single lookup with the service configuration and prints the
// record as JSON.
func main() {
	infoType := flag.String("type", "domain", "info type: domain or contact")
	provider := flag.String("provider", "", "override upstream.provider")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [-type domain|contact] [-provider whoisxml|registry] <domain>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *provider != "" {
		cfg.Upstream.Provider = *provider
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	fetcher, err := upstream.NewFetcher(cfg.Upstream)
	if err != nil {
		logger.Fatal("Failed to build upstream fetcher", zap.Error(err))
	}

	service := lookup.NewService(fetcher, normalize.New(normalize.WithLogger(logger)), nil, logger)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Upstream.Timeout)
	defer cancel()

	record, err := service.Lookup(ctx, flag.Arg(0), *infoType)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, lookup.ErrInvalidRequest) {
			os.Exit(2)
		}
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(record); err != nil {
		logger.Fatal("Failed to encode record", zap.Error(err))
	}
}
