package main

import (
	"encoding/json"
	"io"
	"log"
	"os"

	"github.com/rode/es-query-builder/go/config"
	"github.com/rode/es-query-builder/go/v1beta1/querybuilder"
	"github.com/rode/es-query-builder/go/v1beta1/querybuilder/filtering"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	var (
		configFile = pflag.String("config", "", "path to a YAML config file")
		argsFile   = pflag.String("args", "-", "path to the JSON query arguments, - reads stdin")
		filter     = pflag.String("filter", "", "CEL filter expression conjoined with the filters in the arguments")
	)
	pflag.Parse()

	_, debugEnabled := os.LookupEnv("DEBUG")
	logger, err := createLogger(debugEnabled)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Sync()

	c, err := config.Load(*configFile)
	if err != nil {
		logger.Fatal("invalid configuration", zap.NamedError("error", err))
	}

	args, err := readArgs(*argsFile)
	if err != nil {
		logger.Fatal("failed to read query arguments", zap.String("args", *argsFile), zap.NamedError("error", err))
	}
	if *filter != "" {
		args.FilterExpression = *filter
	}

	if c.Elasticsearch != nil && c.Elasticsearch.URI != "" {
		target, err := c.Elasticsearch.SearchURL()
		if err != nil {
			logger.Fatal("invalid elasticsearch uri", zap.NamedError("error", err))
		}
		logger.Debug("search target", zap.String("url", target))
	}

	b := querybuilder.NewBuilder(logger.Named("Builder"), filtering.NewFilterer(), c)
	request, err := b.Build(args)
	if err != nil {
		logger.Fatal("failed to build search request", zap.NamedError("error", err))
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(request); err != nil {
		logger.Fatal("failed to write search request", zap.NamedError("error", err))
	}
}

func readArgs(path string) (*querybuilder.QueryArgs, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	return querybuilder.DecodeQueryArgs(r)
}

func createLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}

	return zap.NewProduction()
}
