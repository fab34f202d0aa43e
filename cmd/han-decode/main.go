// Command han-decode reads a Norwegian HAN port byte stream (serial
// port, capture file, or stdin) and emits one JSON document per decoded
// frame.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/vegardh/han-decode/internal/config"
	"github.com/vegardh/han-decode/internal/emit"
	"github.com/vegardh/han-decode/internal/logging"
	"github.com/vegardh/han-decode/internal/pipeline"
	"github.com/vegardh/han-decode/internal/source"
)

func main() {
	cfg, err := config.Parse(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	log := logging.New(cfg.Debug, cfg.Quiet)

	r, err := source.Open(cfg)
	if err != nil {
		log.Error("failed to open byte source", "err", err)
		os.Exit(1)
	}
	defer r.Close()

	var sinks []emit.Sink
	for _, spec := range cfg.Sinks {
		if spec == "stdout" {
			sinks = append(sinks, emit.NewStdoutSink(cfg.Compact))
			continue
		}
		path := strings.TrimPrefix(spec, "file:")
		fileSink, err := emit.NewFileSink(path, cfg.Compact)
		if err != nil {
			log.Error("failed to open output file sink", "err", err)
			os.Exit(1)
		}
		sinks = append(sinks, fileSink)
	}
	sink := emit.Fanout{Sinks: sinks}
	defer sink.Close()

	if err := pipeline.Run(r, cfg, sink, log); err != nil {
		log.Error("pipeline terminated", "err", err)
		os.Exit(1)
	}
}
