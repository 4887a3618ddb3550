package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
	"runtime"
	"runtime/pprof"
	"time"

	"go.uber.org/zap"

	"github.com/rawbytedev/zdict"
	"github.com/rawbytedev/zdict/pkg/compression"
)

func main() {
	var (
		config = flag.String("config", "", "YAML config for the map")
		rounds = flag.Int("rounds", 10000, "compress/set/decompress cycles")
		hold   = flag.Duration("hold", 5*time.Minute, "keep pprof serving after the run")
	)
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	go func() {
		logger.Info("pprof", zap.Error(http.ListenAndServe("localhost:6060", nil)))
	}()

	opts := zdict.Options{Level: zdict.LevelOf(compression.BestSpeed)}
	if *config != "" {
		cfg, err := zdict.LoadConfig(*config)
		if err != nil {
			logger.Fatal("load config", zap.Error(err))
		}
		if opts, err = cfg.Options(); err != nil {
			logger.Fatal("config", zap.Error(err))
		}
	}

	f, err := os.Create("mem.prof")
	if err != nil {
		logger.Fatal("create profile", zap.Error(err))
	}
	defer f.Close()
	runtime.MemProfileRate = 1

	entries := make([]zdict.Entry, 128)
	for i := range entries {
		entries[i] = zdict.Entry{Key: fmt.Sprintf("k%03d", i), Value: []any{"azerty", "hello", "world", i}}
	}
	m, err := zdict.New(entries, opts)
	if err != nil {
		logger.Fatal("new map", zap.Error(err))
	}
	for i := 0; i < *rounds; i++ {
		if err := m.Compress(); err != nil {
			logger.Fatal("compress", zap.Error(err))
		}
		if err := m.Set("round", i); err != nil {
			logger.Fatal("set", zap.Error(err))
		}
		if _, err := m.Decompress(); err != nil {
			logger.Fatal("decompress", zap.Error(err))
		}
	}
	logger.Info("done", zap.Int("rounds", *rounds), zap.Any("stats", m.Stats()))
	if err := pprof.WriteHeapProfile(f); err != nil {
		logger.Fatal("write profile", zap.Error(err))
	}
	time.Sleep(*hold)
}
