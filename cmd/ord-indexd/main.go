// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

// Command ord-indexd is a debug/replay tool: it decodes a file of
// serialized blocks and feeds them through the indexer's ApplyBlock
// state machine in order, printing one summary line per block. It is
// not a node: it has no p2p layer and fetches no blocks itself, per
// SPEC_FULL.md's scope for this package.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/btcsuite/btclog"
	"github.com/jessevdk/go-flags"
	"github.com/jrick/logrotate/rotator"

	"github.com/BoostyLabs/ord-index/indexer"
	"github.com/BoostyLabs/ord-index/internal/config"
	"github.com/BoostyLabs/ord-index/internal/store"
)

type options struct {
	Config      string `short:"c" long:"config" description:"path to a YAML config file" default:"ord-indexd.yaml"`
	Replay      string `short:"r" long:"replay" description:"path to a replay file of length-prefixed serialized blocks" required:"true"`
	StartHeight uint32 `long:"start-height" description:"height of the first block in the replay file"`
	LogFile     string `long:"log-file" description:"rotated log file path; stderr-only if unset"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "ord-indexd:", err)
		os.Exit(1)
	}
}

func run() error {
	var opts options
	if _, err := flags.Parse(&opts); err != nil {
		if flags.WroteHelp(err) {
			return nil
		}

		return err
	}

	cfg, err := config.Load(opts.Config)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("loading config: %w", err)
	}

	chainParams, err := cfg.ChainParams()
	if err != nil {
		return err
	}

	log, closeLog, err := newLogger(opts.LogFile)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer closeLog()

	engine, err := store.OpenLevelDB(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("opening data dir %s: %w", cfg.DataDir, err)
	}
	defer engine.Close()

	ctx := indexer.NewContext(store.New(engine), nil, chainParams, log)
	ctx.JubileeHeight = cfg.JubileeHeight

	replayFile, err := os.Open(opts.Replay)
	if err != nil {
		return fmt.Errorf("opening replay file: %w", err)
	}
	defer replayFile.Close()

	blocks, err := readReplayBlocks(replayFile)
	if err != nil {
		return fmt.Errorf("decoding replay file: %w", err)
	}

	for i, block := range blocks {
		height := opts.StartHeight + uint32(i)

		result, err := indexer.ApplyBlock(ctx, block, height, nil)
		if err != nil {
			return fmt.Errorf("applying block at height %d: %w", height, err)
		}

		total := 0
		for _, tx := range result.Transactions {
			total += len(tx.Inscriptions)
		}
		fmt.Printf("height=%d txs=%d inscriptions=%d\n", height, len(result.Transactions), total)
	}

	return nil
}

// newLogger builds a btclog.Logger writing to stderr and, if logFile is
// set, to a size-rotated file via jrick/logrotate — the same rotation
// library btcd itself uses for its own log files, already present in
// the teacher's go.mod as a transitive dependency.
func newLogger(logFile string) (btclog.Logger, func(), error) {
	if logFile == "" {
		backend := btclog.NewBackend(os.Stderr)
		return backend.Logger("ord-indexd"), func() {}, nil
	}

	r, err := rotator.New(logFile, 10*1024, false, 3)
	if err != nil {
		return nil, nil, err
	}

	backend := btclog.NewBackend(io.MultiWriter(os.Stderr, r))
	log := backend.Logger("ord-indexd")

	return log, func() { _ = r.Close() }, nil
}
