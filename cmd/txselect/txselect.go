// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/btcsuite/txselect/internal/limits"
	txlog "github.com/btcsuite/txselect/internal/log"
	"github.com/btcsuite/txselect/internal/version"
	"github.com/btcsuite/txselect/mining"
	"github.com/btcsuite/txselect/poolstore"
	"github.com/btcsuite/txselect/sigverify"
	"github.com/btcsuite/txselect/utxo"
)

const (
	// poolDbNamePrefix is the prefix for the pool database.
	poolDbNamePrefix = "pool"
)

var (
	cfg *config
	log = txlog.TxslLog
)

// loadPoolStore opens the pool database, creating it when needed.
func loadPoolStore() (*poolstore.Store, error) {
	// The database name is based on the database type.
	dbName := poolDbNamePrefix + "_" + cfg.DbType
	dbPath := filepath.Join(cfg.DataDir, dbName)

	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		return nil, err
	}

	log.Infof("Loading pool database from '%s'", dbPath)
	return poolstore.Open(cfg.DbType, dbPath)
}

// importPoolFile adds the outputs listed in the named file to pool.
func importPoolFile(path string, pool *utxo.Pool) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	added, err := importPool(f, pool)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	log.Infof("Imported %d %s from %s", added,
		txlog.PickNoun(added, "output", "outputs"), path)
	return nil
}

// realMain is the real main function for the utility.  It is necessary to work
// around the fact that deferred functions do not run when os.Exit() is called.
func realMain() error {
	// Load configuration and parse command line.
	tcfg, batchFiles, err := loadConfig(os.Args[1:])
	if err != nil {
		return err
	}
	cfg = tcfg

	if cfg.ShowVersion {
		fmt.Println("txselect version", version.String())
		return nil
	}

	// Setup logging.
	err = txlog.InitLogRotator(filepath.Join(cfg.LogDir, defaultLogFilename))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	defer func() {
		if txlog.LogRotator != nil {
			txlog.LogRotator.Close()
		}
	}()
	if err := txlog.ParseAndSetDebugLevels(cfg.DebugLevel); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}

	if err := limits.SetLimits(); err != nil {
		log.Errorf("Failed to set limits: %v", err)
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	store, err := loadPoolStore()
	if err != nil {
		log.Errorf("Failed to load database: %v", err)
		return err
	}
	defer store.Close()

	pool, epoch, err := store.Load()
	if err != nil {
		log.Errorf("Failed to load pool: %v", err)
		return err
	}

	if cfg.ImportPool != "" {
		if err := importPoolFile(cfg.ImportPool, pool); err != nil {
			log.Errorf("Failed to import pool: %v", err)
			return err
		}
	}

	var sigCache *sigverify.SigCache
	if cfg.SigCacheSize > 0 {
		sigCache = sigverify.NewSigCache(cfg.SigCacheSize)
	}
	handler := mining.NewHandler(pool, mining.Config{
		Policy:   cfg.policy,
		SigCache: sigCache,
	})

	// save persists the pool reached so far unless this is a dry run.
	save := func(epoch uint64) error {
		if cfg.DryRun {
			return nil
		}
		pool := handler.Pool()
		if err := store.Save(pool, epoch); err != nil {
			log.Errorf("Failed to save pool: %v", err)
			return err
		}
		log.Infof("Saved pool with %d %s at epoch %d", pool.Len(),
			txlog.PickNoun(pool.Len(), "output", "outputs"), epoch)
		return nil
	}
	if len(batchFiles) == 0 {
		return save(epoch)
	}

	_, err = processBatches(ctx, handler, batchFiles, epoch, save)
	if errors.Is(err, context.Canceled) {
		log.Info("Interrupted, remaining batches skipped")
	}
	return err
}

// processBatches runs every batch file through handler as the epochs
// following epoch, calling save after each one.  It stops before the next
// file once ctx is done.  The last epoch processed is returned.
func processBatches(ctx context.Context, handler *mining.Handler,
	batchFiles []string, epoch uint64, save func(epoch uint64) error) (uint64, error) {

	for _, path := range batchFiles {
		if err := ctx.Err(); err != nil {
			return epoch, err
		}

		batch, err := readBatchFile(path)
		if err != nil {
			log.Errorf("Failed to read batch: %v", err)
			return epoch, err
		}

		result, err := handler.ProcessBatch(ctx, batch)
		if err != nil {
			log.Errorf("Failed to process %s: %v", path, err)
			return epoch, err
		}
		epoch++
		writeResult(os.Stdout, path, epoch, result)

		if err := save(epoch); err != nil {
			return epoch, err
		}
	}
	return epoch, nil
}

func main() {
	// Work around defer not working after os.Exit()
	if err := realMain(); err != nil {
		os.Exit(1)
	}
}
