// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/txselect/mining"
	"github.com/btcsuite/txselect/poolstore"
	"github.com/btcsuite/txselect/sigverify"
	flags "github.com/jessevdk/go-flags"
)

const (
	defaultDbType      = poolstore.TypeLevelDB
	defaultLogLevel    = "info"
	defaultLogFilename = "txselect.log"
	defaultStrategy    = "greedy"
)

var (
	txselectHomeDir = btcutil.AppDataDir("txselect", false)
	defaultDataDir  = filepath.Join(txselectHomeDir, "data")
	defaultLogDir   = filepath.Join(txselectHomeDir, "logs")
	knownDbTypes    = poolstore.SupportedDBTypes
)

// config defines the configuration options for txselect.
//
// See loadConfig for details on the configuration load process.
type config struct {
	DataDir          string `short:"b" long:"datadir" description:"Directory to store the pool database"`
	DbType           string `long:"dbtype" description:"Database backend to use for the pool"`
	LogDir           string `long:"logdir" description:"Directory to log output"`
	DebugLevel       string `short:"d" long:"debuglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical} -- You may also specify <subsystem>=<level>,<subsystem2>=<level>,... to set the log level for individual subsystems"`
	Strategy         string `short:"s" long:"strategy" description:"Selection strategy {greedy, basic, search}"`
	SearchExpansions int    `long:"searchexpansions" description:"Maximum number of states the search strategy expands per batch -- Use 0 for no limit"`
	SearchCandidates int    `long:"searchcandidates" description:"Largest batch, in transactions, the search strategy explores before falling back to greedy selection"`
	SigCacheSize     uint   `long:"sigcachesize" description:"The maximum number of entries in the signature verification cache -- Use 0 to disable the cache"`
	ImportPool       string `short:"i" long:"importpool" description:"File of txid:index value ownerhex lines to add to the pool before processing"`
	DryRun           bool   `long:"dryrun" description:"Process the batches without saving the resulting pool"`
	ShowVersion      bool   `short:"V" long:"version" description:"Display version information and exit"`

	policy mining.Policy
}

// validDbType returns whether or not dbType is a supported database type.
func validDbType(dbType string) bool {
	for _, knownType := range knownDbTypes {
		if dbType == knownType {
			return true
		}
	}

	return false
}

// loadConfig initializes and parses the config using the passed command line
// arguments.  The remaining arguments are the batch files to process.
func loadConfig(args []string) (*config, []string, error) {
	// Default config.
	cfg := config{
		DataDir:          defaultDataDir,
		DbType:           defaultDbType,
		LogDir:           defaultLogDir,
		DebugLevel:       defaultLogLevel,
		Strategy:         defaultStrategy,
		SearchExpansions: mining.DefaultSearchMaxExpansions,
		SearchCandidates: mining.DefaultSearchMaxCandidates,
		SigCacheSize:     sigverify.DefaultSigCacheSize,
	}

	// Parse command line options.
	parser := flags.NewParser(&cfg, flags.Default)
	parser.Usage = "[OPTIONS] batchfile..."
	remainingArgs, err := parser.ParseArgs(args)
	if err != nil {
		if e, ok := err.(*flags.Error); !ok || e.Type != flags.ErrHelp {
			parser.WriteHelp(os.Stderr)
		}
		return nil, nil, err
	}

	// Show the version and exit if the version flag was specified.
	if cfg.ShowVersion {
		return &cfg, remainingArgs, nil
	}

	funcName := "loadConfig"

	// Validate database type.
	if !validDbType(cfg.DbType) {
		str := "%s: The specified database type [%v] is invalid -- " +
			"supported types %v"
		err := fmt.Errorf(str, funcName, cfg.DbType, knownDbTypes)
		fmt.Fprintln(os.Stderr, err)
		parser.WriteHelp(os.Stderr)
		return nil, nil, err
	}

	// Validate the selection policy.
	strategy, err := mining.ParseStrategy(cfg.Strategy)
	if err != nil {
		err := fmt.Errorf("%s: %w", funcName, err)
		fmt.Fprintln(os.Stderr, err)
		parser.WriteHelp(os.Stderr)
		return nil, nil, err
	}
	if cfg.SearchExpansions < 0 || cfg.SearchCandidates <= 0 {
		str := "%s: The search limits must be positive -- parsed " +
			"[searchexpansions=%d, searchcandidates=%d]"
		err := fmt.Errorf(str, funcName, cfg.SearchExpansions,
			cfg.SearchCandidates)
		fmt.Fprintln(os.Stderr, err)
		parser.WriteHelp(os.Stderr)
		return nil, nil, err
	}
	maxExpansions := cfg.SearchExpansions
	if maxExpansions == 0 {
		maxExpansions = mining.NoExpansionLimit
	}
	cfg.policy = mining.Policy{
		Strategy:            strategy,
		SearchMaxExpansions: maxExpansions,
		SearchMaxCandidates: cfg.SearchCandidates,
	}

	if len(remainingArgs) == 0 && cfg.ImportPool == "" {
		str := "%s: No batch files or pool import specified"
		err := fmt.Errorf(str, funcName)
		fmt.Fprintln(os.Stderr, err)
		parser.WriteHelp(os.Stderr)
		return nil, nil, err
	}

	cfg.DataDir = cleanAndExpandPath(cfg.DataDir)
	cfg.LogDir = cleanAndExpandPath(cfg.LogDir)

	return &cfg, remainingArgs, nil
}

// cleanAndExpandPath expands environment variables and leading ~ in the
// passed path, cleans the result, and returns it.
func cleanAndExpandPath(path string) string {
	// Expand initial ~ to OS specific home directory.
	if len(path) > 0 && path[0] == '~' {
		homeDir := filepath.Dir(txselectHomeDir)
		path = filepath.Join(homeDir, path[1:])
	}

	// NOTE: The os.ExpandEnv doesn't work with Windows-style %VARIABLE%,
	// but they variables can still be expanded via POSIX-style $VARIABLE.
	return filepath.Clean(os.ExpandEnv(path))
}
