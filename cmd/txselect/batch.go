// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/txselect/mining"
	"github.com/btcsuite/txselect/utxo"
	"github.com/btcsuite/txselect/wire"
)

// scanLines calls fn with the line number and text of every line of r that is
// neither blank nor a # comment.
func scanLines(r io.Reader, fn func(lineNum int, line string) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), wire.MaxTxPayload*2+1)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := fn(lineNum, line); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// readBatch parses one hex encoded transaction per line.
func readBatch(r io.Reader) ([]*wire.MsgTx, error) {
	var batch []*wire.MsgTx
	err := scanLines(r, func(lineNum int, line string) error {
		serialized, err := hex.DecodeString(line)
		if err != nil {
			return fmt.Errorf("line %d: %w", lineNum, err)
		}
		var tx wire.MsgTx
		if err := tx.FromBytes(serialized); err != nil {
			return fmt.Errorf("line %d: %w", lineNum, err)
		}
		batch = append(batch, &tx)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return batch, nil
}

// readBatchFile reads the batch stored at path.
func readBatchFile(path string) ([]*wire.MsgTx, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	batch, err := readBatch(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return batch, nil
}

// parsePoolLine parses a line of the form txid:index value ownerhex where value
// is in satoshi.
func parsePoolLine(line string) (wire.OutPoint, *utxo.Entry, error) {
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return wire.OutPoint{}, nil, fmt.Errorf("expected 3 fields, "+
			"got %d", len(fields))
	}

	txid, indexStr, ok := strings.Cut(fields[0], ":")
	if !ok {
		return wire.OutPoint{}, nil, fmt.Errorf("malformed outpoint %q",
			fields[0])
	}
	hash, err := chainhash.NewHashFromStr(txid)
	if err != nil {
		return wire.OutPoint{}, nil, err
	}
	index, err := strconv.ParseUint(indexStr, 10, 32)
	if err != nil {
		return wire.OutPoint{}, nil, fmt.Errorf("malformed output "+
			"index: %w", err)
	}

	value, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return wire.OutPoint{}, nil, fmt.Errorf("malformed value: %w", err)
	}
	if value < 0 || value > btcutil.MaxSatoshi {
		return wire.OutPoint{}, nil, fmt.Errorf("value %d is out of "+
			"range", value)
	}

	owner, err := hex.DecodeString(fields[2])
	if err != nil {
		return wire.OutPoint{}, nil, fmt.Errorf("malformed owner: %w", err)
	}

	outpoint := wire.OutPoint{Hash: *hash, Index: uint32(index)}
	return outpoint, utxo.NewEntry(btcutil.Amount(value), owner), nil
}

// importPool adds every output listed in r to pool.  It returns the number of
// outputs added.
func importPool(r io.Reader, pool *utxo.Pool) (int, error) {
	var added int
	err := scanLines(r, func(lineNum int, line string) error {
		outpoint, entry, err := parsePoolLine(line)
		if err != nil {
			return fmt.Errorf("line %d: %w", lineNum, err)
		}
		if err := pool.Insert(outpoint, entry); err != nil {
			return fmt.Errorf("line %d: %w", lineNum, err)
		}
		added++
		return nil
	})
	return added, err
}

// writeResult prints the outcome of one epoch.
func writeResult(w io.Writer, name string, epoch uint64, result *mining.BatchResult) {
	fmt.Fprintf(w, "epoch %d (%s): %d accepted, %d rejected, fees %v\n",
		epoch, name, len(result.Accepted), len(result.Rejected),
		result.TotalFees)
	for _, desc := range result.Accepted {
		fmt.Fprintf(w, "  accept %v fee %v\n", desc.Hash, desc.Fee)
	}
	for _, rejection := range result.Rejected {
		fmt.Fprintf(w, "  reject %v: %v\n", rejection.Hash, rejection.Err)
	}
}
