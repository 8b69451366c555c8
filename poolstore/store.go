// Copyright (c) 2015-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package poolstore

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/txselect/database/engine"
	"github.com/btcsuite/txselect/database/engine/leveldb"
	"github.com/btcsuite/txselect/database/engine/pebbledb"
	"github.com/btcsuite/txselect/utxo"
	"github.com/btcsuite/txselect/wire"
)

const (
	// TypeLevelDB selects the goleveldb backend.
	TypeLevelDB = "leveldb"

	// TypePebble selects the pebble backend.
	TypePebble = "pebble"
)

// SupportedDBTypes lists the database types Open accepts.
var SupportedDBTypes = []string{TypeLevelDB, TypePebble}

var (
	// ErrUnknownDBType is returned by Open for an unsupported database
	// type.
	ErrUnknownDBType = errors.New("unknown database type")

	// ErrCorruptEntry is returned by Load when a stored record cannot be
	// decoded.
	ErrCorruptEntry = errors.New("corrupt pool entry")
)

var (
	// outputKeyPrefix prefixes the key of every stored output.  The rest
	// of the key is the outpoint hash followed by the big endian index so
	// keys sort like outpoints.
	outputKeyPrefix = []byte("u")

	// epochKey holds the number of the last epoch saved.
	epochKey = []byte("epoch")
)

// outputKeyLen is the length of an output key.
const outputKeyLen = 1 + chainhash.HashSize + 4

// Store persists a pool and the epoch it belongs to.
type Store struct {
	db engine.Engine
}

// Open opens, creating it when needed, the store of the given type at path.
func Open(dbType, path string) (*Store, error) {
	var (
		db  engine.Engine
		err error
	)
	switch dbType {
	case TypeLevelDB:
		db, err = leveldb.NewDB(path, false)
	case TypePebble:
		db, err = pebbledb.NewDB(path, false, 0, 0)
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownDBType, dbType)
	}
	if err != nil {
		return nil, fmt.Errorf("unable to open %s database at %s: %w",
			dbType, path, err)
	}
	return New(db), nil
}

// New returns a store on top of db.  The store takes ownership of db.
func New(db engine.Engine) *Store {
	return &Store{db: db}
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// outputKey returns the key of the output at outpoint.
func outputKey(outpoint wire.OutPoint) []byte {
	key := make([]byte, outputKeyLen)
	copy(key, outputKeyPrefix)
	copy(key[1:], outpoint.Hash[:])
	binary.BigEndian.PutUint32(key[1+chainhash.HashSize:], outpoint.Index)
	return key
}

// decodeOutputKey is the inverse of outputKey.
func decodeOutputKey(key []byte) (wire.OutPoint, error) {
	if len(key) != outputKeyLen || !bytes.HasPrefix(key, outputKeyPrefix) {
		return wire.OutPoint{}, fmt.Errorf("%w: bad key %x",
			ErrCorruptEntry, key)
	}
	var outpoint wire.OutPoint
	copy(outpoint.Hash[:], key[1:1+chainhash.HashSize])
	outpoint.Index = binary.BigEndian.Uint32(key[1+chainhash.HashSize:])
	return outpoint, nil
}

// serializeEntry returns the stored form of entry, which is the wire
// encoding of the equivalent output.
func serializeEntry(entry *utxo.Entry) ([]byte, error) {
	var buf bytes.Buffer
	txOut := wire.NewTxOut(int64(entry.Amount()), entry.Owner())
	if err := wire.WriteTxOut(&buf, txOut); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// deserializeEntry is the inverse of serializeEntry.
func deserializeEntry(value []byte) (*utxo.Entry, error) {
	r := bytes.NewReader(value)
	var txOut wire.TxOut
	if err := wire.ReadTxOut(r, &txOut); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptEntry, err)
	}
	if r.Len() != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrCorruptEntry,
			r.Len())
	}
	return utxo.NewEntry(btcutil.Amount(txOut.Value), txOut.Owner), nil
}

// Load returns the stored pool and epoch.  An empty store yields an empty
// pool at epoch zero.
func (s *Store) Load() (*utxo.Pool, uint64, error) {
	snapshot, err := s.db.Snapshot()
	if err != nil {
		return nil, 0, err
	}
	defer snapshot.Release()

	var epoch uint64
	has, err := snapshot.Has(epochKey)
	if err != nil {
		return nil, 0, err
	}
	if has {
		value, err := snapshot.Get(epochKey)
		if err != nil {
			return nil, 0, err
		}
		if len(value) != 8 {
			return nil, 0, fmt.Errorf("%w: bad epoch %x",
				ErrCorruptEntry, value)
		}
		epoch = binary.BigEndian.Uint64(value)
	}

	pool := utxo.NewPool()
	iter := snapshot.NewPrefixIterator(outputKeyPrefix)
	defer iter.Release()
	for iter.Next() {
		outpoint, err := decodeOutputKey(iter.Key())
		if err != nil {
			return nil, 0, err
		}
		entry, err := deserializeEntry(iter.Value())
		if err != nil {
			return nil, 0, fmt.Errorf("output %v: %w", outpoint, err)
		}
		if err := pool.Insert(outpoint, entry); err != nil {
			return nil, 0, err
		}
	}
	if err := iter.Error(); err != nil {
		return nil, 0, err
	}

	log.Infof("Loaded %d unspent outputs worth %v at epoch %d", pool.Len(),
		pool.TotalAmount(), epoch)
	return pool, epoch, nil
}

// Save atomically replaces the stored pool and epoch.
func (s *Store) Save(pool *utxo.Pool, epoch uint64) error {
	snapshot, err := s.db.Snapshot()
	if err != nil {
		return err
	}
	var stale [][]byte
	iter := snapshot.NewPrefixIterator(outputKeyPrefix)
	for iter.Next() {
		outpoint, err := decodeOutputKey(iter.Key())
		if err != nil || !pool.Contains(outpoint) {
			stale = append(stale, bytes.Clone(iter.Key()))
		}
	}
	iterErr := iter.Error()
	iter.Release()
	snapshot.Release()
	if iterErr != nil {
		return iterErr
	}

	tx, err := s.db.Transaction()
	if err != nil {
		return err
	}
	defer tx.Discard()

	for _, key := range stale {
		if err := tx.Delete(key); err != nil {
			return err
		}
	}
	err = pool.ForEach(func(outpoint wire.OutPoint, entry *utxo.Entry) error {
		value, err := serializeEntry(entry)
		if err != nil {
			return err
		}
		return tx.Put(outputKey(outpoint), value)
	})
	if err != nil {
		return err
	}

	var epochBytes [8]byte
	binary.BigEndian.PutUint64(epochBytes[:], epoch)
	if err := tx.Put(epochKey, epochBytes[:]); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	log.Debugf("Saved %d unspent outputs worth %v at epoch %d (%d removed)",
		pool.Len(), pool.TotalAmount(), epoch, len(stale))
	return nil
}
