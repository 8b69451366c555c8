// Copyright (c) 2015-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package poolstore

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/txselect/database/engine"
	"github.com/btcsuite/txselect/utxo"
	"github.com/btcsuite/txselect/wire"
	"github.com/stretchr/testify/require"
)

// testPool returns a pool with n outputs of a made up transaction.
func testPool(t *testing.T, n int) *utxo.Pool {
	t.Helper()

	hash := chainhash.DoubleHashH([]byte("funding"))
	pool := utxo.NewPool()
	for i := 0; i < n; i++ {
		outpoint := wire.OutPoint{Hash: hash, Index: uint32(i * 300)}
		entry := utxo.NewEntry(btcutil.Amount(i*1000), []byte{byte(i), 0x02})
		require.NoError(t, pool.Insert(outpoint, entry))
	}
	return pool
}

// requireSamePool asserts two pools hold the same entries.
func requireSamePool(t *testing.T, want, got *utxo.Pool) {
	t.Helper()

	require.Equal(t, want.Outpoints(), got.Outpoints())
	err := want.ForEach(func(outpoint wire.OutPoint, entry *utxo.Entry) error {
		other := got.LookupEntry(outpoint)
		require.NotNil(t, other)
		require.Equal(t, entry.Amount(), other.Amount())
		require.Equal(t, entry.Owner(), other.Owner())
		return nil
	})
	require.NoError(t, err)
}

func TestStore(t *testing.T) {
	t.Parallel()

	for _, dbType := range SupportedDBTypes {
		t.Run(dbType, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "pool")
			store, err := Open(dbType, path)
			require.NoError(t, err)

			// A new store is empty.
			pool, epoch, err := store.Load()
			require.NoError(t, err)
			require.Zero(t, pool.Len())
			require.Zero(t, epoch)

			saved := testPool(t, 5)
			require.NoError(t, store.Save(saved, 1))

			pool, epoch, err = store.Load()
			require.NoError(t, err)
			require.Equal(t, uint64(1), epoch)
			requireSamePool(t, saved, pool)

			// Spend some outputs and create others, then save over
			// the previous epoch.
			next := saved.Clone()
			spent := saved.Outpoints()[:2]
			for _, outpoint := range spent {
				require.NoError(t, next.Remove(outpoint))
			}
			created := wire.OutPoint{
				Hash: chainhash.DoubleHashH([]byte("created")),
			}
			require.NoError(t, next.Insert(created, utxo.NewEntry(7, nil)))
			require.NoError(t, store.Save(next, 2))
			require.NoError(t, store.Close())

			// The pool survives reopening.
			store, err = Open(dbType, path)
			require.NoError(t, err)
			defer store.Close()

			pool, epoch, err = store.Load()
			require.NoError(t, err)
			require.Equal(t, uint64(2), epoch)
			requireSamePool(t, next, pool)
			for _, outpoint := range spent {
				require.False(t, pool.Contains(outpoint))
			}
		})
	}
}

func TestOpenUnknownType(t *testing.T) {
	_, err := Open("bolt", t.TempDir())
	require.ErrorIs(t, err, ErrUnknownDBType)
}

// TestLoadCorrupt checks undecodable records fail the load.
func TestLoadCorrupt(t *testing.T) {
	t.Parallel()

	store, err := Open(TypeLevelDB, filepath.Join(t.TempDir(), "pool"))
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Save(testPool(t, 1), 1))

	putRaw := func(key, value []byte) {
		tx, err := store.db.Transaction()
		require.NoError(t, err)
		require.NoError(t, tx.Put(key, value))
		require.NoError(t, tx.Commit())
	}

	// Truncated output.
	key := outputKey(wire.OutPoint{Index: 1})
	putRaw(key, []byte{1, 2, 3})
	_, _, err = store.Load()
	require.ErrorIs(t, err, ErrCorruptEntry)

	// Bad key length under the output prefix.
	tx, err := store.db.Transaction()
	require.NoError(t, err)
	require.NoError(t, tx.Delete(key))
	require.NoError(t, tx.Commit())
	putRaw([]byte("ushort"), []byte{0})
	_, _, err = store.Load()
	require.ErrorIs(t, err, ErrCorruptEntry)

	// Saving drops records it cannot decode.
	require.NoError(t, store.Save(testPool(t, 1), 2))
	pool, _, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, 1, pool.Len())
}

func TestOutputKeyOrder(t *testing.T) {
	hash := chainhash.DoubleHashH([]byte("funding"))
	low := outputKey(wire.OutPoint{Hash: hash, Index: 1})
	high := outputKey(wire.OutPoint{Hash: hash, Index: 256})
	require.Negative(t, bytes.Compare(low, high))

	outpoint, err := decodeOutputKey(high)
	require.NoError(t, err)
	require.Equal(t, wire.OutPoint{Hash: hash, Index: 256}, outpoint)

	require.Equal(t, engine.BytesPrefix(outputKeyPrefix).Limit, []byte("v"))
}
