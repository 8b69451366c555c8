// Copyright (c) 2015-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package sigverify

import (
	"crypto/rand"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// genRandomSig returns a random digest, a DER signature of the digest and the
// compressed public key it verifies under.
func genRandomSig() ([]byte, []byte, []byte, error) {
	privKey, err := btcec.NewPrivateKey()
	if err != nil {
		return nil, nil, nil, err
	}

	var msgHash chainhash.Hash
	if _, err := rand.Read(msgHash[:]); err != nil {
		return nil, nil, nil, err
	}

	sig := ecdsa.Sign(privKey, msgHash[:])

	return msgHash[:], sig.Serialize(), privKey.PubKey().SerializeCompressed(), nil
}

// TestSigCacheAddExists tests the ability to add, and later check the
// existence of a signature triplet in the signature cache.
func TestSigCacheAddExists(t *testing.T) {
	sigCache := NewSigCache(200)

	msg1, sig1, key1, err := genRandomSig()
	if err != nil {
		t.Fatalf("unable to generate random signature test data")
	}

	sigCache.Add(msg1, sig1, key1)

	if !sigCache.Exists(msg1, sig1, key1) {
		t.Errorf("previously added item not found in signature cache")
	}
}

// TestSigCacheAddEvictEntry tests the eviction case where a new signature
// triplet is added to a full signature cache which should evict the least
// recently used entry.
func TestSigCacheAddEvictEntry(t *testing.T) {
	sigCacheSize := uint(100)
	sigCache := NewSigCache(sigCacheSize)

	var first [3][]byte
	for i := uint(0); i < sigCacheSize; i++ {
		msg, sig, key, err := genRandomSig()
		if err != nil {
			t.Fatalf("unable to generate random signature test data")
		}
		if i == 0 {
			first = [3][]byte{msg, sig, key}
		}

		sigCache.Add(msg, sig, key)
		if !sigCache.Exists(msg, sig, key) {
			t.Errorf("previously added item not found in signature " +
				"cache")
		}
	}

	msgNew, sigNew, keyNew, err := genRandomSig()
	if err != nil {
		t.Fatalf("unable to generate random signature test data")
	}
	sigCache.Add(msgNew, sigNew, keyNew)

	if !sigCache.Exists(msgNew, sigNew, keyNew) {
		t.Fatalf("entry added to a full cache was not found")
	}
	if sigCache.Exists(first[0], first[1], first[2]) {
		t.Fatalf("least recently used entry was not evicted")
	}
}

// TestSigCacheAddMaxEntriesZeroOrNegative tests that if a sigCache is created
// with a max size <= 0, then no entries are added to the sigcache at all.
func TestSigCacheAddMaxEntriesZeroOrNegative(t *testing.T) {
	sigCache := NewSigCache(0)

	msg1, sig1, key1, err := genRandomSig()
	if err != nil {
		t.Errorf("unable to generate random signature test data")
	}

	sigCache.Add(msg1, sig1, key1)

	if sigCache.Exists(msg1, sig1, key1) {
		t.Errorf("previously added signature found in sigcache, but " +
			"shouldn't have been")
	}
}
