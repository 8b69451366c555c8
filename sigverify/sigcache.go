// Copyright (c) 2015-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package sigverify

import (
	"github.com/decred/dcrd/lru"
)

// DefaultSigCacheSize is the default number of verified signatures kept by a
// SigCache.
const DefaultSigCacheSize = 100000

// sigInfo represents an entry in the SigCache.  Entries in the sigcache are a
// 3-tuple: (digest, proof, owner).
type sigInfo struct {
	digest string
	proof  string
	owner  string
}

// SigCache implements a signature verification cache with a least recently
// used eviction policy.  Only valid signatures are added to the cache.
//
// Transactions that become spendable part way through a batch are classified
// again once their parents commit, and the search based selection classifies
// the same transactions against many alternative views.  The cache makes each
// of those repeated checks a map lookup.
type SigCache struct {
	validSigs lru.Cache
}

// NewSigCache creates and initializes a new instance of SigCache.  Its sole
// parameter 'maxEntries' represents the maximum number of entries allowed to
// exist in the SigCache at any particular moment.
func NewSigCache(maxEntries uint) *SigCache {
	return &SigCache{validSigs: lru.NewCache(maxEntries)}
}

// Exists returns true if an existing entry of proof over digest for owner is
// found within the SigCache.
//
// NOTE: This function is safe for concurrent access.
func (s *SigCache) Exists(digest, proof, owner []byte) bool {
	return s.validSigs.Contains(sigInfo{string(digest), string(proof),
		string(owner)})
}

// Add adds an entry for a proof over digest under owner to the signature
// cache, evicting the least recently used entry when the cache is full.
//
// NOTE: This function is safe for concurrent access.
func (s *SigCache) Add(digest, proof, owner []byte) {
	s.validSigs.Add(sigInfo{string(digest), string(proof), string(owner)})
}

// CachingVerifier wraps a Verifier and remembers every successful
// verification in a SigCache.
type CachingVerifier struct {
	verifier Verifier
	cache    *SigCache
}

// NewCachingVerifier returns a verifier which consults cache before invoking
// verifier.
func NewCachingVerifier(verifier Verifier, cache *SigCache) *CachingVerifier {
	return &CachingVerifier{verifier: verifier, cache: cache}
}

// Verify implements the Verifier interface.
func (v *CachingVerifier) Verify(digest, proof, owner []byte) bool {
	if v.cache.Exists(digest, proof, owner) {
		return true
	}
	if !v.verifier.Verify(digest, proof, owner) {
		return false
	}
	v.cache.Add(digest, proof, owner)
	return true
}
