// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mining

import (
	"bytes"
	"slices"

	"github.com/btcsuite/txselect/txgraph"
	"github.com/btcsuite/txselect/validate"
)

// selectBasic sweeps the selectable transactions in transaction id order,
// committing every one that is valid against the pool, until a sweep commits
// nothing.  Fees play no part in the order.
func (s *selection) selectBasic() error {
	var remaining []txgraph.NodeID
	for i := 0; i < s.graph.Len(); i++ {
		id := txgraph.NodeID(i)
		if s.status[id] == statusPending {
			remaining = append(remaining, id)
		}
	}
	slices.SortFunc(remaining, func(a, b txgraph.NodeID) int {
		hashA, hashB := s.graph.Node(a).Hash, s.graph.Node(b).Hash
		return bytes.Compare(hashA[:], hashB[:])
	})

	for progress := true; progress; {
		progress = false
		next := remaining[:0]
		for _, id := range remaining {
			result := s.classifier.Classify(s.graph.Node(id).Tx, s.pool)
			if result.Class != validate.Valid {
				next = append(next, id)
				continue
			}
			if err := s.accept(id, result.Fee); err != nil {
				return err
			}
			progress = true
		}
		remaining = next
	}
	return nil
}
