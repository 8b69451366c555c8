// Copyright (c) 2015-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package poolstore persists the pool of unspent outputs between epochs.

Outputs are stored under the key 'u' || hash || index, with the index in big
endian so that keys sort like outpoints, and the value is the wire encoding of
the output.  The number of the last saved epoch is stored under the key
"epoch".  Save replaces the whole stored pool in a single transaction, so a
crash leaves either the previous or the new epoch on disk.
*/
package poolstore
