// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package validate classifies transactions against a set of unspent outputs.

Every transaction is either Valid, meaning it can be committed as is,
PotentiallyValid, meaning it spends outputs that do not exist yet but could be
created by other transactions, or Invalid, meaning no future state can make it
acceptable.  A failed proof is always Invalid.

Errors

Invalid results carry a RuleError whose ErrorCode identifies the rule that was
broken.  Use IsErrorCode to test for a specific code.
*/
package validate
