// Copyright (c) 2013-2014 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

//go:build windows || plan9

// Package limits raises process resource limits needed by the databases.
package limits

// SetLimits is a no-op where open files are not limited per process.
func SetLimits() error {
	return nil
}
