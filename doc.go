// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package txscript implements a Bitcoin-style transaction script language.

This package provides data structures and functions to parse, disassemble,
build, and execute the scripts that authorize spending a transaction output.

Script Overview

Scripts are written in a stack-based, FORTH-like language. Each output
carries a locking script; each input that spends it carries an unlocking
script. Execution concatenates the two programs onto a single evaluation
stack and succeeds if the stack's final top item is true.

The vast majority of scripts are of a handful of standard forms — pay to a
public key hash, pay to a public key, pay to a script hash — all built on the
same small opcode set covering pushes, stack manipulation, a narrow slice of
arithmetic, and ECDSA signature verification.

Errors

Errors returned by this package are of type Error and carry an ErrorCode
identifying the kind of failure; see the ErrorCode documentation for the
full list.
*/
package txscript
