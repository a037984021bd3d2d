// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"fmt"
	"math/big"
)

// defaultScriptAlloc is the default size used for the backing array for a
// script being built by the ScriptBuilder. The array will be grown as
// needed, but this value was chosen such that the vast majority of scripts
// won't need to grow at all.
const defaultScriptAlloc = 500

// ScriptBuilder provides a facility for building custom scripts. It allows
// you to push opcodes, ints, and data while respecting canonical encoding.
// In general it does not ensure the script will execute correctly, however
// any data pushes which would exceed the maximum allowed script element
// size are automatically fixed up to fail with an explicit error rather
// than producing an invalid script.
type ScriptBuilder struct {
	script []byte
	err    error
}

// AddOp pushes the passed opcode to the end of the script.
func (b *ScriptBuilder) AddOp(opcode byte) *ScriptBuilder {
	if b.err != nil {
		return b
	}

	b.script = append(b.script, opcode)
	return b
}

// AddOps pushes the passed opcodes to the end of the script.
func (b *ScriptBuilder) AddOps(opcodes []byte) *ScriptBuilder {
	for _, opcode := range opcodes {
		b.AddOp(opcode)
	}
	return b
}

// addData is the internal function used to add the passed byte string to
// the script as a data push, choosing the smallest opcode encoding that can
// hold it.
func (b *ScriptBuilder) addData(data []byte) *ScriptBuilder {
	dataLen := len(data)

	if dataLen == 0 {
		b.script = append(b.script, OP_0)
		return b
	} else if dataLen < OP_PUSHDATA1 {
		b.script = append(b.script, byte((OP_DATA_1-1)+dataLen))
	} else if dataLen <= 0xff {
		b.script = append(b.script, OP_PUSHDATA1, byte(dataLen))
	} else if dataLen <= 0xffff {
		buf := make([]byte, 2)
		buf[0] = byte(dataLen)
		buf[1] = byte(dataLen >> 8)
		b.script = append(b.script, OP_PUSHDATA2)
		b.script = append(b.script, buf...)
	} else {
		buf := make([]byte, 4)
		buf[0] = byte(dataLen)
		buf[1] = byte(dataLen >> 8)
		buf[2] = byte(dataLen >> 16)
		buf[3] = byte(dataLen >> 24)
		b.script = append(b.script, OP_PUSHDATA4)
		b.script = append(b.script, buf...)
	}

	b.script = append(b.script, data...)
	return b
}

// AddData pushes the passed byte slice onto the script following its
// canonical, smallest-opcode encoding. Pushes that would exceed the
// maximum allowed script element size set b's error instead.
func (b *ScriptBuilder) AddData(data []byte) *ScriptBuilder {
	if b.err != nil {
		return b
	}

	if len(data) > MaxScriptElementSize {
		str := fmt.Sprintf("adding a data element of %d bytes exceeds "+
			"the max allowed script element size of %d", len(data),
			MaxScriptElementSize)
		b.err = scriptError(ErrElementTooBig, str)
		return b
	}

	return b.addData(data)
}

// AddInt64 pushes the passed integer onto the script using the smallest
// possible encoding: the dedicated OP_1NEGATE and OP_1..OP_16 opcodes for
// values in [-1, 16], and a canonical minimal byte-string push otherwise.
func (b *ScriptBuilder) AddInt64(val int64) *ScriptBuilder {
	if b.err != nil {
		return b
	}

	if val == 0 {
		b.script = append(b.script, OP_0)
		return b
	} else if val == -1 || (val >= 1 && val <= 16) {
		b.script = append(b.script, byte((OP_1-1)+val))
		return b
	}

	return b.addData(fromInt(big.NewInt(val)))
}

// Reset resets the script so it has no content.
func (b *ScriptBuilder) Reset() *ScriptBuilder {
	b.script = b.script[0:0]
	b.err = nil
	return b
}

// Script returns the currently built script. When any errors occurred while
// building the script, the script up to the point of the first error is
// returned along with the error.
func (b *ScriptBuilder) Script() ([]byte, error) {
	return b.script, b.err
}

// NewScriptBuilder returns a new instance of a script builder. See
// ScriptBuilder for details.
func NewScriptBuilder() *ScriptBuilder {
	return &ScriptBuilder{
		script: make([]byte, 0, defaultScriptAlloc),
	}
}
