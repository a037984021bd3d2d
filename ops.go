// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"bytes"
	"crypto/sha256"
	"math/big"

	"golang.org/x/crypto/ripemd160"
)

// exec dispatches a single parsed opcode against the running engine. It is
// the sole entry point step uses to apply an instruction's effect.
func (pop *parsedOpcode) exec(vm *Engine) error {
	if pop.isDisabled() {
		str := "attempt to execute disabled opcode " + pop.opcode.name
		return scriptError(ErrDisabledOpcode, str)
	}

	if len(pop.data) > MaxScriptElementSize {
		str := "element size exceeds max allowed size"
		return scriptError(ErrElementTooBig, str)
	}

	// CODESEPARATOR's cursor update is observable even inside a branch
	// that is not currently executing.
	if pop.opcode.value == OP_CODESEPARATOR {
		return opcodeCodeSeparator(pop.opcode, pop.data, vm)
	}

	if vm.condStack.hasFailedBranches() && !pop.isConditional() {
		return nil
	}

	return pop.opcode.opfunc(pop.opcode, pop.data, vm)
}

// opcodeFalse pushes an empty array to the data stack to represent false.
//
// Stack transformation: [...] -> [... []]
func opcodeFalse(op *opcode, data []byte, vm *Engine) error {
	vm.dstack.PushByteArray(nil)
	return nil
}

// opcodePushData pushes the data associated with the opcode.
//
// Stack transformation: [...] -> [... data]
func opcodePushData(op *opcode, data []byte, vm *Engine) error {
	vm.dstack.PushByteArray(data)
	return nil
}

// opcode1Negate pushes -1, encoded as a number, to the data stack.
//
// Stack transformation: [...] -> [... -1]
func opcode1Negate(op *opcode, data []byte, vm *Engine) error {
	vm.dstack.PushInt(big.NewInt(-1))
	return nil
}

// opcodeN pushes the number (op.value - OP_1 + 1) to the data stack.
//
// Stack transformation: [...] -> [... n]
func opcodeN(op *opcode, data []byte, vm *Engine) error {
	vm.dstack.PushInt(big.NewInt(int64(op.value - (OP_1 - 1))))
	return nil
}

// opcodeNop is a no-op for both recognized and reserved-for-upgrade opcodes.
//
// Stack transformation: [...] -> [...]
func opcodeNop(op *opcode, data []byte, vm *Engine) error {
	return nil
}

// opcodeReserved fails unconditionally: it implements every opcode that is
// explicitly reserved and fails whenever actually executed.
//
// Stack transformation: [...] -> [FAIL]
func opcodeReserved(op *opcode, data []byte, vm *Engine) error {
	str := "attempt to execute reserved opcode " + op.name
	return scriptError(ErrReservedOpcode, str)
}

// opcodeInvalid implements every opcode outside the dispatched subset: it
// is a named placeholder that always fails when executed.
//
// Stack transformation: [...] -> [FAIL]
func opcodeInvalid(op *opcode, data []byte, vm *Engine) error {
	str := "attempt to execute invalid opcode " + op.name
	return scriptError(ErrReservedOpcode, str)
}

// opcodeIf pops a boolean off the top of the stack (unless inside an
// already-failed branch, where it behaves as false without touching the
// stack) and opens a new conditional frame with that value.
//
// Stack transformation: [... bool] -> [...]
func opcodeIf(op *opcode, data []byte, vm *Engine) error {
	condVal := OpCondFalse
	if !vm.condStack.hasFailedBranches() {
		ok, err := vm.dstack.PopBool()
		if err != nil {
			return err
		}
		if ok {
			condVal = OpCondTrue
		}
	}
	vm.condStack.open(condVal == OpCondTrue)
	return nil
}

// opcodeNotIf is the same as opcodeIf but inverts the sensed condition.
//
// Stack transformation: [... bool] -> [...]
func opcodeNotIf(op *opcode, data []byte, vm *Engine) error {
	condVal := OpCondFalse
	if !vm.condStack.hasFailedBranches() {
		ok, err := vm.dstack.PopBool()
		if err != nil {
			return err
		}
		if !ok {
			condVal = OpCondTrue
		}
	}
	vm.condStack.open(condVal == OpCondTrue)
	return nil
}

// opcodeElse inverts the conditional execution state of the innermost
// currently-open conditional.
//
// Stack transformation: [...] -> [...]
func opcodeElse(op *opcode, data []byte, vm *Engine) error {
	return vm.condStack.flip()
}

// opcodeEndif closes the innermost open conditional.
//
// Stack transformation: [...] -> [...]
func opcodeEndif(op *opcode, data []byte, vm *Engine) error {
	return vm.condStack.close()
}

// opcodeVerify pops the top stack item and fails unless it casts to true.
//
// Stack transformation: [... bool] -> [...]
func opcodeVerify(op *opcode, data []byte, vm *Engine) error {
	verified, err := vm.dstack.PopBool()
	if err != nil {
		return err
	}
	if !verified {
		return scriptError(ErrVerify, "VERIFY failed")
	}
	return nil
}

// opcodeToAltStack removes the top item from the main stack and pushes it
// onto the alternate stack.
//
// Stack transformation: [... x1] -> [...]
// AltStack transformation: [...] -> [... x1]
func opcodeToAltStack(op *opcode, data []byte, vm *Engine) error {
	so, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}
	vm.astack.PushByteArray(so)
	return nil
}

// opcodeFromAltStack removes the top item from the alternate stack and
// pushes it onto the main stack.
//
// AltStack transformation: [... x1] -> [...]
// Stack transformation: [...] -> [... x1]
func opcodeFromAltStack(op *opcode, data []byte, vm *Engine) error {
	so, err := vm.astack.PopByteArray()
	if err != nil {
		return err
	}
	vm.dstack.PushByteArray(so)
	return nil
}

// opcodeIfDup duplicates the top item of the stack if it casts to true.
//
// Stack transformation (x1==true): [... x1] -> [... x1 x1]
// Stack transformation (x1==false): [... x1] -> [... x1]
func opcodeIfDup(op *opcode, data []byte, vm *Engine) error {
	so, err := vm.dstack.PeekByteArray(0)
	if err != nil {
		return err
	}
	if asBool(so) {
		vm.dstack.PushByteArray(so)
	}
	return nil
}

// opcodeDepth pushes the current number of items on the stack as a number.
//
// Stack transformation: [...] -> [... <num of items on the stack>]
func opcodeDepth(op *opcode, data []byte, vm *Engine) error {
	vm.dstack.PushInt(big.NewInt(int64(vm.dstack.Depth())))
	return nil
}

// opcodeDrop removes the top item from the stack.
//
// Stack transformation: [... x1] -> [...]
func opcodeDrop(op *opcode, data []byte, vm *Engine) error {
	return vm.dstack.DropN(1)
}

// opcodeDup duplicates the top item of the stack.
//
// Stack transformation: [... x1] -> [... x1 x1]
func opcodeDup(op *opcode, data []byte, vm *Engine) error {
	return vm.dstack.DupN(1)
}

// opcodeNip removes the item below the top item on the stack.
//
// Stack transformation: [... x1 x2] -> [... x2]
func opcodeNip(op *opcode, data []byte, vm *Engine) error {
	return vm.dstack.NipN(1)
}

// opcodeOver duplicates the item below the top item on the stack.
//
// Stack transformation: [... x1 x2] -> [... x1 x2 x1]
func opcodeOver(op *opcode, data []byte, vm *Engine) error {
	return vm.dstack.OverN(1)
}

// opcodePick treats the top item on the stack as an integer n and copies
// the nth item back in the stack to the top.
//
// Stack transformation: [... xn ... x2 x1 x0 n] -> [... xn ... x2 x1 x0 xn]
func opcodePick(op *opcode, data []byte, vm *Engine) error {
	val, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}
	return vm.dstack.PickN(int(val.Int64()))
}

// opcodeRoll treats the top item on the stack as an integer n and moves the
// nth item back in the stack to the top.
//
// Stack transformation: [... xn ... x2 x1 x0 n] -> [... ... x2 x1 x0 xn]
func opcodeRoll(op *opcode, data []byte, vm *Engine) error {
	val, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}
	return vm.dstack.RollN(int(val.Int64()))
}

// opcodeSize pushes the size of the top item of the stack onto the stack
// without removing it.
//
// Stack transformation: [... x1] -> [... x1 len(x1)]
func opcodeSize(op *opcode, data []byte, vm *Engine) error {
	so, err := vm.dstack.PeekByteArray(0)
	if err != nil {
		return err
	}
	vm.dstack.PushInt(big.NewInt(int64(len(so))))
	return nil
}

// opcodeNot pops the top item, casts it to a number, and pushes whether or
// not that number equals zero.
//
// Stack transformation: [... x1] -> [... bool]
func opcodeNot(op *opcode, data []byte, vm *Engine) error {
	m, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}
	vm.dstack.PushBool(m.Sign() == 0)
	return nil
}

// opcodeBoolOr pops the top two items as numbers a then b, and pushes
// whether either is non-zero.
//
// Stack transformation: [... x1 x2] -> [... bool]
func opcodeBoolOr(op *opcode, data []byte, vm *Engine) error {
	a, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}
	b, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}
	vm.dstack.PushBool(a.Sign() != 0 || b.Sign() != 0)
	return nil
}

// opcodeMin pops the top two items as numbers a then b, and pushes the
// smaller of the two.
//
// Stack transformation: [... x1 x2] -> [... min(x1, x2)]
func opcodeMin(op *opcode, data []byte, vm *Engine) error {
	a, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}
	b, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}
	if a.Cmp(b) < 0 {
		vm.dstack.PushInt(a)
	} else {
		vm.dstack.PushInt(b)
	}
	return nil
}

// opcodeEqual pops the top two items and pushes whether or not they are
// byte-for-byte identical.
//
// Stack transformation: [... x1 x2] -> [... bool]
func opcodeEqual(op *opcode, data []byte, vm *Engine) error {
	a, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}
	b, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}
	vm.dstack.PushBool(bytes.Equal(a, b))
	return nil
}

// opcodeEqualVerify is the same as opcodeEqual but fails if the result was
// false, leaving nothing pushed on success.
//
// Stack transformation: [... x1 x2] -> [...]
func opcodeEqualVerify(op *opcode, data []byte, vm *Engine) error {
	if err := opcodeEqual(op, data, vm); err != nil {
		return err
	}
	ok, err := vm.dstack.PopBool()
	if err != nil {
		return err
	}
	if !ok {
		return scriptError(ErrEqualVerify, "EQUALVERIFY failed")
	}
	return nil
}

// opcodeAdd pops the top two items as numbers a then b, and pushes a+b.
//
// Stack transformation: [... x1 x2] -> [... x1+x2]
func opcodeAdd(op *opcode, data []byte, vm *Engine) error {
	a, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}
	b, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}
	vm.dstack.PushInt(new(big.Int).Add(a, b))
	return nil
}

// opcodeGreaterThanOrEqual pops the top two items as numbers a then b, and
// pushes whether a is greater than or equal to b.
//
// Stack transformation: [... x1 x2] -> [... bool]
func opcodeGreaterThanOrEqual(op *opcode, data []byte, vm *Engine) error {
	a, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}
	b, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}
	vm.dstack.PushBool(a.Cmp(b) >= 0)
	return nil
}

// opcodeSha256 pops the top item and pushes its SHA-256 digest.
//
// Stack transformation: [... x1] -> [... sha256(x1)]
func opcodeSha256(op *opcode, data []byte, vm *Engine) error {
	so, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}
	hash := sha256.Sum256(so)
	vm.dstack.PushByteArray(hash[:])
	return nil
}

// calcHash160 returns RIPEMD160(SHA256(buf)).
func calcHash160(buf []byte) []byte {
	sha := sha256.Sum256(buf)
	ripemd := ripemd160.New()
	ripemd.Write(sha[:])
	return ripemd.Sum(nil)
}

// opcodeHash160 pops the top item and pushes RIPEMD160(SHA256(x1)).
//
// Stack transformation: [... x1] -> [... hash160(x1)]
func opcodeHash160(op *opcode, data []byte, vm *Engine) error {
	so, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}
	vm.dstack.PushByteArray(calcHash160(so))
	return nil
}

// opcodeCodeSeparator moves the scriptcode cursor to the current position.
// It is dispatched before the failed-branches skip check in exec, since the
// cursor update is unconditional even inside a dead branch.
//
// Stack transformation: [...] -> [...]
func opcodeCodeSeparator(op *opcode, data []byte, vm *Engine) error {
	vm.codeSepIdx = vm.scriptOff
	return nil
}
