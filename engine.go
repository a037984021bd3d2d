// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"fmt"

	"github.com/btcsuite/btcd/wire"
)

// Engine composes the execution of an input script, an output script, and
// (when pay-to-script-hash applies) a recursively-parsed redeem script
// against a single transaction input. All three phases share one
// evaluation stack and one scriptcode cursor; the alt-stack, the
// conditional stack, and the per-script operation count are reset between
// phases.
type Engine struct {
	scripts    [][]parsedOpcode
	scriptIdx  int
	scriptOff  int
	codeSepIdx int
	dstack     stack
	astack     stack
	condStack  conditionalStack
	numOps     int
	tx         wire.MsgTx
	txIdx      int
	bip16      bool
}

// subScript returns the operations of the currently executing script
// starting from the scriptcode cursor, which is never reset between
// phases of a single run.
func (vm *Engine) subScript() []parsedOpcode {
	script := vm.scripts[vm.scriptIdx]
	if vm.codeSepIdx > len(script) {
		return nil
	}
	return script[vm.codeSepIdx:]
}

// curPC returns the current script and offset, failing if either no longer
// addresses a valid instruction.
func (vm *Engine) curPC() (int, int, error) {
	if vm.scriptIdx < 0 || vm.scriptIdx >= len(vm.scripts) {
		return 0, 0, scriptError(ErrInvalidProgramCounter,
			"current script index out of bounds")
	}
	if vm.scriptOff < 0 || vm.scriptOff >= len(vm.scripts[vm.scriptIdx]) {
		return 0, 0, scriptError(ErrInvalidProgramCounter,
			"current script offset out of bounds")
	}
	return vm.scriptIdx, vm.scriptOff, nil
}

// step executes the single instruction at the current program counter,
// reporting whether the current script has run to completion.
func (vm *Engine) step() (bool, error) {
	idx, off, err := vm.curPC()
	if err != nil {
		return false, err
	}
	pop := &vm.scripts[idx][off]

	log.Tracef("stepping %v", newLogClosure(func() string {
		dis, _ := vm.disasm(idx, off)
		return dis
	}))

	if pop.opcode.value > OP_16 {
		vm.numOps++
		if vm.numOps > MaxOpsPerScript {
			str := fmt.Sprintf("exceeded max operation limit of %d",
				MaxOpsPerScript)
			return false, scriptError(ErrTooManyOperations, str)
		}
	}

	if err := pop.exec(vm); err != nil {
		return false, err
	}

	if vm.dstack.Depth()+vm.astack.Depth() > maxStackSize {
		return false, scriptError(ErrStackOverflow,
			"combined stack size exceeds limit")
	}

	vm.scriptOff++
	return vm.scriptOff >= len(vm.scripts[vm.scriptIdx]), nil
}

// runScript steps the currently selected script to completion, checking at
// the end that every conditional was closed.
func (vm *Engine) runScript() error {
	for {
		done, err := vm.step()
		if err != nil {
			return err
		}
		if done {
			break
		}
	}
	if !vm.condStack.closed() {
		return scriptError(ErrUnbalancedConditional,
			"end of script reached with an unclosed conditional")
	}
	return nil
}

// finalStackResult reports whether the primary stack is non-empty and its
// top item casts to true.
func (vm *Engine) finalStackResult() (bool, error) {
	if vm.dstack.Depth() < 1 {
		return false, scriptError(ErrEmptyStack,
			"stack empty at end of script execution")
	}
	v, err := vm.dstack.PeekBool(0)
	if err != nil {
		return false, err
	}
	if !v {
		return false, scriptError(ErrEvalFalse,
			"false stack entry at end of script execution")
	}
	return true, nil
}

// selectScript resets per-phase state and begins executing script at
// scriptIdx. The alt-stack, conditional stack, and operation count never
// carry across phases; the primary stack and the scriptcode cursor do.
func (vm *Engine) selectScript(idx int, pops []parsedOpcode) {
	vm.scriptIdx = idx
	vm.scripts[idx] = pops
	vm.scriptOff = 0
	vm.astack = stack{}
	vm.condStack = conditionalStack{}
	vm.numOps = 0
}

// Execute composes the input script, the output script, and, if
// applicable, the pay-to-script-hash redeem script, exactly as described
// for the orchestrator: input script, then output script, each contributing
// to one shared stack, with the redeem script re-evaluated against the
// input script's leftover stack when the output script is of script-hash
// type and BIP16 evaluation is enabled.
func (vm *Engine) Execute() (bool, error) {
	vm.selectScript(0, vm.scripts[0])
	if len(vm.scripts[0]) > 0 {
		if err := vm.runScript(); err != nil {
			return false, err
		}
	}

	carriedStack := vm.GetStack()

	vm.selectScript(1, vm.scripts[1])
	vm.SetStack(carriedStack)
	if len(vm.scripts[1]) > 0 {
		if err := vm.runScript(); err != nil {
			return false, err
		}
	}

	if ok, err := vm.finalStackResult(); err != nil || !ok {
		return false, err
	}

	if !vm.bip16 {
		return true, nil
	}

	// Pay-to-script-hash: the input script fed to the output script must
	// have been push-only, and its leftover (pre-pop) stack supplies the
	// redeem script.
	if !isPushOnly(vm.scripts[0]) {
		return false, scriptError(ErrNotPushOnly,
			"signature script for script-hash output is not push only")
	}

	evalStack := append([][]byte{}, carriedStack...)
	if len(evalStack) == 0 {
		return false, scriptError(ErrEmptyStack,
			"signature script for script-hash output is empty")
	}
	redeemBytes := evalStack[len(evalStack)-1]
	evalStack = evalStack[:len(evalStack)-1]

	redeemPops, err := parseScript(redeemBytes)
	if err != nil {
		return false, err
	}

	vm.scripts = append(vm.scripts, nil)
	vm.selectScript(2, redeemPops)
	vm.SetStack(evalStack)
	if len(redeemPops) > 0 {
		if err := vm.runScript(); err != nil {
			return false, err
		}
	}

	return vm.finalStackResult()
}

// disasm returns the disassembly string for the instruction at the given
// script/offset pair, used only for trace logging.
func (vm *Engine) disasm(scriptIdx int, scriptOff int) (string, error) {
	if scriptIdx < 0 || scriptIdx >= len(vm.scripts) {
		return "", scriptError(ErrInvalidProgramCounter, "invalid script index")
	}
	if scriptOff < 0 || scriptOff >= len(vm.scripts[scriptIdx]) {
		return "", scriptError(ErrInvalidProgramCounter, "invalid script offset")
	}
	return fmt.Sprintf("%02x:%04x: %s", scriptIdx, scriptOff,
		vm.scripts[scriptIdx][scriptOff].print(true)), nil
}

// getStack returns the contents of stack as a byte array bottom up.
func getStack(s *stack) [][]byte {
	array := make([][]byte, s.Depth())
	for i := range array {
		array[len(array)-i-1], _ = s.PeekByteArray(i)
	}
	return array
}

// setStack sets the stack to the contents of the array where the last item
// in the array is the top item in the stack.
func setStack(s *stack, data [][]byte) {
	_ = s.DropN(s.Depth())
	for i := range data {
		s.PushByteArray(data[i])
	}
}

// GetStack returns the contents of the primary stack as an array, where the
// last item in the array is the top of the stack.
func (vm *Engine) GetStack() [][]byte {
	return getStack(&vm.dstack)
}

// SetStack sets the contents of the primary stack to the contents of the
// provided array, where the last item in the array will be the top of the
// stack.
func (vm *Engine) SetStack(data [][]byte) {
	setStack(&vm.dstack, data)
}

// GetAltStack returns the contents of the alternate stack as an array,
// where the last item in the array is the top of the stack.
func (vm *Engine) GetAltStack() [][]byte {
	return getStack(&vm.astack)
}

// SetAltStack sets the contents of the alternate stack to the contents of
// the provided array, where the last item in the array will be the top of
// the stack.
func (vm *Engine) SetAltStack(data [][]byte) {
	setStack(&vm.astack, data)
}

// NewEngine returns a new script engine for executing scriptSig against
// scriptPubKey for the given transaction input. bip16Enabled toggles
// pay-to-script-hash recursive evaluation.
func NewEngine(scriptPubKey []byte, tx *wire.MsgTx, txIdx int, bip16Enabled bool) (*Engine, error) {
	if txIdx < 0 || txIdx >= len(tx.TxIn) {
		return nil, scriptError(ErrInvalidIndex,
			"transaction input index out of bounds")
	}
	scriptSig := tx.TxIn[txIdx].SignatureScript

	if len(scriptSig) > maxScriptSize || len(scriptPubKey) > maxScriptSize {
		str := fmt.Sprintf("script size exceeds max allowed size of %d",
			maxScriptSize)
		return nil, scriptError(ErrElementTooBig, str)
	}

	sigPops, err := parseScript(scriptSig)
	if err != nil {
		return nil, err
	}
	pkPops, err := parseScript(scriptPubKey)
	if err != nil {
		return nil, err
	}

	vm := &Engine{
		scripts: [][]parsedOpcode{sigPops, pkPops},
		tx:      *tx,
		txIdx:   txIdx,
	}
	vm.bip16 = bip16Enabled && isScriptHash(pkPops)

	return vm, nil
}

// Evaluate parses scriptSig and scriptPubKey, runs them against the given
// transaction input, and reports whether the input is authorized to spend
// the referenced output.
func Evaluate(scriptSig, scriptPubKey []byte, tx *wire.MsgTx, txIdx int, bip16Enabled bool) (bool, error) {
	if txIdx < 0 || txIdx >= len(tx.TxIn) {
		return false, scriptError(ErrInvalidIndex,
			"transaction input index out of bounds")
	}
	tx.TxIn[txIdx].SignatureScript = scriptSig

	vm, err := NewEngine(scriptPubKey, tx, txIdx, bip16Enabled)
	if err != nil {
		return false, err
	}
	return vm.Execute()
}

// ClassifyScript reports the standard script class of the given output
// script, or NonStandardTy if it matches none of the recognized patterns.
func ClassifyScript(script []byte) ScriptClass {
	return GetScriptClass(script)
}
