// Copyright (c) 2013-2015 Conformal Systems LLC.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

const (
	// maxDataCarrierSize is an 80-byte bound on nulldata pushes. Nothing in
	// this package applies it: typeOfScript reports NullDataTy for an
	// OP_RETURN followed by a push of any size.
	maxDataCarrierSize = 80

	// maxStackSize is the maximum combined height of stack and alt stack
	// during execution.
	maxStackSize = 1000

	// maxScriptSize is the maximum allowed length of a raw script.
	maxScriptSize = 10000
)

// SigHashType represents hash type bits at the end of a signature.
type SigHashType byte

// Hash type bits from the end of a signature.
const (
	SigHashOld          SigHashType = 0x0
	SigHashAll          SigHashType = 0x1
	SigHashNone         SigHashType = 0x2
	SigHashSingle       SigHashType = 0x3
	SigHashAnyOneCanPay SigHashType = 0x80
)

// These are the constants specified for maximums in individual scripts.
const (
	MaxOpsPerScript       = 201 // Max number of non-push operations.
	MaxPubKeysPerMultiSig = 20  // Multisig can't have more sigs than this.
	MaxScriptElementSize  = 520 // Max bytes pushable to the stack.
)

// ScriptClass is an enumeration for the list of standard types of script.
type ScriptClass byte

// Classes of script payment recognized by typeOfScript.
const (
	NonStandardTy ScriptClass = iota // None of the recognized forms.
	PubKeyTy                         // Pay pubkey.
	PubKeyHashTy                     // Pay pubkey hash.
	ScriptHashTy                     // Pay to script hash.
	MultiSigTy                       // Multi signature (never matches; see isMultiSig).
	NullDataTy                       // Unspendable OP_RETURN output carrying data.
)

var scriptClassToName = []string{
	NonStandardTy: "nonstandard",
	PubKeyTy:      "pubkey",
	PubKeyHashTy:  "pubkeyhash",
	ScriptHashTy:  "scripthash",
	MultiSigTy:    "multisig",
	NullDataTy:    "nulldata",
}

// String returns the ScriptClass as a human-readable name.
func (t ScriptClass) String() string {
	if int(t) > len(scriptClassToName) || int(t) < 0 {
		return "Invalid"
	}
	return scriptClassToName[t]
}

// parsedOpcode represents an opcode that has been parsed and includes any
// potential data associated with it.
type parsedOpcode struct {
	opcode *opcode
	data   []byte
}

// isDisabled returns whether or not the opcode is configured as disabled.
func (pop *parsedOpcode) isDisabled() bool {
	return isDisabledOpcode(pop.opcode.value)
}

// alwaysIllegal returns whether or not the opcode is one of the reserved
// opcodes that fail whenever executed. exec does not consult it: inside a
// non-executing conditional branch these opcodes are skipped like any other.
func (pop *parsedOpcode) alwaysIllegal() bool {
	switch pop.opcode.value {
	case OP_VERIF, OP_VERNOTIF, OP_VER, OP_RESERVED, OP_RESERVED1,
		OP_RESERVED2, OP_RETURN, OP_RAWDATA:
		return true
	}
	return false
}

// isConditional returns whether or not the opcode is one of the four
// conditional control-flow opcodes.
func (pop *parsedOpcode) isConditional() bool {
	return isConditionOpcode(pop.opcode.value)
}

// bytes returns any data associated with the opcode encoded as it would be in
// a script.  This is used for unparsing scripts from parsed opcodes.
func (pop *parsedOpcode) bytes() ([]byte, error) {
	var retbytes []byte
	if pop.opcode.length > 0 {
		retbytes = make([]byte, 1, pop.opcode.length)
	} else {
		retbytes = make([]byte, 1, 1+len(pop.data)-
			pop.opcode.length)
	}

	retbytes[0] = pop.opcode.value
	if pop.opcode.length == 1 {
		if len(pop.data) != 0 {
			str := fmt.Sprintf("internal consistency error - "+
				"parsed opcode %s has data length %d when %d "+
				"was expected", pop.opcode.name, len(pop.data),
				0)
			return nil, scriptError(ErrInternal, str)
		}
		return retbytes, nil
	}
	nbytes := pop.opcode.length
	if pop.opcode.length < 0 {
		l := len(pop.data)
		switch pop.opcode.length {
		case -1:
			retbytes = append(retbytes, byte(l))
			nbytes = l + 2
		case -2:
			retbytes = append(retbytes, byte(l&0xff),
				byte(l>>8&0xff))
			nbytes = l + 3
		case -4:
			retbytes = append(retbytes, byte(l&0xff),
				byte((l>>8)&0xff), byte((l>>16)&0xff),
				byte((l>>24)&0xff))
			nbytes = l + 5
		}
	}

	retbytes = append(retbytes, pop.data...)

	if len(retbytes) != nbytes {
		str := fmt.Sprintf("internal consistency error - "+
			"parsed opcode %s has data length %d when %d was "+
			"expected", pop.opcode.name, len(retbytes), nbytes)
		return nil, scriptError(ErrInternal, str)
	}

	return retbytes, nil
}

// print returns a human-readable string representation of the opcode for use
// in script disassembly.
func (pop *parsedOpcode) print(oneline bool) string {
	if oneline {
		if repl, ok := opcodeOnelineRepls[pop.opcode.name]; ok {
			return repl
		}
	}

	if pop.opcode.value == OP_RAWDATA {
		if oneline {
			return fmt.Sprintf("%x", pop.data)
		}
		return fmt.Sprintf("%s 0x%02x", pop.opcode.name, pop.data)
	}

	if pop.opcode.length == 1 {
		return pop.opcode.name
	}

	if oneline {
		return fmt.Sprintf("%x", pop.data)
	}
	return fmt.Sprintf("%s 0x%02x", pop.opcode.name, pop.data)
}

// isSmallInt returns whether or not the opcode is considered a small integer,
// which is an OP_0, or OP_1 through OP_16.
func isSmallInt(op *opcode) bool {
	return op.value == OP_0 || (op.value >= OP_1 && op.value <= OP_16)
}

// isPubkey returns true if the script passed is a pay-to-pubkey transaction,
// false otherwise.
func isPubkey(pops []parsedOpcode) bool {
	return len(pops) == 2 &&
		(len(pops[0].data) == 33 || len(pops[0].data) == 65) &&
		pops[1].opcode.value == OP_CHECKSIG
}

// isPubkeyHash returns true if the script passed is a pay-to-pubkey-hash
// transaction, false otherwise.
func isPubkeyHash(pops []parsedOpcode) bool {
	return len(pops) == 5 &&
		pops[0].opcode.value == OP_DUP &&
		pops[1].opcode.value == OP_HASH160 &&
		pops[2].opcode.value == OP_DATA_20 &&
		pops[3].opcode.value == OP_EQUALVERIFY &&
		pops[4].opcode.value == OP_CHECKSIG
}

// isScriptHash returns true if the script passed is a pay-to-script-hash
// (P2SH) transaction, false otherwise.
func isScriptHash(pops []parsedOpcode) bool {
	return len(pops) == 3 &&
		pops[0].opcode.value == OP_HASH160 &&
		pops[1].opcode.value == OP_DATA_20 &&
		pops[2].opcode.value == OP_EQUAL
}

// IsPayToScriptHash returns true if the script is in the standard
// Pay-To-Script-Hash format, false otherwise.
func IsPayToScriptHash(script []byte) bool {
	pops, err := parseScript(script)
	if err != nil {
		return false
	}
	return isScriptHash(pops)
}

// isMultiSig always reports false. Bare multisig classification is a stub
// left for a future extension; typeOfScript still routes through it so the
// MultiSigTy case is ready to light up once a real pattern is supplied.
func isMultiSig(pops []parsedOpcode) bool {
	return false
}

// NewRawDataScript wraps an opaque payload, such as a coinbase input
// script that is not required to be valid script bytecode, as a single
// RAW_DATA operation. The result flows through the same parsedOpcode
// plumbing as an ordinary parsed script but is never executed.
func NewRawDataScript(data []byte) []parsedOpcode {
	op := opcodeArray[OP_RAWDATA]
	return []parsedOpcode{{opcode: &op, data: data}}
}

// IsRawDataScript reports whether pops is the single-operation RAW_DATA
// wrapper produced by NewRawDataScript.
func IsRawDataScript(pops []parsedOpcode) bool {
	return len(pops) == 1 && pops[0].opcode.value == OP_RAWDATA
}

// isPushOnly returns true if the script only pushes data, false otherwise.
func isPushOnly(pops []parsedOpcode) bool {
	for _, pop := range pops {
		if !isPushOpcode(pop.opcode.value) {
			return false
		}
	}
	return true
}

// IsPushOnlyScript returns whether or not the passed script only pushes data.
// If the script does not parse false will be returned.
func IsPushOnlyScript(script []byte) bool {
	pops, err := parseScript(script)
	if err != nil {
		return false
	}
	return isPushOnly(pops)
}

// canonicalPush returns true if the object is either not a push instruction
// or the push instruction contained wherein matches the canonical form using
// the smallest instruction to do the job.
func canonicalPush(pop parsedOpcode) bool {
	opval := pop.opcode.value
	data := pop.data
	dataLen := len(pop.data)
	if opval > OP_16 {
		return true
	}

	if opval < OP_PUSHDATA1 && opval > OP_0 && (dataLen == 1 && data[0] <= 16) {
		return false
	}
	if opval == OP_PUSHDATA1 && dataLen < OP_PUSHDATA1 {
		return false
	}
	if opval == OP_PUSHDATA2 && dataLen <= 0xff {
		return false
	}
	if opval == OP_PUSHDATA4 && dataLen <= 0xffff {
		return false
	}
	return true
}

// GetScriptClass returns the class of the script passed. If the script does
// not parse then NonStandardTy will be returned.
func GetScriptClass(script []byte) ScriptClass {
	pops, err := parseScript(script)
	if err != nil {
		return NonStandardTy
	}
	return typeOfScript(pops)
}

// typeOfScript returns the type of the script being inspected from the set
// of known classes.
func typeOfScript(pops []parsedOpcode) ScriptClass {
	switch {
	case isPubkey(pops):
		return PubKeyTy
	case isPubkeyHash(pops):
		return PubKeyHashTy
	case isScriptHash(pops):
		return ScriptHashTy
	case isMultiSig(pops):
		return MultiSigTy
	case isNullData(pops):
		return NullDataTy
	}
	return NonStandardTy
}

// parseScript preparses the script in bytes into a list of parsedOpcodes.
func parseScript(script []byte) ([]parsedOpcode, error) {
	return parseScriptTemplate(script, &opcodeArray)
}

// parseScriptTemplate is the same as parseScript but allows the passing of
// the template list, which exists so internal tests can supply deliberately
// malformed opcode tables. On error the list of opcodes parsed so far is
// still returned.
func parseScriptTemplate(script []byte, opcodes *[256]opcode) ([]parsedOpcode, error) {
	retScript := make([]parsedOpcode, 0, len(script))
	for i := 0; i < len(script); {
		instr := script[i]
		op := opcodes[instr]
		pop := parsedOpcode{opcode: &op}

		switch {
		case op.length == 1:
			i++
		case op.length > 1:
			if len(script[i:]) < op.length {
				str := fmt.Sprintf("opcode %s requires %d "+
					"bytes, script only has %d remaining",
					op.name, op.length, len(script[i:]))
				return retScript, scriptError(ErrMalformedPush, str)
			}
			pop.data = script[i+1 : i+op.length]
			i += op.length
		case op.length < 0:
			var l uint
			off := i + 1

			if len(script[off:]) < -op.length {
				str := fmt.Sprintf("opcode %s requires %d "+
					"bytes, script only has %d remaining",
					op.name, -op.length, len(script[off:]))
				return retScript, scriptError(ErrMalformedPush, str)
			}

			switch op.length {
			case -1:
				l = uint(script[off])
			case -2:
				l = uint(script[off+1])<<8 | uint(script[off])
			case -4:
				l = uint(script[off+3])<<24 | uint(script[off+2])<<16 |
					uint(script[off+1])<<8 | uint(script[off])
			}

			off += -op.length
			if int(l) > len(script[off:]) {
				str := fmt.Sprintf("opcode %s pushes %d bytes, "+
					"script only has %d remaining", op.name,
					l, len(script[off:]))
				return retScript, scriptError(ErrMalformedPush, str)
			}
			if l > MaxScriptElementSize {
				str := fmt.Sprintf("element size %d exceeds "+
					"max allowed size %d", l, MaxScriptElementSize)
				return retScript, scriptError(ErrElementTooBig, str)
			}

			pop.data = script[off : off+int(l)]
			i += 1 - op.length + int(l)
		}
		retScript = append(retScript, pop)
	}
	return retScript, nil
}

// unparseScript reverses the action of parseScript and returns the
// parsedOpcodes as a slice of bytes. A RAW_DATA carrier (see
// NewRawDataScript) is the one exception to byte-exact opcode/length
// re-encoding: it emits its payload verbatim, matching the coinbase-script
// convention where the "script" is opaque data rather than bytecode.
func unparseScript(pops []parsedOpcode) ([]byte, error) {
	if IsRawDataScript(pops) {
		return append([]byte{}, pops[0].data...), nil
	}

	script := make([]byte, 0, len(pops))
	for _, pop := range pops {
		b, err := pop.bytes()
		if err != nil {
			return nil, err
		}
		script = append(script, b...)
	}
	return script, nil
}

// removeOpcode will remove any opcode matching the given value from the
// opcode stream in pkscript.
func removeOpcode(pkscript []parsedOpcode, opcode byte) []parsedOpcode {
	retScript := make([]parsedOpcode, 0, len(pkscript))
	for _, pop := range pkscript {
		if pop.opcode.value != opcode {
			retScript = append(retScript, pop)
		}
	}
	return retScript
}

// removeOpcodeByData returns pkscript with any push of the passed data
// removed.
func removeOpcodeByData(pkscript []parsedOpcode, data []byte) []parsedOpcode {
	retScript := make([]parsedOpcode, 0, len(pkscript))
	for _, pop := range pkscript {
		if !bytes.Equal(pop.data, data) {
			retScript = append(retScript, pop)
		}
	}
	return retScript
}

// DisasmString formats a disassembled script for one line printing. When the
// script fails to parse, the returned string contains the disassembly up to
// the point of failure with "[error]" appended, and the parse error is
// returned alongside it.
func DisasmString(buf []byte) (string, error) {
	disbuf := ""
	opcodes, err := parseScript(buf)
	for _, pop := range opcodes {
		disbuf += pop.print(true) + " "
	}
	if disbuf != "" {
		disbuf = disbuf[:len(disbuf)-1]
	}
	if err != nil {
		disbuf += "[error]"
	}
	return disbuf, err
}

// calcSignatureHash rewrites txCopy into the per-hash_type canonical
// preimage described in the signature-hash builder component and returns its
// double-SHA256 digest. When idx is out of range under SIGHASH_SINGLE, it
// returns the distinguished all-zero digest rather than an error, matching
// the consensus-critical quirk inherited by this interpreter.
func calcSignatureHash(script []parsedOpcode, hashType SigHashType, tx *wire.MsgTx, idx int) []byte {
	txCopy := tx.Copy()

	switch hashType & 0x1f {
	case SigHashNone:
		txCopy.TxOut = txCopy.TxOut[0:0]
		for i := range txCopy.TxIn {
			if i != idx {
				txCopy.TxIn[i].Sequence = 0
			}
		}

	case SigHashSingle:
		if idx >= len(txCopy.TxOut) {
			hash := make([]byte, 32)
			return hash
		}
		txCopy.TxOut = txCopy.TxOut[:idx+1]
		for i := 0; i < idx; i++ {
			txCopy.TxOut[i].Value = -1
			txCopy.TxOut[i].PkScript = []byte{}
		}
		for i := range txCopy.TxIn {
			if i != idx {
				txCopy.TxIn[i].Sequence = 0
			}
		}

	default:
		// Every other hash type, including SigHashAll and the
		// historical SigHashOld, commits to every input and output
		// unmodified.
	}

	if hashType&SigHashAnyOneCanPay != 0 {
		if idx >= len(txCopy.TxIn) {
			return make([]byte, 32)
		}
		txCopy.TxIn = txCopy.TxIn[idx : idx+1]
		idx = 0
	}

	if idx >= len(txCopy.TxIn) {
		return make([]byte, 32)
	}

	scriptBytes, _ := unparseScript(script)
	for i := range txCopy.TxIn {
		if i == idx {
			txCopy.TxIn[i].SignatureScript = scriptBytes
		} else {
			txCopy.TxIn[i].SignatureScript = nil
		}
	}

	var wbuf bytes.Buffer
	txCopy.Serialize(&wbuf)
	binary.Write(&wbuf, binary.LittleEndian, uint32(hashType))

	return chainhash.DoubleHashB(wbuf.Bytes())
}

// GetSigOpCount provides a quick count of the number of signature operations
// in a script. A CHECKSIG(VERIFY) counts for one, a CHECKMULTISIG(VERIFY)
// for up to MaxPubKeysPerMultiSig. If the script fails to parse, the count
// up to the point of failure is returned.
func GetSigOpCount(script []byte) int {
	pops, _ := parseScript(script)
	return getSigOpCount(pops, false)
}

// GetPreciseSigOpCount returns the number of signature operations in
// scriptPubKey. If bip16 is true scriptSig is searched for the
// pay-to-script-hash redeem script in order to find the precise count.
func GetPreciseSigOpCount(scriptSig, scriptPubKey []byte, bip16 bool) int {
	pops, _ := parseScript(scriptPubKey)
	if !(bip16 && isScriptHash(pops)) {
		return getSigOpCount(pops, true)
	}

	sigPops, err := parseScript(scriptSig)
	if err != nil {
		return 0
	}
	if !isPushOnly(sigPops) || len(sigPops) == 0 {
		return 0
	}

	shScript := sigPops[len(sigPops)-1].data
	if shScript == nil {
		return 0
	}

	shPops, _ := parseScript(shScript)
	return getSigOpCount(shPops, true)
}

// getSigOpCount counts signature operations in pops. In precise mode it
// looks for the small-integer pubkey count immediately preceding a
// CHECKMULTISIG(VERIFY); otherwise it assumes the maximum.
func getSigOpCount(pops []parsedOpcode, precise bool) int {
	nSigs := 0
	for i, pop := range pops {
		switch pop.opcode.value {
		case OP_CHECKSIG, OP_CHECKSIGVERIFY:
			nSigs++
		case OP_CHECKMULTISIG, OP_CHECKMULTISIGVERIFY:
			if precise && i > 0 &&
				pops[i-1].opcode.value >= OP_1 &&
				pops[i-1].opcode.value <= OP_16 {
				nSigs += int(pops[i-1].opcode.value - (OP_1 - 1))
			} else {
				nSigs += MaxPubKeysPerMultiSig
			}
		}
	}
	return nSigs
}

// payToPubKeyHashScript creates a script to pay a transaction output to a
// 20-byte pubkey hash.
func payToPubKeyHashScript(pubKeyHash []byte) ([]byte, error) {
	return NewScriptBuilder().AddOp(OP_DUP).AddOp(OP_HASH160).
		AddData(pubKeyHash).AddOp(OP_EQUALVERIFY).AddOp(OP_CHECKSIG).
		Script()
}

// payToScriptHashScript creates a script to pay a transaction output to a
// script hash.
func payToScriptHashScript(scriptHash []byte) ([]byte, error) {
	return NewScriptBuilder().AddOp(OP_HASH160).AddData(scriptHash).
		AddOp(OP_EQUAL).Script()
}

// payToPubKeyScript creates a script to pay a transaction output to a public
// key.
func payToPubKeyScript(serializedPubKey []byte) ([]byte, error) {
	return NewScriptBuilder().AddData(serializedPubKey).
		AddOp(OP_CHECKSIG).Script()
}

// PayToAddrScript creates a script to pay a transaction output to the
// specified address.
func PayToAddrScript(addr btcutil.Address) ([]byte, error) {
	switch addr := addr.(type) {
	case *btcutil.AddressPubKeyHash:
		if addr == nil {
			return nil, scriptError(ErrUnsupportedAddress, "nil pkh address")
		}
		return payToPubKeyHashScript(addr.ScriptAddress())

	case *btcutil.AddressScriptHash:
		if addr == nil {
			return nil, scriptError(ErrUnsupportedAddress, "nil script hash address")
		}
		return payToScriptHashScript(addr.ScriptAddress())

	case *btcutil.AddressPubKey:
		if addr == nil {
			return nil, scriptError(ErrUnsupportedAddress, "nil pubkey address")
		}
		return payToPubKeyScript(addr.ScriptAddress())
	}

	return nil, scriptError(ErrUnsupportedAddress, "unsupported address type")
}

// MultiSigScript returns a script requiring nrequired of the given keys to
// have signed for the multisig output to be spent.
func MultiSigScript(pubkeys []*btcutil.AddressPubKey, nrequired int) ([]byte, error) {
	if len(pubkeys) < nrequired {
		str := fmt.Sprintf("unable to generate multisig script with "+
			"%d required signatures when there are only %d public "+
			"keys available", nrequired, len(pubkeys))
		return nil, scriptError(ErrInvalidSignatureCount, str)
	}

	builder := NewScriptBuilder().AddInt64(int64(nrequired))
	for _, key := range pubkeys {
		builder.AddData(key.ScriptAddress())
	}
	builder.AddInt64(int64(len(pubkeys)))
	builder.AddOp(OP_CHECKMULTISIG)

	return builder.Script()
}

// asSmallInt returns the passed opcode, which must be true according to
// isSmallInt, as an integer.
func asSmallInt(op *opcode) int {
	if op.value == OP_0 {
		return 0
	}
	return int(op.value - (OP_1 - 1))
}

// PushedData returns the data pushed by every push opcode in script,
// including the empty push for OP_0 but excluding OP_1 through OP_16.
func PushedData(script []byte) ([][]byte, error) {
	pops, err := parseScript(script)
	if err != nil {
		return nil, err
	}

	var data [][]byte
	for _, pop := range pops {
		if pop.data != nil {
			data = append(data, pop.data)
		} else if pop.opcode.value == OP_0 {
			data = append(data, []byte{})
		}
	}
	return data, nil
}
