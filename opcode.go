// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"fmt"
)

// An opcode defines the information related to a txscript opcode.  opfunc is
// the function to call to perform the opcode; it receives the opcode's own
// descriptor, the data pushed with it (empty for non-push opcodes), and the
// running engine.
type opcode struct {
	value  byte
	name   string
	length int
	opfunc func(*opcode, []byte, *Engine) error
}

// These constants are the values of the official opcodes used on the btc
// wire protocol.
const (
	OP_0                   = 0x00
	OP_FALSE               = 0x00
	OP_DATA_1              = 0x01
	OP_DATA_2              = 0x02
	OP_DATA_3              = 0x03
	OP_DATA_4              = 0x04
	OP_DATA_5              = 0x05
	OP_DATA_6              = 0x06
	OP_DATA_7              = 0x07
	OP_DATA_8              = 0x08
	OP_DATA_9              = 0x09
	OP_DATA_10             = 0x0a
	OP_DATA_11             = 0x0b
	OP_DATA_12             = 0x0c
	OP_DATA_13             = 0x0d
	OP_DATA_14             = 0x0e
	OP_DATA_15             = 0x0f
	OP_DATA_16             = 0x10
	OP_DATA_17             = 0x11
	OP_DATA_18             = 0x12
	OP_DATA_19             = 0x13
	OP_DATA_20             = 0x14
	OP_DATA_21             = 0x15
	OP_DATA_22             = 0x16
	OP_DATA_23             = 0x17
	OP_DATA_24             = 0x18
	OP_DATA_25             = 0x19
	OP_DATA_26             = 0x1a
	OP_DATA_27             = 0x1b
	OP_DATA_28             = 0x1c
	OP_DATA_29             = 0x1d
	OP_DATA_30             = 0x1e
	OP_DATA_31             = 0x1f
	OP_DATA_32             = 0x20
	OP_DATA_33             = 0x21
	OP_DATA_34             = 0x22
	OP_DATA_35             = 0x23
	OP_DATA_36             = 0x24
	OP_DATA_37             = 0x25
	OP_DATA_38             = 0x26
	OP_DATA_39             = 0x27
	OP_DATA_40             = 0x28
	OP_DATA_41             = 0x29
	OP_DATA_42             = 0x2a
	OP_DATA_43             = 0x2b
	OP_DATA_44             = 0x2c
	OP_DATA_45             = 0x2d
	OP_DATA_46             = 0x2e
	OP_DATA_47             = 0x2f
	OP_DATA_48             = 0x30
	OP_DATA_49             = 0x31
	OP_DATA_50             = 0x32
	OP_DATA_51             = 0x33
	OP_DATA_52             = 0x34
	OP_DATA_53             = 0x35
	OP_DATA_54             = 0x36
	OP_DATA_55             = 0x37
	OP_DATA_56             = 0x38
	OP_DATA_57             = 0x39
	OP_DATA_58             = 0x3a
	OP_DATA_59             = 0x3b
	OP_DATA_60             = 0x3c
	OP_DATA_61             = 0x3d
	OP_DATA_62             = 0x3e
	OP_DATA_63             = 0x3f
	OP_DATA_64             = 0x40
	OP_DATA_65             = 0x41
	OP_DATA_66             = 0x42
	OP_DATA_67             = 0x43
	OP_DATA_68             = 0x44
	OP_DATA_69             = 0x45
	OP_DATA_70             = 0x46
	OP_DATA_71             = 0x47
	OP_DATA_72             = 0x48
	OP_DATA_73             = 0x49
	OP_DATA_74             = 0x4a
	OP_DATA_75             = 0x4b
	OP_PUSHDATA1           = 0x4c
	OP_PUSHDATA2           = 0x4d
	OP_PUSHDATA4           = 0x4e
	OP_1NEGATE             = 0x4f
	OP_RESERVED            = 0x50
	OP_1                   = 0x51
	OP_TRUE                = 0x51
	OP_2                   = 0x52
	OP_3                   = 0x53
	OP_4                   = 0x54
	OP_5                   = 0x55
	OP_6                   = 0x56
	OP_7                   = 0x57
	OP_8                   = 0x58
	OP_9                   = 0x59
	OP_10                  = 0x5a
	OP_11                  = 0x5b
	OP_12                  = 0x5c
	OP_13                  = 0x5d
	OP_14                  = 0x5e
	OP_15                  = 0x5f
	OP_16                  = 0x60
	OP_NOP                 = 0x61
	OP_VER                 = 0x62
	OP_IF                  = 0x63
	OP_NOTIF               = 0x64
	OP_VERIF               = 0x65
	OP_VERNOTIF            = 0x66
	OP_ELSE                = 0x67
	OP_ENDIF               = 0x68
	OP_VERIFY              = 0x69
	OP_RETURN              = 0x6a
	OP_TOALTSTACK          = 0x6b
	OP_FROMALTSTACK        = 0x6c
	OP_2DROP               = 0x6d
	OP_2DUP                = 0x6e
	OP_3DUP                = 0x6f
	OP_2OVER               = 0x70
	OP_2ROT                = 0x71
	OP_2SWAP               = 0x72
	OP_IFDUP               = 0x73
	OP_DEPTH               = 0x74
	OP_DROP                = 0x75
	OP_DUP                 = 0x76
	OP_NIP                 = 0x77
	OP_OVER                = 0x78
	OP_PICK                = 0x79
	OP_ROLL                = 0x7a
	OP_ROT                 = 0x7b
	OP_SWAP                = 0x7c
	OP_TUCK                = 0x7d
	OP_SIZE                = 0x82
	OP_EQUAL               = 0x87
	OP_EQUALVERIFY         = 0x88
	OP_RESERVED1           = 0x89
	OP_RESERVED2           = 0x8a
	OP_1ADD                = 0x8b
	OP_1SUB                = 0x8c
	OP_NEGATE              = 0x8f
	OP_ABS                 = 0x90
	OP_NOT                 = 0x91
	OP_0NOTEQUAL           = 0x92
	OP_ADD                 = 0x93
	OP_SUB                 = 0x94
	OP_BOOLAND             = 0x9a
	OP_BOOLOR              = 0x9b
	OP_NUMEQUAL            = 0x9c
	OP_NUMEQUALVERIFY      = 0x9d
	OP_NUMNOTEQUAL         = 0x9e
	OP_LESSTHAN            = 0x9f
	OP_GREATERTHAN         = 0xa0
	OP_LESSTHANOREQUAL     = 0xa1
	OP_GREATERTHANOREQUAL  = 0xa2
	OP_MIN                 = 0xa3
	OP_MAX                 = 0xa4
	OP_WITHIN              = 0xa5
	OP_RIPEMD160           = 0xa6
	OP_SHA1                = 0xa7
	OP_SHA256              = 0xa8
	OP_HASH160             = 0xa9
	OP_HASH256             = 0xaa
	OP_CODESEPARATOR       = 0xab
	OP_CHECKSIG            = 0xac
	OP_CHECKSIGVERIFY      = 0xad
	OP_CHECKMULTISIG       = 0xae
	OP_CHECKMULTISIGVERIFY = 0xaf
	OP_NOP1                = 0xb0
	OP_NOP2                = 0xb1
	OP_NOP3                = 0xb2
	OP_NOP4                = 0xb3
	OP_NOP5                = 0xb4
	OP_NOP6                = 0xb5
	OP_NOP7                = 0xb6
	OP_NOP8                = 0xb7
	OP_NOP9                = 0xb8
	OP_NOP10               = 0xb9

	// OP_RAWDATA is a non-consensus marker: it carries an opaque payload
	// (used for coinbase inputs, whose "script" is not a real script)
	// through the same parsedOpcode/Script plumbing as ordinary
	// operations, without ever being produced by parsing a genuine
	// script. Like the other reserved opcodes, it fails if executed.
	OP_RAWDATA = 0xfa

	// OP_BAD_OPERATION is the sentinel byte value returned by
	// StringToOpcode for a mnemonic that names no known opcode.
	OP_BAD_OPERATION = 0xff
)

// opcodeArray holds details about all possible opcodes such as how many
// bytes it takes to specify the opcode and the function to call to
// execute it.  Unassigned bytes and opcodes outside the subset dispatched by
// this package's operation dispatcher resolve to opcodeInvalid: they carry a
// name for disassembly but always fail if executed.
var opcodeArray [256]opcode

func init() {
	for i := 0; i < 256; i++ {
		opcodeArray[i] = opcode{
			value:  byte(i),
			name:   fmt.Sprintf("OP_UNKNOWN%d", i),
			length: 1,
			opfunc: opcodeInvalid,
		}
	}

	// Data push opcodes.
	opcodeArray[OP_0] = opcode{OP_0, "OP_0", 1, opcodeFalse}
	for i := OP_DATA_1; i <= OP_DATA_75; i++ {
		opcodeArray[i] = opcode{byte(i), fmt.Sprintf("OP_DATA_%d", i),
			i + 1, opcodePushData}
	}
	opcodeArray[OP_PUSHDATA1] = opcode{OP_PUSHDATA1, "OP_PUSHDATA1", -1, opcodePushData}
	opcodeArray[OP_PUSHDATA2] = opcode{OP_PUSHDATA2, "OP_PUSHDATA2", -2, opcodePushData}
	opcodeArray[OP_PUSHDATA4] = opcode{OP_PUSHDATA4, "OP_PUSHDATA4", -4, opcodePushData}
	opcodeArray[OP_1NEGATE] = opcode{OP_1NEGATE, "OP_1NEGATE", 1, opcode1Negate}
	opcodeArray[OP_RESERVED] = opcode{OP_RESERVED, "OP_RESERVED", 1, opcodeReserved}
	for i := OP_1; i <= OP_16; i++ {
		opcodeArray[i] = opcode{byte(i), fmt.Sprintf("OP_%d", i-OP_1+1),
			1, opcodeN}
	}

	// Control opcodes.
	opcodeArray[OP_NOP] = opcode{OP_NOP, "OP_NOP", 1, opcodeNop}
	opcodeArray[OP_VER] = opcode{OP_VER, "OP_VER", 1, opcodeReserved}
	opcodeArray[OP_IF] = opcode{OP_IF, "OP_IF", 1, opcodeIf}
	opcodeArray[OP_NOTIF] = opcode{OP_NOTIF, "OP_NOTIF", 1, opcodeNotIf}
	opcodeArray[OP_VERIF] = opcode{OP_VERIF, "OP_VERIF", 1, opcodeReserved}
	opcodeArray[OP_VERNOTIF] = opcode{OP_VERNOTIF, "OP_VERNOTIF", 1, opcodeReserved}
	opcodeArray[OP_ELSE] = opcode{OP_ELSE, "OP_ELSE", 1, opcodeElse}
	opcodeArray[OP_ENDIF] = opcode{OP_ENDIF, "OP_ENDIF", 1, opcodeEndif}
	opcodeArray[OP_VERIFY] = opcode{OP_VERIFY, "OP_VERIFY", 1, opcodeVerify}
	opcodeArray[OP_RETURN] = opcode{OP_RETURN, "OP_RETURN", 1, opcodeReserved}

	// Stack opcodes.
	opcodeArray[OP_TOALTSTACK] = opcode{OP_TOALTSTACK, "OP_TOALTSTACK", 1, opcodeToAltStack}
	opcodeArray[OP_FROMALTSTACK] = opcode{OP_FROMALTSTACK, "OP_FROMALTSTACK", 1, opcodeFromAltStack}
	opcodeArray[OP_IFDUP] = opcode{OP_IFDUP, "OP_IFDUP", 1, opcodeIfDup}
	opcodeArray[OP_DEPTH] = opcode{OP_DEPTH, "OP_DEPTH", 1, opcodeDepth}
	opcodeArray[OP_DROP] = opcode{OP_DROP, "OP_DROP", 1, opcodeDrop}
	opcodeArray[OP_DUP] = opcode{OP_DUP, "OP_DUP", 1, opcodeDup}
	opcodeArray[OP_NIP] = opcode{OP_NIP, "OP_NIP", 1, opcodeNip}
	opcodeArray[OP_OVER] = opcode{OP_OVER, "OP_OVER", 1, opcodeOver}
	opcodeArray[OP_PICK] = opcode{OP_PICK, "OP_PICK", 1, opcodePick}
	opcodeArray[OP_ROLL] = opcode{OP_ROLL, "OP_ROLL", 1, opcodeRoll}
	opcodeArray[OP_SIZE] = opcode{OP_SIZE, "OP_SIZE", 1, opcodeSize}

	// Naming-only stack opcodes outside the dispatched subset.
	for _, entry := range []struct {
		value byte
		name  string
	}{
		{OP_2DROP, "OP_2DROP"}, {OP_2DUP, "OP_2DUP"}, {OP_3DUP, "OP_3DUP"},
		{OP_2OVER, "OP_2OVER"}, {OP_2ROT, "OP_2ROT"}, {OP_2SWAP, "OP_2SWAP"},
		{OP_ROT, "OP_ROT"}, {OP_SWAP, "OP_SWAP"}, {OP_TUCK, "OP_TUCK"},
	} {
		opcodeArray[entry.value] = opcode{entry.value, entry.name, 1, opcodeInvalid}
	}

	// Bitwise/logic/arithmetic subset implemented by this package.
	opcodeArray[OP_EQUAL] = opcode{OP_EQUAL, "OP_EQUAL", 1, opcodeEqual}
	opcodeArray[OP_EQUALVERIFY] = opcode{OP_EQUALVERIFY, "OP_EQUALVERIFY", 1, opcodeEqualVerify}
	opcodeArray[OP_RESERVED1] = opcode{OP_RESERVED1, "OP_RESERVED1", 1, opcodeReserved}
	opcodeArray[OP_RESERVED2] = opcode{OP_RESERVED2, "OP_RESERVED2", 1, opcodeReserved}
	opcodeArray[OP_NOT] = opcode{OP_NOT, "OP_NOT", 1, opcodeNot}
	opcodeArray[OP_ADD] = opcode{OP_ADD, "OP_ADD", 1, opcodeAdd}
	opcodeArray[OP_BOOLOR] = opcode{OP_BOOLOR, "OP_BOOLOR", 1, opcodeBoolOr}
	opcodeArray[OP_GREATERTHANOREQUAL] = opcode{OP_GREATERTHANOREQUAL, "OP_GREATERTHANOREQUAL", 1, opcodeGreaterThanOrEqual}
	opcodeArray[OP_MIN] = opcode{OP_MIN, "OP_MIN", 1, opcodeMin}

	// Remaining named arithmetic/bitwise opcodes are outside the
	// implemented subset; they are named for disassembly but always fail.
	for _, entry := range []struct {
		value byte
		name  string
	}{
		{OP_1ADD, "OP_1ADD"}, {OP_1SUB, "OP_1SUB"}, {OP_NEGATE, "OP_NEGATE"},
		{OP_ABS, "OP_ABS"}, {OP_0NOTEQUAL, "OP_0NOTEQUAL"}, {OP_SUB, "OP_SUB"},
		{OP_BOOLAND, "OP_BOOLAND"}, {OP_NUMEQUAL, "OP_NUMEQUAL"},
		{OP_NUMEQUALVERIFY, "OP_NUMEQUALVERIFY"}, {OP_NUMNOTEQUAL, "OP_NUMNOTEQUAL"},
		{OP_LESSTHAN, "OP_LESSTHAN"}, {OP_GREATERTHAN, "OP_GREATERTHAN"},
		{OP_LESSTHANOREQUAL, "OP_LESSTHANOREQUAL"}, {OP_MAX, "OP_MAX"},
		{OP_WITHIN, "OP_WITHIN"}, {OP_RIPEMD160, "OP_RIPEMD160"},
		{OP_SHA1, "OP_SHA1"}, {OP_HASH256, "OP_HASH256"},
	} {
		opcodeArray[entry.value] = opcode{entry.value, entry.name, 1, opcodeInvalid}
	}

	// Crypto opcodes.
	opcodeArray[OP_SHA256] = opcode{OP_SHA256, "OP_SHA256", 1, opcodeSha256}
	opcodeArray[OP_HASH160] = opcode{OP_HASH160, "OP_HASH160", 1, opcodeHash160}
	opcodeArray[OP_CODESEPARATOR] = opcode{OP_CODESEPARATOR, "OP_CODESEPARATOR", 1, opcodeCodeSeparator}
	opcodeArray[OP_CHECKSIG] = opcode{OP_CHECKSIG, "OP_CHECKSIG", 1, opcodeCheckSig}
	opcodeArray[OP_CHECKSIGVERIFY] = opcode{OP_CHECKSIGVERIFY, "OP_CHECKSIGVERIFY", 1, opcodeCheckSigVerify}
	opcodeArray[OP_CHECKMULTISIG] = opcode{OP_CHECKMULTISIG, "OP_CHECKMULTISIG", 1, opcodeCheckMultiSig}
	opcodeArray[OP_CHECKMULTISIGVERIFY] = opcode{OP_CHECKMULTISIGVERIFY, "OP_CHECKMULTISIGVERIFY", 1, opcodeCheckMultiSigVerify}

	// Reserved no-op family: succeeds as a no-op.
	for i, name := range []string{
		"OP_NOP1", "OP_NOP2", "OP_NOP3", "OP_NOP4", "OP_NOP5",
		"OP_NOP6", "OP_NOP7", "OP_NOP8", "OP_NOP9", "OP_NOP10",
	} {
		v := byte(OP_NOP1 + i)
		opcodeArray[v] = opcode{v, name, 1, opcodeNop}
	}

	// Non-consensus marker and unknown-opcode sentinel.
	opcodeArray[OP_RAWDATA] = opcode{OP_RAWDATA, "OP_RAWDATA", 1, opcodeReserved}
	opcodeArray[OP_BAD_OPERATION] = opcode{OP_BAD_OPERATION, "OP_BAD_OPERATION", 1, opcodeInvalid}

	for i := range opcodeArray {
		opcodeByName[opcodeArray[i].name] = opcodeArray[i].value
	}
	opcodeByName["OP_TRUE"] = OP_TRUE
	opcodeByName["OP_FALSE"] = OP_FALSE
}

// opcodeByName is the bidirectional name registry backing StringToOpcode and
// OpcodeToString. It is built from opcodeArray so every recognized mnemonic
// resolves to its canonical byte value.
var opcodeByName = make(map[string]byte)

// StringToOpcode returns the byte value of the opcode named by name, or
// OP_BAD_OPERATION if name does not match a known opcode.
func StringToOpcode(name string) byte {
	if v, ok := opcodeByName[name]; ok {
		return v
	}
	return OP_BAD_OPERATION
}

// OpcodeToString returns the canonical mnemonic for the given opcode byte
// value.
func OpcodeToString(op byte) string {
	return opcodeArray[op].name
}

// isPushOpcode reports whether op is one of the push opcodes enumerated in
// §3: ZERO, SPECIAL(1..75), PUSHDATA1/2/4, 1NEGATE, or OP_1..OP_16.
func isPushOpcode(op byte) bool {
	switch {
	case op == OP_0:
		return true
	case op >= OP_DATA_1 && op <= OP_DATA_75:
		return true
	case op == OP_PUSHDATA1 || op == OP_PUSHDATA2 || op == OP_PUSHDATA4:
		return true
	case op == OP_1NEGATE:
		return true
	case op >= OP_1 && op <= OP_16:
		return true
	}
	return false
}

// isConditionOpcode reports whether op is one of the four conditional
// control-flow opcodes: IF, NOTIF, ELSE, ENDIF.
func isConditionOpcode(op byte) bool {
	switch op {
	case OP_IF, OP_NOTIF, OP_ELSE, OP_ENDIF:
		return true
	}
	return false
}

// disabledOpcodes is the configuration hook named in §4.B and §9: it is
// reserved for future extension and currently disables no opcode.
var disabledOpcodes = map[byte]bool{}

// isDisabledOpcode reports whether op is in the configured disabled set.
func isDisabledOpcode(op byte) bool {
	return disabledOpcodes[op]
}

// opcodeOnelineRepls maps opcodes that have alternate, more concise human
// readable representations to said representation for use in the
// disassembly.
var opcodeOnelineRepls = map[string]string{
	"OP_1NEGATE": "-1",
	"OP_0":       "0",
	"OP_1":       "1",
	"OP_2":       "2",
	"OP_3":       "3",
	"OP_4":       "4",
	"OP_5":       "5",
	"OP_6":       "6",
	"OP_7":       "7",
	"OP_8":       "8",
	"OP_9":       "9",
	"OP_10":      "10",
	"OP_11":      "11",
	"OP_12":      "12",
	"OP_13":      "13",
	"OP_14":      "14",
	"OP_15":      "15",
	"OP_16":      "16",
}
