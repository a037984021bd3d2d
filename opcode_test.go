// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import "testing"

// TestOpcodeDisasm verifies the one-line disassembly used by DisasmString,
// including the short numeric aliases in opcodeOnelineRepls.
func TestOpcodeDisasm(t *testing.T) {
	t.Parallel()

	tests := []struct {
		script string
		want   string
	}{
		{"0", "0"},
		{"1", "1"},
		{"16", "16"},
		{"1NEGATE", "-1"},
		{"DUP HASH160 EQUALVERIFY CHECKSIG", "OP_DUP OP_HASH160 OP_EQUALVERIFY OP_CHECKSIG"},
		{"DATA_2 0xbeef", "beef"},
	}

	for i, test := range tests {
		got, err := DisasmString(mustParseShortForm(test.script))
		if err != nil {
			t.Errorf("test #%d: unexpected error: %v", i, err)
			continue
		}
		if got != test.want {
			t.Errorf("test #%d: got %q want %q", i, got, test.want)
		}
	}
}

// TestDisasmStringError verifies DisasmString returns the disassembly up to
// the point of failure, with the trailing error marker, for a malformed
// script.
func TestDisasmStringError(t *testing.T) {
	t.Parallel()

	script := append(mustParseShortForm("DUP"), OP_PUSHDATA1)
	got, err := DisasmString(script)
	if err == nil {
		t.Fatal("expected an error for a truncated push")
	}
	want := "OP_DUP[error]"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

// TestIsPushOpcode verifies isPushOpcode recognizes every opcode family the
// push-only predicate depends on, and rejects everything else.
func TestIsPushOpcode(t *testing.T) {
	t.Parallel()

	pushes := []byte{
		OP_0, OP_DATA_1, OP_DATA_75, OP_PUSHDATA1, OP_PUSHDATA2,
		OP_PUSHDATA4, OP_1NEGATE, OP_1, OP_16,
	}
	for _, op := range pushes {
		if !isPushOpcode(op) {
			t.Errorf("opcode 0x%02x: expected push opcode", op)
		}
	}

	nonPushes := []byte{OP_DUP, OP_CHECKSIG, OP_RETURN, OP_IF, OP_VERIFY}
	for _, op := range nonPushes {
		if isPushOpcode(op) {
			t.Errorf("opcode 0x%02x: expected non-push opcode", op)
		}
	}
}

// TestIsConditionOpcode verifies isConditionOpcode matches exactly the four
// conditional control-flow opcodes.
func TestIsConditionOpcode(t *testing.T) {
	t.Parallel()

	for _, op := range []byte{OP_IF, OP_NOTIF, OP_ELSE, OP_ENDIF} {
		if !isConditionOpcode(op) {
			t.Errorf("opcode 0x%02x: expected conditional opcode", op)
		}
	}
	for _, op := range []byte{OP_DUP, OP_VERIFY, OP_0} {
		if isConditionOpcode(op) {
			t.Errorf("opcode 0x%02x: expected non-conditional opcode", op)
		}
	}
}

// TestStringToOpcodeRoundTrip verifies the bidirectional name map recovers
// the original byte value for every named opcode, and that an unrecognized
// mnemonic yields the BAD_OPERATION sentinel.
func TestStringToOpcodeRoundTrip(t *testing.T) {
	t.Parallel()

	for _, name := range []string{
		"OP_DUP", "OP_HASH160", "OP_CHECKSIG", "OP_EQUALVERIFY",
		"OP_IF", "OP_ENDIF", "OP_16", "OP_RAWDATA",
	} {
		op := StringToOpcode(name)
		if op == OP_BAD_OPERATION {
			t.Errorf("StringToOpcode(%q): got BAD_OPERATION, want a real opcode", name)
			continue
		}
		if got := OpcodeToString(op); got != name {
			t.Errorf("OpcodeToString(StringToOpcode(%q)) = %q, want %q", name, got, name)
		}
	}

	if op := StringToOpcode("OP_NOT_A_REAL_OPCODE"); op != OP_BAD_OPERATION {
		t.Errorf("StringToOpcode(unknown) = 0x%02x, want OP_BAD_OPERATION", op)
	}
}

// TestRawDataOpcodeFailsWhenExecuted verifies OP_RAWDATA, like the other
// explicitly-failing reserved opcodes, fails if it is ever dispatched as a
// real instruction.
func TestRawDataOpcodeFailsWhenExecuted(t *testing.T) {
	t.Parallel()

	_, err := parseScript([]byte{OP_RAWDATA})
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}

	tx := newSpendingTx(nil, nil)
	sigScript := mustParseShortForm("1")
	tx.TxIn[0].SignatureScript = sigScript
	_, err = Evaluate(sigScript, []byte{OP_RAWDATA}, tx, 0, false)
	if !tstCheckErrorCode(err, ErrReservedOpcode) {
		t.Fatalf("got %v, want ErrReservedOpcode", err)
	}
}
