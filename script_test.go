// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"bytes"
	"testing"

	"github.com/btcsuite/btcd/wire"
)

// TestParseUnparseRoundTrip verifies every parseScript/unparseScript round
// trip returns the identical byte sequence it started from.
func TestParseUnparseRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []string{
		"DUP HASH160 DATA_20 0x0102030405060708090a0b0c0d0e0f1011121314 EQUALVERIFY CHECKSIG",
		"HASH160 DATA_20 0x0102030405060708090a0b0c0d0e0f1011121314 EQUAL",
		"0 IF 1 ELSE 0 ENDIF",
		"1 2 ADD",
		"RETURN DATA_4 0x01020304",
		"PUSHDATA1 0x03 0x010203",
	}

	for i, test := range tests {
		script := mustParseShortForm(test)
		pops, err := parseScript(script)
		if err != nil {
			t.Errorf("test #%d: parseScript failed: %v", i, err)
			continue
		}
		got, err := unparseScript(pops)
		if err != nil {
			t.Errorf("test #%d: unparseScript failed: %v", i, err)
			continue
		}
		if !bytes.Equal(got, script) {
			t.Errorf("test #%d: got %x want %x", i, got, script)
		}
	}
}

// TestRawDataScriptRoundTrip verifies a RAW_DATA carrier, used for opaque
// coinbase input scripts that are not valid script bytecode, emits its
// payload verbatim on unparse rather than being re-encoded as a normal
// opcode/length/data triple.
func TestRawDataScriptRoundTrip(t *testing.T) {
	t.Parallel()

	payload := []byte{0x03, 0xa1, 0x07, 0x09, 0x2f, 0x62, 0x74, 0x63, 0x64, 0x2f}
	pops := NewRawDataScript(payload)

	if !IsRawDataScript(pops) {
		t.Fatal("expected IsRawDataScript to recognize its own wrapper")
	}

	got, err := unparseScript(pops)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("got %x want %x (verbatim payload)", got, payload)
	}
}

// TestParseScriptOversizedPush verifies a push whose declared length exceeds
// MaxScriptElementSize is rejected at parse time rather than accepted and
// left to fail later.
func TestParseScriptOversizedPush(t *testing.T) {
	t.Parallel()

	script := append([]byte{OP_PUSHDATA2, 0x09, 0x02},
		make([]byte, 521)...) // length 0x0209 = 521 > 520
	_, err := parseScript(script)
	if !tstCheckErrorCode(err, ErrElementTooBig) {
		t.Fatalf("got %v, want ErrElementTooBig", err)
	}
}

// TestIsPushOnlyScript verifies IsPushOnlyScript accepts pure data-push
// scripts and rejects anything containing a non-push opcode.
func TestIsPushOnlyScript(t *testing.T) {
	t.Parallel()

	tests := []struct {
		script string
		want   bool
	}{
		{"DATA_4 0x01020304", true},
		{"0 1 2 16 1NEGATE", true},
		{"DATA_4 0x01020304 CHECKSIG", false},
		{"RETURN", false},
	}

	for i, test := range tests {
		got := IsPushOnlyScript(mustParseShortForm(test.script))
		if got != test.want {
			t.Errorf("test #%d: got %v want %v", i, got, test.want)
		}
	}
}

// TestGetScriptClass verifies classification of the standard script forms
// this package recognizes.
func TestGetScriptClass(t *testing.T) {
	t.Parallel()

	pubKey := bytes.Repeat([]byte{0x02}, 33)
	pkHash := bytes.Repeat([]byte{0x01}, 20)
	scriptHash := bytes.Repeat([]byte{0x03}, 20)

	tests := []struct {
		name   string
		script []byte
		want   ScriptClass
	}{
		{
			name:   "pubkey",
			script: mustParseShortForm("DATA_33 0x" + hexString(pubKey) + " CHECKSIG"),
			want:   PubKeyTy,
		},
		{
			name: "pubkeyhash",
			script: mustParseShortForm("DUP HASH160 DATA_20 0x" +
				hexString(pkHash) + " EQUALVERIFY CHECKSIG"),
			want: PubKeyHashTy,
		},
		{
			name: "scripthash",
			script: mustParseShortForm("HASH160 DATA_20 0x" +
				hexString(scriptHash) + " EQUAL"),
			want: ScriptHashTy,
		},
		{
			name:   "nulldata",
			script: mustParseShortForm("RETURN DATA_4 0x01020304"),
			want:   NullDataTy,
		},
		{
			name:   "nonstandard",
			script: mustParseShortForm("1 2 ADD"),
			want:   NonStandardTy,
		},
	}

	for _, test := range tests {
		got := GetScriptClass(test.script)
		if got != test.want {
			t.Errorf("%s: got %v want %v", test.name, got, test.want)
		}
	}
}

// TestCalcSignatureHashSingleOutOfRange verifies the documented all-zero
// digest returned when SIGHASH_SINGLE references an output index past the
// end of the transaction's outputs.
func TestCalcSignatureHashSingleOutOfRange(t *testing.T) {
	t.Parallel()

	tx := &wire.MsgTx{
		Version: 1,
		TxIn: []*wire.TxIn{
			{SignatureScript: nil, Sequence: wire.MaxTxInSequenceNum},
			{SignatureScript: nil, Sequence: wire.MaxTxInSequenceNum},
		},
		TxOut: []*wire.TxOut{
			{Value: 1, PkScript: []byte{OP_TRUE}},
		},
	}

	// Input 1 has no output at index 1 to pair with.
	script := mustParseShortForm("CHECKSIG")
	hash := calcSignatureHash(parseOrPanic(script), SigHashSingle, tx, 1)
	if !bytes.Equal(hash, make([]byte, 32)) {
		t.Fatalf("got %x, want all-zero digest", hash)
	}
}

// TestCalcSignatureHashDeterministic verifies calcSignatureHash returns the
// same digest for the same inputs and a different one after the output
// script used for signing changes.
func TestCalcSignatureHashDeterministic(t *testing.T) {
	t.Parallel()

	tx := &wire.MsgTx{
		Version: 1,
		TxIn: []*wire.TxIn{
			{Sequence: wire.MaxTxInSequenceNum},
		},
		TxOut: []*wire.TxOut{
			{Value: 1, PkScript: []byte{OP_TRUE}},
		},
	}

	hashA := bytes.Repeat([]byte{0x01}, 20)
	hashB := bytes.Repeat([]byte{0x02}, 20)
	scriptA := parseOrPanic(mustParseShortForm("DUP HASH160 DATA_20 0x" +
		hexString(hashA) + " EQUALVERIFY CHECKSIG"))
	scriptB := parseOrPanic(mustParseShortForm("DUP HASH160 DATA_20 0x" +
		hexString(hashB) + " EQUALVERIFY CHECKSIG"))

	h1 := calcSignatureHash(scriptA, SigHashAll, tx, 0)
	h2 := calcSignatureHash(scriptA, SigHashAll, tx, 0)
	if !bytes.Equal(h1, h2) {
		t.Fatalf("expected deterministic digest, got %x and %x", h1, h2)
	}

	h3 := calcSignatureHash(scriptB, SigHashAll, tx, 0)
	if bytes.Equal(h1, h3) {
		t.Fatalf("expected differing digests for differing subscripts")
	}
}

func parseOrPanic(script []byte) []parsedOpcode {
	pops, err := parseScript(script)
	if err != nil {
		panic(err)
	}
	return pops
}

func hexString(b []byte) string {
	const hexDigits = "0123456789abcdef"
	out := make([]byte, len(b)*2)
	for i, v := range b {
		out[i*2] = hexDigits[v>>4]
		out[i*2+1] = hexDigits[v&0x0f]
	}
	return string(out)
}
