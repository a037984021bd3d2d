// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/wire"
)

// newSpendingTx builds a one-input, one-output transaction whose input
// spends prevScript with sigScript.
func newSpendingTx(sigScript, prevScript []byte) *wire.MsgTx {
	return &wire.MsgTx{
		Version: 1,
		TxIn: []*wire.TxIn{
			{
				PreviousOutPoint: wire.OutPoint{Index: 0},
				SignatureScript:  sigScript,
				Sequence:         wire.MaxTxInSequenceNum,
			},
		},
		TxOut: []*wire.TxOut{
			{Value: 1, PkScript: []byte{OP_TRUE}},
		},
		LockTime: 0,
	}
}

// TestEnginePubKeyHashRoundTrip exercises a full pay-to-pubkey-hash sign and
// verify round trip through SignatureScript and Evaluate.
func TestEnginePubKeyHashRoundTrip(t *testing.T) {
	t.Parallel()

	priv, err := btcec.NewPrivateKey()
	if err != nil {
		t.Fatalf("NewPrivateKey: %v", err)
	}
	pubKeyHash := calcHash160(priv.PubKey().SerializeCompressed())
	pkScript, err := payToPubKeyHashScript(pubKeyHash)
	if err != nil {
		t.Fatalf("payToPubKeyHashScript: %v", err)
	}

	tx := newSpendingTx(nil, pkScript)
	sigScript, err := SignatureScript(tx, 0, pkScript, SigHashAll, priv, true)
	if err != nil {
		t.Fatalf("SignatureScript: %v", err)
	}
	tx.TxIn[0].SignatureScript = sigScript

	ok, err := Evaluate(sigScript, pkScript, tx, 0, false)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if !ok {
		t.Fatal("expected a correctly signed pay-to-pubkey-hash input to verify")
	}
}

// TestEnginePubKeyHashWrongKey verifies a signature script produced by the
// wrong key does not authorize the spend: its pubkey no longer hashes to the
// output's pubkey hash, so EQUALVERIFY fails.
func TestEnginePubKeyHashWrongKey(t *testing.T) {
	t.Parallel()

	priv, _ := btcec.NewPrivateKey()
	other, _ := btcec.NewPrivateKey()
	pubKeyHash := calcHash160(priv.PubKey().SerializeCompressed())
	pkScript, _ := payToPubKeyHashScript(pubKeyHash)

	tx := newSpendingTx(nil, pkScript)
	sigScript, err := SignatureScript(tx, 0, pkScript, SigHashAll, other, true)
	if err != nil {
		t.Fatalf("SignatureScript: %v", err)
	}
	tx.TxIn[0].SignatureScript = sigScript

	ok, err := Evaluate(sigScript, pkScript, tx, 0, false)
	if err == nil && ok {
		t.Fatal("expected verification failure for a mismatched key")
	}
}

// TestEngineArithmeticAndConditional exercises the implemented arithmetic
// and conditional opcodes end to end without any signature checking.
func TestEngineArithmeticAndConditional(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		sigScript  string
		pkScript   string
		wantResult bool
	}{
		{
			name:       "add equals expected",
			sigScript:  "2 3",
			pkScript:   "ADD 5 EQUAL",
			wantResult: true,
		},
		{
			name:       "add does not equal expected",
			sigScript:  "2 3",
			pkScript:   "ADD 6 EQUAL",
			wantResult: false,
		},
		{
			name:       "if-else taken true branch",
			sigScript:  "1",
			pkScript:   "IF 1 ELSE 0 ENDIF",
			wantResult: true,
		},
		{
			name:       "if-else taken false branch",
			sigScript:  "0",
			pkScript:   "IF 1 ELSE 0 ENDIF",
			wantResult: false,
		},
		{
			name:       "min of two values",
			sigScript:  "7 3",
			pkScript:   "MIN 3 EQUAL",
			wantResult: true,
		},
	}

	for _, test := range tests {
		tx := newSpendingTx(nil, nil)
		sigScript := mustParseShortForm(test.sigScript)
		pkScript := mustParseShortForm(test.pkScript)
		tx.TxIn[0].SignatureScript = sigScript

		ok, err := Evaluate(sigScript, pkScript, tx, 0, false)
		if test.wantResult {
			if err != nil || !ok {
				t.Errorf("%s: expected success, got ok=%v err=%v",
					test.name, ok, err)
			}
			continue
		}
		if err == nil && ok {
			t.Errorf("%s: expected failure, got success", test.name)
		}
	}
}

// TestEngineScriptHashPushOnlyRequired verifies that a script-hash output's
// signature script must be push-only: even a syntactically valid redeem
// script does not save an input script that also executes an opcode.
func TestEngineScriptHashPushOnlyRequired(t *testing.T) {
	t.Parallel()

	redeemScript := mustParseShortForm("1")
	redeemHash := calcHash160(redeemScript)
	pkScript, err := payToScriptHashScript(redeemHash)
	if err != nil {
		t.Fatalf("payToScriptHashScript: %v", err)
	}

	builder := NewScriptBuilder().AddOp(OP_NOP).AddData(redeemScript)
	sigScript, err := builder.Script()
	if err != nil {
		t.Fatalf("building sigScript: %v", err)
	}

	tx := newSpendingTx(sigScript, pkScript)
	_, err = Evaluate(sigScript, pkScript, tx, 0, true)
	if !tstCheckErrorCode(err, ErrNotPushOnly) {
		t.Fatalf("got %v, want ErrNotPushOnly", err)
	}
}

// TestEngineScriptHashRedeemRuns verifies a push-only signature script that
// supplies a passing redeem script succeeds under BIP16 evaluation.
func TestEngineScriptHashRedeemRuns(t *testing.T) {
	t.Parallel()

	redeemScript := mustParseShortForm("1")
	redeemHash := calcHash160(redeemScript)
	pkScript, err := payToScriptHashScript(redeemHash)
	if err != nil {
		t.Fatalf("payToScriptHashScript: %v", err)
	}

	sigScript, err := NewScriptBuilder().AddData(redeemScript).Script()
	if err != nil {
		t.Fatalf("building sigScript: %v", err)
	}

	tx := newSpendingTx(sigScript, pkScript)
	ok, err := Evaluate(sigScript, pkScript, tx, 0, true)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if !ok {
		t.Fatal("expected push-only signature script with a passing redeem script to verify")
	}
}

// TestEngineTooManyOperations verifies a script exceeding MaxOpsPerScript
// non-push operations fails with ErrTooManyOperations.
func TestEngineTooManyOperations(t *testing.T) {
	t.Parallel()

	builder := NewScriptBuilder()
	for i := 0; i <= MaxOpsPerScript; i++ {
		builder.AddOp(OP_DUP).AddOp(OP_DROP)
	}
	builder.AddOp(OP_TRUE)
	pkScript, err := builder.Script()
	if err != nil {
		t.Fatalf("building pkScript: %v", err)
	}

	tx := newSpendingTx(nil, nil)
	sigScript := mustParseShortForm("1")
	tx.TxIn[0].SignatureScript = sigScript

	_, err = Evaluate(sigScript, pkScript, tx, 0, false)
	if !tstCheckErrorCode(err, ErrTooManyOperations) {
		t.Fatalf("got %v, want ErrTooManyOperations", err)
	}
}
