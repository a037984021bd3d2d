// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
)

// multiSigPkScript builds a bare nrequired-of-N multisig output script
// directly from raw pubkey bytes, bypassing the btcutil address wrapper so
// the test exercises CHECKMULTISIG's own stack convention.
func multiSigPkScript(nrequired int, pubKeys ...[]byte) []byte {
	builder := NewScriptBuilder().AddInt64(int64(nrequired))
	for _, pk := range pubKeys {
		builder.AddData(pk)
	}
	builder.AddInt64(int64(len(pubKeys))).AddOp(OP_CHECKMULTISIG)
	script, err := builder.Script()
	if err != nil {
		panic(err)
	}
	return script
}

// TestCheckMultiSigRoundTrip exercises a 2-of-3 bare multisig output end to
// end: signatures from the first two of the three keys, supplied in pubkey
// order, must verify.
func TestCheckMultiSigRoundTrip(t *testing.T) {
	t.Parallel()

	priv1, _ := btcec.NewPrivateKey()
	priv2, _ := btcec.NewPrivateKey()
	priv3, _ := btcec.NewPrivateKey()
	pub1 := priv1.PubKey().SerializeCompressed()
	pub2 := priv2.PubKey().SerializeCompressed()
	pub3 := priv3.PubKey().SerializeCompressed()

	pkScript := multiSigPkScript(2, pub1, pub2, pub3)
	tx := newSpendingTx(nil, pkScript)

	sig1, err := RawTxInSignature(tx, 0, pkScript, SigHashAll, priv1)
	if err != nil {
		t.Fatalf("RawTxInSignature (key 1): %v", err)
	}
	sig2, err := RawTxInSignature(tx, 0, pkScript, SigHashAll, priv2)
	if err != nil {
		t.Fatalf("RawTxInSignature (key 2): %v", err)
	}

	sigScript, err := NewScriptBuilder().AddData(sig1).AddData(sig2).Script()
	if err != nil {
		t.Fatalf("building sigScript: %v", err)
	}
	tx.TxIn[0].SignatureScript = sigScript

	ok, err := Evaluate(sigScript, pkScript, tx, 0, false)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if !ok {
		t.Fatal("expected two valid signatures from the first two keys to satisfy a 2-of-3 multisig")
	}
}

// TestCheckMultiSigExhaustsPubKeys verifies that a signature matching none
// of the pubkeys causes the pubkey cursor to exhaust without a match,
// failing verification rather than erroring.
func TestCheckMultiSigExhaustsPubKeys(t *testing.T) {
	t.Parallel()

	priv1, _ := btcec.NewPrivateKey()
	priv2, _ := btcec.NewPrivateKey()
	outsider, _ := btcec.NewPrivateKey()
	pub1 := priv1.PubKey().SerializeCompressed()
	pub2 := priv2.PubKey().SerializeCompressed()

	pkScript := multiSigPkScript(2, pub1, pub2)
	tx := newSpendingTx(nil, pkScript)

	badSig, err := RawTxInSignature(tx, 0, pkScript, SigHashAll, outsider)
	if err != nil {
		t.Fatalf("RawTxInSignature (outsider): %v", err)
	}
	goodSig, err := RawTxInSignature(tx, 0, pkScript, SigHashAll, priv2)
	if err != nil {
		t.Fatalf("RawTxInSignature (key 2): %v", err)
	}

	sigScript, err := NewScriptBuilder().AddData(badSig).AddData(goodSig).Script()
	if err != nil {
		t.Fatalf("building sigScript: %v", err)
	}
	tx.TxIn[0].SignatureScript = sigScript

	ok, err := Evaluate(sigScript, pkScript, tx, 0, false)
	if ok {
		t.Fatal("expected a signature from a key outside the pubkey set to fail verification")
	}
	if !tstCheckErrorCode(err, ErrEvalFalse) {
		t.Fatalf("got %v, want ErrEvalFalse", err)
	}
}
