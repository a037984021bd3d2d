// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"bytes"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
)

// zeroHash is the distinguished all-zero digest that signals "do not
// verify; signature check fails" for an out-of-range SIGHASH_SINGLE index.
var zeroHash [32]byte

// verifySignature reports whether sig (DER-encoded) is a valid ECDSA
// signature over digest for pubKey. Malformed encodings verify false rather
// than erroring, matching the behavior of a failed signature check.
func verifySignature(pubKeyBytes, sig, digest []byte) bool {
	pubKey, err := btcec.ParsePubKey(pubKeyBytes)
	if err != nil {
		return false
	}
	parsedSig, err := ecdsa.ParseDERSignature(sig)
	if err != nil {
		return false
	}
	return parsedSig.Verify(digest, pubKey)
}

// checkSig pops pubkey then signature off the stack and reports whether the
// signature verifies, without pushing a result.
func checkSig(vm *Engine) (bool, error) {
	pubKeyBytes, err := vm.dstack.PopByteArray()
	if err != nil {
		return false, err
	}
	fullSigBytes, err := vm.dstack.PopByteArray()
	if err != nil {
		return false, err
	}
	if len(fullSigBytes) == 0 {
		return false, nil
	}

	hashType := SigHashType(fullSigBytes[len(fullSigBytes)-1])
	sigBytes := fullSigBytes[:len(fullSigBytes)-1]

	script := removeOpcode(removeOpcodeByData(vm.subScript(), fullSigBytes),
		OP_CODESEPARATOR)
	hash := calcSignatureHash(script, hashType, &vm.tx, vm.txIdx)
	if bytes.Equal(hash, zeroHash[:]) {
		return false, nil
	}

	return verifySignature(pubKeyBytes, sigBytes, hash), nil
}

// opcodeCheckSig pushes the boolean result of a single-signature
// verification against the scriptcode derived from the current position.
//
// Stack transformation: [... signature pubkey] -> [... bool]
func opcodeCheckSig(op *opcode, data []byte, vm *Engine) error {
	ok, err := checkSig(vm)
	if err != nil {
		return err
	}
	vm.dstack.PushBool(ok)
	return nil
}

// opcodeCheckSigVerify is the verify-and-fail-on-false form of CHECKSIG.
//
// Stack transformation: [... signature pubkey] -> [...]
func opcodeCheckSigVerify(op *opcode, data []byte, vm *Engine) error {
	ok, err := checkSig(vm)
	if err != nil {
		return err
	}
	if !ok {
		return scriptError(ErrCheckSigVerify, "CHECKSIGVERIFY failed")
	}
	return nil
}

// checkMultiSig implements the CHECKMULTISIG family: pop the pubkey
// section, then the signature section, then walk the signatures in order
// against the pubkeys in order, requiring every signature to match some
// pubkey without reusing one.
func checkMultiSig(vm *Engine) (bool, error) {
	numPubKeys, err := vm.dstack.PopInt()
	if err != nil {
		return false, err
	}
	numKeys := int(numPubKeys.Int64())
	if numKeys < 0 {
		return false, scriptError(ErrInvalidPubKeyCount,
			"negative pubkey count in CHECKMULTISIG")
	}
	if numKeys > MaxPubKeysPerMultiSig {
		return false, scriptError(ErrInvalidPubKeyCount,
			"pubkey count in CHECKMULTISIG exceeds maximum")
	}

	pubKeys := make([][]byte, 0, numKeys)
	for i := 0; i < numKeys; i++ {
		pubKey, err := vm.dstack.PopByteArray()
		if err != nil {
			return false, err
		}
		pubKeys = append(pubKeys, pubKey)
	}

	numSignatures, err := vm.dstack.PopInt()
	if err != nil {
		return false, err
	}
	numSigs := int(numSignatures.Int64())
	if numSigs < 0 {
		return false, scriptError(ErrInvalidSignatureCount,
			"negative signature count in CHECKMULTISIG")
	}
	if numSigs > numKeys {
		return false, scriptError(ErrInvalidSignatureCount,
			"more signatures than pubkeys in CHECKMULTISIG")
	}

	signatures := make([][]byte, 0, numSigs)
	for i := 0; i < numSigs; i++ {
		sig, err := vm.dstack.PopByteArray()
		if err != nil {
			return false, err
		}
		signatures = append(signatures, sig)
	}

	script := removeOpcode(vm.subScript(), OP_CODESEPARATOR)
	for _, sig := range signatures {
		script = removeOpcodeByData(script, sig)
	}

	pubKeyIdx := 0
	for _, fullSig := range signatures {
		if len(fullSig) == 0 {
			return false, nil
		}
		hashType := SigHashType(fullSig[len(fullSig)-1])
		sigBytes := fullSig[:len(fullSig)-1]
		hash := calcSignatureHash(script, hashType, &vm.tx, vm.txIdx)

		matched := false
		for !matched && pubKeyIdx < len(pubKeys) {
			pubKey := pubKeys[pubKeyIdx]
			pubKeyIdx++
			if bytes.Equal(hash, zeroHash[:]) {
				continue
			}
			if verifySignature(pubKey, sigBytes, hash) {
				matched = true
			}
		}
		if !matched {
			return false, nil
		}
	}

	return true, nil
}

// opcodeCheckMultiSig pushes the boolean result of checkMultiSig.
//
// Stack transformation:
// [... signatures... numsigs pubkeys... numpubkeys] -> [... bool]
func opcodeCheckMultiSig(op *opcode, data []byte, vm *Engine) error {
	ok, err := checkMultiSig(vm)
	if err != nil {
		return err
	}
	vm.dstack.PushBool(ok)
	return nil
}

// opcodeCheckMultiSigVerify is the verify-and-fail-on-false form of
// CHECKMULTISIG.
//
// Stack transformation:
// [... signatures... numsigs pubkeys... numpubkeys] -> [...]
func opcodeCheckMultiSigVerify(op *opcode, data []byte, vm *Engine) error {
	ok, err := checkMultiSig(vm)
	if err != nil {
		return err
	}
	if !ok {
		return scriptError(ErrCheckMultiSigVerify, "CHECKMULTISIGVERIFY failed")
	}
	return nil
}
