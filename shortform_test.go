// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// shortFormOpcodeByName extends the production opcodeByName registry with
// OP_-stripped short forms ("CHECKSIG" alongside "OP_CHECKSIG"), for use by
// the short-form script assembler below.
var shortFormOpcodeByName = make(map[string]byte)

func init() {
	for _, op := range opcodeArray {
		shortFormOpcodeByName[op.name] = op.value
		short := strings.TrimPrefix(op.name, "OP_")
		if _, exists := shortFormOpcodeByName[short]; !exists {
			shortFormOpcodeByName[short] = op.value
		}
	}
	// OP_FALSE and OP_TRUE are aliases already present via OP_0/OP_1.
	shortFormOpcodeByName["TRUE"] = OP_TRUE
	shortFormOpcodeByName["FALSE"] = OP_FALSE
	shortFormOpcodeByName["OP_TRUE"] = OP_TRUE
	shortFormOpcodeByName["OP_FALSE"] = OP_FALSE
}

// parseShortForm parses a whitespace-separated human-readable script, such
// as "DUP HASH160 DATA_20 0x0102...20 EQUALVERIFY CHECKSIG", into its raw
// byte encoding. Each token is either a hex literal beginning with "0x",
// taken verbatim, or an opcode mnemonic looked up in shortFormOpcodeByName.
func parseShortForm(script string) ([]byte, error) {
	var result []byte
	for _, tok := range strings.Fields(script) {
		if strings.HasPrefix(tok, "0x") {
			data, err := hex.DecodeString(tok[2:])
			if err != nil {
				return nil, fmt.Errorf("bad hex token %q: %v", tok, err)
			}
			result = append(result, data...)
			continue
		}
		val, ok := shortFormOpcodeByName[tok]
		if !ok {
			return nil, fmt.Errorf("unrecognized opcode token %q", tok)
		}
		result = append(result, val)
	}
	return result, nil
}

// mustParseShortForm is parseShortForm for use in test tables, where a
// malformed literal script indicates a bug in the test itself.
func mustParseShortForm(script string) []byte {
	s, err := parseShortForm(script)
	if err != nil {
		panic("invalid test script: " + err.Error())
	}
	return s
}

// hexToBytes decodes a hex string for use in test tables, panicking on a
// malformed literal.
func hexToBytes(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic("invalid test hex: " + err.Error())
	}
	return b
}
