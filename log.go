// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"github.com/btcsuite/btclog"
)

// log is a logger that is initialized with no output filters.  This means
// the package will not perform any logging by default until the caller
// requests it.
var log btclog.Logger

// DisableLog disables all library log output.  Logging output is disabled
// by default until UseLogger is called.
func DisableLog() {
	log = btclog.Disabled
}

// UseLogger uses a specified Logger to output package logging info.
func UseLogger(logger btclog.Logger) {
	log = logger
}

func init() {
	DisableLog()
}

// logClosure is used to provide a closure over expensive-to-compute values
// such as a full script disassembly so they are only actually evaluated when
// the trace log level is enabled.
type logClosure func() string

// String invokes the underlying closure and returns the result.
func (c logClosure) String() string {
	return c()
}

// newLogClosure returns a new closure over the passed function which will be
// used to generate a log message when the String method is invoked.
func newLogClosure(c func() string) logClosure {
	return logClosure(c)
}
