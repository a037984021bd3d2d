// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

// Conditional execution states. A frame pushed by IF/NOTIF is OpCondTrue or
// OpCondFalse depending on whether its branch is currently executing;
// OpCondSkip marks a frame nested inside an already-failed outer branch, so
// ELSE/ENDIF still balance without re-evaluating anything underneath it.
const (
	OpCondFalse = 0
	OpCondTrue  = 1
	OpCondSkip  = 2
)

// conditionalStack tracks the nested IF/NOTIF/ELSE/ENDIF state of a running
// script. The topmost entry describes the innermost conditional; everything
// below it is frozen for the duration of that conditional.
type conditionalStack struct {
	stack []int
}

// depth returns the number of open conditionals.
func (c *conditionalStack) depth() int {
	return len(c.stack)
}

// open pushes a new conditional frame recording whether its branch executes.
// A branch inside an already-failed outer conditional is always pushed as
// OpCondSkip regardless of v, since nothing inside it may execute.
func (c *conditionalStack) open(v bool) {
	if c.hasFailedBranches() {
		c.stack = append(c.stack, OpCondSkip)
		return
	}
	if v {
		c.stack = append(c.stack, OpCondTrue)
		return
	}
	c.stack = append(c.stack, OpCondFalse)
}

// flip inverts the top frame in place (ELSE), unless it was marked as
// belonging to an already-failed outer branch.
func (c *conditionalStack) flip() error {
	if c.depth() == 0 {
		str := "encountered unbalanced conditional"
		return scriptError(ErrUnbalancedConditional, str)
	}
	idx := c.depth() - 1
	switch c.stack[idx] {
	case OpCondTrue:
		c.stack[idx] = OpCondFalse
	case OpCondFalse:
		c.stack[idx] = OpCondTrue
	case OpCondSkip:
		// Remains skipped; nothing below it changes.
	}
	return nil
}

// close pops the top frame (ENDIF).
func (c *conditionalStack) close() error {
	if c.depth() == 0 {
		str := "encountered unbalanced conditional"
		return scriptError(ErrUnbalancedConditional, str)
	}
	c.stack = c.stack[:c.depth()-1]
	return nil
}

// closed reports whether there is no open conditional.
func (c *conditionalStack) closed() bool {
	return c.depth() == 0
}

// hasFailedBranches reports whether any open conditional frame is currently
// on its non-executing branch. While true, every opcode other than the four
// condition opcodes themselves is skipped without effect.
func (c *conditionalStack) hasFailedBranches() bool {
	for _, v := range c.stack {
		if v != OpCondTrue {
			return true
		}
	}
	return false
}
