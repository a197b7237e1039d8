// Package calculator provides a locally-executed arithmetic tool. It supports
// the four basic operations over floating-point operands.
//
// [New] returns a ready-to-use [tool.Toolkit] with a "calculate" activity.
// The underlying function is exported as [Calc] for direct use.
package calculator
