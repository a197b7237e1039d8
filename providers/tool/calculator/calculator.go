package calculator

import (
	"context"
	"errors"
	"fmt"

	"github.com/leofalp/toolloop/providers/tool"
)

// ErrDivisionByZero is returned by [Calc] when dividing by zero.
var ErrDivisionByZero = errors.New("division by zero")

// New returns a [tool.Toolkit] named "Calculator" exposing a single
// "calculate" activity backed by [Calc].
func New(opts ...tool.Option) *tool.Toolkit {
	base := []tool.Option{
		tool.WithDescription("A simple calculator to perform basic arithmetic operations like addition, subtraction, multiplication, and division."),
		tool.WithActivities(tool.MustActivity(tool.NewActivity("calculate", Calc,
			tool.WithActivityDescription("Applies Op to the operands A and B and returns the result."),
		))),
	}
	return tool.New("Calculator", append(base, opts...)...)
}

// Calc performs the arithmetic operation specified by req.Op on the operands
// req.A and req.B. Supported operations are "add"/"+", "sub"/"-",
// "mul"/"*", and "div"/"/".
//
// Example:
//
//	result, err := Calc(ctx, calculator.Input{A: 10, B: 4, Op: "div"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Result) // 2.5
func Calc(ctx context.Context, req Input) (Output, error) {
	var result float64
	switch req.Op {
	case "add", "+":
		result = req.A + req.B
	case "sub", "-":
		result = req.A - req.B
	case "mul", "*":
		result = req.A * req.B
	case "div", "/":
		if req.B == 0 {
			return Output{}, ErrDivisionByZero
		}
		result = req.A / req.B
	default:
		return Output{}, fmt.Errorf("unsupported operation %q", req.Op)
	}
	return Output{Result: result}, nil
}

// Input holds the two operands and the operation to be applied by [Calc].
type Input struct {
	A  float64 `json:"A"  jsonschema:"description=First operand,required"`
	B  float64 `json:"B"  jsonschema:"description=Second operand,required"`
	Op string  `json:"Op" jsonschema:"description=Operation type,enum=add,enum=sub,enum=mul,enum=div,enum=+,enum=-,enum=*,enum=/,required"`
}

// Output carries the single floating-point result produced by [Calc].
type Output struct {
	Result float64 `json:"result"  jsonschema:"description=The result of the calculation"`
}
