// Package stack turns located tokens into stack-machine operations and runs
// them.
package stack

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/bububa/svlex/lexer"
)

type OpKind int

const (
	OpPush OpKind = iota
	OpPlus
	OpMinus
	OpEqual
	OpGreater
	OpDup
	OpDump
	OpIf
	OpElse
	OpEnd
	OpWhile
	OpDo
)

var opNames = [...]string{
	OpPush:    "push",
	OpPlus:    "plus",
	OpMinus:   "minus",
	OpEqual:   "equal",
	OpGreater: "greater",
	OpDup:     "dup",
	OpDump:    "dump",
	OpIf:      "if",
	OpElse:    "else",
	OpEnd:     "end",
	OpWhile:   "while",
	OpDo:      "do",
}

var words = map[string]OpKind{
	"+":     OpPlus,
	"-":     OpMinus,
	"=":     OpEqual,
	">":     OpGreater,
	"dup":   OpDup,
	".":     OpDump,
	"if":    OpIf,
	"else":  OpElse,
	"end":   OpEnd,
	"while": OpWhile,
	"do":    OpDo,
}

func (k OpKind) String() string {
	if k >= 0 && int(k) < len(opNames) {
		return opNames[k]
	}
	return "OpKind(" + strconv.Itoa(int(k)) + ")"
}

// Op is a single operation and the place its word came from. Jump is the
// index of the next op to run when a block op transfers control; Parse
// fills it in.
type Op struct {
	Kind  OpKind
	Value int64
	Jump  int
	Loc   lexer.Location
}

var (
	ErrStackUnderflow = errors.New("stack underflow")
	ErrOverflow       = errors.New("integer overflow")
	ErrUnmatchedBlock = errors.New("unmatched block")
)

// ParseError reports a word that is not an operation, or a block word
// without its partner.
type ParseError struct {
	Loc  lexer.Location
	Word string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %v", e.Loc, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parse converts tokens into operations and links every if/else/while/do
// to the op that closes it. It stops at the first word that is neither an
// operator nor an integer, and at the first block that does not pair up.
func Parse(tokens []lexer.Located) ([]Op, error) {
	ops := make([]Op, 0, len(tokens))
	for _, tok := range tokens {
		op := Op{Loc: tok.Location}
		if kind, ok := words[tok.Text]; ok {
			op.Kind = kind
		} else {
			v, err := strconv.ParseInt(tok.Text, 10, 64)
			if err != nil {
				return nil, &ParseError{Loc: tok.Location, Word: tok.Text, Err: err}
			}
			op.Kind = OpPush
			op.Value = v
		}
		ops = append(ops, op)
	}
	if err := crossreference(ops); err != nil {
		return nil, err
	}
	return ops, nil
}

func unmatched(op Op, format string, args ...any) error {
	return &ParseError{
		Loc:  op.Loc,
		Word: op.Kind.String(),
		Err:  fmt.Errorf("%w: "+format, append([]any{ErrUnmatchedBlock}, args...)...),
	}
}

// crossreference resolves block jumps in place. An if jumps past its else,
// or to its end; an else jumps to its end; an end closing a while loop jumps
// back to the while, and the loop's do jumps past that end.
func crossreference(ops []Op) error {
	var blocks []int
	for ip := range ops {
		switch ops[ip].Kind {
		case OpIf, OpWhile:
			blocks = append(blocks, ip)
		case OpElse:
			if len(blocks) == 0 || ops[blocks[len(blocks)-1]].Kind != OpIf {
				return unmatched(ops[ip], "else without if")
			}
			ops[blocks[len(blocks)-1]].Jump = ip + 1
			blocks[len(blocks)-1] = ip
		case OpDo:
			if len(blocks) == 0 || ops[blocks[len(blocks)-1]].Kind != OpWhile {
				return unmatched(ops[ip], "do without while")
			}
			ops[ip].Jump = blocks[len(blocks)-1]
			blocks[len(blocks)-1] = ip
		case OpEnd:
			if len(blocks) == 0 {
				return unmatched(ops[ip], "end without an open block")
			}
			open := blocks[len(blocks)-1]
			blocks = blocks[:len(blocks)-1]
			switch ops[open].Kind {
			case OpIf, OpElse:
				ops[open].Jump = ip
				ops[ip].Jump = ip + 1
			case OpDo:
				ops[ip].Jump = ops[open].Jump
				ops[open].Jump = ip + 1
			default:
				return unmatched(ops[ip], "end closes %s without do", ops[open].Kind)
			}
		}
	}
	if len(blocks) > 0 {
		op := ops[blocks[len(blocks)-1]]
		return unmatched(op, "%s is never closed", op.Kind)
	}
	return nil
}

// Simulate runs ops and writes every dumped value to w, one per line. Values
// dumped before a failure are still written. Comparisons push 1 for true and
// 0 for false; if and do take their branch on any non-zero value. Addition
// or subtraction leaving the int64 range fails with ErrOverflow.
func Simulate(ctx context.Context, ops []Op, w io.Writer) error {
	bw := bufio.NewWriter(w)
	err := simulate(ctx, ops, bw)
	if ferr := bw.Flush(); err == nil {
		err = ferr
	}
	return err
}

func simulate(ctx context.Context, ops []Op, bw *bufio.Writer) error {
	var stack []int64
	pop := func(op Op) (int64, error) {
		if len(stack) == 0 {
			return 0, fmt.Errorf("%s: %s: %w", op.Loc, op.Kind, ErrStackUnderflow)
		}
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return v, nil
	}
	pop2 := func(op Op) (a, b int64, err error) {
		if b, err = pop(op); err != nil {
			return
		}
		a, err = pop(op)
		return
	}
	for ip := 0; ip < len(ops); {
		if err := ctx.Err(); err != nil {
			return err
		}
		op := ops[ip]
		ip++
		switch op.Kind {
		case OpPush:
			stack = append(stack, op.Value)
		case OpPlus, OpMinus, OpEqual, OpGreater:
			a, b, err := pop2(op)
			if err != nil {
				return err
			}
			v, err := binary(op, a, b)
			if err != nil {
				return err
			}
			stack = append(stack, v)
		case OpDup:
			v, err := pop(op)
			if err != nil {
				return err
			}
			stack = append(stack, v, v)
		case OpDump:
			v, err := pop(op)
			if err != nil {
				return err
			}
			bw.WriteString(strconv.FormatInt(v, 10))
			bw.WriteByte('\n')
		case OpIf, OpDo:
			v, err := pop(op)
			if err != nil {
				return err
			}
			if v == 0 {
				ip = op.Jump
			}
		case OpElse, OpEnd:
			ip = op.Jump
		case OpWhile:
		default:
			return fmt.Errorf("%s: unknown op %s", op.Loc, op.Kind)
		}
	}
	return nil
}

// binary applies op to a and b, where b was on top of the stack.
func binary(op Op, a, b int64) (int64, error) {
	switch op.Kind {
	case OpPlus:
		c := a + b
		if (b > 0 && c < a) || (b < 0 && c > a) {
			return 0, fmt.Errorf("%s: %s: %w", op.Loc, op.Kind, ErrOverflow)
		}
		return c, nil
	case OpMinus:
		c := a - b
		if (b > 0 && c > a) || (b < 0 && c < a) {
			return 0, fmt.Errorf("%s: %s: %w", op.Loc, op.Kind, ErrOverflow)
		}
		return c, nil
	case OpEqual:
		return boolInt(a == b), nil
	case OpGreater:
		return boolInt(a > b), nil
	}
	return 0, fmt.Errorf("%s: unknown op %s", op.Loc, op.Kind)
}

func boolInt(ok bool) int64 {
	if ok {
		return 1
	}
	return 0
}
