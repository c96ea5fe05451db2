// Package asm converts between the textual form of a wizard program and its
// bytecode.
//
// The textual form is a whitespace separated list of mnemonics. LITERAL is
// followed by one integer written in decimal or with a 0x/0o/0b prefix, and it
// must fit in 32 bits. Mnemonics are case and separator insensitive, so
// "SET_HEALTH", "set_health" and "setHealth" are the same instruction. A '#'
// starts a comment that runs to the end of the line.
package asm

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ccoveille/go-safecast"
	"github.com/stoewer/go-strcase"

	"github.com/Jdurairaj-hub/wizardvm/vm"
)

type token struct {
	text string
	line int
}

func Assemble(src string) ([]int32, error) {
	tokens := tokenize(src)
	program := make([]int32, 0, len(tokens))
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		inst, err := vm.ParseInstruction(strcase.UpperSnakeCase(tok.text))
		if err != nil {
			return nil, fmt.Errorf("line %d: unknown instruction %q", tok.line, tok.text)
		}
		program = append(program, int32(inst))

		for n := 0; n < inst.InlineOperands(); n++ {
			i++
			if i >= len(tokens) {
				return nil, fmt.Errorf("line %d: %s needs an operand", tok.line, inst)
			}
			v, err := parseOperand(tokens[i].text)
			if err != nil {
				return nil, fmt.Errorf("line %d: %s operand: %w", tokens[i].line, inst, err)
			}
			program = append(program, v)
		}
	}
	return program, nil
}

func MustAssemble(src string) []int32 {
	program, err := Assemble(src)
	if err != nil {
		panic(err)
	}
	return program
}

func parseOperand(s string) (int32, error) {
	n, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q", s)
	}
	v, err := safecast.ToInt32(n)
	if err != nil {
		return 0, fmt.Errorf("%d does not fit in 32 bits: %w", n, err)
	}
	return v, nil
}

// tokenize has no line length limit; a whole program often arrives as one line.
func tokenize(src string) []token {
	var out []token
	for i, text := range strings.Split(src, "\n") {
		if idx := strings.IndexByte(text, '#'); idx >= 0 {
			text = text[:idx]
		}
		for _, f := range strings.Fields(text) {
			out = append(out, token{text: f, line: i + 1})
		}
	}
	return out
}

// Disassemble renders program one instruction per line.
func Disassemble(program []int32) (string, error) {
	var sb strings.Builder
	for pc := 0; pc < len(program); {
		inst, err := vm.DecodeInstruction(program[pc])
		if err != nil {
			return "", fmt.Errorf("pc %d: %w", pc, err)
		}
		if pc+inst.Width() > len(program) {
			return "", fmt.Errorf("pc %d: %s is missing its operand", pc, inst)
		}
		sb.WriteString(inst.String())
		for _, operand := range program[pc+1 : pc+inst.Width()] {
			sb.WriteByte(' ')
			sb.WriteString(strconv.FormatInt(int64(operand), 10))
		}
		sb.WriteByte('\n')
		pc += inst.Width()
	}
	return sb.String(), nil
}
