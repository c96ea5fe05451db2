package vm

import "fmt"

type Instruction int32

const (
	InstructionLiteral        Instruction = iota // 0  - push the next program word
	InstructionSetHealth                         // 1  - pop amount, wizard
	InstructionSetWisdom                         // 2  - pop amount, wizard
	InstructionSetAgility                        // 3  - pop amount, wizard
	InstructionGetHealth                         // 4  - pop wizard
	InstructionGetWisdom                         // 5  - pop wizard
	InstructionGetAgility                        // 6  - pop wizard
	InstructionAdd                               // 7  - pop a, b; push a + b
	InstructionDivide                            // 8  - pop a, b; push b / a
	InstructionPlaySound                         // 9  - pop wizard
	InstructionSpawnParticles                    // 10 - pop wizard
)

type instructionInfo struct {
	name   string
	pops   int // operands taken from the stack
	inline int // operands taken from the program
}

var instructionTable = [...]instructionInfo{
	InstructionLiteral:        {name: "LITERAL", inline: 1},
	InstructionSetHealth:      {name: "SET_HEALTH", pops: 2},
	InstructionSetWisdom:      {name: "SET_WISDOM", pops: 2},
	InstructionSetAgility:     {name: "SET_AGILITY", pops: 2},
	InstructionGetHealth:      {name: "GET_HEALTH", pops: 1},
	InstructionGetWisdom:      {name: "GET_WISDOM", pops: 1},
	InstructionGetAgility:     {name: "GET_AGILITY", pops: 1},
	InstructionAdd:            {name: "ADD", pops: 2},
	InstructionDivide:         {name: "DIVIDE", pops: 2},
	InstructionPlaySound:      {name: "PLAY_SOUND", pops: 1},
	InstructionSpawnParticles: {name: "SPAWN_PARTICLES", pops: 1},
}

var instructionsByName = func() map[string]Instruction {
	m := make(map[string]Instruction, len(instructionTable))
	for i, info := range instructionTable {
		m[info.name] = Instruction(i)
	}
	return m
}()

// DecodeInstruction maps a program word to its instruction. Words outside the
// instruction set yield a DecodeError.
func DecodeInstruction(word int32) (Instruction, error) {
	if word < 0 || int(word) >= len(instructionTable) {
		return 0, DecodeError.Errorf("unrecognized opcode %d", word)
	}
	return Instruction(word), nil
}

// ParseInstruction looks up an instruction by its mnemonic, e.g. "SET_HEALTH".
func ParseInstruction(name string) (Instruction, error) {
	inst, ok := instructionsByName[name]
	if !ok {
		return 0, DecodeError.Errorf("unrecognized mnemonic %q", name)
	}
	return inst, nil
}

func Instructions() []Instruction {
	out := make([]Instruction, len(instructionTable))
	for i := range instructionTable {
		out[i] = Instruction(i)
	}
	return out
}

func (i Instruction) valid() bool {
	return i >= 0 && int(i) < len(instructionTable)
}

func (i Instruction) String() string {
	if !i.valid() {
		return fmt.Sprintf("Instruction(%d)", int32(i))
	}
	return instructionTable[i].name
}

// Pops is the number of operands the instruction takes from the stack.
func (i Instruction) Pops() int {
	if !i.valid() {
		return 0
	}
	return instructionTable[i].pops
}

// InlineOperands is the number of program words following the opcode that
// belong to the instruction.
func (i Instruction) InlineOperands() int {
	if !i.valid() {
		return 0
	}
	return instructionTable[i].inline
}

// Width is the number of program words the instruction occupies.
func (i Instruction) Width() int {
	return 1 + i.InlineOperands()
}

func (i Instruction) attribute() (Attribute, bool) {
	switch i {
	case InstructionSetHealth, InstructionGetHealth:
		return AttributeHealth, true
	case InstructionSetWisdom, InstructionGetWisdom:
		return AttributeWisdom, true
	case InstructionSetAgility, InstructionGetAgility:
		return AttributeAgility, true
	}
	return 0, false
}

func (i Instruction) action() (Action, bool) {
	switch i {
	case InstructionPlaySound:
		return ActionPlaySound, true
	case InstructionSpawnParticles:
		return ActionSpawnParticles, true
	}
	return 0, false
}
