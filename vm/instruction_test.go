package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeInstruction(t *testing.T) {
	tests := []struct {
		word    int32
		want    Instruction
		name    string
		pops    int
		inline  int
		wantErr bool
	}{
		{word: 0, want: InstructionLiteral, name: "LITERAL", inline: 1},
		{word: 1, want: InstructionSetHealth, name: "SET_HEALTH", pops: 2},
		{word: 2, want: InstructionSetWisdom, name: "SET_WISDOM", pops: 2},
		{word: 3, want: InstructionSetAgility, name: "SET_AGILITY", pops: 2},
		{word: 4, want: InstructionGetHealth, name: "GET_HEALTH", pops: 1},
		{word: 5, want: InstructionGetWisdom, name: "GET_WISDOM", pops: 1},
		{word: 6, want: InstructionGetAgility, name: "GET_AGILITY", pops: 1},
		{word: 7, want: InstructionAdd, name: "ADD", pops: 2},
		{word: 8, want: InstructionDivide, name: "DIVIDE", pops: 2},
		{word: 9, want: InstructionPlaySound, name: "PLAY_SOUND", pops: 1},
		{word: 10, want: InstructionSpawnParticles, name: "SPAWN_PARTICLES", pops: 1},
		{word: 11, wantErr: true},
		{word: 99, wantErr: true},
		{word: -1, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeInstruction(tt.word)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, DecodeError, KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.name, got.String())
			assert.Equal(t, tt.pops, got.Pops())
			assert.Equal(t, tt.inline, got.InlineOperands())
			assert.Equal(t, 1+tt.inline, got.Width())

			parsed, err := ParseInstruction(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.want, parsed)
		})
	}
}

func TestInstructionsAreDense(t *testing.T) {
	all := Instructions()
	require.Len(t, all, 11)
	for i, inst := range all {
		assert.Equal(t, Instruction(i), inst)
	}
}

func TestParseInstructionUnknown(t *testing.T) {
	_, err := ParseInstruction("JUMP")
	require.Error(t, err)
	assert.Equal(t, DecodeError, KindOf(err))
	assert.Equal(t, "Instruction(42)", Instruction(42).String())
}
