package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Jdurairaj-hub/wizardvm/asm"
	"github.com/Jdurairaj-hub/wizardvm/vm"
)

func TestDemoProgram(t *testing.T) {
	machine, err := vm.NewVM(
		vm.LoggerOpt(zaptest.NewLogger(t)),
		vm.WizardsOpt(
			vm.Wizard{Health: 10, Wisdom: 20, Agility: 30},
			vm.Wizard{Health: 1, Wisdom: 1, Agility: 1},
		),
	)
	require.NoError(t, err)

	require.NoError(t, machine.Execute(asm.MustAssemble(demoProgram)))
	assert.Empty(t, machine.Stack())
	hp, err := machine.Health(0)
	require.NoError(t, err)
	assert.Equal(t, int32(10+(30+20)/2), hp)
}

func TestProgramSource(t *testing.T) {
	src, err := programSource(options{})
	require.NoError(t, err)
	assert.Equal(t, demoProgram, src)

	src, err = programSource(options{program: "ADD"})
	require.NoError(t, err)
	assert.Equal(t, "ADD", src)

	path := filepath.Join(t.TempDir(), "prog.wiz")
	require.NoError(t, os.WriteFile(path, []byte("LITERAL 1"), 0o600))
	src, err = programSource(options{file: path})
	require.NoError(t, err)
	assert.Equal(t, "LITERAL 1", src)

	_, err = programSource(options{program: "ADD", file: path})
	assert.Error(t, err)
}

func TestLoadConfig(t *testing.T) {
	cfg, err := loadConfig(options{configPath: "wizardvm.example.toml", listen: ":9999", seed: 5})
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.API.Listen)
	assert.Equal(t, int64(5), cfg.Random.Seed)
	require.Len(t, cfg.Wizards, 2)

	_, err = loadConfig(options{logLevel: "shouting"})
	assert.Error(t, err)
}

func TestRunProgram(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := zap.New(core)
	machine, err := vm.NewVM(
		vm.LoggerOpt(l),
		vm.WizardsOpt(vm.Wizard{}, vm.Wizard{}),
	)
	require.NoError(t, err)

	require.NoError(t, runProgram(l, machine, options{program: "LITERAL 1 LITERAL 2 ADD"}))
	assert.Equal(t, []int32{3}, machine.Stack())
	assert.Equal(t, 1, logs.FilterMessage("execution finished").Len())

	err = runProgram(l, machine, options{program: "LITERAL 1 LITERAL 0 DIVIDE"})
	require.Error(t, err)
	assert.Equal(t, vm.ArithmeticError, vm.KindOf(err))
	assert.Equal(t, 1, logs.FilterMessage("execution halted").Len())

	err = runProgram(l, machine, options{program: "LITERAL"})
	require.Error(t, err)
	assert.Equal(t, 1, logs.FilterMessage("assemble program").Len())
}

type countingSyncer struct {
	bytes.Buffer
	syncs int
}

func (s *countingSyncer) Sync() error {
	s.syncs++
	return nil
}

func TestExitSyncsLogger(t *testing.T) {
	out := &countingSyncer{}
	l := zap.New(zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		out,
		zapcore.InfoLevel,
	))

	var code int
	osExit = func(c int) { code = c }
	defer func() { osExit = os.Exit }()

	l.Info("before exit")
	exit(l, 1)
	assert.Equal(t, 1, code)
	assert.Equal(t, 1, out.syncs)
	assert.Contains(t, out.String(), "before exit")
}
