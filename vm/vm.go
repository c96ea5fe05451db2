package vm

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/qmuntal/stateless"
	"go.uber.org/zap"
)

type VM struct {
	// program being executed and the index of the next word to decode
	program []int32
	pc      int
	steps   int

	stack    *Stack
	registry *Registry
	effects  Effects
	status   *stateless.StateMachine
	lastErr  error

	logger *zap.Logger

	// construction only
	wizards   *[NumWizards]Wizard
	random    RandomSource
	minAttr   int32
	maxAttr   int32
	stackOpts []StackOpt
}

type VMOpt func(*VM) *VM

func LoggerOpt(l *zap.Logger) VMOpt {
	return func(vm *VM) *VM {
		vm.logger = l
		return vm
	}
}

// WizardsOpt supplies explicit initial wizards instead of random ones.
func WizardsOpt(first, second Wizard) VMOpt {
	return func(vm *VM) *VM {
		vm.wizards = &[NumWizards]Wizard{first, second}
		return vm
	}
}

func RandomOpt(src RandomSource) VMOpt {
	return func(vm *VM) *VM {
		vm.random = src
		return vm
	}
}

func RandomRangeOpt(min, max int32) VMOpt {
	return func(vm *VM) *VM {
		vm.minAttr, vm.maxAttr = min, max
		return vm
	}
}

func EffectsOpt(e Effects) VMOpt {
	return func(vm *VM) *VM {
		vm.effects = e
		return vm
	}
}

func StackOpts(opts ...StackOpt) VMOpt {
	return func(vm *VM) *VM {
		vm.stackOpts = append(vm.stackOpts, opts...)
		return vm
	}
}

func NewVM(opts ...VMOpt) (*VM, error) {
	vm := &VM{
		logger:  zap.L(),
		minAttr: DefaultMinAttribute,
		maxAttr: DefaultMaxAttribute,
		status:  newStatusMachine(),
	}

	for _, opt := range opts {
		vm = opt(vm)
	}

	vm.logger = vm.logger.Named("vm")
	vm.stack = NewStack(vm.stackOpts...)

	if vm.effects == nil {
		vm.effects = NewLogEffects(vm.logger)
	}

	if vm.wizards != nil {
		vm.registry = NewRegistry(vm.wizards[0], vm.wizards[1])
	} else {
		if err := ValidateRandomRange(vm.minAttr, vm.maxAttr); err != nil {
			return nil, fmt.Errorf("new vm: %w", err)
		}
		if vm.random == nil {
			vm.random = defaultRandomSource()
		}
		vm.registry = RandomRegistry(vm.random, vm.minAttr, vm.maxAttr)
	}
	vm.wizards = nil

	return vm, nil
}

// Execute runs program from its first word to its end, or until the first
// fatal error. The operand stack is cleared on entry; wizards persist.
func (vm *VM) Execute(program []int32) error {
	if err := vm.status.Fire(triggerStart); err != nil {
		return fmt.Errorf("vm execute: %w",
			errors.Wrapf(err, "cannot start while %s", vm.Status()))
	}

	vm.program = program
	vm.pc = 0
	vm.steps = 0
	vm.lastErr = nil
	vm.stack.Reset()

	for vm.pc < len(vm.program) {
		if err := vm.step(); err != nil {
			vm.lastErr = withProgramCounter(err, vm.pc)
			vm.logger.Debug("halted",
				zap.Int("pc", vm.pc),
				zap.Stringer("kind", KindOf(err)),
				zap.Error(err),
			)
			vm.fire(triggerFail)
			return fmt.Errorf("vm execute: %w", vm.lastErr)
		}
	}

	vm.fire(triggerFinish)
	return nil
}

func (vm *VM) fire(trigger string) {
	if err := vm.status.Fire(trigger); err != nil {
		// only reachable if the transition table is broken
		vm.logger.Error("status transition", zap.String("trigger", trigger), zap.Error(err))
	}
}

func (vm *VM) step() error {
	inst, err := DecodeInstruction(vm.program[vm.pc])
	if err != nil {
		return err
	}

	err = vm.Exec(inst)
	if err != nil {
		return KindOf(err).Wrapf(err, "%s", inst)
	}

	vm.steps++
	vm.logger.Debug("executed",
		zap.Int("pc", vm.pc),
		zap.Stringer("instruction", inst),
		zap.Int32s("stack", vm.stack.Values()),
	)
	vm.pc += inst.Width()
	return nil
}

// Exec applies one decoded instruction at the current program counter.
func (vm *VM) Exec(inst Instruction) error {
	switch inst {
	case InstructionLiteral:
		if vm.pc+1 >= len(vm.program) {
			return DecodeError.Errorf("missing inline operand at %d", vm.pc+1)
		}
		return vm.stack.Push(vm.program[vm.pc+1])

	case InstructionSetHealth, InstructionSetWisdom, InstructionSetAgility:
		ops, err := vm.operands(inst)
		if err != nil {
			return err
		}
		amount, wizard := ops[0], ops[1]
		attr, _ := inst.attribute()
		if err := vm.registry.Set(wizard, attr, amount); err != nil {
			return err
		}
		return vm.stack.Drop(len(ops))

	case InstructionGetHealth, InstructionGetWisdom, InstructionGetAgility:
		ops, err := vm.operands(inst)
		if err != nil {
			return err
		}
		attr, _ := inst.attribute()
		v, err := vm.registry.Get(ops[0], attr)
		if err != nil {
			return err
		}
		if err := vm.stack.Drop(len(ops)); err != nil {
			return err
		}
		return vm.stack.Push(v)

	case InstructionAdd, InstructionDivide:
		ops, err := vm.operands(inst)
		if err != nil {
			return err
		}
		a, b := ops[0], ops[1]
		v, err := arithmetic(inst, a, b)
		if err != nil {
			return err
		}
		vm.logger.Debug("arithmetic",
			zap.Stringer("instruction", inst),
			zap.Int32("a", a),
			zap.Int32("b", b),
			zap.Int32("result", v),
		)
		if err := vm.stack.Drop(len(ops)); err != nil {
			return err
		}
		return vm.stack.Push(v)

	case InstructionPlaySound, InstructionSpawnParticles:
		ops, err := vm.operands(inst)
		if err != nil {
			return err
		}
		id, err := ParseActorID(ops[0])
		if err != nil {
			return err
		}
		if err := vm.stack.Drop(len(ops)); err != nil {
			return err
		}
		action, _ := inst.action()
		vm.trigger(id, action)
		return nil
	}
	return DecodeError.Errorf("unhandled instruction %s", inst)
}

// operands reads the instruction's stack operands, top first, without removing
// them. A failing instruction leaves the stack as it found it.
func (vm *VM) operands(inst Instruction) ([]int32, error) {
	n := inst.Pops()
	if vm.stack.Len() < n {
		return nil, StackUnderflow.Errorf("needs %d operands, stack holds %d", n, vm.stack.Len())
	}
	ops := make([]int32, n)
	for i := range ops {
		v, err := vm.stack.read(vm.stack.Len() - 1 - i)
		if err != nil {
			return nil, err
		}
		ops[i] = v
	}
	return ops, nil
}

// arithmetic wraps on overflow. For DIVIDE, a is the divisor.
func arithmetic(inst Instruction, a, b int32) (int32, error) {
	switch inst {
	case InstructionAdd:
		return a + b, nil
	case InstructionDivide:
		if a == 0 {
			return 0, ArithmeticError.Errorf("division of %d by zero", b)
		}
		return b / a, nil
	}
	return 0, DecodeError.Errorf("%s is not arithmetic", inst)
}

func (vm *VM) trigger(id ActorID, action Action) {
	defer func() {
		if r := recover(); r != nil {
			vm.logger.Warn("effect panicked",
				zap.Stringer("action", action),
				zap.Int32("wizard", int32(id)),
				zap.Any("panic", r),
			)
		}
	}()

	var err error
	switch action {
	case ActionPlaySound:
		err = vm.effects.PlaySound(id)
	case ActionSpawnParticles:
		err = vm.effects.SpawnParticles(id)
	}
	if err != nil {
		vm.logger.Warn("effect failed",
			zap.Stringer("action", action),
			zap.Int32("wizard", int32(id)),
			zap.Error(err),
		)
	}
}

func (vm *VM) Status() Status {
	return vm.status.MustState().(Status)
}

// LastError is the error that halted the most recent execution, if any.
func (vm *VM) LastError() error {
	return vm.lastErr
}

func (vm *VM) ProgramCounter() int {
	return vm.pc
}

// Steps is the number of instructions completed by the most recent execution.
func (vm *VM) Steps() int {
	return vm.steps
}

func (vm *VM) Stack() []int32 {
	return vm.stack.Values()
}

func (vm *VM) Wizards() [NumWizards]Wizard {
	return vm.registry.Wizards()
}

func (vm *VM) Wizard(id int32) (Wizard, error) {
	return vm.registry.Wizard(id)
}

func (vm *VM) Attribute(id int32, a Attribute) (int32, error) {
	return vm.registry.Get(id, a)
}

func (vm *VM) SetAttribute(id int32, a Attribute, v int32) error {
	return vm.registry.Set(id, a, v)
}

func (vm *VM) Health(id int32) (int32, error) {
	return vm.registry.Get(id, AttributeHealth)
}

func (vm *VM) SetHealth(id, amount int32) error {
	return vm.registry.Set(id, AttributeHealth, amount)
}

func (vm *VM) Wisdom(id int32) (int32, error) {
	return vm.registry.Get(id, AttributeWisdom)
}

func (vm *VM) SetWisdom(id, amount int32) error {
	return vm.registry.Set(id, AttributeWisdom, amount)
}

func (vm *VM) Agility(id int32) (int32, error) {
	return vm.registry.Get(id, AttributeAgility)
}

func (vm *VM) SetAgility(id, amount int32) error {
	return vm.registry.Set(id, AttributeAgility, amount)
}
