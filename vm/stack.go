package vm

type Stack struct {
	data []int32

	// zero means unbounded
	depth int
}

type StackOpt func(*Stack) *Stack

func MaxStack(max int) StackOpt {
	return func(s *Stack) *Stack {
		s.depth = max
		return s
	}
}

func NewStack(opts ...StackOpt) *Stack {
	s := &Stack{}
	for _, opt := range opts {
		s = opt(s)
	}
	s.data = make([]int32, 0, s.initialCap())
	return s
}

func (s *Stack) initialCap() int {
	if s.depth > 0 && s.depth < 64 {
		return s.depth
	}
	return 64
}

func (s *Stack) Push(v int32) error {
	if s.depth > 0 && len(s.data) == s.depth {
		return StackOverflow.Errorf("stack overflow at depth %d", s.depth)
	}
	s.data = append(s.data, v)
	return nil
}

func (s *Stack) Pop() (int32, error) {
	if s.Empty() {
		return 0, StackUnderflow.New("pop on empty stack")
	}
	top := len(s.data) - 1
	v := s.data[top]
	s.data = s.data[:top]
	return v, nil
}

// Drop discards the top n values.
func (s *Stack) Drop(n int) error {
	if n < 0 || n > s.Len() {
		return StackUnderflow.Errorf("drop %d from stack of %d", n, s.Len())
	}
	s.data = s.data[:s.Len()-n]
	return nil
}

func (s *Stack) Empty() bool {
	return len(s.data) == 0
}

func (s *Stack) Len() int {
	return len(s.data)
}

func (s *Stack) Peek() (int32, error) {
	return s.read(s.Len() - 1)
}

func (s *Stack) read(pos int) (int32, error) {
	if pos >= s.Len() || pos < 0 {
		return 0, StackUnderflow.Errorf("read out of range len %d, pos %d", s.Len(), pos)
	}
	return s.data[pos], nil
}

func (s *Stack) Reset() {
	s.data = s.data[:0]
}

// Values returns a copy of the stack contents, bottom first.
func (s *Stack) Values() []int32 {
	out := make([]int32, len(s.data))
	copy(out, s.data)
	return out
}
