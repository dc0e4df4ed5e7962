package evm

import (
	"strings"
	"sync"

	"github.com/XDagger/xdagj-sub001/core/types"
)

// Stack is the operand stack of one frame.
type Stack struct {
	data  []types.Word
	limit int
}

// stackPool is a pool of stacks to reduce allocations.
var stackPool = sync.Pool{
	New: func() interface{} {
		return &Stack{data: make([]types.Word, 0, 16)}
	},
}

// NewStack takes a stack from the pool with the given depth limit.
func NewStack(limit int) *Stack {
	s := stackPool.Get().(*Stack)
	s.limit = limit
	return s
}

// ReturnStack returns the stack to the pool.
func ReturnStack(s *Stack) {
	s.data = s.data[:0]
	stackPool.Put(s)
}

// Push pushes a value. Callers check ValidSize beforehand.
func (s *Stack) Push(w types.Word) {
	s.data = append(s.data, w)
}

// Pop removes and returns the top item. Callers check Require beforehand.
func (s *Stack) Pop() types.Word {
	w := s.data[len(s.data)-1]
	s.data = s.data[:len(s.data)-1]
	return w
}

// Peek returns the top item.
func (s *Stack) Peek() types.Word {
	return s.data[len(s.data)-1]
}

// Back returns the item n positions below the top (0 = top).
func (s *Stack) Back(n int) types.Word {
	return s.data[len(s.data)-1-n]
}

// Swap exchanges the top item with the item n positions below it.
func (s *Stack) Swap(n int) {
	top := len(s.data) - 1
	s.data[top], s.data[top-n] = s.data[top-n], s.data[top]
}

// Dup pushes a copy of the n-th item from the top (1 = top).
func (s *Stack) Dup(n int) {
	s.data = append(s.data, s.data[len(s.data)-n])
}

// Len returns the number of items on the stack.
func (s *Stack) Len() int {
	return len(s.data)
}

// Data returns the items, bottom first.
func (s *Stack) Data() []types.Word {
	return s.data
}

// Require checks that at least n items are on the stack.
func (s *Stack) Require(n int) error {
	if len(s.data) < n {
		return &StackUnderflowError{Required: n, Available: len(s.data)}
	}
	return nil
}

// ValidSize checks that popping pop items and pushing push items stays
// within the limit.
func (s *Stack) ValidSize(pop, push int) error {
	if size := len(s.data) - pop + push; size > s.limit {
		return &StackOverflowError{Size: size, Limit: s.limit}
	}
	return nil
}

func (s *Stack) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i := len(s.data) - 1; i >= 0; i-- {
		sb.WriteString(s.data[i].String())
		if i > 0 {
			sb.WriteString(" ")
		}
	}
	sb.WriteString("]")
	return sb.String()
}
