package wizard

import "fmt"

// Step identifies one page of a wizard.
type Step string

// Sequence is the ordered list of steps and a pointer to the current one.
// The enumeration order is the only legal transition order; moves are one
// position at a time.
type Sequence struct {
	steps []Step
	index int
}

// NewSequence builds a sequence positioned on its first step.
func NewSequence(steps ...Step) (*Sequence, error) {
	if len(steps) == 0 {
		return nil, fmt.Errorf("wizard sequence needs at least one step")
	}
	seen := make(map[Step]struct{}, len(steps))
	for _, s := range steps {
		if s == "" {
			return nil, fmt.Errorf("wizard sequence has an empty step name")
		}
		if _, dup := seen[s]; dup {
			return nil, fmt.Errorf("wizard sequence has duplicate step %q", s)
		}
		seen[s] = struct{}{}
	}
	return &Sequence{steps: append([]Step(nil), steps...)}, nil
}

func (s *Sequence) Current() Step { return s.steps[s.index] }
func (s *Sequence) Index() int    { return s.index }
func (s *Sequence) Len() int      { return len(s.steps) }
func (s *Sequence) IsFirst() bool { return s.index == 0 }
func (s *Sequence) IsLast() bool  { return s.index == len(s.steps)-1 }

// Steps returns a copy of the enumeration.
func (s *Sequence) Steps() []Step {
	return append([]Step(nil), s.steps...)
}

// Progress is (index+1)/len, used only for display.
func (s *Sequence) Progress() float64 {
	return float64(s.index+1) / float64(len(s.steps))
}

// Position returns the index of step, or -1 when it is not part of the sequence.
func (s *Sequence) Position(step Step) int {
	for i, candidate := range s.steps {
		if candidate == step {
			return i
		}
	}
	return -1
}

// Seek jumps to step. Only snapshot restore and submit-time re-validation use
// it; user navigation goes through next/prev.
func (s *Sequence) Seek(step Step) error {
	i := s.Position(step)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrUnknownStep, step)
	}
	s.index = i
	return nil
}

func (s *Sequence) next() bool {
	if s.IsLast() {
		return false
	}
	s.index++
	return true
}

func (s *Sequence) prev() bool {
	if s.IsFirst() {
		return false
	}
	s.index--
	return true
}
