// Package flat drives line- and record-oriented text dialects against a Budget.
package flat

import (
	"bytes"
	"fmt"

	"github.com/provide-io/fixturegen/pkg/fixture/budget"
	fxerrors "github.com/provide-io/fixturegen/pkg/fixture/errors"
)

// State is a step of an accumulator run.
type State int

const (
	StateInit State = iota
	StateAccumulating
	StateTruncating
	StateFinalizing
	StateDone
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "INIT"
	case StateAccumulating:
		return "ACCUMULATING"
	case StateTruncating:
		return "TRUNCATING"
	case StateFinalizing:
		return "FINALIZING"
	case StateDone:
		return "DONE"
	default:
		return fmt.Sprintf("UNKNOWN_%d", int(s))
	}
}

// Piece produces one chunk of encoded output.
type Piece func() ([]byte, error)

// Accumulator appends units until its Budget runs out. Prologue and Epilogue wrap the
// units and are not budget-counted. Byte-exact dialects set Truncate so the finished
// buffer, prologue included, is clipped to the target.
type Accumulator struct {
	Prologue Piece
	Unit     Piece
	Epilogue Piece
	Truncate bool

	state State
}

// State returns the current step of the run.
func (a *Accumulator) State() State { return a.state }

// Run executes the accumulator once. An accumulator cannot be reused.
func (a *Accumulator) Run(b *budget.Budget) ([]byte, error) {
	if a.state != StateInit {
		return nil, fmt.Errorf("%w: accumulator already in state %s", fxerrors.ErrEncodingFailure, a.state)
	}
	if a.Unit == nil {
		return nil, fmt.Errorf("%w: accumulator has no unit", fxerrors.ErrEncodingFailure)
	}

	var buf bytes.Buffer
	if a.Prologue != nil {
		head, err := a.Prologue()
		if err != nil {
			return nil, fmt.Errorf("%w: prologue: %v", fxerrors.ErrEncodingFailure, err)
		}
		buf.Write(head)
	}

	a.state = StateAccumulating
	for b.Units() == 0 || b.ShouldContinue() {
		unit, err := a.Unit()
		if err != nil {
			return nil, fmt.Errorf("%w: unit %d: %v", fxerrors.ErrEncodingFailure, b.Units(), err)
		}
		if !b.Admit(uint64(len(unit))) {
			break
		}
		buf.Write(unit)
	}

	if a.Truncate {
		a.state = StateTruncating
		out := b.Truncate(buf.Bytes())
		a.state = StateDone
		return out, nil
	}

	a.state = StateFinalizing
	if a.Epilogue != nil {
		tail, err := a.Epilogue()
		if err != nil {
			return nil, fmt.Errorf("%w: epilogue: %v", fxerrors.ErrEncodingFailure, err)
		}
		buf.Write(tail)
	}
	a.state = StateDone
	return buf.Bytes(), nil
}
