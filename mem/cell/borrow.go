package cell

import (
	"fmt"

	"github.com/joshuapare/ownkit/pkg/types"
)

// Kind is the borrow state of a Dynamic cell.
type Kind uint8

const (
	// Free means no guard is outstanding.
	Free Kind = iota
	// Shared means one or more read guards are outstanding.
	Shared
	// Exclusive means one write guard is outstanding.
	Exclusive
)

func (k Kind) String() string {
	switch k {
	case Free:
		return "free"
	case Shared:
		return "shared"
	case Exclusive:
		return "exclusive"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// State is a snapshot of a cell's borrow state. Readers is the number of
// read guards when Kind is Shared and 0 otherwise.
type State struct {
	Kind    Kind
	Readers int
}

func (s State) String() string {
	if s.Kind == Shared {
		return fmt.Sprintf("shared(%d)", s.Readers)
	}
	return s.Kind.String()
}

// borrowState encodes State in one integer: 0 free, n > 0 shared by n
// readers, -1 exclusive.
type borrowState int

const exclusive borrowState = -1

func (b borrowState) state() State {
	switch {
	case b == 0:
		return State{Kind: Free}
	case b > 0:
		return State{Kind: Shared, Readers: int(b)}
	default:
		return State{Kind: Exclusive}
	}
}

func (b borrowState) canRead() bool  { return b >= 0 }
func (b borrowState) canWrite() bool { return b == 0 }

var (
	errMutablyBorrowed = types.Errorf(types.ErrKindBorrow, "cell: already mutably borrowed", nil)
	errBorrowed        = types.Errorf(types.ErrKindBorrow, "cell: already borrowed", nil)
)

func released(op string) error {
	return types.Errorf(types.ErrKindState, "cell: "+op+" on released value", nil)
}
