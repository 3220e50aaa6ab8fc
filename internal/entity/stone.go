package entity

import "errors"

// Stone is the content of a single board cell.
type Stone uint8

const (
	Empty Stone = iota
	Black
	White
)

var ErrInvalidStone = errors.New("invalid stone")

// Opponent returns the other colour. Empty has no opponent and returns Empty.
func (that Stone) Opponent() Stone {
	switch that {
	case Black:
		return White
	case White:
		return Black
	default:
		return Empty
	}
}

func (that Stone) IsPlayer() bool {
	return that == Black || that == White
}

func (that Stone) String() string {
	switch that {
	case Black:
		return "X"
	case White:
		return "O"
	default:
		return "."
	}
}

// Name - human readable colour name used in logs and reports.
func (that Stone) Name() string {
	switch that {
	case Black:
		return "black"
	case White:
		return "white"
	default:
		return "none"
	}
}

// ParseStone accepts both the board symbols and the colour names.
func ParseStone(value string) (Stone, error) {
	switch value {
	case "X", "x", "black", "BLACK":
		return Black, nil
	case "O", "o", "white", "WHITE":
		return White, nil
	case ".", "", "none":
		return Empty, nil
	default:
		return Empty, ErrInvalidStone
	}
}

func (that Stone) MarshalText() ([]byte, error) {
	return []byte(that.Name()), nil
}

func (that *Stone) UnmarshalText(text []byte) error {
	stone, err := ParseStone(string(text))
	if err != nil {
		return err
	}

	*that = stone

	return nil
}
