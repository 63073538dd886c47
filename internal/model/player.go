package model

import "fmt"

type Side uint8

const (
	Black Side = iota
	White
)

func (s Side) String() string {
	if s == White {
		return "white"
	}
	return "black"
}

func (s Side) Opponent() Side {
	if s == White {
		return Black
	}
	return White
}

// Forward is the row delta a Pion of this side moves by.
func (s Side) Forward() int {
	if s == White {
		return -1
	}
	return 1
}

// BackRank is the row on which a Pion of this side is promoted.
func (s Side) BackRank() int {
	if s == White {
		return 0
	}
	return BoardSize - 1
}

func (s Side) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Side) UnmarshalText(text []byte) error {
	switch string(text) {
	case "black":
		*s = Black
	case "white":
		*s = White
	default:
		return fmt.Errorf("unknown side %q", text)
	}
	return nil
}

type ClientPlayer struct {
	ID       string `json:"name"`
	Side     Side   `json:"side"`
	Label    string `json:"label"`
	TimeUsed int    `json:"timeUsed"`
}
