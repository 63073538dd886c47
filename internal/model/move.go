package model

import "strings"

// Move is one turn: a single step, or a chain of jumps by the same piece.
// Path holds every landing square in order; Captured the squares whose
// occupants are removed, in capture order.
type Move struct {
	From     Position   `json:"from"`
	Path     []Position `json:"path"`
	Captured []Position `json:"captured"`
	Side     Side       `json:"side"`
}

// To is the square the piece comes to rest on.
func (m Move) To() Position {
	if len(m.Path) == 0 {
		return m.From
	}
	return m.Path[len(m.Path)-1]
}

func (m Move) IsCapture() bool { return len(m.Captured) > 0 }

func (m Move) CaptureCount() int { return len(m.Captured) }

func (m Move) Equal(o Move) bool {
	return m.From == o.From && m.Side == o.Side &&
		samePositions(m.Path, o.Path) && samePositions(m.Captured, o.Captured)
}

// Notation writes "c3-d4" for a step and "c3xe5xg7" for a capture chain.
func (m Move) Notation() string {
	sep := "-"
	if m.IsCapture() {
		sep = "x"
	}
	var sb strings.Builder
	sb.WriteString(m.From.Notation())
	for _, p := range m.Path {
		sb.WriteString(sep)
		sb.WriteString(p.Notation())
	}
	return sb.String()
}

func samePositions(a, b []Position) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// MoveRequest is a move as submitted by a client. Path may list every
// landing square of a chain, or only the final one when that is enough to
// tell the legal moves apart.
type MoveRequest struct {
	From Position   `json:"from"`
	Path []Position `json:"path"`
}

// Ply is a history entry as sent to clients.
type Ply struct {
	Move      Move   `json:"move"`
	Notation  string `json:"notation"`
	Promotion bool   `json:"promotion"`
}
