package command

import (
	"fmt"
	"strconv"
)

// Kind identifies which drawing action a command performs.
type Kind int

const (
	LineSegment Kind = iota
	Rectangle
	Circle
	Ellipse
	Pencil
	Eraser
	Text
)

var kindNames = [...]string{
	LineSegment: "line",
	Rectangle:   "rectangle",
	Circle:      "circle",
	Ellipse:     "ellipse",
	Pencil:      "pencil",
	Eraser:      "eraser",
	Text:        "text",
}

// Kinds lists every kind in declaration order.
func Kinds() []Kind {
	return []Kind{LineSegment, Rectangle, Circle, Ellipse, Pencil, Eraser, Text}
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	return k >= LineSegment && k <= Text
}

func (k Kind) String() string {
	if k.Valid() {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Freehand reports whether the kind accumulates a point buffer.
func (k Kind) Freehand() bool {
	return k == Pencil || k == Eraser
}

// ParseKind returns the kind with the given name.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("command: unknown kind %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("command: cannot marshal %s", k)
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	v, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}
