package model

// TriState is a requirement that can demand a condition, forbid it, or ignore it.
// The zero value is Indifferent so an absent column never constrains a package.
type TriState int

const (
	Indifferent TriState = iota
	Required
	Forbidden
)

// TriStateFromBool converts a nullable database boolean: true requires, false forbids,
// nil is indifferent.
func TriStateFromBool(b *bool) TriState {
	if b == nil {
		return Indifferent
	}
	if *b {
		return Required
	}
	return Forbidden
}

// Admits reports whether a guest for whom the condition is `actual` satisfies the requirement
func (t TriState) Admits(actual bool) bool {
	switch t {
	case Required:
		return actual
	case Forbidden:
		return !actual
	default:
		return true
	}
}

// Bool is the inverse of TriStateFromBool
func (t TriState) Bool() *bool {
	switch t {
	case Required:
		v := true
		return &v
	case Forbidden:
		v := false
		return &v
	default:
		return nil
	}
}

func (t TriState) String() string {
	switch t {
	case Required:
		return "required"
	case Forbidden:
		return "forbidden"
	default:
		return "indifferent"
	}
}
