package automaton

import "fmt"

type Modality uint8

const (
	// Permitted transitions are controllable by the strategy owner.
	Permitted Modality = iota + 1
	// Urgent transitions belong to the opponent and cannot be disabled.
	Urgent
)

func (that Modality) String() string {
	switch that {
	case Permitted:
		return "permitted"
	case Urgent:
		return "urgent"
	default:
		return "unknown"
	}
}

type Transition struct {
	Source   State
	Action   Action
	Target   State
	Modality Modality
}

func (that Transition) IsUrgent() bool {
	return that.Modality == Urgent
}

func (that Transition) IsPermitted() bool {
	return that.Modality == Permitted
}

// WithModality returns a copy carrying modality m.
func (that Transition) WithModality(m Modality) Transition {
	that.Modality = m
	return that
}

func (that Transition) Less(other Transition) bool {
	switch {
	case that.Source != other.Source:
		return that.Source.Less(other.Source)
	case that.Action != other.Action:
		return that.Action.Less(other.Action)
	case that.Target != other.Target:
		return that.Target.Less(other.Target)
	default:
		return that.Modality < other.Modality
	}
}

func (that Transition) String() string {
	return fmt.Sprintf("(%s, %s, %s) %s", that.Source, that.Action, that.Target, that.Modality)
}
