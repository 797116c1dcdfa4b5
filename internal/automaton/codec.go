package automaton

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-synthesis/internal/entity"
)

const artifactVersion = 1

var ErrInvalidArtifact = errors.New("invalid automaton artifact")

type artifact struct {
	Version     int                  `json:"version"`
	Initial     uint64               `json:"initial"`
	Accepting   []uint64             `json:"accepting"`
	Transitions []artifactTransition `json:"transitions"`
}

type artifactTransition struct {
	Source   uint64      `json:"s"`
	Kind     ActionKind  `json:"k"`
	Mark     entity.Mark `json:"m,omitempty"`
	Cell     int         `json:"c"`
	Target   uint64      `json:"t"`
	Modality Modality    `json:"u"`
}

// Export serializes the automaton; Import(Export(a)) is Equal to a.
func Export(aut *Automaton) ([]byte, error) {
	doc := artifact{
		Version:     artifactVersion,
		Initial:     aut.initial.facts,
		Accepting:   make([]uint64, 0, len(aut.accepting)),
		Transitions: make([]artifactTransition, 0, len(aut.transitions)),
	}

	for _, s := range aut.Accepting() {
		doc.Accepting = append(doc.Accepting, s.facts)
	}

	for _, t := range aut.transitions {
		doc.Transitions = append(doc.Transitions, artifactTransition{
			Source:   t.Source.facts,
			Kind:     t.Action.Kind,
			Mark:     t.Action.Mark,
			Cell:     t.Action.Cell,
			Target:   t.Target.facts,
			Modality: t.Modality,
		})
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("could not marshal automaton: %w", err)
	}

	return data, nil
}

func Import(data []byte) (*Automaton, error) {
	var doc artifact
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArtifact, err)
	}

	if doc.Version != artifactVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrInvalidArtifact, doc.Version)
	}

	initial, err := decodeState(doc.Initial)
	if err != nil {
		return nil, err
	}

	accepting := make([]State, 0, len(doc.Accepting))
	for _, bits := range doc.Accepting {
		s, err := decodeState(bits)
		if err != nil {
			return nil, err
		}
		accepting = append(accepting, s)
	}

	transitions := make([]Transition, 0, len(doc.Transitions))
	for i, at := range doc.Transitions {
		t, err := decodeTransition(at)
		if err != nil {
			return nil, fmt.Errorf("transition %d: %w", i, err)
		}
		transitions = append(transitions, t)
	}

	return New(initial, accepting, transitions), nil
}

func decodeState(bits uint64) (State, error) {
	if bits>>factCount != 0 {
		return State{}, fmt.Errorf("%w: unknown facts in state %#x", ErrInvalidArtifact, bits)
	}
	return State{facts: bits}, nil
}

func decodeTransition(at artifactTransition) (Transition, error) {
	source, err := decodeState(at.Source)
	if err != nil {
		return Transition{}, err
	}

	target, err := decodeState(at.Target)
	if err != nil {
		return Transition{}, err
	}

	var action Action
	switch at.Kind {
	case MoveAction:
		if !at.Mark.IsPlayer() || !entity.ValidCell(at.Cell) {
			return Transition{}, fmt.Errorf("%w: bad move %s_%d", ErrInvalidArtifact, at.Mark, at.Cell)
		}
		action = Move(at.Mark, at.Cell)
	case SuccessAction:
		action = Success()
	default:
		return Transition{}, fmt.Errorf("%w: unknown action kind %d", ErrInvalidArtifact, at.Kind)
	}

	if at.Modality != Permitted && at.Modality != Urgent {
		return Transition{}, fmt.Errorf("%w: unknown modality %d", ErrInvalidArtifact, at.Modality)
	}

	return Transition{Source: source, Action: action, Target: target, Modality: at.Modality}, nil
}
