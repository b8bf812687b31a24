package models

import "fmt"

// Status is the lifecycle state of a task.
type Status string

const (
	StatusOngoing   Status = "ongoing"
	StatusFinished  Status = "finished"
	StatusCancelled Status = "cancelled"
)

// Statuses lists every status in board order.
var Statuses = []Status{StatusOngoing, StatusFinished, StatusCancelled}

// transitions maps a status to the statuses it may move to.
var transitions = map[Status][]Status{
	StatusOngoing:   {StatusFinished, StatusCancelled},
	StatusCancelled: {StatusOngoing},
	StatusFinished:  nil,
}

// ParseStatus converts raw input into a Status, rejecting unknown values.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", fmt.Errorf("invalid status %q", raw)
	}
	return s, nil
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// Terminal reports whether no transition leaves s.
func (s Status) Terminal() bool {
	return s.Valid() && len(transitions[s]) == 0
}

// Next returns the statuses reachable from s in one step.
func (s Status) Next() []Status {
	next := transitions[s]
	out := make([]Status, len(next))
	copy(out, next)
	return out
}

func (s Status) String() string { return string(s) }

// CanTransition reports whether a task may move from one status to another.
func CanTransition(from, to Status) bool {
	for _, candidate := range transitions[from] {
		if candidate == to {
			return true
		}
	}
	return false
}

// Sources returns every status from which to is reachable in one step,
// in board order.
func Sources(to Status) []Status {
	var out []Status
	for _, from := range Statuses {
		if CanTransition(from, to) {
			out = append(out, from)
		}
	}
	return out
}
