package bracket

import "fmt"

type RoundName string

const (
	Quarterfinals RoundName = "cuartos"
	Semifinals    RoundName = "semifinales"
	Final         RoundName = "final"
)

// Rounds in play order.
var roundOrder = []RoundName{Quarterfinals, Semifinals, Final}

var roundSizes = map[RoundName]int{
	Quarterfinals: 4,
	Semifinals:    2,
	Final:         1,
}

func ParseRoundName(s string) (RoundName, error) {
	name := RoundName(s)
	if _, ok := roundSizes[name]; !ok {
		return "", fmt.Errorf("unknown round %q: %w", s, ErrInvalidMatchReference)
	}
	return name, nil
}

// NextRound returns the round fed by the winners of name. The final has no
// next round.
func NextRound(name RoundName) (RoundName, bool) {
	for i, r := range roundOrder {
		if r == name && i+1 < len(roundOrder) {
			return roundOrder[i+1], true
		}
	}
	return "", false
}

type Round struct {
	Name    RoundName `json:"name"`
	Matches []Match   `json:"matches"`
}

// Complete reports whether every match of the round has a result. A round
// that has not been populated yet is never complete.
func (r *Round) Complete() bool {
	if len(r.Matches) == 0 {
		return false
	}
	for i := range r.Matches {
		if !r.Matches[i].Completed {
			return false
		}
	}
	return true
}

// Populated reports whether any match of the round has occupants.
func (r *Round) Populated() bool {
	for i := range r.Matches {
		if len(r.Matches[i].Participants) > 0 {
			return true
		}
	}
	return false
}

func (r *Round) winners() []string {
	ids := make([]string, 0, len(r.Matches))
	for i := range r.Matches {
		if w, ok := r.Matches[i].Winner(); ok {
			ids = append(ids, w.ID)
		}
	}
	return ids
}

// RoundSize is the number of matches name holds once populated.
func RoundSize(name RoundName) int {
	return roundSizes[name]
}

// emptyRound has no matches until AdvanceRound fills it.
func emptyRound(name RoundName) Round {
	return Round{Name: name, Matches: []Match{}}
}
