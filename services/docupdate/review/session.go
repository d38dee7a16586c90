// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package review tracks approve/reject/edit decisions over one suggestion
// set.
//
// A Session is owned by the caller that generated the suggestions (the
// CLI's interactive loop, or any API consumer); the server itself stays
// stateless. Decisions are keyed by suggestion ID and are idempotent:
// repeating a decision, or deciding an unknown ID, changes nothing.
package review

import (
	"sync"

	"github.com/AleutianAI/AleutianDocs/services/docupdate/suggest"
)

// Decision is the review status of one suggestion.
type Decision string

const (
	DecisionPending  Decision = "pending"
	DecisionApproved Decision = "approved"
	DecisionRejected Decision = "rejected"
	DecisionEdited   Decision = "edited"
)

// State is one suggestion plus its current decision. EditedText is only
// meaningful while Decision is DecisionEdited.
type State struct {
	Suggestion suggest.Suggestion
	Decision   Decision
	EditedText string
}

// Session tracks decisions for one generated suggestion set. Safe for
// concurrent use.
type Session struct {
	mu     sync.Mutex
	order  []int
	states map[int]*State
}

// NewSession starts a review over the given suggestions, all pending.
func NewSession(suggestions []suggest.Suggestion) *Session {
	s := &Session{states: make(map[int]*State, len(suggestions))}
	for _, sg := range suggestions {
		if _, dup := s.states[sg.ID]; dup {
			continue
		}
		s.order = append(s.order, sg.ID)
		s.states[sg.ID] = &State{Suggestion: sg, Decision: DecisionPending}
	}
	return s
}

// Approve marks the suggestion approved with its original text. Unknown
// IDs are ignored.
func (s *Session) Approve(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.states[id]; ok {
		st.Decision = DecisionApproved
		st.EditedText = ""
	}
}

// Reject marks the suggestion rejected. Unknown IDs are ignored.
func (s *Session) Reject(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.states[id]; ok {
		st.Decision = DecisionRejected
		st.EditedText = ""
	}
}

// Edit marks the suggestion edited and seeds EditedText with the original
// suggestion text so the caller can refine it. Unknown IDs are ignored.
func (s *Session) Edit(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.states[id]; ok {
		st.Decision = DecisionEdited
		if st.EditedText == "" {
			st.EditedText = st.Suggestion.Text
		}
	}
}

// SetEditedText replaces the edited text. It only applies while the
// suggestion is in the edited state; other states and unknown IDs are
// left alone.
func (s *Session) SetEditedText(id int, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.states[id]; ok && st.Decision == DecisionEdited {
		st.EditedText = text
	}
}

// EffectiveText returns the text an apply would use for the suggestion:
// the edited text when edited, else the original.
func (s *Session) EffectiveText(id int) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.states[id]
	if !ok {
		return ""
	}
	if st.Decision == DecisionEdited && st.EditedText != "" {
		return st.EditedText
	}
	return st.Suggestion.Text
}

// State returns the current state of one suggestion.
func (s *Session) State(id int) (State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.states[id]
	if !ok {
		return State{}, false
	}
	return *st, true
}

// States returns a snapshot of every suggestion in generation order.
func (s *Session) States() []State {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]State, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.states[id])
	}
	return out
}

// ApprovedOrEdited returns the suggestions an apply should receive, in
// generation order. Edited suggestions carry their edited text.
func (s *Session) ApprovedOrEdited() []suggest.Suggestion {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []suggest.Suggestion
	for _, id := range s.order {
		st := s.states[id]
		switch st.Decision {
		case DecisionApproved:
			out = append(out, st.Suggestion)
		case DecisionEdited:
			sg := st.Suggestion
			if st.EditedText != "" {
				sg.Text = st.EditedText
			}
			out = append(out, sg)
		}
	}
	return out
}
