package model

import (
	"fmt"
	"sort"
)

// SubjectIndex maps subjects to their observation ranges in a panel.
// Subject i owns observations [idx[i], idx[i+1]).
type SubjectIndex []int

// NewSubjectIndex creates new SubjectIndex from idx and returns it.
// It returns error if idx has fewer than 2 entries, does not start at 0
// or is not strictly increasing.
func NewSubjectIndex(idx []int) (SubjectIndex, error) {
	if len(idx) < 2 {
		return nil, fmt.Errorf("invalid subject index length: %d", len(idx))
	}

	if idx[0] != 0 {
		return nil, fmt.Errorf("invalid subject index start: %d", idx[0])
	}

	for i := 1; i < len(idx); i++ {
		if idx[i] <= idx[i-1] {
			return nil, fmt.Errorf("invalid subject index: entry %d is %d, previous %d", i, idx[i], idx[i-1])
		}
	}

	s := make(SubjectIndex, len(idx))
	copy(s, idx)

	return s, nil
}

// NumSubjects returns the number of subjects
func (s SubjectIndex) NumSubjects() int {
	if len(s) == 0 {
		return 0
	}

	return len(s) - 1
}

// Total returns the total number of observations
func (s SubjectIndex) Total() int {
	if len(s) == 0 {
		return 0
	}

	return s[len(s)-1]
}

// Range returns the observation range [start, end) of subject sbj.
// It panics if sbj is out of range.
func (s SubjectIndex) Range(sbj int) (start, end int) {
	return s[sbj], s[sbj+1]
}

// Len returns the number of observations of subject sbj.
func (s SubjectIndex) Len(sbj int) int {
	start, end := s.Range(sbj)
	return end - start
}

// Subject returns the subject which owns observation t or -1 if t is out of range.
func (s SubjectIndex) Subject(t int) int {
	if t < 0 || t >= s.Total() {
		return -1
	}

	// smallest i such that s[i] > t
	i := sort.SearchInts(s, t+1)

	return i - 1
}
