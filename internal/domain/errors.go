package domain

import "errors"

var (
	// ErrSessionNotFound is returned when an interview session does not exist.
	ErrSessionNotFound = errors.New("interview session not found")
	// ErrNotInProgress is returned when an operation needs a running interview.
	ErrNotInProgress = errors.New("interview is not in progress")
	// ErrSubmissionInFlight rejects an answer while the previous one is still being scored.
	ErrSubmissionInFlight = errors.New("previous answer is still being evaluated")
	// ErrEmptyAnswer rejects blank answers from the candidate.
	ErrEmptyAnswer = errors.New("answer is empty")
	// ErrCandidateNotVisible rejects answers while nobody is in the camera view.
	ErrCandidateNotVisible = errors.New("candidate is not visible")
	// ErrQuestionMismatch indicates the answer targets a question that is no longer current.
	ErrQuestionMismatch = errors.New("answer does not match the current question")
	// ErrSessionReset indicates the session was restarted while the answer was being scored.
	ErrSessionReset = errors.New("session was restarted during evaluation")
	// ErrCatalogNotFound indicates the question catalog could not be loaded.
	ErrCatalogNotFound = errors.New("question catalog not found")
	// ErrCatalogEmpty indicates there is nothing to sample questions from.
	ErrCatalogEmpty = errors.New("question catalog is empty")
)
