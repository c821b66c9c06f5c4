package app

import "errors"

// Sentinel kinds for write-path validation. All are recoverable and carry an
// actionable message for the contestant or voter.
var (
	// ErrEmptySubmission marks a guess whose allocations sum to zero. It is
	// rejected before append so the log never stores a zero-sum record.
	ErrEmptySubmission = errors.New("you must assign a percentage to at least one breed")

	// ErrInvalidSubmission marks a guess with a missing name or a negative
	// allocation.
	ErrInvalidSubmission = errors.New("invalid submission")

	// ErrUnknownBreed marks an allocation to a tag outside the candidate
	// list derived from the answer set.
	ErrUnknownBreed = errors.New("unknown breed tag")

	// ErrInvalidChoice marks a vote for something outside the harvested
	// suggestion pool. The vote is not recorded.
	ErrInvalidChoice = errors.New("choice is not among the suggested new breeds")

	// ErrInvalidVoter marks a ballot without a voter name.
	ErrInvalidVoter = errors.New("invalid voter")

	// ErrVotingClosed marks a ballot cast outside the voting window.
	ErrVotingClosed = errors.New("voting is not open")
)
