package trip

import (
	"errors"

	"github.com/trentd187/proof/internal/challenges"
)

// Errors returned by the mutators. A mutator that returns one of these leaves
// the snapshot untouched. Callers match with errors.Is; most are wrapped with
// the id that was looked up.
var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotOwner          = errors.New("only the uploader can delete a photo")
	ErrUnknownReaction   = errors.New("unknown reaction")
	ErrBetSettled        = errors.New("bet is already settled")
	ErrWinnerNotInvolved = errors.New("winner is not one of the players in the bet")

	// Challenge workflow rejections, re-exported so handlers only import trip.
	ErrAlreadyClaimed    = challenges.ErrAlreadyClaimed
	ErrNotClaimed        = challenges.ErrNotClaimed
	ErrChallengeVerified = challenges.ErrVerified
	ErrSelfVerify        = challenges.ErrSelfVerify
	ErrSelfDispute       = challenges.ErrSelfDispute
)
