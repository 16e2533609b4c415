// Package challenges owns the challenge catalog and the claim workflow.
//
// A challenge moves open → claimed → verified. Two distinct witnesses verify a
// claim; three distinct disputes throw it out and reopen the challenge. Verified
// is terminal. Every transition here is a pure function over a Challenge value:
// it returns a modified copy and never touches the input's slices.
package challenges

import (
	"errors"
	"slices"

	"github.com/trentd187/proof/internal/models"
)

// Quorum sizes, counted in distinct players.
const (
	VerifyQuorum  = 2
	DisputeQuorum = 3
)

var (
	ErrAlreadyClaimed = errors.New("challenge is already claimed")
	ErrNotClaimed     = errors.New("challenge has not been claimed")
	ErrVerified       = errors.New("challenge is already verified")
	ErrSelfVerify     = errors.New("claimant cannot verify their own claim")
	ErrSelfDispute    = errors.New("claimant cannot dispute their own claim")
)

// Outcome describes what a transition did beyond returning the new value.
type Outcome struct {
	Changed  bool // false when the call repeated a vote already counted
	Verified bool // the claim just reached quorum; the claimant gets the points
	Reset    bool // the dispute veto fired and the challenge is open again
}

// Claim marks an open challenge as claimed by playerID. Any stale verifier or
// disputer lists are cleared. proofPhotoID optionally links the evidence.
func Claim(c models.Challenge, playerID string, proofPhotoID *string) (models.Challenge, Outcome, error) {
	if c.Status == models.ChallengeVerified {
		return c, Outcome{}, ErrVerified
	}
	if c.Status != models.ChallengeOpen || c.ClaimedBy != nil {
		return c, Outcome{}, ErrAlreadyClaimed
	}

	claimant := playerID
	c.Status = models.ChallengeClaimed
	c.ClaimedBy = &claimant
	c.VerifiedBy = []string{}
	c.DisputedBy = []string{}
	c.ProofPhotoID = copyPtr(proofPhotoID)
	return c, Outcome{Changed: true}, nil
}

// Verify records verifierID as a witness. Reaching VerifyQuorum flips the
// challenge to verified; because verified is terminal, that can only happen once.
func Verify(c models.Challenge, verifierID string) (models.Challenge, Outcome, error) {
	if err := requireClaimed(c); err != nil {
		return c, Outcome{}, err
	}
	if *c.ClaimedBy == verifierID {
		return c, Outcome{}, ErrSelfVerify
	}
	if slices.Contains(c.VerifiedBy, verifierID) {
		return c, Outcome{}, nil
	}

	c.VerifiedBy = appendCopy(c.VerifiedBy, verifierID)
	out := Outcome{Changed: true}
	if len(c.VerifiedBy) >= VerifyQuorum {
		c.Status = models.ChallengeVerified
		out.Verified = true
	}
	return c, out, nil
}

// Dispute records disputerID as a no-confidence vote. At DisputeQuorum the
// claim is thrown out: claimant, witnesses, disputes and proof are all cleared,
// no matter how many verifications had come in.
func Dispute(c models.Challenge, disputerID string) (models.Challenge, Outcome, error) {
	if err := requireClaimed(c); err != nil {
		return c, Outcome{}, err
	}
	if *c.ClaimedBy == disputerID {
		return c, Outcome{}, ErrSelfDispute
	}
	if slices.Contains(c.DisputedBy, disputerID) {
		return c, Outcome{}, nil
	}

	disputed := appendCopy(c.DisputedBy, disputerID)
	if len(disputed) >= DisputeQuorum {
		c.Status = models.ChallengeOpen
		c.ClaimedBy = nil
		c.ProofPhotoID = nil
		c.VerifiedBy = []string{}
		c.DisputedBy = []string{}
		return c, Outcome{Changed: true, Reset: true}, nil
	}
	c.DisputedBy = disputed
	return c, Outcome{Changed: true}, nil
}

func requireClaimed(c models.Challenge) error {
	switch {
	case c.Status == models.ChallengeVerified:
		return ErrVerified
	case c.Status != models.ChallengeClaimed || c.ClaimedBy == nil:
		return ErrNotClaimed
	}
	return nil
}

// appendCopy appends to a fresh backing array so older snapshots that share
// the original slice never see the new element.
func appendCopy(list []string, v string) []string {
	out := make([]string, len(list), len(list)+1)
	copy(out, list)
	return append(out, v)
}

func copyPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
