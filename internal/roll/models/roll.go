package models

import (
	id "securevote/pkg/domain"
)

// ElectionVoter is one row of an election's authorization roll. HasVoted is
// the only voter-linked voting fact the platform keeps; which ballot the
// voter cast is unknowable by construction.
type ElectionVoter struct {
	ElectionID id.ElectionID
	Handle     id.VoterHandle
	HasVoted   bool
}

// Ticket proves that CheckAndMarkVoted flipped a voter's has_voted flag
// inside the current transaction. The ledger appends one ballot per ticket
// and never sees the handle behind it.
type Ticket struct {
	electionID id.ElectionID
	granted    bool
}

// GrantTicket is called by roll stores after a successful 0 to 1 flip.
func GrantTicket(electionID id.ElectionID) Ticket {
	return Ticket{electionID: electionID, granted: true}
}

func (t Ticket) ElectionID() id.ElectionID { return t.electionID }

// Granted reports whether the ticket came out of a successful flip. The zero
// Ticket is not granted.
func (t Ticket) Granted() bool { return t.granted }
