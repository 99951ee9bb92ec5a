package models

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"

	id "securevote/pkg/domain"
)

// GenesisHash seeds the chain before any ballot exists.
const GenesisHash = "0"

// Ballot is one appended ledger entry. There is no voter field anywhere in
// this struct; the separation from identity is structural, not procedural.
type Ballot struct {
	// Seq is the global append position, assigned by the store. The chain
	// spans all elections in one sequence.
	Seq          int64
	ID           id.BallotID
	ElectionID   id.ElectionID
	CandidateID  id.CandidateID
	CastAt       time.Time
	Salt         string
	PreviousHash string
	BlockHash    string
}

// ComputeBlockHash derives the chain hash for a ballot from its content and
// its predecessor's hash. Any edit to a stored ballot breaks this equation
// for that ballot and every one after it.
func ComputeBlockHash(b *Ballot) string {
	h := sha256.New()
	h.Write([]byte(b.ID.String()))
	h.Write([]byte(b.ElectionID.String()))
	h.Write([]byte(b.CandidateID.String()))
	h.Write([]byte(strconv.FormatInt(b.CastAt.Unix(), 10)))
	h.Write([]byte(b.PreviousHash))
	h.Write([]byte(b.Salt))
	return hex.EncodeToString(h.Sum(nil))
}

// Receipt derives the inclusion receipt handed back to the voter. It commits
// to the ballot without revealing who cast it.
func Receipt(ballotID id.BallotID, salt string) string {
	h := sha256.New()
	h.Write([]byte(ballotID.String()))
	h.Write([]byte(salt))
	return hex.EncodeToString(h.Sum(nil))
}
