// Package raft implements the leader-election and log-replication
// handshake state machine: a self-contained subsystem that does not
// yet carry SQL WAL records as replicated commands. All handlers are
// pure, synchronous mutations of a single Node; timers, transport, and
// peer RPC dispatch live outside this package.
package raft

import "time"

// NodeID identifies a node in the cluster.
type NodeID string

// Term is a monotonically increasing election epoch.
type Term uint64

// Role is a node's current position in the election protocol.
type Role int

const (
	Follower Role = iota
	Candidate
	Leader
)

func (r Role) String() string {
	switch r {
	case Follower:
		return "Follower"
	case Candidate:
		return "Candidate"
	case Leader:
		return "Leader"
	default:
		return "Unknown"
	}
}

// LogEntry is one opaque replicated command.
type LogEntry struct {
	Term    Term
	Index   uint64
	ID      [16]byte
	Command []byte
}

const (
	defaultElectionTimeout   = 300 * time.Millisecond
	defaultHeartbeatInterval = 100 * time.Millisecond
)

// Node is one replica's replication state. Every node boots as
// Follower at term 0 with an empty log and no votedFor; there is no
// terminal state, since shutdown is external to this package.
type Node struct {
	ID NodeID

	CurrentTerm Term
	VotedFor    *NodeID
	Log         []LogEntry

	CommitIndex uint64
	LastApplied uint64

	Role     Role
	LeaderID *NodeID

	// NextIndex and MatchIndex are populated only while Role == Leader.
	NextIndex  map[NodeID]uint64
	MatchIndex map[NodeID]uint64

	LastHeartbeat time.Time

	ElectionTimeout   time.Duration
	HeartbeatInterval time.Duration
}

// New creates a node that boots as Follower at term 0.
func New(id NodeID) *Node {
	return &Node{
		ID:                id,
		Role:              Follower,
		NextIndex:         make(map[NodeID]uint64),
		MatchIndex:        make(map[NodeID]uint64),
		ElectionTimeout:   defaultElectionTimeout,
		HeartbeatInterval: defaultHeartbeatInterval,
	}
}

// StartElection advances the term, becomes Candidate, votes for
// itself, and resets the heartbeat clock.
func (n *Node) StartElection() {
	n.CurrentTerm++
	n.Role = Candidate
	self := n.ID
	n.VotedFor = &self
	n.LastHeartbeat = time.Now()
}

// BecomeLeader transitions to Leader and, for every peer, initializes
// NextIndex to one past this node's last log index and MatchIndex to
// zero.
func (n *Node) BecomeLeader(peers []NodeID) {
	n.Role = Leader
	self := n.ID
	n.LeaderID = &self

	next := n.lastLogIndex() + 1
	for _, peer := range peers {
		n.NextIndex[peer] = next
		n.MatchIndex[peer] = 0
	}
}

func (n *Node) lastLogIndex() uint64 {
	if len(n.Log) == 0 {
		return 0
	}
	return n.Log[len(n.Log)-1].Index
}

func (n *Node) lastLogTerm() Term {
	if len(n.Log) == 0 {
		return 0
	}
	return n.Log[len(n.Log)-1].Term
}

// isLogUpToDate reports whether a candidate whose log ends at
// (lastIndex, lastTerm) is at least as up to date as this node's log:
// a strictly later term wins outright; an equal term requires an
// index at least as large.
func (n *Node) isLogUpToDate(lastIndex uint64, lastTerm Term) bool {
	myTerm := n.lastLogTerm()
	myIndex := n.lastLogIndex()
	return lastTerm > myTerm || (lastTerm == myTerm && lastIndex >= myIndex)
}

// VoteRequest is an election RPC from a candidate.
type VoteRequest struct {
	Term         Term
	CandidateID  NodeID
	LastLogIndex uint64
	LastLogTerm  Term
}

// VoteResponse is the answer to a VoteRequest.
type VoteResponse struct {
	Term    Term
	Granted bool
}

// HandleVoteRequest implements the vote-granting rules: a higher term
// in the request is adopted unconditionally (clearing VotedFor and
// reverting to Follower) before the grant decision is made. A vote is
// granted only once per term — VotedFor is sticky within a term, which
// is what stops a node from granting two different candidates in the
// same term.
func (n *Node) HandleVoteRequest(req VoteRequest) VoteResponse {
	if req.Term > n.CurrentTerm {
		n.CurrentTerm = req.Term
		n.VotedFor = nil
		n.Role = Follower
	}

	granted := false
	if req.Term == n.CurrentTerm &&
		(n.VotedFor == nil || *n.VotedFor == req.CandidateID) &&
		n.isLogUpToDate(req.LastLogIndex, req.LastLogTerm) {
		granted = true
		cand := req.CandidateID
		n.VotedFor = &cand
	}

	return VoteResponse{Term: n.CurrentTerm, Granted: granted}
}

// AppendEntriesRequest is a heartbeat or log-replication RPC from the
// leader.
type AppendEntriesRequest struct {
	Term         Term
	LeaderID     NodeID
	PrevLogIndex uint64
	PrevLogTerm  Term
	Entries      []LogEntry
	LeaderCommit uint64
}

// AppendEntriesResponse is the follower's acknowledgement.
type AppendEntriesResponse struct {
	Term       Term
	Success    bool
	MatchIndex uint64
}

// HandleAppendEntries implements the role/term side effects of
// receiving an AppendEntries RPC. A stale term is rejected outright
// with no state change. Otherwise the sender's term is adopted, the
// node reverts to Follower and records the sender as leader, and the
// heartbeat clock resets. Log-consistency enforcement beyond this
// acknowledgement shape is a follow-on, not yet implemented here.
func (n *Node) HandleAppendEntries(req AppendEntriesRequest) AppendEntriesResponse {
	if req.Term < n.CurrentTerm {
		return AppendEntriesResponse{Term: n.CurrentTerm, Success: false, MatchIndex: 0}
	}

	n.CurrentTerm = req.Term
	n.Role = Follower
	leader := req.LeaderID
	n.LeaderID = &leader
	n.LastHeartbeat = time.Now()

	return AppendEntriesResponse{Term: n.CurrentTerm, Success: true, MatchIndex: n.lastLogIndex()}
}
