package handlers

import "sync"

// State is the conversation position of a single user.
type State int

const (
	StateIdle State = iota

	// Registration flow.
	StateAwaitingName
	StateAwaitingEmail
	StateAwaitingPhone

	// Post-approval hub.
	StateMainMenu

	// Deposit sub-flow.
	StateDepositAmount
	StateDepositProof

	// Withdrawal sub-flow.
	StateWithdrawAmount
	StateWithdrawAddress

	// Staking sub-flow.
	StateStakeAmount
)

// Session carries the state and the transient selections of one user's
// in-progress flow. Cancel clears everything so a stale partial flow can
// never silently resume.
type Session struct {
	State State

	DepositCurrency   string
	DepositAmount     float64
	DepositForStaking bool

	WithdrawCurrency string
	WithdrawAmount   float64

	StakeCoin     string
	StakeAmount   float64
	StakeDuration string
	StakePlan     string
}

// Sessions tracks per-user conversation state.
type Sessions struct {
	mu sync.RWMutex
	m  map[int64]*Session
}

func NewSessions() *Sessions {
	return &Sessions{m: make(map[int64]*Session)}
}

// Get returns a snapshot of the user's session.
func (s *Sessions) Get(userID int64) Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if sess, ok := s.m[userID]; ok {
		return *sess
	}
	return Session{}
}

// Update applies fn to the user's session, creating it if needed.
func (s *Sessions) Update(userID int64, fn func(*Session)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.m[userID]
	if !ok {
		sess = &Session{}
		s.m[userID] = sess
	}
	fn(sess)
}

// SetState moves the user to a new state without touching the context.
func (s *Sessions) SetState(userID int64, state State) {
	s.Update(userID, func(sess *Session) { sess.State = state })
}

// Reset drops the session entirely: state and all transient selections.
func (s *Sessions) Reset(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, userID)
}
