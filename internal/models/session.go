package models

import "sync"

// CartLine is one entry of a cart. Quantity is always at least 1.
type CartLine struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// PendingCheckout is a checkout that was handed to the payment gateway
// but has not been verified yet.
type PendingCheckout struct {
	Reference  string     `json:"reference"`
	PaymentURL string     `json:"payment_url"`
	Items      []CartLine `json:"items"`
	Total      int64      `json:"total"`
}

// Session holds the conversation state of a single device.
//
// CurrentOrder is the cart being built. History keeps a snapshot of every cart
// that was submitted for payment, paid or not. Orders only holds receipts of
// payments the gateway confirmed. Pending holds every checkout still awaiting
// verification, keyed by payment reference.
type Session struct {
	DeviceID        string
	CurrentOrder    []CartLine
	History         [][]CartLine
	Orders          []Receipt
	Total           int64
	Pending         map[string]*PendingCheckout
	LatestReference string

	mu sync.Mutex
}

// NewSession creates an empty session for deviceID.
func NewSession(deviceID string) *Session {
	return &Session{
		DeviceID:     deviceID,
		CurrentOrder: []CartLine{},
		History:      [][]CartLine{},
		Orders:       []Receipt{},
		Pending:      map[string]*PendingCheckout{},
	}
}

// Lock serializes mutations of the session.
func (s *Session) Lock() { s.mu.Lock() }

// TryLock locks the session if it is not already locked.
func (s *Session) TryLock() bool { return s.mu.TryLock() }

// Unlock releases the session lock.
func (s *Session) Unlock() { s.mu.Unlock() }

// AddPending records a checkout awaiting verification and makes it the latest one.
func (s *Session) AddPending(p *PendingCheckout) {
	if s.Pending == nil {
		s.Pending = map[string]*PendingCheckout{}
	}
	s.Pending[p.Reference] = p
	s.LatestReference = p.Reference
	s.Total = p.Total
}

// TakePending removes and returns the checkout for reference, or nil when none
// is waiting. Total follows the latest checkout still pending.
func (s *Session) TakePending(reference string) *PendingCheckout {
	p, ok := s.Pending[reference]
	if !ok {
		return nil
	}
	delete(s.Pending, reference)
	if s.LatestReference == reference {
		s.LatestReference = ""
		s.Total = 0
	}
	return p
}

// LatestPending returns the most recent checkout still awaiting verification.
func (s *Session) LatestPending() *PendingCheckout {
	if s.LatestReference == "" {
		return nil
	}
	return s.Pending[s.LatestReference]
}

// HasPending reports whether any checkout is awaiting verification.
func (s *Session) HasPending() bool {
	return len(s.Pending) > 0
}
