package model

import "strings"

// Payee is the counterparty of a transaction. Names are unique.
type Payee struct {
	ID    int64
	Name  string
	Notes string
}

// NewPayee creates and validates a payee.
func NewPayee(name, notes string) (*Payee, error) {
	p := &Payee{Name: strings.TrimSpace(name), Notes: notes}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks that the payee has a name.
func (p *Payee) Validate() error {
	if p.Name == "" {
		return &InvalidPayeeError{Reason: "payee must have a name"}
	}
	return nil
}

// Equal reports whether both payees have the same id. Comparing unsaved
// payees is an error.
func (p *Payee) Equal(other *Payee) (bool, error) {
	if p == nil || other == nil {
		return false, nil
	}
	if p.ID == 0 || other.ID == 0 {
		return false, ErrUnsavedComparison
	}
	return p.ID == other.ID, nil
}

func (p *Payee) String() string {
	return p.Name
}
