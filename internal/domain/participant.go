package domain

import "time"

type Participant struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Name      string    `json:"name"`
	Admin     bool      `json:"admin"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Balance is the spendable point state derived from a participant's
// ledger entries. It is never stored.
type Balance struct {
	Gained float64 `json:"gained"`
	Spent  float64 `json:"spent"`
}

func (b Balance) Available() float64 {
	return b.Gained - b.Spent
}
