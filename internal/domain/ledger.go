package domain

import "time"

type LedgerKind string

const (
	LedgerGain LedgerKind = "gain"
	LedgerCost LedgerKind = "cost"
)

// LedgerEntry is an immutable point record attached to a participant.
// Gain entries carrying prestige and maxpoints originate from peer
// ratings of the participant's content; gain entries without them are
// flat creation bonuses and are excluded from the gained aggregate.
type LedgerEntry struct {
	ID            uint       `json:"id"`
	ParticipantID uint       `json:"participant_id"`
	ContentID     uint       `json:"content_id"`
	Kind          LedgerKind `json:"kind"`
	Points        float64    `json:"points"`
	Prestige      *float64   `json:"prestige,omitempty"`
	MaxPoints     *float64   `json:"maxpoints,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// IsWeighted reports whether the entry qualifies for the gained
// aggregate, i.e. carries points, prestige and maxpoints.
func (e LedgerEntry) IsWeighted() bool {
	return e.Prestige != nil && e.MaxPoints != nil
}

// PrestigeFeedback is an immutable 1-5 judgement of a participant's
// rating work, aggregated per recipient into their prestige.
type PrestigeFeedback struct {
	ID          uint      `json:"id"`
	RecipientID uint      `json:"recipient_id"`
	RaterID     uint      `json:"rater_id"`
	ContentID   uint      `json:"content_id"`
	Points      int       `json:"points"`
	CreatedAt   time.Time `json:"created_at"`
}

// PrestigeDefault is the smoothing value returned while a participant
// has no feedback yet.
const PrestigeDefault = 2.5
