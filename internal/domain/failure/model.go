package failure

import "time"

// Record is one remembered collection failure for an endpoint combination.
// The ledger holds one record per combination; a repeat failure updates the
// reason and timestamp in place.
type Record struct {
	Endpoint       string            `json:"endpoint" db:"endpoint"`
	CombinationKey string            `json:"combination_key" db:"combination_key"`
	Params         map[string]string `json:"params" db:"-"`
	Reason         string            `json:"reason" db:"reason"`
	Permanent      bool              `json:"permanent" db:"permanent"`
	FailedAt       time.Time         `json:"failed_at" db:"failed_at"`
}
