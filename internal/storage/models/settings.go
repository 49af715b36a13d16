package models

import (
	"time"
)

// Default flrig endpoint used until the operator saves settings.
const (
	DefaultFlrigHost = "localhost"
	DefaultFlrigPort = 12345
)

// Settings is the process-wide operator configuration. At most one row exists.
type Settings struct {
	ID               string    `json:"id"`
	OperatorCallsign string    `json:"operator_callsign"`
	FlrigHost        string    `json:"flrig_host"`
	FlrigPort        int       `json:"flrig_port"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
