package security

import (
	"github.com/google/uuid"
)

// NewRequestID creates a new UUID used to correlate a request in client and server logs
func NewRequestID() string {
	return uuid.New().String()
}

// NewRecordID creates a new UUID for locally persisted records
func NewRecordID() string {
	return uuid.NewString()
}
