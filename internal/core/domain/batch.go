package domain

import "time"

// Batch groups the journals a user created in one session. It carries no validation weight.
type Batch struct {
	BatchID   string    `json:"batchID"`
	UserID    string    `json:"userID"`
	CreatedAt time.Time `json:"createdAt"`
}
