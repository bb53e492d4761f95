package model

import "time"

// Request is a user's call for an item that nobody offers yet.
type Request struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	RequestorID int64     `json:"-"`
	Created     time.Time `json:"created"`
	Items       []Item    `json:"items"`
}
