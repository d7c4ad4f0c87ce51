// internal/domain/history/record.go
package history

import "time"

// Kind describes why a message was delivered.
type Kind string

const (
	KindStarted  Kind = "started"
	KindJoke     Kind = "joke"
	KindFallback Kind = "fallback"
	KindStopped  Kind = "stopped"
)

// Record is one successful delivery to one target.
// Corresponds to the 'deliveries' table.
type Record struct {
	ID          string
	Kind        Kind
	Channel     string
	Destination string
	Text        string
	JokeID      int // 0 when the message was not a fetched joke
	SentAt      time.Time
}
