package inspection

import "time"

// Record is a named, photographed condition note captured before work
// begins (interior damage, exterior damage, personal items).
type Record struct {
	ID      uint
	OrderID uint
	Name    string
	Notes   *string
	PhotoURL string
	// Provisional marks a locally numbered record created when the insert
	// returned no identifiers. Provisional ids are replaced by authoritative
	// ones on the next fetch and must never be treated as durable.
	Provisional bool
	CreatedAt   time.Time
}

// Confirmation pairs a verification and photo with one Record at job
// completion.
type Confirmation struct {
	ID        uint
	RecordID  uint
	OrderID   uint
	Verified  bool
	Notes     *string
	PhotoURL  string
	CreatedAt time.Time
}

// PhotoFile is an uploaded image held in memory until the submission is
// transmitted.
type PhotoFile struct {
	Name string
	Data []byte
}
