package inspection

import "washworks-be/internal/validation"

// Verifier replays an order's stored inspection records and gates
// completion on a verification plus confirmation photo per record. Like
// the Checklist, one Verifier serves one order's dialog and is discarded
// on close.
type Verifier struct {
	records []*Record
	state   map[uint]*confirmState
}

type confirmState struct {
	verified bool
	notes    string
	photo    *PhotoFile
}

// ConfirmationInput is one verified record ready to be persisted.
type ConfirmationInput struct {
	RecordID uint
	Verified bool
	Notes    *string
	Photo    PhotoFile
}

// NewVerifier seeds the session from fetched records, falling back to the
// caller's cached copy when the fetch yielded none.
func NewVerifier(fetched, cached []*Record) *Verifier {
	records := fetched
	if len(records) == 0 {
		records = cached
	}

	v := &Verifier{
		records: records,
		state:   make(map[uint]*confirmState, len(records)),
	}
	for _, r := range records {
		v.state[r.ID] = &confirmState{}
	}
	return v
}

func (v *Verifier) Records() []*Record {
	return v.records
}

func (v *Verifier) SetVerified(id uint, verified bool) {
	if s, ok := v.state[id]; ok {
		s.verified = verified
	}
}

func (v *Verifier) SetNotes(id uint, text string) {
	if s, ok := v.state[id]; ok {
		s.notes = text
	}
}

// SetConfirmationPhoto attaches or removes the confirmation photo. Photo
// presence and the verified flag are coupled: attaching sets verified,
// removing resets it.
func (v *Verifier) SetConfirmationPhoto(id uint, photo *PhotoFile) {
	s, ok := v.state[id]
	if !ok {
		return
	}
	s.photo = photo
	s.verified = photo != nil
}

func (v *Verifier) Verified(id uint) bool {
	if s, ok := v.state[id]; ok {
		return s.verified
	}
	return false
}

// Validate builds the confirmation list from every record carrying a
// confirmation photo. With at least one record and no confirmations the
// completion attempt is rejected; with zero records completion proceeds
// with an empty list.
func (v *Verifier) Validate() ([]ConfirmationInput, error) {
	var confirmations []ConfirmationInput

	for _, r := range v.records {
		s := v.state[r.ID]
		if s == nil || s.photo == nil {
			continue
		}

		var notes *string
		if s.notes != "" {
			n := s.notes
			notes = &n
		}

		confirmations = append(confirmations, ConfirmationInput{
			RecordID: r.ID,
			Verified: s.verified,
			Notes:    notes,
			Photo:    *s.photo,
		})
	}

	if len(v.records) > 0 && len(confirmations) == 0 {
		return nil, validation.Errorf("at least one confirmation image required")
	}

	return confirmations, nil
}
