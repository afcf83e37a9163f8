package inspection

import (
	"strings"

	"washworks-be/internal/validation"
)

// OtherLabel is the free-form checklist entry; checking it requires a
// custom name before submission succeeds.
const OtherLabel = "Others"

// Checklist holds the transient start-of-work form state for one order.
// It is constructed fresh per order and discarded on close or cancel so
// state never leaks between different orders' dialogs.
type Checklist struct {
	items map[itemKey]*ChecklistItem
	order []itemKey
}

type itemKey struct {
	category string
	label    string
}

type ChecklistItem struct {
	Category   string
	Label      string
	Checked    bool
	Notes      string
	CustomName string
	Photo      *PhotoFile
}

// SubmissionItem is one checked-and-photographed checklist entry ready to
// be persisted as a Record.
type SubmissionItem struct {
	Name  string
	Notes *string
	Photo PhotoFile
}

// Submission is the filtered checklist output. UnattachedCount reports
// checked items skipped for lack of a photo.
type Submission struct {
	Items           []SubmissionItem
	UnattachedCount int
}

func NewChecklist() *Checklist {
	return &Checklist{items: map[itemKey]*ChecklistItem{}}
}

// ToggleItem flips an item's checked state. Unchecking clears notes, custom
// name and photo entirely, not just visually.
func (c *Checklist) ToggleItem(label, category string) {
	key := itemKey{category: category, label: label}
	item, ok := c.items[key]
	if !ok {
		c.items[key] = &ChecklistItem{Category: category, Label: label, Checked: true}
		c.order = append(c.order, key)
		return
	}

	if item.Checked {
		item.Checked = false
		item.Notes = ""
		item.CustomName = ""
		item.Photo = nil
		return
	}
	item.Checked = true
}

func (c *Checklist) SetNotes(label, category, text string) {
	if item := c.checked(label, category); item != nil {
		item.Notes = text
	}
}

func (c *Checklist) SetCustomName(label, category, text string) {
	if item := c.checked(label, category); item != nil {
		item.CustomName = text
	}
}

func (c *Checklist) SetPhoto(label, category string, photo *PhotoFile) {
	if item := c.checked(label, category); item != nil {
		item.Photo = photo
	}
}

func (c *Checklist) checked(label, category string) *ChecklistItem {
	item, ok := c.items[itemKey{category: category, label: label}]
	if !ok || !item.Checked {
		return nil
	}
	return item
}

// Items returns the checklist entries in insertion order.
func (c *Checklist) Items() []*ChecklistItem {
	out := make([]*ChecklistItem, 0, len(c.order))
	for _, key := range c.order {
		out = append(out, c.items[key])
	}
	return out
}

// BuildSubmission filters the checklist to items that are both checked and
// photographed. A zero-item submission is valid: an inspection-free start
// of work is permitted.
func (c *Checklist) BuildSubmission() (*Submission, error) {
	sub := &Submission{}

	for _, key := range c.order {
		item := c.items[key]
		if !item.Checked {
			continue
		}
		if item.Photo == nil {
			sub.UnattachedCount++
			continue
		}

		name := item.Label
		if item.Label == OtherLabel {
			if strings.TrimSpace(item.CustomName) == "" {
				return nil, validation.Errorf("missing custom name")
			}
			name = strings.TrimSpace(item.CustomName)
		}

		var notes *string
		if item.Notes != "" {
			n := item.Notes
			notes = &n
		}

		sub.Items = append(sub.Items, SubmissionItem{
			Name:  name,
			Notes: notes,
			Photo: *item.Photo,
		})
	}

	return sub, nil
}
