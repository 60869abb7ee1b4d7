package services

import (
	"fmt"

	"github.com/google/uuid"
)

// NewRoom returns an empty room whose BOQ has not been generated yet.
func NewRoom(name string) Room {
	return Room{
		ID:   uuid.NewString(),
		Name: name,
	}
}

// AddRoom appends a new room to p. An empty name becomes "Room N".
func (p *Project) AddRoom(name string) Room {
	if name == "" {
		name = fmt.Sprintf("Room %d", len(p.Rooms)+1)
	}
	room := NewRoom(name)
	p.Rooms = append(p.Rooms, room)
	return room
}

// Clone returns a deep copy of r with a fresh id, a "(Copy)" name and the
// validation result cleared.
func (r Room) Clone() Room {
	out := Room{
		ID:   uuid.NewString(),
		Name: r.Name + " (Copy)",
	}
	if r.Answers != nil {
		out.Answers = cloneAnswers(r.Answers)
	}
	if r.LineItems != nil {
		out.LineItems = make([]LineItem, len(r.LineItems))
		for i, item := range r.LineItems {
			out.LineItems[i] = item
			if item.MarginOverride != nil {
				m := *item.MarginOverride
				out.LineItems[i].MarginOverride = &m
			}
		}
	}
	return out
}

func cloneAnswers(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		switch tv := v.(type) {
		case []string:
			out[k] = append([]string(nil), tv...)
		case []any:
			out[k] = append([]any(nil), tv...)
		default:
			out[k] = v
		}
	}
	return out
}

// DuplicateRoom inserts a clone of the room with id right after it.
func (p *Project) DuplicateRoom(id string) (Room, error) {
	idx := p.roomIndex(id)
	if idx < 0 {
		return Room{}, fmt.Errorf("%w: %s", ErrRoomNotFound, id)
	}
	clone := p.Rooms[idx].Clone()

	rooms := make([]Room, 0, len(p.Rooms)+1)
	rooms = append(rooms, p.Rooms[:idx+1]...)
	rooms = append(rooms, clone)
	rooms = append(rooms, p.Rooms[idx+1:]...)
	p.Rooms = rooms
	return clone, nil
}

// DeleteRoom removes the room with id.
func (p *Project) DeleteRoom(id string) error {
	idx := p.roomIndex(id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrRoomNotFound, id)
	}
	p.Rooms = append(p.Rooms[:idx:idx], p.Rooms[idx+1:]...)
	return nil
}

// RenameRoom sets the display name of the room with id.
func (p *Project) RenameRoom(id, name string) error {
	idx := p.roomIndex(id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrRoomNotFound, id)
	}
	p.Rooms[idx].Name = name
	return nil
}

func (p *Project) roomIndex(id string) int {
	for i, r := range p.Rooms {
		if r.ID == id {
			return i
		}
	}
	return -1
}

// SetGlobalMargin sets the project-wide margin, clamping negatives to 0.
func (p *Project) SetGlobalMargin(margin float64) {
	p.GlobalMargin = ClampMargin(margin)
}

// LineItemPatch holds a partial update of a line item. Nil fields are left
// unchanged.
type LineItemPatch struct {
	Category       *string
	Description    *string
	Brand          *string
	Model          *string
	Quantity       *int
	UnitPrice      *float64
	MarginOverride *float64
	ClearMargin    bool
}

// SetBOQ replaces the room's BOQ, e.g. with normalized generator output.
func (r *Room) SetBOQ(items []LineItem) {
	if items == nil {
		items = []LineItem{}
	}
	r.LineItems = items
	r.Validation = nil
}

// AddItem appends a placeholder item, creating the BOQ if needed.
func (r *Room) AddItem() {
	if r.LineItems == nil {
		r.LineItems = []LineItem{}
	}
	r.LineItems = append(r.LineItems, LineItem{
		Description: "New Item",
		Quantity:    1,
	})
	r.Validation = nil
}

// UpdateItem applies patch to the item at index. Negative quantity, price and
// margin override are clamped to 0 and the line total is recomputed.
func (r *Room) UpdateItem(index int, patch LineItemPatch) error {
	if index < 0 || index >= len(r.LineItems) {
		return fmt.Errorf("%w: %d", ErrItemIndex, index)
	}
	item := r.LineItems[index]

	if patch.Category != nil {
		item.Category = *patch.Category
	}
	if patch.Description != nil {
		item.Description = *patch.Description
	}
	if patch.Brand != nil {
		item.Brand = *patch.Brand
	}
	if patch.Model != nil {
		item.Model = *patch.Model
	}
	if patch.Quantity != nil {
		item.Quantity = max(*patch.Quantity, 0)
	}
	if patch.UnitPrice != nil {
		item.UnitPrice = max(*patch.UnitPrice, 0)
	}
	switch {
	case patch.ClearMargin:
		item.MarginOverride = nil
	case patch.MarginOverride != nil:
		m := ClampMargin(*patch.MarginOverride)
		item.MarginOverride = &m
	}
	item.TotalPrice = item.BaseTotal()

	r.LineItems[index] = item
	r.Validation = nil
	return nil
}

// DeleteItem removes the item at index.
func (r *Room) DeleteItem(index int) error {
	if index < 0 || index >= len(r.LineItems) {
		return fmt.Errorf("%w: %d", ErrItemIndex, index)
	}
	r.LineItems = append(r.LineItems[:index:index], r.LineItems[index+1:]...)
	r.Validation = nil
	return nil
}
