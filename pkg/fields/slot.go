package fields

import (
	"fmt"

	"github.com/fsmkit/fsmkit/pkg/domain"
	"github.com/fsmkit/fsmkit/pkg/ports"
)

// Slot is a protected in-memory state holder. Embed one in an entity and
// expose it through SlotField; the value is unexported, so code outside
// this package can read it but only the accessor can write it. This keeps
// every state change on the transition path.
type Slot struct {
	value domain.State
}

// NewSlot returns a slot initialized to the given state.
func NewSlot(initial domain.State) Slot {
	return Slot{value: initial}
}

// Current returns the state held by the slot.
func (s *Slot) Current() domain.State { return s.value }

type slotField struct {
	name   string
	locate func(inst any) *Slot
}

// SlotField builds a field accessor over an entity's Slot. locate returns
// the slot for a given instance, typically a one-line method reference.
func SlotField(name string, locate func(inst any) *Slot) ports.Field {
	return &slotField{name: name, locate: locate}
}

func (f *slotField) Name() string { return f.name }

func (f *slotField) Get(inst any) (domain.State, error) {
	slot := f.locate(inst)
	if slot == nil {
		return "", fmt.Errorf("field %q: no slot on %T", f.name, inst)
	}
	return slot.value, nil
}

func (f *slotField) Set(inst any, s domain.State) error {
	slot := f.locate(inst)
	if slot == nil {
		return fmt.Errorf("field %q: no slot on %T", f.name, inst)
	}
	slot.value = s
	return nil
}
