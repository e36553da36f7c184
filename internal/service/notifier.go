package service

import "github.com/google/uuid"

// Notifier is how services announce that a collection changed. The stream hub
// implements it: on every notification it re-reads the affected collection
// and pushes a fresh snapshot to every subscriber. Services call it only
// after a successful write — the local picture is never patched directly; it
// updates when the subscription echoes the change back.
//
// Each method is independent and channels carry no relative ordering
// guarantee between each other.
type Notifier interface {
	// TripsChanged fires when the global trip list changed (create/delete).
	TripsChanged()

	// TripChanged fires when one trip record changed (selection, confirm,
	// settings).
	TripChanged(tripID uuid.UUID)

	// YachtsChanged fires when a trip's vessel-option list changed.
	YachtsChanged(tripID uuid.UUID)

	// PaymentsChanged fires when a trip's payment list changed.
	PaymentsChanged(tripID uuid.UUID)

	// SettingsChanged fires when the global exchange rate changed.
	SettingsChanged()
}

// NopNotifier is a Notifier that does nothing. Useful in tests and tools
// that have no live subscribers.
type NopNotifier struct{}

func (NopNotifier) TripsChanged() {}
func (NopNotifier) TripChanged(uuid.UUID) {}
func (NopNotifier) YachtsChanged(uuid.UUID) {}
func (NopNotifier) PaymentsChanged(uuid.UUID) {}
func (NopNotifier) SettingsChanged() {}
