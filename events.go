package obbtree

import (
	"unsafe"

	"github.com/akmonengine/obbtree/actor"
)

const (
	OVERLAP_ENTER EventType = iota
	OVERLAP_STAY
	OVERLAP_EXIT
)

type pairKey struct {
	objectA *actor.Object
	objectB *actor.Object
}

// makePairKey creates a normalized pair key with consistent ordering
func makePairKey(objectA, objectB *actor.Object) pairKey {
	ptrA := uintptr(unsafe.Pointer(objectA))
	ptrB := uintptr(unsafe.Pointer(objectB))

	if ptrB < ptrA {
		objectA, objectB = objectB, objectA
	}

	return pairKey{objectA: objectA, objectB: objectB}
}

type EventType uint8

// Event interface - all events implement this
type Event interface {
	Type() EventType
}

type OverlapEnterEvent struct {
	ObjectA *actor.Object
	ObjectB *actor.Object
}

func (e OverlapEnterEvent) Type() EventType { return OVERLAP_ENTER }

type OverlapStayEvent struct {
	ObjectA *actor.Object
	ObjectB *actor.Object
}

func (e OverlapStayEvent) Type() EventType { return OVERLAP_STAY }

type OverlapExitEvent struct {
	ObjectA *actor.Object
	ObjectB *actor.Object
}

func (e OverlapExitEvent) Type() EventType { return OVERLAP_EXIT }

// EventListener - callback for events
type EventListener func(event Event)

// Events tracks the overlapping pairs from one World.Overlaps call to the next, and
// dispatches Enter/Stay/Exit events to the listeners.
type Events struct {
	listeners map[EventType][]EventListener

	// Event buffer to send at flush
	buffer []Event

	previousActivePairs map[pairKey]bool
	currentActivePairs  map[pairKey]bool
}

func NewEvents() Events {
	return Events{
		listeners:           make(map[EventType][]EventListener),
		buffer:              make([]Event, 0, 256),
		previousActivePairs: make(map[pairKey]bool),
		currentActivePairs:  make(map[pairKey]bool),
	}
}

// ensure makes the zero value usable
func (e *Events) ensure() {
	if e.listeners == nil {
		*e = NewEvents()
	}
}

// Subscribe adds a listener for an event type
func (e *Events) Subscribe(eventType EventType, listener EventListener) {
	e.ensure()
	e.listeners[eventType] = append(e.listeners[eventType], listener)
}

func (e *Events) recordContacts(contacts []Contact) {
	e.ensure()
	for _, c := range contacts {
		e.currentActivePairs[makePairKey(c.ObjectA, c.ObjectB)] = true
	}
}

// forget drops every tracked pair involving object, without emitting Exit
func (e *Events) forget(object *actor.Object) {
	for pair := range e.previousActivePairs {
		if pair.objectA == object || pair.objectB == object {
			delete(e.previousActivePairs, pair)
		}
	}
}

// processContactEvents compares current and previous pairs to detect Enter/Stay/Exit
func (e *Events) processContactEvents() {
	for pair := range e.currentActivePairs {
		if e.previousActivePairs[pair] {
			e.buffer = append(e.buffer, OverlapStayEvent{ObjectA: pair.objectA, ObjectB: pair.objectB})
		} else {
			e.buffer = append(e.buffer, OverlapEnterEvent{ObjectA: pair.objectA, ObjectB: pair.objectB})
		}
	}

	for pair := range e.previousActivePairs {
		if !e.currentActivePairs[pair] {
			e.buffer = append(e.buffer, OverlapExitEvent{ObjectA: pair.objectA, ObjectB: pair.objectB})
		}
	}

	// Swap for next call and clear current
	e.previousActivePairs, e.currentActivePairs = e.currentActivePairs, e.previousActivePairs
	clear(e.currentActivePairs)
}

// flush sends all buffered events and clears the buffer
func (e *Events) flush() {
	e.ensure()
	e.processContactEvents()

	for _, event := range e.buffer {
		if listeners, ok := e.listeners[event.Type()]; ok {
			for _, listener := range listeners {
				listener(event)
			}
		}
	}
	e.buffer = e.buffer[:0]
}
