// Package workflow holds the client-side state machines for authoring
// flashcards: a Composer that drafts a new set and submits it, and a
// CardEditor that edits one existing card.
//
// Neither persists anything. Both guard their state with a mutex that is
// never held across a network call, and both refuse a second submission
// while one is in flight.
package workflow
