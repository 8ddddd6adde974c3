// Package flashcards defines the wire records exchanged between the client
// library, the edge proxy and the flashcard backend.
//
// The records carry no behavior. Fields owned by the backend (timestamps,
// review metadata) are relayed untouched and are opaque to this module. The
// only local state anywhere in flashgate is the draft card list held by a
// workflow.Composer while a set is being composed.
package flashcards
