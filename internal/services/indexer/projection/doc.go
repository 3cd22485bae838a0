// Package projection folds decoded chain events into the indexer entity store.
//
// Each event is applied inside one storage.Store atomic unit: the projector
// reads the records it needs, writes their next state plus any notifications,
// and the engine records the checkpoint before the unit commits. Projectors
// are stateless between events and must converge to the same state when an
// event is applied more than once.
package projection
