// Package importer reconciles declarative content records against persisted entities.
//
// Each entity type is described by a Strategy: where its records come from, how a
// record maps to an identity key and how its fields are projected onto an entity. The
// identity key is hashed into a stable UUID (see StableID), which is the only join key
// between source data and the store.
//
// An Importer runs one type:
//
//  1. gather the records for the type, expanding parent records when needed
//  2. snapshot the stored entities
//  3. reject a shrinking count unless removal is allowed
//  4. reject a vanished identity at equal count unless removal is allowed
//  5. project every record, then upsert it
//  6. delete stored entities whose identity left the data, when allowed
//
// A Pipeline orders importers by their declared dependencies, shares a cross-reference
// Index between them and records a Run for provenance. Dry runs perform every step
// except writes.
package importer
