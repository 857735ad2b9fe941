// Package core implements the to-do record model and the engine that
// mutates it.
//
// # Design Principles
//
// All operations in this package adhere to the following constraints:
//
//  1. The collection is passed as an explicit value and returned updated;
//     no operation reads or writes ambient state.
//  2. Validation happens before mutation: a failed operation returns the
//     input collection unchanged and never persists anything.
//  3. The engine owns every mutation rule; durable storage is delegated
//     to a Store, and a full save follows each successful mutation.
//
// # Core Types
//
// Todo: a single task record with identity, text fields, an optional due
// date, a completion flag and a creation timestamp.
// Engine: the create/update/complete/delete operations over a collection.
// Store: the persistence boundary the engine saves through.
package core
