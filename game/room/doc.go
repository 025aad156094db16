// Package room implements game rooms and the registry that owns them.
//
// The room package implements:
//   - Seat assignment in claim order (white, then black, then observers)
//   - Turn-gated move application delegated to the position engine
//   - Membership reconciliation on leave/disconnect
//   - Thread-safe room storage and lifecycle in a Registry
//
// Core Types:
//
// Room is one isolated game session: two seats, an insertion-ordered
// observer list, and the engine-owned position. Registry maps room IDs to
// live rooms and is the only component allowed to create or delete them.
//
// Concurrency:
//
// Each Room serializes its own mutations behind a mutex, so concurrent
// joins, moves, and leaves against the same room are linearized while
// operations on different rooms proceed in parallel. The Registry guards
// its map with a separate lock.
//
// Deletion races are resolved with a closed flag: RemoveIfEmpty marks the
// room closed under both the registry lock and the room lock before
// deleting the map entry, and Join refuses closed rooms. A join can
// therefore never succeed against a room that has just been removed, and a
// room that a join just populated can never be removed underneath it.
//
// Lifecycle:
//
// A room is created on explicit request and deleted in the same critical
// section in which its membership is observed to be empty. Rooms created
// over the lobby surface that are never joined are pruned by CleanupIdle.
package room
