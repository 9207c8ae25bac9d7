// Package id provides identifier generation for simulated resources.
//
// Two families of identifiers are produced:
//
//   - UUIDs: random (v4) for activity ids, and name-based
//     (v5) for identities and resource locations so that the same input
//     always maps to the same id across server instances
//   - Sequences: monotonically increasing integer ids, the way the backend
//     numbers builds and work items
package id
