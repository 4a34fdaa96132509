// Package store provides SQLite persistence for the portfolio API.
//
// The Store interface covers the credential store (users), content entities
// (projects, articles, careers, comments), and the like toggle. SQLiteStore
// is the only implementation; tests open it at ":memory:".
//
// Like records and the per-resource like counters are kept consistent inside
// a single transaction by ToggleLike. The unique primary key on
// (resource_type, resource_id, username) is the backstop invariant against
// double counting under concurrent toggles.
package store
