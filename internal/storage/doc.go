// Package storage provides the device-local key-value store for FitPlan.
//
// The Store contract is deliberately small: Get, Set, Delete, Close over
// string keys and values. Backends:
//
//   - badgerstore: default, embedded and durable
//   - sqlitestore: single-table SQLite database
//   - redisstore: shared Redis keyspace under a prefix
//   - memory: process-local map for tests and ephemeral runs
//
// Wrappers compose on top of any backend:
//
//   - sealed: at-rest AEAD encryption of values
//   - Instrument: Prometheus operation counters
//
// Absent keys are reported with ErrKeyNotFound; callers treat that as a
// valid empty state.
package storage
