// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Nimbus Launcher Contributors

// Package config owns the single persisted launcher document.
//
// # Document
//
// Document is the root of everything the launcher persists: settings,
// the account map, the selected-account and selected-server pointers,
// the client token, and per-server mod/java records. It is created with
// DefaultDocument on first run and loaded through Store on every
// subsequent run. Other packages mutate it through the Store handle and
// call Store.Save after each mutation; nothing auto-saves.
//
// # Store
//
// Store loads, migrates, schema-validates, and saves the document. A
// missing document is materialized from defaults (first launch); a
// document at the legacy pre-XDG location is moved forward once; an
// unparsable or schema-invalid document is logged, discarded, and
// replaced with defaults. Corruption is never fatal.
//
// # Migration
//
// Reconcile additively fills fields that the default document has but a
// loaded document lacks. Opacity is declared on the Document type
// itself (the `merge:"opaque"` tag): opaque subtrees are checked for
// top-level presence only and never recursed into, so records written
// by newer builds survive.
package config
