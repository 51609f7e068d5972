// Package catalog talks to the production tracking database.
//
// The store exposes the three primitives the importer needs (find-one,
// create, upload) plus an explicit find-or-create built on top of them.
// Filters are conjunctions of (field, "is", value) triples; the importer
// never needs disjunction or negation. Lookup and create failures are not
// retried; callers treat them as fatal for the run.
package catalog
