// Package form holds the answer side of the intake questionnaire: the value
// type, the presentation resolver, the required-field collector, the
// completion tracker and the per-screen state store.
//
// Everything here is single owner. The store carries no locks; a session owns
// one store for the lifetime of a loaded tree and discards it on teardown.
package form
