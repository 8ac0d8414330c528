// Package serializer assembles complete NEC2 documents from comments, wire
// rows and optional frequency, excitation and radiation rows whose fields are
// symbolic expressions over a constant table.
//
// A document is rendered fully in memory before anything is written, so a
// field that fails to resolve never leaves a partial file behind.
package serializer
