// Package store archives completed inference runs in SQLite.
//
// Each run keeps the catalog and the rendered document as canonical JSON
// (sorted keys for plain maps, insertion order for ordered objects, NFC
// strings) together with the options that produced them. Runs are ordered
// by a logical sequence number assigned at write time, never by wall clock.
//
// The archive is write-behind only. Inference never reads it.
package store
