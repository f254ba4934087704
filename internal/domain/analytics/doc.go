// Package analytics computes sales reports from flattened order snapshots.
//
// Every function here is pure: it reads the orders it is given, performs no
// I/O and keeps no state, so callers may run reports concurrently over the
// same snapshot. An order line is expanded into one row per category of its
// product, so a product in two categories counts toward both buckets in full.
// Products without categories produce no category rows.
//
// Line totals are quantity times the product price carried in the snapshot,
// which is the catalog price at load time, not the price when the order was
// placed.
package analytics
