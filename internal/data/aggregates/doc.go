// Package aggregates implements the cart and order writes over the table
// repos. A write loads what its checks need, reconciles lines and persists
// the result in one transaction.
package aggregates
