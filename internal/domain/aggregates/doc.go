// Package aggregates declares the cart and order write boundaries and the
// coded errors every service returns. Implementations live in
// internal/data/aggregates.
package aggregates
