// Package domain defines the kitchen aggregates (menus, dishes, prep lists)
// and the pure state transitions commands apply to them. Monetary amounts are
// integer cents. All timestamps are UTC.
package domain
