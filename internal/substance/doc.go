// Package substance bundles property values into the physical substances
// the heat-transfer and pyrometry code works on: particle materials, gases,
// and gas mixtures.
//
// Records are treated as read-only snapshots while a calculation runs; the
// [Registry] owns them and answers usage queries before a gas is removed.
package substance
