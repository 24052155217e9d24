// Package constants holds the physical constants used by the heat-transfer
// and pyrometry code. Values are CODATA 2014.
package constants

import "math"

const (
	Pi = math.Pi

	// SpeedOfLight c0 in m/s.
	SpeedOfLight = 299792458.0
	// Planck constant h in J s.
	Planck = 6.626070040e-34
	// Boltzmann constant k_B in J/K.
	Boltzmann = 1.38064852e-23
	// Avogadro constant N_A in 1/mol.
	Avogadro = 6.022140857e23
	// GasConstant R in J/(mol K).
	GasConstant = 8.3144598
	// StefanBoltzmann sigma in W/(m^2 K^4).
	StefanBoltzmann = 5.670367e-8
	// ElementaryCharge e in C.
	ElementaryCharge = 1.6021766208e-19
	// Richardson constant A_R in A/(m^2 K^2).
	Richardson = 1.20173e6

	// C1 = 2 h c0^2 in W m^2.
	C1 = 2 * Planck * SpeedOfLight * SpeedOfLight
	// C2 = h c0 / k_B in m K.
	C2 = Planck * SpeedOfLight / Boltzmann
)
