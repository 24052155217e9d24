// Package property implements parametrized physical property equations.
//
// A [Value] is a scalar function of up to two arguments (temperature and
// wavelength) selected by an equation [Kind] and up to nine coefficients
// a0..a8. Values are produced from loaded [Record]s by a [Resolver], which
// marks each requested property as usable, unusable, or absent and
// collects every missing mandatory property into one error.
//
// Wavelength-specific properties are grouped by integer wavelength (nm) in
// an [Optical] collection.
package property
