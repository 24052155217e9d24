// Package pyrometry infers particle temperatures from multi-wavelength
// incandescence signals, either by two-color ratio pyrometry or by fitting
// Planck's law across all channels per time sample.
//
// Wavelengths are integers in nm at the API and converted to m for the
// radiation formulas. Per-sample failures never abort a batch: undefined
// samples carry the temperature 0 and valid ones are clamped to
// [MinTemperature, MaxTemperature].
package pyrometry
