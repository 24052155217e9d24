// Package viz renders simulation and pyrometry results for the terminal.
//
//   - availability and fit reports styled with lipgloss
//   - temperature and diameter traces plotted with asciigraph
//   - ensemble summaries with sparklines and mass-loss bars
//
// Colors follow the current [Theme]; [SetTheme] switches it for all
// subsequent renders.
package viz
