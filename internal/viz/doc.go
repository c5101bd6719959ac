// Package viz renders CLI output: element tables, key/value panels and
// text histograms of catalog attributes, styled with lipgloss.
//
// Colours come from the current [Theme]; select one with [SetTheme]. With
// NO_COLOR set or a non-terminal stdout lipgloss strips the styling, so the
// output stays parseable.
package viz
