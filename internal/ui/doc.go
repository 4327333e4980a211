// Package ui colours the process table.
//
// # Colours
//
// Config files name colours from a fixed palette of seven hues, each in a
// normal and a bright variant, plus Default:
//
//	Red Green Yellow Blue Magenta Cyan White
//	BrightRed BrightGreen ... BrightWhite
//	Default
//
// A colour entry is either one name or "Dark|Light", picking a different
// colour for dark and light terminal backgrounds:
//
//	style = "BrightYellow|Yellow"
//
// # Value-driven styles
//
// A column's style may instead be one of:
//
//	ByPercentage  five bands at 0/25/50/75/100 ([style.by_percentage])
//	ByUnit        by the SI suffix of a byte count ([style.by_unit])
//	ByState       by the process state letter ([style.by_state])
//
// The Styler reads these values off the formatted cell, so it needs nothing
// beyond what the table prints.
//
// # Auxiliary rows
//
// Rows shown only to give tree context (ancestors or descendants of a match)
// keep their colours with the faint attribute added.
//
// # Watch mode
//
// Spinner is a Bubble Tea component shown while the first sample is taken.
package ui
