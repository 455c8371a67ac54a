// Package layout places independently authored sections onto one dashboard
// grid.
//
// Each section is authored with y-coordinates relative to its own origin.
// Stack shifts every section down by the current offset and then recomputes
// the offset from the bottom edge of the last panel in the accumulated
// output:
//
//	result, err := layout.Stack([]widget.Section{albSection, rdsSection})
//	if err != nil {
//	    return err
//	}
//	// result.Floor is the first free row below the stacked panels.
//
// Stack never modifies its input. Sections may be reused across calls.
package layout
