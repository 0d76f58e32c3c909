/*
Package tape implements the sparse, bidirectionally infinite memory of a
Turing machine, together with the line-oriented tape text format.

Cells that were never written read as the tape's default symbol. A tape
keeps at most one checkpoint of its contents (the initial state), stored and
restored explicitly around a run.

# Text format

One cell per non-blank line:

	[<signed-integer> ":"] <symbol of 1-4 alphanumeric characters>

Without an index prefix a line targets the cell after the previous line's
cell, starting at 0.
*/
package tape
