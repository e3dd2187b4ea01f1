package resolver

import "strings"

// Assemble frames resolved blocks into the single context message handed to
// the team runner. Each block is emitted between a begin marker and a
// matching end marker carrying its label:
//
//	START <label>
//	<content>
//	END <label>
//
// The content between the markers is the raw source bytes. Nothing is
// rewrapped, truncated, summarized, or substituted; the markers are the
// sole injection mechanism.
func Assemble(blocks []Block) string {
	framed := make([]string, len(blocks))
	for i, b := range blocks {
		framed[i] = "START " + b.Label + "\n" + b.Content + "\nEND " + b.Label
	}
	return strings.Join(framed, "\n\n")
}
