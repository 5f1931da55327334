package render

import (
	"fmt"
	"strings"
)

// Node is a graph vertex as the renderer sees it.
type Node struct {
	ID    string
	Label string
	// Inputs and Outputs are the port counts, they select the shape.
	Inputs  int
	Outputs int
}

// Edge connects an output port of From to an input port of To.
type Edge struct {
	From    string
	FromIdx int
	To      string
	ToIdx   int
	Kind    string
}

// Mermaid produces a Mermaid flowchart from wired nodes.
// Shapes:
// - Source (no inputs): ([Stadium])
// - Sink (no outputs): [/Parallelogram/]
// - Default: [Rectangle]
// Edges are labelled "out -> in: kind".
func Mermaid(nodes []Node, edges []Edge) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	for _, n := range nodes {
		opener, closer := "[", "]"
		switch {
		case n.Inputs == 0:
			opener, closer = "([", "])"
		case n.Outputs == 0:
			opener, closer = "[/", "/]"
		}
		label := strings.ReplaceAll(n.Label, "\"", "'")
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", sanitizeID(n.ID), opener, label, closer)
	}

	for _, e := range edges {
		fmt.Fprintf(&sb, "    %s -- \"%d -> %d: %s\" --> %s\n",
			sanitizeID(e.From), e.FromIdx, e.ToIdx, e.Kind, sanitizeID(e.To))
	}

	return sb.String()
}

func sanitizeID(id string) string {
	return strings.NewReplacer(".", "_", "-", "_", "/", "_", "\\", "_", "#", "_", " ", "_").Replace(id)
}
