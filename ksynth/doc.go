// Package ksynth proposes node pipelines from a template catalog using kinds
// alone.
//
// Every template is reduced to two multisets: the kinds it consumes and the
// kinds it produces. A sequence of templates is viable when each template's
// inputs are contained in what the templates before it produced and did not
// already consume.
//
//	catalog:  Source: () -> usize
//	          Id:     usize -> usize
//	          Sink:   usize -> ()
//
//	candidates (ReportBalanced): [Source Sink], [Source Id Sink], ...
//
// The search is bounded by a number of rounds and never fails because of it:
// Stats.FrontierLeft tells whether longer pipelines were left unexplored.
// Candidates can be wired into live nodes with kgraph.Graph.Instantiate.
package ksynth
