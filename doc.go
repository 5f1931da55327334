// Package kgraph owns and wires typed reactive dataflow graphs.
//
// The building blocks live in subpackages: katom defines the tagged values
// that travel on links, knode the links, nodes, templates and ports, and
// ksynth proposes template sequences whose kinds chain together. A Graph is
// the strong owner of the nodes built from those templates:
//
//	g, err := kgraph.New(kgraph.WithLog(logger))
//	if err != nil {
//	    return err
//	}
//
//	candidates := ksynth.GenerateGraphs(catalog)
//	pipeline, err := g.Instantiate(candidates[0])
//	if err != nil {
//	    return err
//	}
//	err = g.Publish(pipeline.Nodes[0], 0, katom.UsizeValue(5))
//
// Publish runs every reaction synchronously before it returns. Attach and
// Publish are serialized by the Graph, so sources may publish from several
// goroutines.
package kgraph
