// Package decoder assembles the deserialization pipeline and runs it over
// event streams.
//
// A Builder holds two ordered registration lists, type resolvers and node
// strategies, together with the tag and type mapping tables. Build freezes
// them into a Deserializer:
//
//	d, err := decoder.NewBuilder().
//		WithNodeDeserializer("semver", newSemver, decoder.Before(node.NameScalar)).
//		WithTagMapping("!point", reflect.TypeFor[Point]()).
//		IgnoreUnmatchedFields().
//		Build()
//
// For every node the pipeline follows an alias through the document's
// alias state, lets the resolvers refine open and interface targets, and
// offers the node to the strategies in order until one claims it. After the
// root node, pending aliases and container commits are finalized.
package decoder
