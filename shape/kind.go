package shape

//go:generate go tool stringer -type=Kind -output=kind_string.go

// Kind classifies a target type by the way values of it are constructed.
type Kind int

const (
	KindInvalid    Kind = iota // no construction rule, decoding into it fails
	KindOpen                   // any and value.Value: the node decides the shape
	KindScalar                 // primitive.KindEnum types
	KindEnum                   // types implementing Enumerated
	KindText                   // encoding.TextUnmarshaler
	KindPointer                // *T
	KindInterface              // non-empty interfaces, resolved to a concrete type
	KindRecord                 // structs
	KindArray                  // [N]T
	KindMap                    // map[K]V, or a type with a Set(K, V) method
	KindCollection             // []T, or a type with an Append(T) method
	KindIterator               // iter.Seq[T]

	// KindTotal is a constant that represents the total number of kinds defined
	KindTotal = int(iota)
)
