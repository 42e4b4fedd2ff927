package shape

import (
	"reflect"
	"strings"
)

// Field is a settable member of a record shape.
type Field struct {
	Name   string // key the field is matched against
	GoName string
	Index  []int
	Type   reflect.Type

	tagged bool
}

func (f Field) Shape() *Shape {
	return Of(f.Type)
}

// Fields returns the record fields in declaration order, with the fields of
// embedded structs flattened in place.
func (s *Shape) Fields() []Field {
	return s.fields
}

// Field finds the field a mapping key addresses. It tries, in order: the
// yaml tag name, the exact Go name and a case-insensitive match of either.
func (s *Shape) Field(key string) (Field, bool) {
	if i, ok := s.byName[key]; ok {
		return s.fields[i], true
	}

	if i, ok := s.byFold[strings.ToLower(key)]; ok {
		return s.fields[i], true
	}

	return Field{}, false
}

func (s *Shape) buildFields() {
	s.byName = map[string]int{}
	s.byFold = map[string]int{}

	all := collectFields(s.Type, nil, nil)
	for _, f := range all {
		if !shadowed(all, f) {
			s.addField(f)
		}
	}
}

func collectFields(t reflect.Type, prefix []int, out []Field) []Field {
	for i := range t.NumField() {
		sf := t.Field(i)
		if !sf.IsExported() && !sf.Anonymous {
			continue
		}

		name, inline, skip := yamlTag(sf)
		if skip {
			continue
		}

		index := append(append([]int(nil), prefix...), i)

		if sf.Anonymous && sf.Type.Kind() == reflect.Struct && (name == "" || inline) {
			out = collectFields(sf.Type, index, out)
			continue
		}

		if !sf.IsExported() {
			continue
		}

		f := Field{Name: name, GoName: sf.Name, Index: index, Type: sf.Type, tagged: name != ""}
		if !f.tagged {
			f.Name = sf.Name
		}

		out = append(out, f)
	}

	return out
}

// shadowed applies Go selector rules: a promoted field is hidden by a
// shallower one with the same Go name or the same key.
func shadowed(all []Field, f Field) bool {
	for _, g := range all {
		if len(g.Index) < len(f.Index) && (g.GoName == f.GoName || g.Name == f.Name) {
			return true
		}
	}

	return false
}

func (s *Shape) addField(f Field) {
	if _, ok := s.byName[f.Name]; ok {
		return
	}

	at := len(s.fields)
	s.fields = append(s.fields, f)

	s.byName[f.Name] = at
	if _, ok := s.byName[f.GoName]; f.tagged && !ok {
		s.byName[f.GoName] = at
	}

	for _, name := range []string{f.Name, f.GoName} {
		if _, ok := s.byFold[strings.ToLower(name)]; !ok {
			s.byFold[strings.ToLower(name)] = at
		}
	}
}

// yamlTag reads `yaml:"name,opts"`. Only the inline option is honored.
func yamlTag(f reflect.StructField) (name string, inline, skip bool) {
	tag := f.Tag.Get("yaml")
	if tag == "-" {
		return "", false, true
	}

	name, opts, _ := strings.Cut(tag, ",")
	for _, opt := range strings.Split(opts, ",") {
		if opt == "inline" {
			inline = true
		}
	}

	return name, inline, false
}
