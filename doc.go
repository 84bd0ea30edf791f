// Package relaxwalk provides a streaming validator for XML documents against
// a subset of the Relax NG schema language.
//
// relaxwalk does not parse XML itself. It consumes a stream of abstract
// parse events (start-tag boundaries, attribute names and values, text runs,
// end tags) produced by an external tokenizer and reports, at every step,
// whether the event is legal and the set of events that would be legal
// next. This makes it suitable for both batch validation and guided-editing
// scenarios (completion, schema-aware autocomplete).
//
// # Packages
//
//   - [github.com/raffazizzi/relaxwalk/namepat]: the name-class algebra
//   - [github.com/raffazizzi/relaxwalk/event]: parse events and event sets
//   - [github.com/raffazizzi/relaxwalk/nsresolve]: namespace context stack
//   - [github.com/raffazizzi/relaxwalk/datatype]: the Datatype interface and built-ins
//   - [github.com/raffazizzi/relaxwalk/pattern]: the immutable simplified pattern tree
//   - [github.com/raffazizzi/relaxwalk/walker]: the matching automaton
//   - [github.com/raffazizzi/relaxwalk/validator]: the validator façade
//
// # Minimal example
//
//	result, err := pattern.LoadFile("schema.json")
//	v, err := validator.New(result.Grammar)
//	v.FireEvent(event.NewEnterStartTag("", "foo"))
//	v.Possible()
package relaxwalk
