// Package nsresolve implements the namespace-context stack consulted when
// resolving QName-like datatype values (xsd:QName, xsd:NOTATION) and for
// translating element/attribute name events against in-scope prefix
// bindings.
//
// The external caller drives the stack directly: contexts must be entered
// before an element's enterStartTag is fired (so xmlns declarations on the
// element itself are visible to its own qualified name) and left after the
// matching endTag.
package nsresolve

// frame is one entry on the context stack: the prefix→URI bindings
// introduced by a single element, plus that element's default namespace
// (the binding for the empty prefix).
type frame struct {
	bindings map[string]string
	hasDefault bool
	defaultNS  string
}

func newFrame() *frame {
	return &frame{bindings: make(map[string]string)}
}

func (f *frame) clone() *frame {
	cp := &frame{
		bindings:   make(map[string]string, len(f.bindings)),
		hasDefault: f.hasDefault,
		defaultNS:  f.defaultNS,
	}
	for k, v := range f.bindings {
		cp.bindings[k] = v
	}
	return cp
}

// Resolver is a mutable stack of namespace contexts. The zero value is a
// usable, empty resolver.
type Resolver struct {
	stack []*frame
}

// New returns a Resolver with no contexts pushed.
func New() *Resolver {
	return &Resolver{}
}

// EnterContext pushes a fresh, empty context frame.
func (r *Resolver) EnterContext() {
	r.stack = append(r.stack, newFrame())
}

// EnterContextWithMapping pushes a context frame pre-populated with the
// given prefix→URI bindings. A binding keyed by the empty string sets the
// frame's default namespace.
func (r *Resolver) EnterContextWithMapping(mapping map[string]string) {
	f := newFrame()
	for prefix, uri := range mapping {
		if prefix == "" {
			f.hasDefault = true
			f.defaultNS = uri
			continue
		}
		f.bindings[prefix] = uri
	}
	r.stack = append(r.stack, f)
}

// DefinePrefix binds prefix to uri in the current (topmost) context. An
// empty prefix sets the default namespace for element QNames. DefinePrefix
// panics if no context has been entered; the caller contract requires
// EnterContext (or EnterContextWithMapping) before any binding calls.
func (r *Resolver) DefinePrefix(prefix, uri string) {
	if len(r.stack) == 0 {
		panic("nsresolve: DefinePrefix called with no context on the stack")
	}
	top := r.stack[len(r.stack)-1]
	if prefix == "" {
		top.hasDefault = true
		top.defaultNS = uri
		return
	}
	top.bindings[prefix] = uri
}

// LeaveContext pops the topmost context frame. It is a no-op if the stack
// is already empty.
func (r *Resolver) LeaveContext() {
	if len(r.stack) == 0 {
		return
	}
	r.stack = r.stack[:len(r.stack)-1]
}

// Depth returns the number of context frames currently on the stack.
func (r *Resolver) Depth() int { return len(r.stack) }

// ResolveName resolves a QName-like string ("prefix:local" or "local") to
// a (uri, localName) pair given the current context stack.
//
// forAttribute selects attribute-QName semantics: an unprefixed attribute
// name is always in the no-namespace (the default-namespace mapping
// applies to elements only). ok is false if a prefix is used but never
// bound in any frame on the stack.
func (r *Resolver) ResolveName(qname string, forAttribute bool) (uri, local string, ok bool) {
	prefix, localName := splitQName(qname)
	if prefix == "" {
		if forAttribute {
			return "", localName, true
		}
		for i := len(r.stack) - 1; i >= 0; i-- {
			if r.stack[i].hasDefault {
				return r.stack[i].defaultNS, localName, true
			}
		}
		return "", localName, true
	}
	if prefix == "xml" {
		return "http://www.w3.org/XML/1998/namespace", localName, true
	}
	for i := len(r.stack) - 1; i >= 0; i-- {
		if u, found := r.stack[i].bindings[prefix]; found {
			return u, localName, true
		}
	}
	return "", "", false
}

func splitQName(qname string) (prefix, local string) {
	for i := 0; i < len(qname); i++ {
		if qname[i] == ':' {
			return qname[:i], qname[i+1:]
		}
	}
	return "", qname
}

// Memo maps an original Resolver to its in-progress clone, so that a
// resolver reached twice during a single walker Clone() call is copied
// exactly once. The zero value is ready to use.
type Memo struct {
	copies map[*Resolver]*Resolver
}

// Clone returns an independent deep copy of r, reusing memo to preserve
// the "clone once per memo" guarantee shared with walker cloning.
func (r *Resolver) Clone(memo *Memo) *Resolver {
	if memo.copies == nil {
		memo.copies = make(map[*Resolver]*Resolver)
	}
	if cp, ok := memo.copies[r]; ok {
		return cp
	}
	cp := &Resolver{stack: make([]*frame, len(r.stack))}
	memo.copies[r] = cp
	for i, f := range r.stack {
		cp.stack[i] = f.clone()
	}
	return cp
}
