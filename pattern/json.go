package pattern

import (
	"encoding/json"
	"fmt"

	"github.com/raffazizzi/relaxwalk/datatype"
	"github.com/raffazizzi/relaxwalk/internal/walkio"
	"github.com/raffazizzi/relaxwalk/namepat"
	"github.com/raffazizzi/relaxwalk/rngerrors"
)

// TreeVersion is the current JSON tree wire format major version.
const TreeVersion = 3

// Option bit flags for the wire format's "o" field.
const (
	// OptElementPaths indicates each encoded node carries its Origin path
	// string as a trailing array element, for debugging round-tripped
	// trees.
	OptElementPaths = 1 << 0
)

type wireTree struct {
	V int             `json:"v"`
	O int             `json:"o"`
	D json.RawMessage `json:"d"`
}

// namepat kind tags, in a tag space separate from pattern.Kind since they
// are only ever nested inside an Attribute or Element node's array.
const (
	ncName = iota
	ncNameChoice
	ncNsName
	ncAnyName
)

// WriteTreeToJSON serializes a grammar's simplified pattern tree to the
// stable wire format: {"v": <n>, "o": <bitfield>, "d": [start, defines]}.
// includeOrigins controls whether OptElementPaths is set and Origin
// strings are emitted.
func WriteTreeToJSON(g *Grammar, includeOrigins bool) ([]byte, error) {
	enc := &encoder{g: g, includeOrigins: includeOrigins}

	start := enc.encodeNode(g.StartID)

	names := make([]string, 0, len(g.DefineByName))
	for name := range g.DefineByName {
		names = append(names, name)
	}
	// Deterministic output: sort define names.
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && names[j] < names[j-1]; j-- {
			names[j], names[j-1] = names[j-1], names[j]
		}
	}
	defines := make([]any, 0, len(names))
	for _, name := range names {
		defines = append(defines, []any{name, enc.encodeNode(g.DefineByName[name])})
	}

	d, err := walkio.MarshalJSON([]any{start, defines})
	if err != nil {
		return nil, err
	}

	opts := 0
	if includeOrigins {
		opts |= OptElementPaths
	}
	return walkio.MarshalJSON(wireTree{V: TreeVersion, O: opts, D: d})
}

type encoder struct {
	g              *Grammar
	includeOrigins bool
}

func (e *encoder) encodeNode(id ID) []any {
	if id == NoID {
		return nil
	}
	n := e.g.Node(id)
	var arr []any

	switch n.Kind {
	case KindEmpty, KindNotAllowed, KindText:
		arr = []any{int(n.Kind)}

	case KindValue:
		arr = []any{int(n.Kind), n.ValueRaw, n.ValueType, n.ValueDatatypeLibrary, n.ValueNS}

	case KindData:
		params := make([]any, 0, len(n.DataParams))
		for _, p := range n.DataParams {
			params = append(params, []any{p.Name, p.Value})
		}
		var except any
		if n.DataExceptID != NoID {
			except = e.encodeNode(n.DataExceptID)
		}
		arr = []any{int(n.Kind), n.DataType, n.DataDatatypeLibrary, params, except}

	case KindOneOrMore, KindList:
		arr = []any{int(n.Kind), e.encodeNode(n.ContentID)}

	case KindAttribute, KindElement:
		arr = []any{int(n.Kind), encodeNameClass(n.NameClass), e.encodeNode(n.ContentID)}

	case KindDefine:
		arr = []any{int(n.Kind), n.DefineName, e.encodeNode(n.ContentID)}

	case KindGroup, KindInterleave, KindChoice:
		arr = []any{int(n.Kind), e.encodeNode(n.AID), e.encodeNode(n.BID)}

	case KindRef:
		arr = []any{int(n.Kind), n.RefName}

	default:
		arr = []any{int(n.Kind)}
	}

	if e.includeOrigins {
		arr = append(arr, n.Origin)
	}
	return arr
}

func encodeNameClass(nc namepat.NamePattern) []any {
	switch v := nc.(type) {
	case namepat.Name:
		return []any{ncName, v.NS, v.Name}
	case namepat.NameChoice:
		return []any{ncNameChoice, encodeNameClass(v.A), encodeNameClass(v.B)}
	case namepat.NsName:
		var except any
		if v.Except != nil {
			except = encodeNameClass(v.Except)
		}
		return []any{ncNsName, v.NS, except}
	case namepat.AnyName:
		var except any
		if v.Except != nil {
			except = encodeNameClass(v.Except)
		}
		return []any{ncAnyName, except}
	default:
		return nil
	}
}

// ReadTreeFromJSON deserializes the wire format produced by
// WriteTreeToJSON. It rejects any major version other than TreeVersion.
// The returned Grammar has NOT been Resolve()d or Prepare()d yet; the
// caller must run both before constructing a walker, exactly as for a
// freshly-built tree.
func ReadTreeFromJSON(data []byte, registry *datatype.Registry) (*Grammar, error) {
	var wt wireTree
	if err := json.Unmarshal(data, &wt); err != nil {
		return nil, &rngerrors.DecodeError{Message: "malformed envelope", Cause: err}
	}
	if wt.V != TreeVersion {
		return nil, &rngerrors.DecodeError{
			Message: fmt.Sprintf("unsupported tree version %d (expected %d)", wt.V, TreeVersion),
			Cause:   rngerrors.ErrDecode,
		}
	}

	var top []json.RawMessage
	if err := json.Unmarshal(wt.D, &top); err != nil || len(top) != 2 {
		return nil, &rngerrors.DecodeError{Message: "malformed \"d\" field", Cause: err}
	}

	arena := NewArena()
	dec := &decoder{arena: arena, includeOrigins: wt.O&OptElementPaths != 0}

	startID, err := dec.decodeNodeRaw(top[0])
	if err != nil {
		return nil, err
	}

	var defineEntries []json.RawMessage
	if err := json.Unmarshal(top[1], &defineEntries); err != nil {
		return nil, &rngerrors.DecodeError{Message: "malformed defines list", Cause: err}
	}
	defines := make(map[string]ID, len(defineEntries))
	for _, entry := range defineEntries {
		var pair []json.RawMessage
		if err := json.Unmarshal(entry, &pair); err != nil || len(pair) != 2 {
			return nil, &rngerrors.DecodeError{Message: "malformed define entry", Cause: err}
		}
		var name string
		if err := json.Unmarshal(pair[0], &name); err != nil {
			return nil, &rngerrors.DecodeError{Message: "malformed define name", Cause: err}
		}
		bodyID, err := dec.decodeNodeRaw(pair[1])
		if err != nil {
			return nil, err
		}
		defines[name] = bodyID
	}

	return &Grammar{
		Arena:        arena,
		StartID:      startID,
		DefineByName: defines,
		Datatypes:    registry,
	}, nil
}

type decoder struct {
	arena          *Arena
	includeOrigins bool
}

func (d *decoder) decodeNodeRaw(raw json.RawMessage) (ID, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return NoID, nil
	}
	var arr []json.RawMessage
	if err := json.Unmarshal(raw, &arr); err != nil {
		return NoID, &rngerrors.DecodeError{Message: "node is not an array", Cause: err}
	}
	if len(arr) == 0 {
		return NoID, &rngerrors.DecodeError{Message: "empty node array"}
	}
	var kindInt int
	if err := json.Unmarshal(arr[0], &kindInt); err != nil {
		return NoID, &rngerrors.DecodeError{Message: "node kind is not an int", Cause: err}
	}
	kind := Kind(kindInt)

	var origin string
	args := arr[1:]
	if d.includeOrigins && len(args) > 0 {
		last := args[len(args)-1]
		if err := json.Unmarshal(last, &origin); err == nil {
			args = args[:len(args)-1]
		}
	}

	var id ID
	var err error
	switch kind {
	case KindEmpty:
		id = d.arena.NewEmpty(origin)
	case KindNotAllowed:
		id = d.arena.NewNotAllowed(origin)
	case KindText:
		id = d.arena.NewText(origin)
	case KindValue:
		id, err = d.decodeValue(origin, args)
	case KindData:
		id, err = d.decodeData(origin, args)
	case KindOneOrMore:
		id, err = d.decodeUnary(origin, args, d.arena.NewOneOrMore)
	case KindList:
		id, err = d.decodeUnary(origin, args, d.arena.NewList)
	case KindAttribute:
		id, err = d.decodeNamed(origin, args, d.arena.NewAttribute)
	case KindElement:
		id, err = d.decodeNamed(origin, args, d.arena.NewElement)
	case KindDefine:
		id, err = d.decodeDefine(origin, args)
	case KindGroup:
		id, err = d.decodeBinary(origin, args, d.arena.NewGroup)
	case KindInterleave:
		id, err = d.decodeBinary(origin, args, d.arena.NewInterleave)
	case KindChoice:
		id, err = d.decodeBinary(origin, args, d.arena.NewChoice)
	case KindRef:
		id, err = d.decodeRef(origin, args)
	default:
		return NoID, &rngerrors.DecodeError{Message: fmt.Sprintf("unknown node kind %d", kindInt)}
	}
	return id, err
}

func (d *decoder) decodeValue(origin string, args []json.RawMessage) (ID, error) {
	if len(args) != 4 {
		return NoID, &rngerrors.DecodeError{Message: "Value node expects 4 args"}
	}
	var raw, typ, lib, ns string
	if err := json.Unmarshal(args[0], &raw); err != nil {
		return NoID, &rngerrors.DecodeError{Message: "Value.raw", Cause: err}
	}
	if err := json.Unmarshal(args[1], &typ); err != nil {
		return NoID, &rngerrors.DecodeError{Message: "Value.type", Cause: err}
	}
	if err := json.Unmarshal(args[2], &lib); err != nil {
		return NoID, &rngerrors.DecodeError{Message: "Value.datatypeLibrary", Cause: err}
	}
	if err := json.Unmarshal(args[3], &ns); err != nil {
		return NoID, &rngerrors.DecodeError{Message: "Value.ns", Cause: err}
	}
	return d.arena.NewValue(origin, raw, typ, lib, ns), nil
}

func (d *decoder) decodeData(origin string, args []json.RawMessage) (ID, error) {
	if len(args) != 4 {
		return NoID, &rngerrors.DecodeError{Message: "Data node expects 4 args"}
	}
	var typ, lib string
	if err := json.Unmarshal(args[0], &typ); err != nil {
		return NoID, &rngerrors.DecodeError{Message: "Data.type", Cause: err}
	}
	if err := json.Unmarshal(args[1], &lib); err != nil {
		return NoID, &rngerrors.DecodeError{Message: "Data.datatypeLibrary", Cause: err}
	}
	var rawParams []json.RawMessage
	if err := json.Unmarshal(args[2], &rawParams); err != nil {
		return NoID, &rngerrors.DecodeError{Message: "Data.params", Cause: err}
	}
	params := make([]datatype.Param, 0, len(rawParams))
	for _, rp := range rawParams {
		var pair []string
		if err := json.Unmarshal(rp, &pair); err != nil || len(pair) != 2 {
			return NoID, &rngerrors.DecodeError{Message: "Data.param entry"}
		}
		params = append(params, datatype.Param{Name: pair[0], Value: pair[1]})
	}
	exceptID, err := d.decodeNodeRaw(args[3])
	if err != nil {
		return NoID, err
	}
	return d.arena.NewData(origin, typ, lib, params, exceptID), nil
}

func (d *decoder) decodeUnary(origin string, args []json.RawMessage, ctor func(string, ID) ID) (ID, error) {
	if len(args) != 1 {
		return NoID, &rngerrors.DecodeError{Message: "unary node expects 1 arg"}
	}
	contentID, err := d.decodeNodeRaw(args[0])
	if err != nil {
		return NoID, err
	}
	return ctor(origin, contentID), nil
}

func (d *decoder) decodeNamed(origin string, args []json.RawMessage, ctor func(string, namepat.NamePattern, ID) ID) (ID, error) {
	if len(args) != 2 {
		return NoID, &rngerrors.DecodeError{Message: "named node expects 2 args"}
	}
	nc, err := decodeNameClassRaw(args[0])
	if err != nil {
		return NoID, err
	}
	contentID, err := d.decodeNodeRaw(args[1])
	if err != nil {
		return NoID, err
	}
	return ctor(origin, nc, contentID), nil
}

func (d *decoder) decodeDefine(origin string, args []json.RawMessage) (ID, error) {
	if len(args) != 2 {
		return NoID, &rngerrors.DecodeError{Message: "Define node expects 2 args"}
	}
	var name string
	if err := json.Unmarshal(args[0], &name); err != nil {
		return NoID, &rngerrors.DecodeError{Message: "Define.name", Cause: err}
	}
	bodyID, err := d.decodeNodeRaw(args[1])
	if err != nil {
		return NoID, err
	}
	return d.arena.NewDefine(origin, name, bodyID), nil
}

func (d *decoder) decodeBinary(origin string, args []json.RawMessage, ctor func(string, ID, ID) ID) (ID, error) {
	if len(args) != 2 {
		return NoID, &rngerrors.DecodeError{Message: "binary node expects 2 args"}
	}
	aID, err := d.decodeNodeRaw(args[0])
	if err != nil {
		return NoID, err
	}
	bID, err := d.decodeNodeRaw(args[1])
	if err != nil {
		return NoID, err
	}
	return ctor(origin, aID, bID), nil
}

func (d *decoder) decodeRef(origin string, args []json.RawMessage) (ID, error) {
	if len(args) != 1 {
		return NoID, &rngerrors.DecodeError{Message: "Ref node expects 1 arg"}
	}
	var name string
	if err := json.Unmarshal(args[0], &name); err != nil {
		return NoID, &rngerrors.DecodeError{Message: "Ref.name", Cause: err}
	}
	return d.arena.NewRef(origin, name), nil
}

func decodeNameClassRaw(raw json.RawMessage) (namepat.NamePattern, error) {
	var arr []json.RawMessage
	if err := json.Unmarshal(raw, &arr); err != nil || len(arr) == 0 {
		return nil, &rngerrors.DecodeError{Message: "name class is not a non-empty array", Cause: err}
	}
	var tag int
	if err := json.Unmarshal(arr[0], &tag); err != nil {
		return nil, &rngerrors.DecodeError{Message: "name class tag", Cause: err}
	}
	switch tag {
	case ncName:
		if len(arr) != 3 {
			return nil, &rngerrors.DecodeError{Message: "Name name class expects 2 args"}
		}
		var ns, name string
		if err := json.Unmarshal(arr[1], &ns); err != nil {
			return nil, &rngerrors.DecodeError{Message: "Name.ns", Cause: err}
		}
		if err := json.Unmarshal(arr[2], &name); err != nil {
			return nil, &rngerrors.DecodeError{Message: "Name.name", Cause: err}
		}
		return namepat.Name{NS: ns, Name: name}, nil
	case ncNameChoice:
		if len(arr) != 3 {
			return nil, &rngerrors.DecodeError{Message: "NameChoice name class expects 2 args"}
		}
		a, err := decodeNameClassRaw(arr[1])
		if err != nil {
			return nil, err
		}
		b, err := decodeNameClassRaw(arr[2])
		if err != nil {
			return nil, err
		}
		return namepat.NameChoice{A: a, B: b}, nil
	case ncNsName:
		if len(arr) != 3 {
			return nil, &rngerrors.DecodeError{Message: "NsName name class expects 2 args"}
		}
		var ns string
		if err := json.Unmarshal(arr[1], &ns); err != nil {
			return nil, &rngerrors.DecodeError{Message: "NsName.ns", Cause: err}
		}
		except, err := decodeOptionalNameClass(arr[2])
		if err != nil {
			return nil, err
		}
		return namepat.NsName{NS: ns, Except: except}, nil
	case ncAnyName:
		if len(arr) != 2 {
			return nil, &rngerrors.DecodeError{Message: "AnyName name class expects 1 arg"}
		}
		except, err := decodeOptionalNameClass(arr[1])
		if err != nil {
			return nil, err
		}
		return namepat.AnyName{Except: except}, nil
	default:
		return nil, &rngerrors.DecodeError{Message: fmt.Sprintf("unknown name class tag %d", tag)}
	}
}

func decodeOptionalNameClass(raw json.RawMessage) (namepat.NamePattern, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	return decodeNameClassRaw(raw)
}
