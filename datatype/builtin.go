package datatype

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// XSDDatatypesURI is the datatype library URI for the practical XSD subset
// registered by default.
const XSDDatatypesURI = "http://www.w3.org/2001/XMLSchema-datatypes"

func registerBuiltins(r *Registry) {
	r.Register("", stringType{name: "string"})
	r.Register("", stringType{name: "token", collapse: true})

	r.Register(XSDDatatypesURI, stringType{name: "string"})
	r.Register(XSDDatatypesURI, stringType{name: "token", collapse: true})
	r.Register(XSDDatatypesURI, nameCheckType{name: "NMTOKEN", check: isNMTOKEN})
	r.Register(XSDDatatypesURI, nameCheckType{name: "Name", check: isXMLName})
	r.Register(XSDDatatypesURI, qnameType{name: "QName"})
	r.Register(XSDDatatypesURI, qnameType{name: "NOTATION"})
	r.Register(XSDDatatypesURI, booleanType{})
	r.Register(XSDDatatypesURI, integerType{})
	r.Register(XSDDatatypesURI, decimalType{})
	r.Register(XSDDatatypesURI, floatType{bits: 32})
	r.Register(XSDDatatypesURI, floatType{bits: 64, name64: true})
	r.Register(XSDDatatypesURI, temporalType{name: "date", layout: "2006-01-02"})
	r.Register(XSDDatatypesURI, temporalType{name: "dateTime", layout: time.RFC3339})
}

// collapseWhitespace implements the XSD "collapse" whiteSpace facet:
// leading/trailing whitespace is trimmed and internal runs collapse to a
// single space.
func collapseWhitespace(s string) string {
	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}

// --- string / token -------------------------------------------------

type stringType struct {
	name     string
	collapse bool
}

func (t stringType) LibraryURI() string { return "" }
func (t stringType) LocalName() string  { return t.name }
func (t stringType) NeedsContext() bool { return false }

func (t stringType) CheckParams(params []Param) error { return checkLengthParamsWellFormed(params) }

func (t stringType) normalize(raw string) string {
	if t.collapse {
		return collapseWhitespace(raw)
	}
	return raw
}

func (t stringType) Parse(raw string, _ Context) (Value, error) {
	return t.normalize(raw), nil
}

func (t stringType) Equal(a, b Value) bool {
	return a.(string) == b.(string)
}

func (t stringType) Allows(raw string, params []Param, _ Context) error {
	v := t.normalize(raw)
	return checkLengthParams(v, params)
}

// checkLengthParamsWellFormed validates that length/minLength/maxLength
// facet values themselves parse as non-negative integers, independent of
// any particular lexical value being checked against them. This is what
// Grammar.Prepare calls at construction time, before any instance data
// exists to check.
func checkLengthParamsWellFormed(params []Param) error {
	for _, p := range params {
		switch p.Name {
		case "length", "minLength", "maxLength":
			n, err := strconv.Atoi(p.Value)
			if err != nil || n < 0 {
				return fmt.Errorf("datatype: invalid %s param %q", p.Name, p.Value)
			}
		}
	}
	return nil
}

func checkLengthParams(v string, params []Param) error {
	runeLen := len([]rune(v))
	for _, p := range params {
		switch p.Name {
		case "length":
			n, err := strconv.Atoi(p.Value)
			if err != nil {
				return fmt.Errorf("datatype: invalid length param %q", p.Value)
			}
			if runeLen != n {
				return fmt.Errorf("datatype: length %d does not equal required %d", runeLen, n)
			}
		case "minLength":
			n, err := strconv.Atoi(p.Value)
			if err != nil {
				return fmt.Errorf("datatype: invalid minLength param %q", p.Value)
			}
			if runeLen < n {
				return fmt.Errorf("datatype: length %d is less than minLength %d", runeLen, n)
			}
		case "maxLength":
			n, err := strconv.Atoi(p.Value)
			if err != nil {
				return fmt.Errorf("datatype: invalid maxLength param %q", p.Value)
			}
			if runeLen > n {
				return fmt.Errorf("datatype: length %d exceeds maxLength %d", runeLen, n)
			}
		}
	}
	return nil
}

// --- NMTOKEN / Name ---------------------------------------------------

type nameCheckType struct {
	name  string
	check func(string) bool
}

func (t nameCheckType) LibraryURI() string { return XSDDatatypesURI }
func (t nameCheckType) LocalName() string  { return t.name }
func (t nameCheckType) NeedsContext() bool { return false }

func (t nameCheckType) CheckParams(params []Param) error { return checkLengthParamsWellFormed(params) }

func (t nameCheckType) Parse(raw string, _ Context) (Value, error) {
	v := collapseWhitespace(raw)
	v = norm.NFC.String(v)
	if !t.check(v) {
		return nil, fmt.Errorf("datatype: %q is not a valid %s", raw, t.name)
	}
	return v, nil
}

func (t nameCheckType) Equal(a, b Value) bool {
	return a.(string) == b.(string)
}

func (t nameCheckType) Allows(raw string, params []Param, ctx Context) error {
	v, err := t.Parse(raw, ctx)
	if err != nil {
		return err
	}
	return checkLengthParams(v.(string), params)
}

func isXMLNameStart(r rune) bool {
	return r == '_' || unicode.In(r, unicode.Letter)
}

func isXMLNameChar(r rune) bool {
	return isXMLNameStart(r) || r == '-' || r == '.' || r == ':' ||
		unicode.In(r, unicode.Digit, unicode.Mn, unicode.Mc, unicode.Me)
}

// isXMLName approximates the XML 1.0 Name production: NameStartChar
// followed by zero or more NameChar.
func isXMLName(s string) bool {
	if s == "" {
		return false
	}
	runes := []rune(s)
	if !isXMLNameStart(runes[0]) {
		return false
	}
	for _, r := range runes[1:] {
		if !isXMLNameChar(r) {
			return false
		}
	}
	return true
}

// isNMTOKEN approximates the XML 1.0 Nmtoken production: one or more
// NameChar, with no NameStartChar-only restriction on the first
// character.
func isNMTOKEN(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !isXMLNameChar(r) {
			return false
		}
	}
	return true
}

// --- QName / NOTATION --------------------------------------------------

// qnameValue is the parsed, resolved form of a QName or NOTATION lexical
// value: the prefix's resolved URI plus the local part.
type qnameValue struct {
	URI   string
	Local string
}

type qnameType struct {
	name string
}

func (t qnameType) LibraryURI() string        { return XSDDatatypesURI }
func (t qnameType) LocalName() string         { return t.name }
func (t qnameType) NeedsContext() bool         { return true }
func (t qnameType) CheckParams([]Param) error { return nil }

func (t qnameType) Parse(raw string, ctx Context) (Value, error) {
	v := strings.TrimSpace(raw)
	if !isXMLName(norm.NFC.String(v)) {
		return nil, fmt.Errorf("datatype: %q is not a valid %s lexical form", raw, t.name)
	}
	if ctx == nil {
		return nil, fmt.Errorf("datatype: %s requires a namespace context", t.name)
	}
	uri, local, ok := ctx.ResolveName(v, false)
	if !ok {
		return nil, fmt.Errorf("datatype: unbound prefix in %s value %q", t.name, raw)
	}
	return qnameValue{URI: uri, Local: local}, nil
}

func (t qnameType) Equal(a, b Value) bool {
	return a.(qnameValue) == b.(qnameValue)
}

func (t qnameType) Allows(raw string, params []Param, ctx Context) error {
	_, err := t.Parse(raw, ctx)
	return err
}

// --- boolean ------------------------------------------------------------

type booleanType struct{}

func (booleanType) LibraryURI() string        { return XSDDatatypesURI }
func (booleanType) LocalName() string         { return "boolean" }
func (booleanType) NeedsContext() bool         { return false }
func (booleanType) CheckParams([]Param) error { return nil }

func (booleanType) Parse(raw string, _ Context) (Value, error) {
	v := strings.TrimSpace(raw)
	switch v {
	case "true", "1":
		return true, nil
	case "false", "0":
		return false, nil
	default:
		return nil, fmt.Errorf("datatype: %q is not a valid boolean", raw)
	}
}

func (booleanType) Equal(a, b Value) bool {
	return a.(bool) == b.(bool)
}

func (t booleanType) Allows(raw string, _ []Param, ctx Context) error {
	_, err := t.Parse(raw, ctx)
	return err
}

// --- integer / decimal / float / double ---------------------------------

type integerType struct{}

func (integerType) LibraryURI() string { return XSDDatatypesURI }
func (integerType) LocalName() string  { return "integer" }
func (integerType) NeedsContext() bool { return false }

func (integerType) CheckParams(params []Param) error { return checkNumericParamsWellFormed(params) }

func (integerType) Parse(raw string, _ Context) (Value, error) {
	v := strings.TrimSpace(raw)
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("datatype: %q is not a valid integer: %w", raw, err)
	}
	return n, nil
}

func (integerType) Equal(a, b Value) bool {
	return a.(int64) == b.(int64)
}

func (t integerType) Allows(raw string, params []Param, ctx Context) error {
	v, err := t.Parse(raw, ctx)
	if err != nil {
		return err
	}
	return checkNumericParams(float64(v.(int64)), params)
}

type decimalType struct{}

func (decimalType) LibraryURI() string { return XSDDatatypesURI }
func (decimalType) LocalName() string  { return "decimal" }
func (decimalType) NeedsContext() bool { return false }

func (decimalType) CheckParams(params []Param) error { return checkNumericParamsWellFormed(params) }

func (decimalType) Parse(raw string, _ Context) (Value, error) {
	v := strings.TrimSpace(raw)
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, fmt.Errorf("datatype: %q is not a valid decimal: %w", raw, err)
	}
	return f, nil
}

func (decimalType) Equal(a, b Value) bool {
	return a.(float64) == b.(float64)
}

func (t decimalType) Allows(raw string, params []Param, ctx Context) error {
	v, err := t.Parse(raw, ctx)
	if err != nil {
		return err
	}
	return checkNumericParams(v.(float64), params)
}

// floatType backs both xsd:float and xsd:double. This module does not
// attempt IEEE-754 single-precision range checking for "float" beyond what
// strconv.ParseFloat(_, 32) itself enforces (spec non-goal: numeric
// range-checking for float/double).
type floatType struct {
	bits   int
	name64 bool
}

func (t floatType) LibraryURI() string { return XSDDatatypesURI }
func (t floatType) LocalName() string {
	if t.name64 {
		return "double"
	}
	return "float"
}
func (floatType) NeedsContext() bool         { return false }
func (floatType) CheckParams([]Param) error { return nil }

func (t floatType) Parse(raw string, _ Context) (Value, error) {
	v := strings.TrimSpace(raw)
	switch v {
	case "NaN":
		return math.NaN(), nil
	case "INF":
		return math.Inf(1), nil
	case "-INF":
		return math.Inf(-1), nil
	}
	f, err := strconv.ParseFloat(v, t.bits)
	if err != nil {
		return nil, fmt.Errorf("datatype: %q is not a valid %s: %w", raw, t.LocalName(), err)
	}
	return f, nil
}

func (floatType) Equal(a, b Value) bool {
	af, bf := a.(float64), b.(float64)
	if math.IsNaN(af) && math.IsNaN(bf) {
		return true
	}
	return af == bf
}

func (t floatType) Allows(raw string, _ []Param, ctx Context) error {
	_, err := t.Parse(raw, ctx)
	return err
}

// checkNumericParamsWellFormed validates that min/max facet bounds
// themselves parse as numbers, independent of any instance value.
func checkNumericParamsWellFormed(params []Param) error {
	for _, p := range params {
		switch p.Name {
		case "minInclusive", "minExclusive", "maxInclusive", "maxExclusive":
			if _, err := strconv.ParseFloat(p.Value, 64); err != nil {
				return fmt.Errorf("datatype: invalid %s param %q", p.Name, p.Value)
			}
		}
	}
	return nil
}

func checkNumericParams(v float64, params []Param) error {
	for _, p := range params {
		bound, err := strconv.ParseFloat(p.Value, 64)
		if err != nil {
			return fmt.Errorf("datatype: invalid %s param %q", p.Name, p.Value)
		}
		switch p.Name {
		case "minInclusive":
			if v < bound {
				return fmt.Errorf("datatype: %v is less than minInclusive %v", v, bound)
			}
		case "minExclusive":
			if v <= bound {
				return fmt.Errorf("datatype: %v is not greater than minExclusive %v", v, bound)
			}
		case "maxInclusive":
			if v > bound {
				return fmt.Errorf("datatype: %v exceeds maxInclusive %v", v, bound)
			}
		case "maxExclusive":
			if v >= bound {
				return fmt.Errorf("datatype: %v is not less than maxExclusive %v", v, bound)
			}
		}
	}
	return nil
}

// --- date / dateTime -----------------------------------------------------

// This module does not implement the full XSD temporal facet set (spec
// non-goal: full XML Schema datatype conformance for temporal types with
// facets). It validates the lexical form parses under the given layout
// and compares by the resulting instant.
type temporalType struct {
	name   string
	layout string
}

func (t temporalType) LibraryURI() string        { return XSDDatatypesURI }
func (t temporalType) LocalName() string         { return t.name }
func (t temporalType) NeedsContext() bool         { return false }
func (t temporalType) CheckParams([]Param) error { return nil }

func (t temporalType) Parse(raw string, _ Context) (Value, error) {
	v := strings.TrimSpace(raw)
	tm, err := time.Parse(t.layout, v)
	if err != nil {
		return nil, fmt.Errorf("datatype: %q is not a valid %s: %w", raw, t.name, err)
	}
	return tm, nil
}

func (temporalType) Equal(a, b Value) bool {
	return a.(time.Time).Equal(b.(time.Time))
}

func (t temporalType) Allows(raw string, _ []Param, ctx Context) error {
	_, err := t.Parse(raw, ctx)
	return err
}
