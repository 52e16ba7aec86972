// pkg/bindgen/emit.go
package bindgen

import (
	"fmt"
	"strings"
)

// primitiveTypes maps plain C type spellings to their cgo equivalents.
var primitiveTypes = map[string]string{
	"void":               "",
	"char":               "C.char",
	"signed char":        "C.schar",
	"unsigned char":      "C.uchar",
	"short":              "C.short",
	"unsigned short":     "C.ushort",
	"int":                "C.int",
	"signed":             "C.int",
	"signed int":         "C.int",
	"unsigned":           "C.uint",
	"unsigned int":       "C.uint",
	"long":               "C.long",
	"unsigned long":      "C.ulong",
	"long long":          "C.longlong",
	"unsigned long long": "C.ulonglong",
	"float":              "C.float",
	"double":             "C.double",
	"_Bool":              "C.bool",
	"size_t":             "C.size_t",
	"int8_t":             "C.int8_t",
	"uint8_t":            "C.uint8_t",
	"int16_t":            "C.int16_t",
	"uint16_t":           "C.uint16_t",
	"int32_t":            "C.int32_t",
	"uint32_t":           "C.uint32_t",
	"int64_t":            "C.int64_t",
	"uint64_t":           "C.uint64_t",
}

// goKeywords are parameter names that need renaming in wrappers.
var goKeywords = map[string]bool{
	"break": true, "case": true, "chan": true, "const": true,
	"continue": true, "default": true, "defer": true, "else": true,
	"fallthrough": true, "for": true, "func": true, "go": true,
	"goto": true, "if": true, "import": true, "interface": true,
	"map": true, "package": true, "range": true, "return": true,
	"select": true, "struct": true, "switch": true, "type": true,
	"var": true,
}

// mapCType translates a normalized C type into a cgo Go type. known
// holds every typedef name scanned across the whole header set. The
// second result reports whether the type pulls in unsafe.Pointer.
func mapCType(ctype string, known map[string]bool) (string, bool, bool) {
	tokens := strings.Fields(ctype)

	stars := 0
	var base []string
	for _, tok := range tokens {
		switch tok {
		case "*":
			stars++
		case "const", "volatile", "restrict":
		default:
			base = append(base, tok)
		}
	}
	baseName := strings.Join(base, " ")

	var goBase string
	switch {
	case baseName == "":
		return "", false, false
	case len(base) == 2 && base[0] == "struct":
		goBase = "C.struct_" + base[1]
	case len(base) == 2 && base[0] == "enum":
		goBase = "C.enum_" + base[1]
	default:
		if mapped, ok := primitiveTypes[baseName]; ok {
			goBase = mapped
		} else if len(base) == 1 && known[baseName] {
			goBase = "C." + baseName
		} else {
			return "", false, false
		}
	}

	if goBase == "" { // void
		if stars == 0 {
			return "", false, true
		}
		return strings.Repeat("*", stars-1) + "unsafe.Pointer", true, true
	}
	return strings.Repeat("*", stars) + goBase, false, true
}

// exportName converts a snake_case C symbol into an exported Go name.
func exportName(symbol string) string {
	var b strings.Builder
	for _, part := range strings.Split(symbol, "_") {
		if part == "" {
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
	return b.String()
}

// emitter accumulates the generated declarations, deduplicating symbol
// names across headers: the first occurrence wins.
type emitter struct {
	body        strings.Builder
	seenConst   map[string]bool
	seenType    map[string]bool
	seenFunc    map[string]bool
	known       map[string]bool // all scanned typedef names
	filter      map[string]bool
	blocklist   map[string]bool
	needsUnsafe bool
}

func newEmitter(known, filter, blocklist map[string]bool) *emitter {
	return &emitter{
		seenConst: map[string]bool{},
		seenType:  map[string]bool{},
		seenFunc:  map[string]bool{},
		known:     known,
		filter:    filter,
		blocklist: blocklist,
	}
}

// emitHeader appends everything bound from one header.
func (e *emitter) emitHeader(header string, decls *Declarations) {
	var consts []string
	for _, m := range decls.Macros {
		if e.filter[m.Name] || e.seenConst[m.Name] {
			continue
		}
		e.seenConst[m.Name] = true
		consts = append(consts, fmt.Sprintf("\t%s = %s", m.Name, m.Value))
	}
	for _, enum := range decls.Enums {
		for _, name := range enum.Enumerators {
			if e.filter[name] || e.seenConst[name] {
				continue
			}
			e.seenConst[name] = true
			consts = append(consts, fmt.Sprintf("\t%s = C.%s", name, name))
		}
	}

	var types []string
	for _, name := range decls.Typedefs {
		if e.blocklist[name] || e.seenType[name] {
			continue
		}
		e.seenType[name] = true
		types = append(types, fmt.Sprintf("type %s = C.%s", name, name))
	}

	var funcs []string
	for _, fn := range decls.Functions {
		code, ok := e.renderFunc(fn)
		if !ok {
			continue
		}
		funcs = append(funcs, code)
	}

	if len(consts) == 0 && len(types) == 0 && len(funcs) == 0 {
		return
	}

	fmt.Fprintf(&e.body, "// %s\n\n", header)
	if len(consts) > 0 {
		fmt.Fprintf(&e.body, "const (\n%s\n)\n\n", strings.Join(consts, "\n"))
	}
	for _, t := range types {
		fmt.Fprintf(&e.body, "%s\n", t)
	}
	if len(types) > 0 {
		e.body.WriteString("\n")
	}
	for _, f := range funcs {
		fmt.Fprintf(&e.body, "%s\n", f)
	}
}

// renderFunc renders one wrapper, or reports that the prototype falls
// outside the supported type subset.
func (e *emitter) renderFunc(fn Function) (string, bool) {
	goName := exportName(fn.Name)
	if e.seenFunc[fn.Name] || e.seenFunc[goName] {
		return "", false
	}

	ret, unsafeRet, ok := mapCType(fn.Return, e.known)
	if !ok {
		return "", false
	}

	var (
		sigParams  []string
		callParams []string
	)
	for i, p := range fn.Params {
		ptype, unsafeParam, ok := mapCType(p.Type, e.known)
		if !ok || ptype == "" {
			return "", false
		}
		name := p.Name
		if name == "" || goKeywords[name] {
			name = fmt.Sprintf("p%d", i)
		}
		sigParams = append(sigParams, name+" "+ptype)
		callParams = append(callParams, name)
		if unsafeParam {
			e.needsUnsafe = true
		}
	}
	if unsafeRet {
		e.needsUnsafe = true
	}

	e.seenFunc[fn.Name] = true
	e.seenFunc[goName] = true

	call := fmt.Sprintf("C.%s(%s)", fn.Name, strings.Join(callParams, ", "))
	var b strings.Builder
	fmt.Fprintf(&b, "// %s wraps %s.\n", goName, fn.Name)
	if ret == "" {
		fmt.Fprintf(&b, "func %s(%s) {\n\t%s\n}\n", goName, strings.Join(sigParams, ", "), call)
	} else {
		fmt.Fprintf(&b, "func %s(%s) %s {\n\treturn %s\n}\n", goName, strings.Join(sigParams, ", "), ret, call)
	}
	return b.String(), true
}
