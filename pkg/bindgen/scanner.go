// pkg/bindgen/scanner.go
package bindgen

import (
	"regexp"
	"strings"
)

// Macro is an object-like #define with a literal value.
type Macro struct {
	Name  string
	Value string // Go-compatible literal text
}

// Enum is one enum block; only the enumerator names are kept, their
// values are resolved through cgo.
type Enum struct {
	Tag         string // empty for anonymous enums
	Enumerators []string
}

// Param is a single function parameter.
type Param struct {
	Name string
	Type string // normalized C type, e.g. "const AVFrame *"
}

// Function is a scanned top-level function prototype.
type Function struct {
	Name   string
	Return string // normalized C type
	Params []Param
}

// Declarations is everything scanned from a single header, in file order.
type Declarations struct {
	Macros       []Macro
	Enums        []Enum
	Typedefs     []string // typedef'd struct names
	Functions    []Function
	SkippedFuncs []string // prototypes outside the supported type subset
}

var (
	defineRe = regexp.MustCompile(`(?m)^[ \t]*#[ \t]*define[ \t]+([A-Za-z_]\w*)[ \t]+([^\n]+)$`)

	// Literal forms the emitter can reproduce as Go constants.
	intLitRe    = regexp.MustCompile(`^-?(0[xX][0-9a-fA-F]+|\d+)[uUlL]*$`)
	floatLitRe  = regexp.MustCompile(`^-?\d+\.\d+([eE][+-]?\d+)?[fF]?$`)
	charLitRe   = regexp.MustCompile(`^'(\\.|[^'\\])'$`)
	stringLitRe = regexp.MustCompile(`^"(\\.|[^"\\])*"$`)

	enumRe        = regexp.MustCompile(`enum([ \t]+([A-Za-z_]\w*))?[ \t\n]*\{([^{}]*)\}`)
	fwdTypedefRe  = regexp.MustCompile(`^typedef +struct +([A-Za-z_]\w*) +([A-Za-z_]\w*)$`)
	prototypeRe   = regexp.MustCompile(`^(.*?[^\w])([A-Za-z_]\w*) *\(([^()]*)\)$`)
	identifierRe  = regexp.MustCompile(`^[A-Za-z_]\w*$`)
	enumeratorRe  = regexp.MustCompile(`^[A-Za-z_]\w*`)
	attributeRe   = regexp.MustCompile(`\b(av_warn_unused_result|av_const|av_pure|av_cold|av_printf_format *\([^()]*\)|av_alloc_size *\([^()]*\)|attribute_deprecated|av_used|av_unused|av_always_inline|av_noinline|av_noreturn)\b`)
	whitespaceRun = regexp.MustCompile(`[ \t\n]+`)
)

// ScanHeader extracts the declarations the generator can bind from one
// header. Scanning is best-effort within a known subset; everything it
// cannot represent is skipped, never an error.
func ScanHeader(src []byte) *Declarations {
	text := stripComments(string(src))
	text = strings.ReplaceAll(text, "\\\n", " ")

	decls := &Declarations{}
	scanMacros(text, decls)
	scanEnums(text, decls)
	scanBodyTypedefs(text, decls)

	flattened := flattenForPrototypes(text)
	for _, chunk := range strings.Split(flattened, ";") {
		scanChunk(strings.TrimSpace(chunk), decls)
	}

	return decls
}

func scanMacros(text string, decls *Declarations) {
	for _, m := range defineRe.FindAllStringSubmatch(text, -1) {
		name, value := m[1], strings.TrimSpace(m[2])
		// Function-like macros have no space before the parameter list,
		// so they never match defineRe with a value; a name directly
		// followed by '(' in the value position is still possible for
		// expressions, which the literal check rejects.
		if strings.HasPrefix(value, "(") && strings.HasSuffix(value, ")") {
			value = strings.TrimSpace(value[1 : len(value)-1])
		}
		if lit, ok := goLiteral(value); ok {
			decls.Macros = append(decls.Macros, Macro{Name: name, Value: lit})
		}
	}
}

// goLiteral converts a C literal to its Go spelling, rejecting anything
// that is not a plain literal.
func goLiteral(value string) (string, bool) {
	switch {
	case intLitRe.MatchString(value):
		return strings.TrimRight(value, "uUlL"), true
	case floatLitRe.MatchString(value):
		return strings.TrimRight(value, "fF"), true
	case charLitRe.MatchString(value), stringLitRe.MatchString(value):
		return value, true
	default:
		return "", false
	}
}

func scanEnums(text string, decls *Declarations) {
	for _, m := range enumRe.FindAllStringSubmatch(text, -1) {
		enum := Enum{Tag: m[2]}
		for _, entry := range strings.Split(m[3], ",") {
			entry = strings.TrimSpace(entry)
			if entry == "" {
				continue
			}
			if name := enumeratorRe.FindString(entry); name != "" {
				enum.Enumerators = append(enum.Enumerators, name)
			}
		}
		if len(enum.Enumerators) > 0 {
			decls.Enums = append(decls.Enums, enum)
		}
	}
}

// scanBodyTypedefs captures `typedef struct X { ... } Y;` names by
// matching braces, before the bodies are blanked for prototype scanning.
func scanBodyTypedefs(text string, decls *Declarations) {
	for i := 0; i < len(text); {
		idx := strings.Index(text[i:], "typedef")
		if idx < 0 {
			return
		}
		i += idx + len("typedef")

		rest := text[i:]
		if !strings.HasPrefix(strings.TrimLeft(rest, " \t\n"), "struct") {
			continue
		}
		open := strings.IndexByte(rest, '{')
		semi := strings.IndexByte(rest, ';')
		if open < 0 || (semi >= 0 && semi < open) {
			continue
		}
		end := matchBrace(rest, open)
		if end < 0 {
			continue
		}
		tail := rest[end+1:]
		semi = strings.IndexByte(tail, ';')
		if semi < 0 {
			continue
		}
		name := strings.TrimSpace(tail[:semi])
		if identifierRe.MatchString(name) {
			decls.Typedefs = append(decls.Typedefs, name)
		}
		i += end
	}
}

// matchBrace returns the index of the brace closing the one at open,
// or -1.
func matchBrace(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// flattenForPrototypes removes preprocessor lines, blanks brace blocks
// (terminating them like statements) and collapses whitespace, leaving
// ';'-separated top-level declarations.
func flattenForPrototypes(text string) string {
	var kept []string
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		kept = append(kept, line)
	}
	text = strings.Join(kept, "\n")

	var b strings.Builder
	depth := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				b.WriteByte(';')
			}
		default:
			if depth == 0 {
				b.WriteByte(text[i])
			}
		}
	}
	return whitespaceRun.ReplaceAllString(b.String(), " ")
}

func scanChunk(chunk string, decls *Declarations) {
	if chunk == "" {
		return
	}
	chunk = strings.TrimSpace(attributeRe.ReplaceAllString(chunk, ""))

	if m := fwdTypedefRe.FindStringSubmatch(whitespaceRun.ReplaceAllString(chunk, " ")); m != nil {
		decls.Typedefs = append(decls.Typedefs, m[2])
		return
	}

	m := prototypeRe.FindStringSubmatch(chunk)
	if m == nil {
		return
	}
	ret := strings.TrimSpace(m[1])
	name := m[2]
	params := strings.TrimSpace(m[3])
	if ret == "" || strings.ContainsAny(ret, "={}") || strings.HasPrefix(ret, "typedef") {
		return
	}
	if strings.Contains(params, "...") {
		decls.SkippedFuncs = append(decls.SkippedFuncs, name)
		return
	}

	fn := Function{Name: name, Return: normalizeType(ret)}
	if params != "" && params != "void" {
		for _, p := range strings.Split(params, ",") {
			ptype, pname, ok := splitParam(strings.TrimSpace(p))
			if !ok {
				decls.SkippedFuncs = append(decls.SkippedFuncs, name)
				return
			}
			fn.Params = append(fn.Params, Param{Name: pname, Type: ptype})
		}
	}
	decls.Functions = append(decls.Functions, fn)
}

// splitParam separates "const AVFrame *frame" into type and name.
func splitParam(param string) (ptype, pname string, ok bool) {
	if param == "" || strings.ContainsAny(param, "()[]") {
		return "", "", false
	}
	// The name is the trailing identifier; everything before it,
	// including pointer stars, is the type.
	i := len(param)
	for i > 0 && (isWordByte(param[i-1])) {
		i--
	}
	pname = param[i:]
	ptype = strings.TrimSpace(param[:i])
	if pname == "" {
		return "", "", false
	}
	if ptype == "" {
		// Unnamed parameter: the identifier was the type itself.
		ptype, pname = pname, ""
	}
	return normalizeType(ptype), pname, true
}

func isWordByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// normalizeType collapses whitespace and spaces out pointer stars.
func normalizeType(t string) string {
	t = strings.ReplaceAll(t, "*", " * ")
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(t, " "))
}

// stripComments removes /* */ and // comments, preserving newlines so
// line-oriented scans keep working.
func stripComments(src string) string {
	var b strings.Builder
	for i := 0; i < len(src); {
		switch {
		case strings.HasPrefix(src[i:], "/*"):
			end := strings.Index(src[i+2:], "*/")
			if end < 0 {
				return b.String()
			}
			for _, r := range src[i : i+2+end+2] {
				if r == '\n' {
					b.WriteByte('\n')
				}
			}
			i += 2 + end + 2
		case strings.HasPrefix(src[i:], "//"):
			end := strings.IndexByte(src[i:], '\n')
			if end < 0 {
				return b.String()
			}
			i += end
		case src[i] == '"' || src[i] == '\'':
			quote := src[i]
			b.WriteByte(quote)
			i++
			for i < len(src) && src[i] != quote {
				if src[i] == '\\' && i+1 < len(src) {
					b.WriteByte(src[i])
					i++
				}
				b.WriteByte(src[i])
				i++
			}
			if i < len(src) {
				b.WriteByte(quote)
				i++
			}
		default:
			b.WriteByte(src[i])
			i++
		}
	}
	return b.String()
}
