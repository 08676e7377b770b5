package component

import (
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

var (
	exportPattern     = regexp.MustCompile(`export\s+(?:default\s+)?(?:const|function)\s+([A-Za-z_$][\w$]*)`)
	propsStartPattern = regexp.MustCompile(`(?:interface\s+[A-Za-z_$][\w$]*Props(?:\s*<[^>{]*>)?(?:\s+extends\s+[^{]+)?|type\s+[A-Za-z_$][\w$]*Props(?:\s*<[^>{]*>)?\s*=)\s*\{`)
	memberPattern     = regexp.MustCompile(`(?s)^(?:readonly\s+)?([A-Za-z_$][\w$]*)(\?)?\s*:\s*(.+)$`)
	memberStart       = regexp.MustCompile(`^(?:readonly\s+)?[A-Za-z_$][\w$]*\??\s*:`)
	defaultPattern    = regexp.MustCompile(`(?s)^([A-Za-z_$][\w$]*)(?:\s*:\s*[A-Za-z_$][\w$]*)?\s*=\s*(.+)$`)
	quotedPattern     = regexp.MustCompile(`'([^']+)'|"([^"]+)"`)
	literalPattern    = regexp.MustCompile(`^(?:'[^']*'|"[^"]*")$`)
)

// Extract reads the component name, props, variants and defaults from source.
// path only supplies the fallback name and the recorded source path.
// A source without a props block yields a record with no props.
func Extract(source, path string) (*Record, error) {
	rec := &Record{
		Name:       componentName(source, path),
		Type:       "COMPONENT",
		Props:      make(map[string]PropInfo),
		Variants:   make(map[string][]string),
		SourcePath: path,
	}

	body, found, err := propsBlock(source)
	if err != nil {
		return nil, err
	}
	if !found {
		return rec, nil
	}

	for _, member := range splitMembers(stripComments(body)) {
		m := memberPattern.FindStringSubmatch(member)
		if m == nil {
			continue
		}
		name, typ := m[1], normalizeType(m[3])
		rec.Props[name] = PropInfo{
			Type:     typ,
			Required: m[2] == "",
			Kind:     MapKind(typ),
		}

		if options := variantOptions(typ); len(options) > 0 {
			rec.Variants[name] = options
		}
	}

	defaults, err := extractDefaults(source, rec.Name)
	if err != nil {
		return nil, err
	}
	for _, def := range defaults {
		if _, ok := rec.Props[def.Name]; ok {
			rec.Defaults = append(rec.Defaults, def)
		}
	}

	return rec, nil
}

func componentName(source, path string) string {
	if m := exportPattern.FindStringSubmatch(source); m != nil {
		return m[1]
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// MapKind maps a TypeScript prop type to a Figma property kind. Unions of
// string literals are variants; anything unrecognized is text.
func MapKind(typ string) Kind {
	typ = strings.TrimSpace(typ)
	switch typ {
	case "string":
		return KindText
	case "boolean":
		return KindBoolean
	case "React.ReactNode", "ReactNode":
		return KindInstanceSwap
	}

	if strings.Contains(typ, "|") {
		literals := 0
		for _, part := range strings.Split(typ, "|") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if !literalPattern.MatchString(part) {
				return KindText
			}
			literals++
		}
		if literals > 0 {
			return KindVariant
		}
	}

	return KindText
}

// variantOptions returns the quoted literals of a union type in order.
func variantOptions(typ string) []string {
	if !strings.Contains(typ, "|") {
		return nil
	}

	var options []string
	for _, m := range quotedPattern.FindAllStringSubmatch(typ, -1) {
		if m[1] != "" {
			options = append(options, m[1])
		} else {
			options = append(options, m[2])
		}
	}
	return options
}

func normalizeType(typ string) string {
	typ = strings.Join(strings.Fields(typ), " ")
	typ = strings.TrimSuffix(typ, ";")
	typ = strings.TrimPrefix(typ, "| ")
	return strings.TrimSpace(typ)
}

// propsBlock returns the text between the braces of the first props block.
func propsBlock(source string) (string, bool, error) {
	loc := propsStartPattern.FindStringIndex(source)
	if loc == nil {
		return "", false, nil
	}

	open := loc[1] - 1
	end, err := matchClose(source, open)
	if err != nil {
		return "", false, err
	}
	return source[open+1 : end], true, nil
}

// splitMembers splits a props body into members at top-level ';' and ','
// and at newlines followed by the start of another member, so multi-line
// union types stay in one piece.
func splitMembers(body string) []string {
	return splitTopLevel(body, true, func(rest string) bool {
		switch rest[0] {
		case ';', ',':
			return true
		case '\n':
			return memberStart.MatchString(strings.TrimLeft(rest[1:], " \t\r\n"))
		}
		return false
	})
}

// extractDefaults reads `name = value` pairs from the first destructuring
// pattern opened inside the parameter list following the component's
// declaration. Wrappers such as forwardRef(...) or memo(...) are looked
// through: only the destructuring braces themselves need to balance.
func extractDefaults(source, name string) (Defaults, error) {
	decl := regexp.MustCompile(`(?:const|let|var|function)\s+` + regexp.QuoteMeta(name) + `\b`)
	loc := decl.FindStringIndex(source)
	if loc == nil {
		return nil, nil
	}

	rest := source[loc[1]:]
	paren := strings.IndexByte(rest, '(')
	if paren < 0 {
		return nil, nil
	}
	brace := destructuringBrace(rest, paren)
	if brace < 0 {
		return nil, nil
	}
	end, err := matchClose(rest, brace)
	if err != nil {
		return nil, err
	}

	var defaults Defaults
	entries := splitTopLevel(stripComments(rest[brace+1:end]), false, func(rest string) bool {
		return rest[0] == ','
	})
	for _, entry := range entries {
		m := defaultPattern.FindStringSubmatch(entry)
		if m == nil {
			continue
		}
		value := strings.Trim(strings.TrimSpace(m[2]), "'\"`")
		defaults = append(defaults, Default{Name: m[1], Value: value})
	}
	return defaults, nil
}

// destructuringBrace returns the index of the first '{' after the '(' at
// src[open], or -1 when the parentheses opened there close first.
func destructuringBrace(src string, open int) int {
	depth := 0
	for i := open; i < len(src); i++ {
		switch src[i] {
		case '"', '\'', '`':
			i = skipString(src, i)
		case '/':
			if j, ok := skipComment(src, i); ok {
				i = j
			}
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return -1
			}
		case '{':
			return i
		}
	}
	return -1
}

// matchClose returns the index of the bracket closing the one at src[open],
// skipping string literals and comments.
func matchClose(src string, open int) (int, error) {
	depth := 0
	for i := open; i < len(src); i++ {
		switch src[i] {
		case '"', '\'', '`':
			i = skipString(src, i)
		case '/':
			if j, ok := skipComment(src, i); ok {
				i = j
			}
		case '{', '(', '[':
			depth++
		case '}', ')', ']':
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	return -1, ErrUnterminatedBlock
}

// splitTopLevel cuts s wherever sep reports true outside of brackets and
// strings. With angles set, <...> counts as a bracket pair, except for the
// '>' of an arrow. Chunks are trimmed and empty ones dropped.
func splitTopLevel(s string, angles bool, sep func(rest string) bool) []string {
	var (
		parts []string
		depth int
		start int
	)

	cut := func(end int) {
		if part := strings.TrimSpace(s[start:end]); part != "" {
			parts = append(parts, part)
		}
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"' || c == '\'' || c == '`':
			i = skipString(s, i)
			continue
		case c == '{' || c == '(' || c == '[' || (angles && c == '<'):
			depth++
			continue
		case c == '}' || c == ')' || c == ']' || (angles && c == '>' && (i == 0 || s[i-1] != '=')):
			if depth > 0 {
				depth--
			}
			continue
		}

		if depth == 0 && sep(s[i:]) {
			cut(i)
			start = i + 1
		}
	}
	cut(len(s))

	return parts
}

// skipString returns the index of the quote closing the string starting at i.
func skipString(s string, i int) int {
	quote := s[i]
	for j := i + 1; j < len(s); j++ {
		switch s[j] {
		case '\\':
			j++
		case quote:
			return j
		}
	}
	return len(s) - 1
}

// skipComment reports whether a comment starts at i and returns the index of
// its last byte. Line comments end before the newline.
func skipComment(s string, i int) (int, bool) {
	if i+1 >= len(s) {
		return i, false
	}

	switch s[i+1] {
	case '/':
		if nl := strings.IndexByte(s[i:], '\n'); nl >= 0 {
			return i + nl - 1, true
		}
		return len(s) - 1, true
	case '*':
		if end := strings.Index(s[i+2:], "*/"); end >= 0 {
			return i + 2 + end + 1, true
		}
		return len(s) - 1, true
	}
	return i, false
}

// stripComments replaces comments with a space, leaving strings intact.
func stripComments(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"', '\'', '`':
			j := skipString(s, i)
			b.WriteString(s[i : j+1])
			i = j
		case '/':
			if j, ok := skipComment(s, i); ok {
				b.WriteByte(' ')
				i = j
				continue
			}
			b.WriteByte(s[i])
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
