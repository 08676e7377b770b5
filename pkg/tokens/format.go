package tokens

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/spf13/cast"
)

var (
	nameStripPattern = regexp.MustCompile(`[^\p{L}\p{N}_\s-]`)
	nameSplitPattern = regexp.MustCompile(`[-_\s]+`)
)

// defaultShadowColor is used when a shadow value carries no color.
var defaultShadowColor = map[string]any{"r": 0, "g": 0, "b": 0, "a": 0.1}

// FormatName turns a variable name into a camelCase token name.
// Punctuation is dropped; hyphens, underscores and whitespace separate words.
//
//	"Primary Color" -> "primaryColor"
//	"base-spacing"  -> "baseSpacing"
//	"LARGE_SIZE"    -> "largeSize"
func FormatName(name string) string {
	name = nameStripPattern.ReplaceAllString(name, "")
	words := strings.Fields(nameSplitPattern.ReplaceAllString(name, " "))
	if len(words) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(strings.ToLower(words[0]))
	for _, w := range words[1:] {
		b.WriteString(capitalize(w))
	}
	return b.String()
}

func capitalize(word string) string {
	r, size := utf8.DecodeRuneInString(word)
	if r == utf8.RuneError {
		return word
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(word[size:])
}

// FormatColor renders an {r,g,b,a} value with channels in [0,1].
// Opaque colors become lowercase #rrggbb, translucent ones rgba(r, g, b, a)
// with the alpha passed through as given. Other values go through FormatValue.
func FormatColor(value any) string {
	m, ok := value.(map[string]any)
	if !ok {
		return FormatValue(value)
	}

	r, okR := m["r"]
	g, okG := m["g"]
	b, okB := m["b"]
	if !okR || !okG || !okB {
		return FormatValue(value)
	}

	alpha, hasAlpha := m["a"]
	if hasAlpha {
		if a, err := cast.ToFloat64E(alpha); err == nil && a < 1 {
			return fmt.Sprintf("rgba(%d, %d, %d, %s)", channel(r), channel(g), channel(b), FormatValue(alpha))
		}
	}

	return fmt.Sprintf("#%02x%02x%02x", channel(r), channel(g), channel(b))
}

// channel scales a [0,1] component to [0,255], truncating toward zero.
func channel(v any) int {
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0
	}
	n := int(f * 255)
	switch {
	case n < 0:
		return 0
	case n > 255:
		return 255
	}
	return n
}

// FormatDimension appends "px" to numeric values and formats the rest as is.
func FormatDimension(value any) string {
	if IsNumber(value) {
		return FormatValue(value) + "px"
	}
	return FormatValue(value)
}

// FormatShadow renders a {x,y,blur,spread,color} value as a CSS box-shadow.
func FormatShadow(value any) string {
	m, ok := value.(map[string]any)
	if !ok {
		return FormatValue(value)
	}

	get := func(key string) string {
		if v, ok := m[key]; ok && v != nil {
			return FormatValue(v)
		}
		return "0"
	}

	color, ok := m["color"]
	if !ok || color == nil {
		color = defaultShadowColor
	}

	return fmt.Sprintf("%spx %spx %spx %spx %s", get("x"), get("y"), get("blur"), get("spread"), FormatColor(color))
}

// IsNumber reports whether v holds a JSON number.
func IsNumber(v any) bool {
	switch v.(type) {
	case json.Number, float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	}
	return false
}

// FormatValue renders a scalar the way it was written and objects or
// arrays as compact JSON.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case map[string]any, []any:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(b)
	}

	if s, err := cast.ToStringE(v); err == nil {
		return s
	}
	return fmt.Sprint(v)
}
