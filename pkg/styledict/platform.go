package styledict

import (
	"math"
	"strconv"
	"strings"

	"github.com/kataras/figma-ds-sync/pkg/tokens"
)

// Platforms lists the platforms ApplyPlatform knows about.
var Platforms = []string{PlatformWeb, PlatformIOS, PlatformAndroid}

// ApplyPlatform returns a copy of set with color values rewritten for platform.
//
// ios turns hex colors into UIColor components rounded to three decimals
// (#RRGGBB, or #AARRGGBB with alpha first). android prefixes #RRGGBB with a
// full-opacity alpha byte. Any other platform returns an unchanged copy.
func ApplyPlatform(set Set, platform string) Set {
	out := copySet(set)

	var rewrite func(string) (any, bool)
	switch platform {
	case PlatformIOS:
		rewrite = iosColor
	case PlatformAndroid:
		rewrite = androidColor
	default:
		return out
	}

	colors := out[tokens.CategoryColors]
	for name, tok := range colors {
		s, ok := tok.Value.(string)
		if !ok {
			continue
		}
		if v, ok := rewrite(s); ok {
			tok.Value = v
			colors[name] = tok
		}
	}
	return out
}

func iosColor(s string) (any, bool) {
	if strings.HasPrefix(s, "#") {
		return HexToUIColor(s), true
	}
	if (len(s) == 6 || len(s) == 8) && isHex(s) {
		return HexToUIColor(s), true
	}
	return nil, false
}

func androidColor(s string) (any, bool) {
	if len(s) == 7 && s[0] == '#' && isHex(s[1:]) {
		return "#FF" + s[1:], true
	}
	return nil, false
}

// HexToUIColor parses RRGGBB or AARRGGBB, with or without a leading '#'.
// Any other input yields opaque black.
func HexToUIColor(hex string) UIColor {
	hex = strings.TrimPrefix(hex, "#")
	black := UIColor{A: 1}

	if (len(hex) != 6 && len(hex) != 8) || !isHex(hex) {
		return black
	}

	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return black
	}

	c := UIColor{A: 1}
	if len(hex) == 8 {
		c.A = round3(float64((n >> 24) & 0xFF))
	}
	c.R = round3(float64((n >> 16) & 0xFF))
	c.G = round3(float64((n >> 8) & 0xFF))
	c.B = round3(float64(n & 0xFF))
	return c
}

// round3 scales a byte to [0,1] with three decimals.
func round3(b float64) float64 {
	return math.Round(b/255*1000) / 1000
}

func isHex(s string) bool {
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return s != ""
}
