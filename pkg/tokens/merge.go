package tokens

// Merge overlays updates on existing, token by token. Tokens only in existing
// are kept, colliding names take the update's token as a whole. Neither input
// is modified.
func Merge(existing, updates Set) Set {
	merged := make(Set, len(existing)+len(updates))
	for category, toks := range existing {
		cp := make(map[string]Token, len(toks))
		for name, tok := range toks {
			cp[name] = tok
		}
		merged[category] = cp
	}

	for category, toks := range updates {
		dst, ok := merged[category]
		if !ok {
			dst = make(map[string]Token, len(toks))
			merged[category] = dst
		}
		for name, tok := range toks {
			dst[name] = tok
		}
	}

	return merged
}
