package tokens

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/kataras/figma-ds-sync/pkg/figma"
	"github.com/spf13/cast"
)

// DefaultCollection is the variable collection tokens are pushed into.
const DefaultCollection = "Design Tokens"

const (
	tempCollectionID = "tmp_collection"
	tempModeID       = "tmp_mode"
)

var rgbaPattern = regexp.MustCompile(`^rgba?\(\s*(\d+)\s*,\s*(\d+)\s*,\s*(\d+)\s*(?:,\s*([0-9.]+)\s*)?\)$`)

// VariablesPlan is a variables write request plus what it will do.
// Entries are variable names, "category/name" for tokens of the set.
type VariablesPlan struct {
	Request *figma.PostVariablesRequest
	Created []string
	Updated []string
	Skipped []string
	Deleted []string
	// Stale lists variables of the target collection the set does not write.
	// They are left alone unless Prune is called.
	Stale []string

	staleIDs map[string]string
}

// Changes returns the number of variables the request creates, updates or deletes.
func (p *VariablesPlan) Changes() int {
	return len(p.Created) + len(p.Updated) + len(p.Deleted)
}

// Prune adds a delete action for every stale variable, turning the write
// into a replacement of the collection contents.
func (p *VariablesPlan) Prune() {
	for _, name := range p.Stale {
		p.Request.Variables = append(p.Request.Variables, figma.VariableChange{
			Action: "DELETE",
			ID:     p.staleIDs[name],
		})
		p.Deleted = append(p.Deleted, name)
	}
	p.Stale = nil
}

// ToVariables builds the request that writes set into the named collection.
// Variables are named "category/token". When existing already holds the
// collection its default mode is written and variables with a matching name
// are updated in place; otherwise the collection and its variables are
// created. Structured values (typography, shadow lists) have no variable
// type and are skipped. Variables already in the collection that the set
// does not mention are reported as Stale.
func ToVariables(set Set, collection string, existing *figma.VariablesMeta) *VariablesPlan {
	if collection == "" {
		collection = DefaultCollection
	}

	req := &figma.PostVariablesRequest{}
	plan := &VariablesPlan{Request: req}

	collID, modeID, known, found := findCollection(existing, collection)
	if !found {
		collID, modeID = tempCollectionID, tempModeID
		req.VariableCollections = append(req.VariableCollections, figma.VariableCollectionChange{
			Action:        "CREATE",
			ID:            collID,
			Name:          collection,
			InitialModeID: modeID,
		})
	}

	seq := 0
	for _, category := range set.Categories() {
		for _, name := range set.Names(category) {
			tok := set[category][name]
			varName := category + "/" + name

			resolvedType, value, ok := variableValue(category, tok.Value)
			if !ok {
				plan.Skipped = append(plan.Skipped, varName)
				continue
			}

			varID, exists := known[varName]
			if !exists {
				seq++
				varID = fmt.Sprintf("tmp_var_%d", seq)
				req.Variables = append(req.Variables, figma.VariableChange{
					Action:               "CREATE",
					ID:                   varID,
					Name:                 varName,
					VariableCollectionID: collID,
					ResolvedType:         resolvedType,
					Description:          tok.Description,
				})
				plan.Created = append(plan.Created, varName)
			} else {
				plan.Updated = append(plan.Updated, varName)
			}

			req.VariableModeValues = append(req.VariableModeValues, figma.VariableModeValue{
				VariableID: varID,
				ModeID:     modeID,
				Value:      value,
			})
		}
	}

	written := make(map[string]bool, len(plan.Created)+len(plan.Updated)+len(plan.Skipped))
	for _, names := range [][]string{plan.Updated, plan.Skipped} {
		for _, name := range names {
			written[name] = true
		}
	}
	for _, name := range sortedKeys(known) {
		if !written[name] {
			if plan.staleIDs == nil {
				plan.staleIDs = make(map[string]string)
			}
			plan.Stale = append(plan.Stale, name)
			plan.staleIDs[name] = known[name]
		}
	}

	return plan
}

func findCollection(meta *figma.VariablesMeta, name string) (collID, modeID string, vars map[string]string, ok bool) {
	if meta == nil {
		return "", "", nil, false
	}

	for _, key := range sortedKeys(meta.VariableCollections) {
		coll := meta.VariableCollections[key]
		if coll.Name != name {
			continue
		}

		collID = coll.ID
		if collID == "" {
			collID = key
		}
		modeID = coll.DefaultModeID
		if modeID == "" && len(coll.Modes) > 0 {
			modeID = coll.Modes[0].ModeID
		}
		if modeID == "" {
			// A collection without addressable modes cannot be written to.
			return "", "", nil, false
		}

		vars = make(map[string]string)
		for _, v := range collectionVariables(*meta, key, coll) {
			vars[v.Name] = v.ID
		}
		return collID, modeID, vars, true
	}

	return "", "", nil, false
}

// variableValue maps a token value to a variable type and a value Figma accepts.
func variableValue(category string, value any) (string, any, bool) {
	switch v := value.(type) {
	case nil, map[string]any, []any:
		return "", nil, false
	case bool:
		return "BOOLEAN", v, true
	case string:
		if category == CategoryColors {
			if c, ok := ParseColor(v); ok {
				return "COLOR", c, true
			}
		}
		if f, ok := ParseNumber(v); ok {
			return "FLOAT", f, true
		}
		return "STRING", v, true
	}

	if IsNumber(value) {
		return "FLOAT", cast.ToFloat64(value), true
	}
	return "", nil, false
}

// ParseNumber parses numbers and "px" dimensions such as "24.5px".
func ParseNumber(v any) (float64, bool) {
	if IsNumber(v) {
		f, err := cast.ToFloat64E(v)
		return f, err == nil
	}

	s, ok := v.(string)
	if !ok {
		return 0, false
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "px")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// ParseColor reads the color forms FormatColor produces plus 8-digit #rrggbbaa.
func ParseColor(s string) (figma.Color, bool) {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "#") {
		hex := s[1:]
		if len(hex) != 6 && len(hex) != 8 {
			return figma.Color{}, false
		}
		n, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return figma.Color{}, false
		}
		c := figma.Color{A: 1}
		if len(hex) == 8 {
			c.A = float64(n&0xFF) / 255
			n >>= 8
		}
		c.R = float64((n>>16)&0xFF) / 255
		c.G = float64((n>>8)&0xFF) / 255
		c.B = float64(n&0xFF) / 255
		return c, true
	}

	m := rgbaPattern.FindStringSubmatch(s)
	if m == nil {
		return figma.Color{}, false
	}
	c := figma.Color{A: 1}
	for i, dst := range []*float64{&c.R, &c.G, &c.B} {
		n, err := strconv.Atoi(m[i+1])
		if err != nil || n > 255 {
			return figma.Color{}, false
		}
		*dst = float64(n) / 255
	}
	if m[4] != "" {
		a, err := strconv.ParseFloat(m[4], 64)
		if err != nil {
			return figma.Color{}, false
		}
		c.A = a
	}
	return c, true
}
