package figma

import (
	"bytes"
	"encoding/json"
	"sort"
)

// FileResponse represents the complete response from the Figma file API endpoint.
// It contains the file metadata, document structure, published styles, and schema version information.
type FileResponse struct {
	Name          string           `json:"name"`
	LastModified  string           `json:"lastModified"`
	ThumbnailURL  string           `json:"thumbnailUrl"`
	Version       string           `json:"version"`
	Document      Node             `json:"document"`
	Styles        map[string]Style `json:"styles"`
	SchemaVersion int              `json:"schemaVersion"`
}

// StylesResponse represents the response from the Figma styles API endpoint.
// It includes metadata about all published styles in the file.
type StylesResponse struct {
	Status int  `json:"status"`
	Error  bool `json:"error"`
	Meta   Meta `json:"meta"`
}

// Meta contains metadata about published styles in a Figma file.
type Meta struct {
	Styles []StyleMetadata `json:"styles"`
}

// StyleMetadata contains metadata for a single published style in Figma.
// It includes the unique key, file reference, node ID, style type (FILL, TEXT, EFFECT, or GRID), name, and description.
type StyleMetadata struct {
	Key         string `json:"key"`
	FileKey     string `json:"file_key"`
	NodeID      string `json:"node_id"`
	StyleType   string `json:"style_type"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Style represents a published Figma style as listed in a file response.
// Styles can be colors (FILL), text styles (TEXT), effects (EFFECT), or layout grids (GRID).
type Style struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description"`
	StyleType   string `json:"styleType"`
}

// Node represents a single element in the Figma document tree hierarchy.
// Only the properties needed to turn style-bound nodes into tokens are decoded.
type Node struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Type         string            `json:"type"`
	Children     []Node            `json:"children,omitempty"`
	Fills        []Paint           `json:"fills,omitempty"`
	Strokes      []Paint           `json:"strokes,omitempty"`
	CornerRadius float64           `json:"cornerRadius,omitempty"`
	Effects      []Effect          `json:"effects,omitempty"`
	Style        *TypeStyle        `json:"style,omitempty"`
	Styles       map[string]string `json:"styles,omitempty"` // "fill"|"stroke"|"text"|"effect" -> style ID
}

// Color represents an RGBA color with float values ranging from 0 to 1.
type Color struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
	A float64 `json:"a"`
}

// Paint represents a fill or stroke applied to a Figma node.
type Paint struct {
	Type    string   `json:"type"`
	Visible *bool    `json:"visible,omitempty"`
	Opacity *float64 `json:"opacity,omitempty"`
	Color   *Color   `json:"color,omitempty"`
}

// IsVisible reports whether the paint is rendered. Figma omits the field for visible paints.
func (p Paint) IsVisible() bool {
	return p.Visible == nil || *p.Visible
}

// Effect represents a visual effect applied to a Figma node such as drop shadows, inner shadows, or blur effects.
type Effect struct {
	Type      string  `json:"type"`
	Visible   bool    `json:"visible"`
	Radius    float64 `json:"radius,omitempty"`
	Color     *Color  `json:"color,omitempty"`
	Offset    *Vector `json:"offset,omitempty"`
	Spread    float64 `json:"spread,omitempty"`
	BlendMode string  `json:"blendMode,omitempty"`
}

// Vector represents a 2D coordinate or offset with X and Y values.
type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// TypeStyle represents text styling properties from Figma.
type TypeStyle struct {
	FontFamily    string  `json:"fontFamily"`
	FontWeight    float64 `json:"fontWeight"`
	FontSize      float64 `json:"fontSize"`
	LineHeightPx  float64 `json:"lineHeightPx"`
	LetterSpacing float64 `json:"letterSpacing"`
}

// VariablesResponse is the body of GET /v1/files/:key/variables/local.
//
// Two payload shapes are accepted. The REST shape lists variables under
// Meta.Variables with their values keyed by mode ID; the collection-embedded
// shape carries values directly on each mode and variable metadata on each
// collection.
type VariablesResponse struct {
	Status int           `json:"status,omitempty"`
	Error  bool          `json:"error,omitempty"`
	Meta   VariablesMeta `json:"meta"`
}

// VariablesMeta holds the variable collections and, in the REST shape, the variables themselves.
type VariablesMeta struct {
	VariableCollections map[string]VariableCollection `json:"variableCollections"`
	Variables           map[string]Variable           `json:"variables,omitempty"`
}

// VariableCollection groups variables that share a set of modes.
type VariableCollection struct {
	ID            string         `json:"id,omitempty"`
	Name          string         `json:"name,omitempty"`
	DefaultModeID string         `json:"defaultModeId,omitempty"`
	Modes         []VariableMode `json:"modes"`
	VariableIDs   VariableIndex  `json:"variableIds"`
}

// VariableMode is a named value-binding context, e.g. "Light" or "Dark".
type VariableMode struct {
	ModeID string         `json:"modeId,omitempty"`
	Name   string         `json:"name"`
	Values map[string]any `json:"values,omitempty"`
}

// Variable is a design-tool-native named value.
type Variable struct {
	ID                   string         `json:"id"`
	Name                 string         `json:"name"`
	Key                  string         `json:"key,omitempty"`
	VariableCollectionID string         `json:"variableCollectionId,omitempty"`
	ResolvedType         string         `json:"resolvedType,omitempty"`
	Description          string         `json:"description,omitempty"`
	ValuesByMode         map[string]any `json:"valuesByMode,omitempty"`
}

// VariableIndex is a collection's variableIds field. The REST API sends a
// list of IDs; older exports send an ID -> metadata object.
type VariableIndex struct {
	IDs  []string
	Meta map[string]Variable
}

// UnmarshalJSON accepts either a JSON array of IDs or an object of ID -> Variable.
func (x *VariableIndex) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	if data[0] == '[' {
		var ids []string
		if err := json.Unmarshal(data, &ids); err != nil {
			return err
		}
		x.IDs = ids
		return nil
	}

	var meta map[string]Variable
	if err := json.Unmarshal(data, &meta); err != nil {
		return err
	}
	x.Meta = meta
	x.IDs = make([]string, 0, len(meta))
	for id := range meta {
		x.IDs = append(x.IDs, id)
	}
	sort.Strings(x.IDs)
	return nil
}

// MarshalJSON writes the object form when metadata is present, the list form otherwise.
func (x VariableIndex) MarshalJSON() ([]byte, error) {
	if x.Meta != nil {
		return json.Marshal(x.Meta)
	}
	if x.IDs == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(x.IDs)
}

// PostVariablesRequest is the body of POST /v1/files/:key/variables.
type PostVariablesRequest struct {
	VariableCollections []VariableCollectionChange `json:"variableCollections,omitempty"`
	Variables           []VariableChange           `json:"variables,omitempty"`
	VariableModeValues  []VariableModeValue        `json:"variableModeValues,omitempty"`
}

// VariableCollectionChange creates, updates or deletes a collection.
type VariableCollectionChange struct {
	Action        string `json:"action"`
	ID            string `json:"id"`
	Name          string `json:"name,omitempty"`
	InitialModeID string `json:"initialModeId,omitempty"`
}

// VariableChange creates, updates or deletes a variable.
type VariableChange struct {
	Action               string `json:"action"`
	ID                   string `json:"id"`
	Name                 string `json:"name,omitempty"`
	VariableCollectionID string `json:"variableCollectionId,omitempty"`
	ResolvedType         string `json:"resolvedType,omitempty"`
	Description          string `json:"description,omitempty"`
}

// VariableModeValue binds a value to a variable in one mode.
type VariableModeValue struct {
	VariableID string `json:"variableId"`
	ModeID     string `json:"modeId"`
	Value      any    `json:"value"`
}

// PostVariablesResponse is the response of POST /v1/files/:key/variables.
type PostVariablesResponse struct {
	Status int  `json:"status"`
	Error  bool `json:"error"`
	Meta   struct {
		TempIDToRealID map[string]string `json:"tempIdToRealId"`
	} `json:"meta"`
}

// ComponentsResponse is the body of GET /v1/files/:key/components.
type ComponentsResponse struct {
	Status int  `json:"status"`
	Error  bool `json:"error"`
	Meta   struct {
		Components []ComponentMetadata `json:"components"`
	} `json:"meta"`
}

// ComponentMetadata describes a published component.
type ComponentMetadata struct {
	Key         string `json:"key"`
	FileKey     string `json:"file_key"`
	NodeID      string `json:"node_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	UpdatedAt   string `json:"updated_at,omitempty"`
}

// ImagesResponse is the body of GET /v1/images/:key.
type ImagesResponse struct {
	Err    string            `json:"err"`
	Images map[string]string `json:"images"`
}
