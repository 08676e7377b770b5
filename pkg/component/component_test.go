package component

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const buttonSource = `import React from 'react';

interface ButtonProps {
  variant?: 'primary' | 'secondary';
  size?: 'small'|'medium'|'large';
  disabled?: boolean;
  children: React.ReactNode;
}

export const Button: React.FC<ButtonProps> = ({
  variant = 'primary',
  size = "medium",
  disabled = false,
  children,
}) => {
  return <button className={variant} disabled={disabled}>{children}</button>;
};
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestExtractButton(t *testing.T) {
	rec, err := Extract(buttonSource, "src/Button.tsx")
	require.NoError(t, err)

	assert.Equal(t, "Button", rec.Name)
	assert.Equal(t, "COMPONENT", rec.Type)
	assert.Equal(t, "src/Button.tsx", rec.SourcePath)

	assert.Equal(t, map[string][]string{
		"variant": {"primary", "secondary"},
		"size":    {"small", "medium", "large"},
	}, rec.Variants)

	kinds := make(map[string]Kind)
	for name, p := range rec.Props {
		kinds[name] = p.Kind
	}
	assert.Equal(t, map[string]Kind{
		"variant":  KindVariant,
		"size":     KindVariant,
		"disabled": KindBoolean,
		"children": KindInstanceSwap,
	}, kinds)

	assert.False(t, rec.Props["variant"].Required)
	assert.True(t, rec.Props["children"].Required)
	assert.Equal(t, "'primary' | 'secondary'", rec.Props["variant"].Type)

	assert.Equal(t, Defaults{
		{Name: "variant", Value: "primary"},
		{Name: "size", Value: "medium"},
		{Name: "disabled", Value: "false"},
	}, rec.Defaults)
	assert.NoError(t, rec.Validate())
}

func TestExtractNestedAndMultiline(t *testing.T) {
	src := `
export interface CardProps extends React.HTMLAttributes<HTMLDivElement> {
  /** Visual style; one of the presets */
  tone?:
    | 'neutral'
    | 'danger'
  style?: { color: string; padding: number };
  meta: Record<string, number>
  onSelect?: (id: string, index: number) => void
  count?: number | string
  label: string // shown on top
}

export function Card({ tone = 'neutral', label, missing = 1 }: CardProps) {
  return null
}
`
	rec, err := Extract(src, "Card.tsx")
	require.NoError(t, err)

	assert.Equal(t, "Card", rec.Name)
	require.Len(t, rec.Props, 6)
	assert.Equal(t, "{ color: string; padding: number }", rec.Props["style"].Type)
	assert.Equal(t, "Record<string, number>", rec.Props["meta"].Type)
	assert.Equal(t, "(id: string, index: number) => void", rec.Props["onSelect"].Type)
	assert.Equal(t, KindVariant, rec.Props["tone"].Kind)
	assert.Equal(t, KindText, rec.Props["count"].Kind)
	assert.Equal(t, KindText, rec.Props["label"].Kind)

	assert.Equal(t, map[string][]string{"tone": {"neutral", "danger"}}, rec.Variants)

	// "missing" is not a declared prop and is dropped.
	assert.Equal(t, Defaults{{Name: "tone", Value: "neutral"}}, rec.Defaults)
}

func TestExtractWrappedComponentDefaults(t *testing.T) {
	const props = `
interface ButtonProps {
  variant?: 'primary' | 'secondary';
  size?: 'sm' | 'lg';
}
`
	tests := []struct {
		name string
		src  string
	}{
		{"forwardRef", props + `
export const Button = React.forwardRef<HTMLButtonElement, ButtonProps>(({ variant = 'primary', size = 'sm' }, ref) => (
  <button ref={ref}>Don't click</button>
));
`},
		{"memo", props + `
export const Button = memo(function Button({ variant = 'primary', size = 'sm' }: ButtonProps) {
  return <span>It's fine</span>;
});
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := Extract(tt.src, "Button.tsx")
			require.NoError(t, err)
			assert.Equal(t, Defaults{
				{Name: "variant", Value: "primary"},
				{Name: "size", Value: "sm"},
			}, rec.Defaults)
		})
	}
}

func TestExtractNoDestructuring(t *testing.T) {
	src := `
interface LinkProps { href: string; label?: string }
export function Link(props: LinkProps) {
  const { label = 'x' } = props;
  return null;
}
`
	rec, err := Extract(src, "Link.tsx")
	require.NoError(t, err)
	assert.Empty(t, rec.Defaults)
}

func TestExtractFallbackName(t *testing.T) {
	rec, err := Extract("const x = 1", "/app/components/Avatar.jsx")
	require.NoError(t, err)
	assert.Equal(t, "Avatar", rec.Name)
	assert.Empty(t, rec.Props)
}

func TestExtractUnterminated(t *testing.T) {
	_, err := Extract("interface BrokenProps {\n  a: string;\n", "Broken.tsx")
	assert.ErrorIs(t, err, ErrUnterminatedBlock)
}

func TestMapKind(t *testing.T) {
	tests := []struct {
		typ  string
		want Kind
	}{
		{"string", KindText},
		{"boolean", KindBoolean},
		{"ReactNode", KindInstanceSwap},
		{"React.ReactNode", KindInstanceSwap},
		{`'a' | "b"`, KindVariant},
		{"'a' | number", KindText},
		{"number", KindText},
		{"{ a: string }", KindText},
	}

	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			assert.Equal(t, tt.want, MapKind(tt.typ))
		})
	}
}

func TestNonStringUnionHasNoVariants(t *testing.T) {
	src := "interface XProps { value: number | string; }"
	rec, err := Extract(src, "X.tsx")
	require.NoError(t, err)
	assert.Empty(t, rec.Variants)
}

func TestValidateInvariant(t *testing.T) {
	rec := &Record{
		Name:     "Button",
		Props:    map[string]PropInfo{"size": {Type: "string", Kind: KindText}},
		Variants: map[string][]string{"tone": {"a"}},
	}

	var ierr *InvariantError
	require.True(t, errors.As(rec.Validate(), &ierr))
	assert.Equal(t, "variants", ierr.Field)
	assert.Equal(t, "tone", ierr.Prop)

	rec.Variants = nil
	rec.Defaults = Defaults{{Name: "color", Value: "red"}}
	require.True(t, errors.As(rec.Validate(), &ierr))
	assert.Equal(t, "defaults", ierr.Field)

	_, err := ToComponentSpec(rec)
	assert.Error(t, err)
}

func TestToComponentSpec(t *testing.T) {
	rec, err := Extract(buttonSource, "Button.tsx")
	require.NoError(t, err)

	spec, err := ToComponentSpec(rec)
	require.NoError(t, err)

	assert.Equal(t, "Button", spec.Name)
	assert.Equal(t, "COMPONENT", spec.Type)
	assert.Equal(t, PropertyDefinition{
		Type:           KindVariant,
		DefaultValue:   "primary",
		VariantOptions: []string{"primary", "secondary"},
	}, spec.PropertyDefinitions["variant"])
	assert.Equal(t, PropertyDefinition{Type: KindBoolean, DefaultValue: "false"}, spec.PropertyDefinitions["disabled"])
	assert.Equal(t, PropertyDefinition{Type: KindInstanceSwap}, spec.PropertyDefinitions["children"])
}

func TestToComponentSetSpec(t *testing.T) {
	primary := &Record{
		Name:     "ButtonPrimary",
		Props:    map[string]PropInfo{"size": {Kind: KindVariant}, "label": {Kind: KindText}},
		Variants: map[string][]string{"size": {"small", "large"}},
		Defaults: Defaults{{Name: "size", Value: "small"}, {Name: "label", Value: ""}},
	}
	secondary := &Record{
		Name:     "ButtonSecondary",
		Props:    map[string]PropInfo{"size": {Kind: KindVariant}, "tone": {Kind: KindVariant}},
		Variants: map[string][]string{"size": {"large", "medium"}, "tone": {"dark"}},
		Defaults: Defaults{{Name: "tone", Value: "dark"}, {Name: "size", Value: "medium"}},
	}

	spec, err := ToComponentSetSpec([]*Record{primary, secondary})
	require.NoError(t, err)

	assert.Equal(t, "ButtonPrimary", spec.Name)
	assert.Equal(t, "COMPONENT_SET", spec.Type)
	assert.Equal(t, []string{"small", "large", "medium"}, spec.PropertyDefinitions["size"].VariantOptions)
	assert.Equal(t, KindVariant, spec.PropertyDefinitions["tone"].Type)

	require.Len(t, spec.Children, 2)
	assert.Equal(t, "ButtonPrimary, size=small", spec.Children[0].Name)
	assert.Equal(t, "ButtonSecondary, tone=dark, size=medium", spec.Children[1].Name)
	assert.Equal(t, "COMPONENT", spec.Children[1].Type)

	data, err := json.Marshal(spec.Children[1])
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"ButtonSecondary, tone=dark, size=medium","type":"COMPONENT","componentProperties":{"tone":"dark","size":"medium"}}`, string(data))
}

func TestToComponentSetSpecEmpty(t *testing.T) {
	_, err := ToComponentSetSpec(nil)
	assert.ErrorIs(t, err, ErrNoComponents)
}

func TestGroupByBaseName(t *testing.T) {
	recs := []*Record{
		{Name: "ButtonPrimary"},
		{Name: "ButtonSecondary"},
		{Name: "CardLarge"},
		{Name: "Card"},
		{Name: "Avatar"},
	}

	groups := GroupByBaseName(recs)
	require.Len(t, groups, 3)
	assert.Len(t, groups["Button"], 2)
	assert.Len(t, groups["Card"], 2)
	assert.Len(t, groups["Avatar"], 1)
}

func TestDefaultsJSONOrder(t *testing.T) {
	var d Defaults
	require.NoError(t, json.Unmarshal([]byte(`{"z": "1", "a": true, "m": 2}`), &d))
	assert.Equal(t, Defaults{{"z", "1"}, {"a", "true"}, {"m", "2"}}, d)

	out, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `{"z":"1","a":"true","m":"2"}`, string(out))
}

func TestScannerSkipsBadFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "src/Button.tsx", buttonSource)
	writeFile(t, dir, "src/Broken.tsx", "interface BrokenProps {\n  a: string;\n")
	writeFile(t, dir, "src/utils.ts", "export const add = (a: number, b: number) => a + b")
	writeFile(t, dir, "src/Button.stories.tsx", buttonSource)
	writeFile(t, dir, "node_modules/lib/Thing.tsx", buttonSource)
	writeFile(t, dir, "README.md", "# hi")

	s, err := NewScanner(DefaultScanConfig(), nil)
	require.NoError(t, err)

	recs, err := s.Scan(dir)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Button", recs[0].Name)

	// cached on the second scan
	again, err := s.Scan(dir)
	require.NoError(t, err)
	require.Len(t, again, 1)
	assert.Same(t, recs[0], again[0])
}

func TestScannerRereadsChangedFiles(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "Tag.tsx", "interface TagProps { label: string; }\nexport const Tag = ({ label }: TagProps) => null")

	s, err := NewScanner(DefaultScanConfig(), nil)
	require.NoError(t, err)

	first, err := s.ExtractFile(path)
	require.NoError(t, err)
	assert.Len(t, first.Props, 1)

	writeFile(t, dir, "Tag.tsx", "interface TagProps { label: string; tone?: 'a' | 'b'; }\nexport const Tag = ({ label }: TagProps) => null")
	second, err := s.ExtractFile(path)
	require.NoError(t, err)
	assert.Len(t, second.Props, 2)
}

func TestDiscoverFilesInvalidPattern(t *testing.T) {
	_, err := DiscoverFiles(t.TempDir(), ScanConfig{Include: []string{"[abc"}})
	assert.Error(t, err)
}

func TestGenerateReact(t *testing.T) {
	def := &Spec{
		Name: "primary button",
		PropertyDefinitions: map[string]PropertyDefinition{
			"Label#12:0": {Type: KindText, DefaultValue: "Click", Description: "Button text"},
			"size":       {Type: KindVariant, VariantOptions: []string{"sm", "lg"}},
			"disabled":   {Type: KindBoolean, DefaultValue: false},
		},
	}

	want := `import React from 'react';

interface PrimaryButtonProps {
  /** Button text */
  label?: string;
  disabled?: boolean;
  size: 'sm' | 'lg';
}

export const PrimaryButton: React.FC<PrimaryButtonProps> = ({
  label = 'Click',
  disabled = false,
  size
}) => {
  return (
    <div className="primary-button">
      <span>Component content</span>
    </div>
  );
};
`
	assert.Equal(t, want, GenerateReact(def))
}

func TestCaseHelpers(t *testing.T) {
	assert.Equal(t, "IconButton", PascalCase("icon-button"))
	assert.Equal(t, "MyCard", PascalCase("My Card!"))
	assert.Equal(t, "icon-button", KebabCase("IconButton"))
}
