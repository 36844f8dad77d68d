// =============================================================================
// Catalog Feed Converter - Cell Transformer
// =============================================================================
//
// Optional per-column cleanup applied to each data row before entities are
// built, configured through transformation_rules. With no rules configured
// rows pass through untouched.
//
// Transformations run before deduplication, so they affect identifiers too:
// trimming BrandID makes "B1" and "B1 " the same brand.
//
// MULTI-VALUED COLUMNS:
//   UPC and EAN hold comma-separated codes. Their actions apply to each code
//   separately, so padding "111,222" to 5 gives "00111,00222". The cell is
//   re-split before every action, so a "replace" that turns ";" into ","
//   creates codes that the following actions see individually.
//
// =============================================================================

package converter

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ginjaninja78/catalog-feed/internal/catalog"
	"github.com/ginjaninja78/catalog-feed/internal/config"
	"github.com/ginjaninja78/catalog-feed/internal/validation"
)

// =============================================================================
// TRANSFORMER
// =============================================================================

// Transformer handles field value transformations.
type Transformer struct {
	rules       map[string][]config.TransformationAction
	multiValued map[string]bool
}

// NewTransformer creates a new Transformer with the given rules. Rules for
// the same field are concatenated in order. Actions on multiValued fields
// run once per code.
func NewTransformer(rules []config.TransformationRule, multiValued []string) *Transformer {
	t := &Transformer{
		rules:       make(map[string][]config.TransformationAction),
		multiValued: make(map[string]bool, len(multiValued)),
	}
	for _, rule := range rules {
		t.rules[rule.Field] = append(t.rules[rule.Field], rule.Actions...)
	}
	for _, field := range multiValued {
		t.multiValued[field] = true
	}
	return t
}

// Empty reports whether the transformer has no rules.
func (t *Transformer) Empty() bool {
	return len(t.rules) == 0
}

// Transform applies all transformation rules to a field value.
func (t *Transformer) Transform(fieldName, value string) (string, error) {
	result := value
	for _, action := range t.rules[fieldName] {
		var err error
		if t.multiValued[fieldName] {
			result, err = applyPerCode(result, action)
		} else {
			result, err = ApplyTransformation(result, action)
		}
		if err != nil {
			return "", fmt.Errorf("transformation '%s' failed: %w", action.Type, err)
		}
	}
	return result, nil
}

// TransformRow returns a copy of row with every ruled column transformed.
// Columns named in rules but absent from the header are ignored.
func (t *Transformer) TransformRow(row []string, columns validation.ColumnIndex) ([]string, error) {
	if t.Empty() {
		return row, nil
	}

	out := make([]string, len(row))
	copy(out, row)

	for field := range t.rules {
		pos, ok := columns[field]
		if !ok || pos >= len(out) {
			continue
		}
		value, err := t.Transform(field, out[pos])
		if err != nil {
			return nil, fmt.Errorf("field '%s': %w", field, err)
		}
		out[pos] = value
	}

	return out, nil
}

// =============================================================================
// TRANSFORMATION FUNCTIONS
// =============================================================================

// ApplyTransformation applies a single transformation action.
func ApplyTransformation(value string, action config.TransformationAction) (string, error) {
	switch action.Type {
	case "prepend_string":
		return action.Value + value, nil

	case "append_string":
		return value + action.Value, nil

	case "trim":
		return strings.TrimSpace(value), nil

	case "uppercase":
		return strings.ToUpper(value), nil

	case "lowercase":
		return strings.ToLower(value), nil

	case "replace":
		// EXAMPLE: find ";" value "," turns "111;222" into "111,222".
		if action.Find == "" {
			return value, nil
		}
		return strings.ReplaceAll(value, action.Find, action.Value), nil

	case "pad_zeros_to_length":
		// Restores leading zeros that spreadsheets strip from UPC/EAN codes.
		// Empty values stay empty.
		length, err := strconv.Atoi(action.Value)
		if err != nil {
			return "", fmt.Errorf("invalid length %q: %w", action.Value, err)
		}
		if value == "" {
			return value, nil
		}
		return PadLeft(value, length, '0'), nil

	default:
		return "", fmt.Errorf("unknown transformation type: %s", action.Type)
	}
}

// applyPerCode applies action to every code of a multi-valued cell.
func applyPerCode(value string, action config.TransformationAction) (string, error) {
	codes := strings.Split(value, catalog.CodeSeparator)
	for i, code := range codes {
		transformed, err := ApplyTransformation(code, action)
		if err != nil {
			return "", err
		}
		codes[i] = transformed
	}
	return strings.Join(codes, catalog.CodeSeparator), nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// PadLeft pads a string with a character on the left to reach the target
// length in runes.
func PadLeft(s string, length int, padChar rune) string {
	n := utf8.RuneCountInString(s)
	if n >= length {
		return s
	}
	return strings.Repeat(string(padChar), length-n) + s
}
