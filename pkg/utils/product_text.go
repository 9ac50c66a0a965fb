package utils

import (
	"fmt"
	"sort"
	"strings"

	"catalog-chat-be/internal/entity"
)

// ProductText renders a variant into the plain-text document that gets
// embedded and full-text indexed. Field order is fixed so re-indexing an
// unchanged variant produces the same text.
func ProductText(v *entity.ProductVariant) string {
	var b strings.Builder

	b.WriteString("Product: " + v.Name + "\n")
	if v.Brand != nil {
		b.WriteString("Brand: " + v.Brand.Name + "\n")
	}
	if v.Category != nil {
		b.WriteString("Category: " + v.Category.Name + "\n")
	}
	if len(v.Tags) > 0 {
		names := make([]string, len(v.Tags))
		for i, t := range v.Tags {
			names[i] = t.Name
		}
		b.WriteString("Tags: " + strings.Join(names, ", ") + "\n")
	}
	b.WriteString(fmt.Sprintf("Price: %.2f\n", v.Price))
	if v.Description != "" {
		b.WriteString("Description: " + v.Description + "\n")
	}
	for _, line := range FlattenSpecs(v.Specs) {
		b.WriteString(line + "\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

// FlattenSpecs turns a nested spec document into sorted "path: value"
// lines, e.g. {"display": {"size": "6.1 inch"}} -> "display size: 6.1 inch".
func FlattenSpecs(specs map[string]any) []string {
	var lines []string
	flattenInto(&lines, "", specs)
	sort.Strings(lines)
	return lines
}

func flattenInto(lines *[]string, prefix string, value any) {
	switch v := value.(type) {
	case map[string]any:
		for key, child := range v {
			path := key
			if prefix != "" {
				path = prefix + " " + key
			}
			flattenInto(lines, path, child)
		}
	case []any:
		parts := make([]string, len(v))
		for i, item := range v {
			parts[i] = fmt.Sprintf("%v", item)
		}
		*lines = append(*lines, fmt.Sprintf("%s: %s", prefix, strings.Join(parts, ", ")))
	case nil:
		// skip empty leaves
	default:
		*lines = append(*lines, fmt.Sprintf("%s: %v", prefix, v))
	}
}
