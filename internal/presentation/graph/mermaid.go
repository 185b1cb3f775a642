package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/facet/pkg/object"
)

// ClassOverlay contains classes to emphasize on the diagram.
type ClassOverlay struct {
	Highlight []string
}

// GenerateMermaid produces a Mermaid classDiagram from a list of classes.
// Members are prefixed by access:
// - Read-write: +
// - Read-only: #
// - Write-only: -
// Inheritance edges point from parent to child. Highlighted classes get
// the overlay style if provided.
func GenerateMermaid(classes []*object.Class, overlay *ClassOverlay) string {
	var sb strings.Builder
	sb.WriteString("classDiagram\n")

	for _, c := range classes {
		safeID := sanitizeMermaidID(c.Name())
		props := c.Properties()
		if len(props) == 0 {
			sb.WriteString(fmt.Sprintf("    class %s\n", safeID))
		} else {
			sb.WriteString(fmt.Sprintf("    class %s {\n", safeID))
			for _, p := range props {
				sb.WriteString(fmt.Sprintf("        %s%s %s\n", visibility(p), memberType(p), p.Name))
			}
			sb.WriteString("    }\n")
		}

		if parent := c.Parent(); parent != nil {
			sb.WriteString(fmt.Sprintf("    %s <|-- %s\n", sanitizeMermaidID(parent.Name()), safeID))
		}
	}

	if overlay != nil && len(overlay.Highlight) > 0 {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef highlight fill:#ffeb3b,stroke:#fbc02d,stroke-width:2px,color:#000;\n")

		seen := make(map[string]bool)
		for _, name := range overlay.Highlight {
			safeID := sanitizeMermaidID(name)
			if !seen[safeID] && safeID != "" {
				seen[safeID] = true
				sb.WriteString(fmt.Sprintf("    cssClass \"%s\" highlight\n", safeID))
			}
		}
	}

	return sb.String()
}

func visibility(p object.Property) string {
	switch p.Access() {
	case "r":
		return "#"
	case "w":
		return "-"
	default:
		return "+"
	}
}

// memberType writes "[T]" as "T[]", which Mermaid reads as an array.
func memberType(p object.Property) string {
	if p.Type == nil {
		return "any"
	}
	name := p.Type.Name()
	depth := 0
	for len(name) > 2 && strings.HasPrefix(name, "[") && strings.HasSuffix(name, "]") {
		name = name[1 : len(name)-1]
		depth++
	}
	return sanitizeMermaidID(name) + strings.Repeat("[]", depth)
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
