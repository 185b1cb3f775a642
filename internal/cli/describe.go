package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aretw0/facet/internal/presentation/graph"
	"github.com/aretw0/facet/internal/presentation/tui"
	"github.com/aretw0/facet/pkg/object"
	"github.com/aretw0/facet/pkg/ports"
)

// DescribeOptions configures the 'describe' command.
type DescribeOptions struct {
	Classes  []string // Manifest files
	Names    []string // Classes to describe; empty means all
	Plain    bool     // Skip terminal rendering
	Mermaid  bool     // Print a Mermaid class diagram instead
	LogLevel string
}

// Describe prints a markdown description of the known classes.
func Describe(opts DescribeOptions, w io.Writer) error {
	logger, err := createLogger(opts.LogLevel, false)
	if err != nil {
		return err
	}
	rt, err := createRuntime(resolveManifests(opts.Classes, "", logger), logger, nil)
	if err != nil {
		return err
	}
	defer rt.Close()

	if opts.Mermaid {
		classes, err := lookupClasses(rt.Registry(), opts.Names)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, graph.GenerateMermaid(classes, nil))
		return err
	}

	markdown, err := DescribeClasses(rt.Registry(), opts.Names)
	if err != nil {
		return err
	}

	render := tui.PlainRenderer()
	if !opts.Plain && w == os.Stdout && tui.IsTerminal(os.Stdout) {
		render = tui.NewRenderer()
	}
	out, err := render(markdown)
	if err != nil {
		return fmt.Errorf("failed to render: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}

// DescribeClasses renders the named classes of store as markdown.
func DescribeClasses(store ports.ClassStore, names []string) (string, error) {
	classes, err := lookupClasses(store, names)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for i, c := range classes {
		if i > 0 {
			b.WriteString("\n")
		}
		describeClass(&b, c)
	}
	return b.String(), nil
}

func lookupClasses(store ports.ClassStore, names []string) ([]*object.Class, error) {
	if len(names) == 0 {
		names = store.Names()
	}
	classes := make([]*object.Class, 0, len(names))
	for _, name := range names {
		c, err := store.Lookup(name)
		if err != nil {
			return nil, err
		}
		classes = append(classes, c)
	}
	return classes, nil
}

func describeClass(b *strings.Builder, c *object.Class) {
	fmt.Fprintf(b, "# %s\n\n", c.Name())
	if p := c.Parent(); p != nil {
		var chain []string
		for k := p; k != nil; k = k.Parent() {
			chain = append(chain, "`"+k.Name()+"`")
		}
		fmt.Fprintf(b, "Extends %s.\n\n", strings.Join(chain, " → "))
	}

	props := c.Properties()
	if len(props) == 0 {
		b.WriteString("_No properties._\n")
		return
	}
	b.WriteString("| Property | Type | Access | Description |\n")
	b.WriteString("|---|---|---|---|\n")
	for _, p := range props {
		typ := "any"
		if p.Type != nil {
			typ = p.Type.Name()
		}
		fmt.Fprintf(b, "| `%s` | %s | %s | %s |\n", p.Name, escapeCell(typ), p.Access(), escapeCell(p.Doc))
	}
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
