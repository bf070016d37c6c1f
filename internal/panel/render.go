package panel

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// Renderer turns classified tool results into styled terminal text.
type Renderer struct {
	markdown  *glamour.TermRenderer
	formatter chroma.Formatter
	style     string
	width     int

	headerStyle lipgloss.Style
	keyStyle    lipgloss.Style
	addStyle    lipgloss.Style
	delStyle    lipgloss.Style
}

// NewRenderer creates a Renderer for the given terminal width and glamour
// style name ("dark" or "light").
func NewRenderer(width int, theme string) *Renderer {
	if width <= 0 {
		width = 80
	}
	if theme == "" {
		theme = "dark"
	}
	markdown, _ := glamour.NewTermRenderer(
		glamour.WithStandardStyle(theme),
		glamour.WithWordWrap(width),
	)

	return &Renderer{
		markdown:    markdown,
		formatter:   formatters.Get("terminal256"),
		style:       "monokai",
		width:       width,
		headerStyle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		keyStyle:    lipgloss.NewStyle().Bold(true),
		addStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		delStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Strikethrough(true),
	}
}

// Render produces the panel body for a classified payload.
func (r *Renderer) Render(v Variant) string {
	switch v.Kind {
	case KindPlainText:
		return r.renderText(v.Text)
	case KindUseCase:
		return r.renderUseCase(v.Fields)
	case KindAnalyzer:
		return r.renderAnalyzer(v)
	default:
		return r.renderGeneric(v.Fields)
	}
}

func (r *Renderer) renderText(s string) string {
	if LooksLikeMarkdown(s) {
		if out, err := r.markdown.Render(s); err == nil {
			return out
		}
	}
	return s
}

func (r *Renderer) renderUseCase(fields map[string]any) string {
	var b strings.Builder
	b.WriteString(r.headerStyle.Render("Use Case"))
	b.WriteString("\n\n")
	b.WriteString(r.keyStyle.Render("Scenario"))
	b.WriteString("\n")
	b.WriteString(r.renderText(stringAt(fields, "scenario")))
	b.WriteString("\n\n")
	b.WriteString(r.keyStyle.Render("Accounting Guidance"))
	b.WriteString("\n")
	b.WriteString(r.renderText(stringAt(fields, "accounting_guidance")))
	return b.String()
}

func (r *Renderer) renderAnalyzer(v Variant) string {
	var b strings.Builder
	b.WriteString(r.headerStyle.Render("Transaction Analysis"))
	b.WriteString("\n\n")
	b.WriteString(r.renderText(stringAt(v.Fields, "analysis")))

	if v.Detailed {
		if s := stringAt(v.Fields, "correct_standard"); s != "" {
			b.WriteString("\n\n")
			b.WriteString(r.keyStyle.Render("Correct Standard: "))
			b.WriteString(s)
		}
		if list := listAt(v.Fields, "applicable_standards"); len(list) > 0 {
			b.WriteString("\n\n")
			b.WriteString(r.keyStyle.Render("Applicable Standards"))
			for _, item := range list {
				b.WriteString("\n  • ")
				b.WriteString(item)
			}
		}
		if s := stringAt(v.Fields, "standard_rationale"); s != "" {
			b.WriteString("\n\n")
			b.WriteString(r.keyStyle.Render("Rationale"))
			b.WriteString("\n")
			b.WriteString(r.renderText(s))
		}
	} else {
		if compliant, ok := v.Fields["compliant"].(bool); ok {
			b.WriteString("\n\n")
			b.WriteString(r.keyStyle.Render("Compliant: "))
			if compliant {
				b.WriteString(r.addStyle.Render("Yes"))
			} else {
				b.WriteString(r.delStyle.Render("No"))
			}
		}
		if s := stringAt(v.Fields, "rationale"); s != "" {
			b.WriteString("\n\n")
			b.WriteString(r.keyStyle.Render("Rationale"))
			b.WriteString("\n")
			b.WriteString(r.renderText(s))
		}
	}
	return b.String()
}

// renderGeneric walks arbitrary key/value structure. Enhancer results carry
// original/proposed text pairs which get an inline diff instead of two
// separate blocks.
func (r *Renderer) renderGeneric(fields map[string]any) string {
	original := stringAt(fields, "original")
	proposed := stringAt(fields, "proposed")
	hasDiff := original != "" && proposed != ""

	keys := make([]string, 0, len(fields))
	for k := range fields {
		if hasDiff && (k == "original" || k == "proposed") {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(r.keyStyle.Render(titleCase(k)))
		b.WriteString("\n")
		b.WriteString(r.renderValue(fields[k], 0))
	}
	if hasDiff {
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(r.keyStyle.Render("Proposed Changes"))
		b.WriteString("\n")
		b.WriteString(r.renderDiff(original, proposed))
	}
	return b.String()
}

func (r *Renderer) renderValue(value any, depth int) string {
	indent := strings.Repeat("  ", depth)
	switch v := value.(type) {
	case string:
		if depth == 0 {
			return r.renderText(v)
		}
		return indent + v
	case []any:
		var b strings.Builder
		for i, item := range v {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString(indent)
			b.WriteString("• ")
			b.WriteString(strings.TrimLeft(r.renderValue(item, depth), " "))
		}
		return b.String()
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var b strings.Builder
		for i, k := range keys {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString(indent)
			b.WriteString(r.keyStyle.Render(titleCase(k) + ": "))
			nested := r.renderValue(v[k], depth+1)
			if strings.Contains(nested, "\n") {
				b.WriteString("\n")
				b.WriteString(nested)
			} else {
				b.WriteString(strings.TrimLeft(nested, " "))
			}
		}
		return b.String()
	case nil:
		return indent + "-"
	default:
		return indent + fmt.Sprint(v)
	}
}

// renderDiff shows a word-level diff between original and proposed standard
// text, deletions struck through and insertions in green.
func (r *Renderer) renderDiff(original, proposed string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(original, proposed, true)
	diffs = dmp.DiffCleanupSemantic(diffs)

	var b strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			b.WriteString(d.Text)
		case diffmatchpatch.DiffDelete:
			b.WriteString(r.delStyle.Render(d.Text))
		case diffmatchpatch.DiffInsert:
			b.WriteString(r.addStyle.Render(d.Text))
		}
	}
	return b.String()
}

// RenderJSON pretty-prints and syntax-highlights a payload for the raw view.
func (r *Renderer) RenderJSON(payload any) string {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Sprint(payload)
	}

	lexer := chroma.Coalesce(lexers.Get("json"))
	style := styles.Get(r.style)
	if style == nil {
		style = styles.Fallback
	}
	iterator, err := lexer.Tokenise(nil, string(data))
	if err != nil {
		return string(data)
	}
	var buf bytes.Buffer
	if err := r.formatter.Format(&buf, style, iterator); err != nil {
		return string(data)
	}
	return buf.String()
}

func stringAt(m map[string]any, key string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}

func listAt(m map[string]any, key string) []string {
	items, ok := m[key].([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// titleCase turns a snake_case key into a display label.
func titleCase(key string) string {
	words := strings.Split(key, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
