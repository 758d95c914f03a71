package tui

import (
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
)

var (
	mdRendererMu sync.Mutex
	// Keyed by style and wrap width. Auto style detection can block on
	// terminal queries, so renderers use a fixed style and are reused.
	mdRenderers = map[string]*glamour.TermRenderer{}
)

// Markdown styles accepted by RenderMarkdown.
const (
	MarkdownDark  = "dark"
	MarkdownLight = "light"
	// MarkdownPlain renders without escape sequences (pipes, tests).
	MarkdownPlain = "notty"
)

// RenderMarkdown renders md for a terminal width columns wide. An empty style
// is detected from the environment. On renderer failure md is returned as is.
func RenderMarkdown(md string, width int, style string) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	if width < 20 {
		width = 20
	}
	if style == "" {
		style = markdownStyle()
	}

	key := style + ":" + strconv.Itoa(width)
	mdRendererMu.Lock()
	defer mdRendererMu.Unlock()
	r := mdRenderers[key]
	if r == nil {
		rr, err := glamour.NewTermRenderer(
			glamour.WithStyles(markdownStyleConfig(style)),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return md
		}
		mdRenderers[key] = rr
		r = rr
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}

func markdownStyleConfig(style string) ansi.StyleConfig {
	var cfg ansi.StyleConfig
	switch style {
	case MarkdownLight:
		cfg = styles.LightStyleConfig
	case MarkdownPlain:
		cfg = styles.NoTTYStyleConfig
	default:
		cfg = styles.DarkStyleConfig
	}
	zero := uint(0)
	cfg.Document.Margin = &zero
	return cfg
}

func markdownStyle() string {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("DATEPICK_MD_STYLE"))) {
	case MarkdownLight:
		return MarkdownLight
	case MarkdownDark:
		return MarkdownDark
	case MarkdownPlain, "plain":
		return MarkdownPlain
	}
	// COLORFGBG is often "fg;bg" ("15;0" is a dark background). Prefer it to
	// terminal queries, which can block.
	if v := strings.TrimSpace(os.Getenv("COLORFGBG")); v != "" {
		parts := strings.Split(v, ";")
		if bg, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1])); err == nil {
			if bg >= 7 {
				return MarkdownLight
			}
			return MarkdownDark
		}
	}
	if lipgloss.HasDarkBackground() {
		return MarkdownDark
	}
	return MarkdownLight
}
