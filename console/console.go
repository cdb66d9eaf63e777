package console

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/npillmayer/ibtree"
	"golang.org/x/term"
)

// Role is the part of a tree dump a color is applied to.
type Role int

// Roles of printed tree elements.
const (
	Keys      Role = iota // routing keys of inner nodes
	Maximums              // augmented maximums of inner nodes
	Original              // intervals which are not fragments
	Fragment              // fragments created by temporal splitting
	Structure             // indentation and separators
)

// Printer outputs trees to a console with a fixed width font.
type Printer struct {
	colors map[Role]*color.Color
	width  int // line width in character positions; 0 is unlimited
}

// NewPrinter creates a new printer. colors maps roles to colors and may be
// a subset of all roles; uncolored roles are printed plain. If colors is
// nil, a default palette is used.
func NewPrinter(colors map[Role]*color.Color, width int) *Printer {
	p := &Printer{width: width}
	if colors == nil {
		p.colors = makeDefaultPalette()
	} else {
		p.colors = colors
	}
	return p
}

func makeDefaultPalette() map[Role]*color.Color {
	return map[Role]*color.Color{
		Keys:      color.New(color.FgBlue, color.Bold),
		Maximums:  color.New(color.FgMagenta),
		Original:  color.New(color.FgGreen),
		Fragment:  color.New(color.FgYellow),
		Structure: color.New(color.Faint),
	}
}

// Print outputs tree to stdout. Colors and line width are taken from the
// terminal if stdout is interactive; otherwise output is plain.
func (p *Printer) Print(tree *ibtree.Tree) error {
	cfg := ConfigFromTerminal()
	q := *p
	if !cfg.Colors {
		q.colors = nil
	}
	if q.width == 0 {
		q.width = cfg.Width
	}
	return q.Fprint(os.Stdout, tree)
}

// Fprint outputs tree to w.
func (p *Printer) Fprint(w io.Writer, tree *ibtree.Tree) error {
	if tree == nil {
		return fmt.Errorf("%w: tree is nil", ibtree.ErrIllegalArguments)
	}
	return tree.Walk(func(v ibtree.NodeView) error {
		var l line
		l.width = p.width
		indent := strings.Repeat("  ", v.Depth)
		if !v.Leaf {
			l.add(p, Structure, indent+"keys ")
			for _, k := range v.Keys {
				l.add(p, Keys, " "+fmtFloat(k))
			}
			if err := l.flush(w); err != nil {
				return err
			}
			l.add(p, Structure, indent+"maxs ")
			for _, m := range v.Maxs {
				l.add(p, Maximums, " "+fmtFloat(m))
			}
			return l.flush(w)
		}
		l.add(p, Structure, indent+"leaf ")
		for _, iv := range v.Items {
			role := Original
			if iv.IsFragment() {
				role = Fragment
			}
			l.add(p, role, " "+iv.String())
		}
		return l.flush(w)
	})
}

// line collects colored output and truncates it to a target width,
// measured in runes of the uncolored text.
type line struct {
	b         strings.Builder
	width     int
	count     int
	truncated bool
}

func (l *line) add(p *Printer, role Role, s string) {
	if l.truncated {
		return
	}
	n := len([]rune(s))
	if l.width > 0 && l.count+n > l.width {
		s = string([]rune(s)[:max(0, l.width-l.count-1)]) + "…"
		l.truncated = true
	}
	l.count += n
	if c, ok := p.colors[role]; ok {
		l.b.WriteString(c.Sprint(s))
		return
	}
	l.b.WriteString(s)
}

func (l *line) flush(w io.Writer) error {
	l.b.WriteByte('\n')
	_, err := io.WriteString(w, l.b.String())
	l.b.Reset()
	l.count = 0
	l.truncated = false
	return err
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'g', -1, 64)
}

// --- Config for terminals --------------------------------------------------

// Config describes the properties of the output device.
type Config struct {
	Colors bool
	Width  int
}

// ConfigFromTerminal checks whether stdout is a terminal, and if so reads
// the terminal's width.
func ConfigFromTerminal() Config {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return Config{}
	}
	config := Config{Colors: !color.NoColor}
	w, _, err := term.GetSize(fd)
	if err != nil {
		tracer().Infof("cannot determine terminal width: %v", err)
		return config
	}
	config.Width = w
	return config
}
