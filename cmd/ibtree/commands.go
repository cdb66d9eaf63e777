package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/npillmayer/ibtree"
	"github.com/npillmayer/ibtree/console"
	"github.com/npillmayer/ibtree/html"
	"github.com/npillmayer/ibtree/interval"
	"github.com/npillmayer/ibtree/intervalfile"
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/spf13/cobra"
)

// app carries state shared by all sub-commands.
type app struct {
	configPath string
	settings   settings
}

func newRootCommand() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "ibtree",
		Short: "Inspect interval B+-trees built from interval files",
		Long: `ibtree loads a file of intervals, one "lo hi" pair per line,
into an interval B+-tree and dumps, queries or edits it.

Settings are read from flags, IBTREE_* environment variables and an
optional .ibtree.yaml file in the current or home directory.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			s, err := loadSettings(cmd, a.configPath)
			if err != nil {
				return err
			}
			a.settings = s
			gtrace.CoreTracer = gologadapter.New()
			if s.Verbose {
				gtrace.CoreTracer.SetTraceLevel(tracing.LevelDebug)
			} else {
				gtrace.CoreTracer.SetTraceLevel(tracing.LevelError)
			}
			return nil
		},
	}
	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default .ibtree.yaml in . or $HOME)")
	flags.Int("order", ibtree.DefaultOrder, "maximum number of entries per node")
	flags.Float64("alpha", 0, "temporal split factor, 0 disables splitting")
	flags.String("format", "text", "output format: text, color, dot or html")
	flags.BoolP("verbose", "v", false, "trace tree operations")
	root.AddCommand(
		a.dumpCommand(),
		a.queryCommand(),
		a.deleteCommand(),
		a.statsCommand(),
	)
	return root
}

func (a *app) load(name string) (*ibtree.Tree, error) {
	return intervalfile.Load(name, a.settings.treeConfig())
}

func (a *app) dumpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dump FILE",
		Short: "Print the tree built from FILE",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := a.load(args[0])
			if err != nil {
				return err
			}
			return a.output(cmd.OutOrStdout(), tree)
		},
	}
}

func (a *app) queryCommand() *cobra.Command {
	var mode string
	cmd := &cobra.Command{
		Use:   "query FILE LO HI",
		Short: "Find intervals of FILE relative to the range [LO,HI]",
		Long: `Find intervals relative to the range [LO,HI]. Modes are
  all        intervals overlapping the range (default)
  lone       one interval overlapping the range
  contained  intervals lying within the range
  search     intervals equal to the range`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := parseRange(args[1], args[2])
			if err != nil {
				return err
			}
			tree, err := a.load(args[0])
			if err != nil {
				return err
			}
			var found []*interval.Interval
			switch mode {
			case "all":
				found = tree.AllRangeSearch(q)
			case "contained":
				found = tree.ContainedRangeSearch(q)
			case "search":
				found = tree.Search(q)
			case "lone":
				if iv := tree.LoneRangeSearch(q); iv != nil {
					found = append(found, iv)
				}
			default:
				return fmt.Errorf("unknown query mode %q", mode)
			}
			w := cmd.OutOrStdout()
			for _, iv := range found {
				fmt.Fprintln(w, iv)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&mode, "mode", "m", "all", "query mode: all, lone, contained or search")
	return cmd
}

func (a *app) deleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete FILE LO HI",
		Short: "Remove all intervals overlapping [LO,HI] and print the remaining tree",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := parseRange(args[1], args[2])
			if err != nil {
				return err
			}
			tree, err := a.load(args[0])
			if err != nil {
				return err
			}
			before := tree.Len()
			if err := tree.RangeDelete(q.Lo, q.Hi); err != nil {
				return err
			}
			if err := tree.Check(); err != nil {
				return err
			}
			tracing.Select("ibtree").Infof("deleted %d intervals", before-tree.Len())
			return a.output(cmd.OutOrStdout(), tree)
		},
	}
}

func (a *app) statsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats FILE",
		Short: "Print size and shape of the tree built from FILE",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := a.load(args[0])
			if err != nil {
				return err
			}
			s := tree.Stats()
			originals := make(map[*interval.Interval]struct{})
			tree.Each(func(iv *interval.Interval) bool {
				originals[iv.Original()] = struct{}{}
				return true
			})
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "intervals:   %s\n", humanize.Comma(int64(len(originals))))
			fmt.Fprintf(w, "entries:     %s\n", humanize.Comma(int64(s.Entries)))
			fmt.Fprintf(w, "fragments:   %s\n", humanize.Comma(int64(s.Fragments)))
			fmt.Fprintf(w, "leaves:      %s\n", humanize.Comma(int64(s.Leaves)))
			fmt.Fprintf(w, "inner nodes: %s\n", humanize.Comma(int64(s.InnerNodes)))
			fmt.Fprintf(w, "height:      %d\n", s.Height)
			if m, ok := tree.Max(); ok {
				fmt.Fprintf(w, "max bound:   %s\n", humanize.Ftoa(m))
			}
			return nil
		},
	}
}

func (a *app) output(w io.Writer, tree *ibtree.Tree) error {
	switch a.settings.Format {
	case "dot":
		ibtree.Tree2Dot(tree, w)
		return nil
	case "html":
		if err := html.Render(w, tree); err != nil {
			return err
		}
		_, err := io.WriteString(w, "\n")
		return err
	case "color":
		cfg := console.ConfigFromTerminal()
		return console.NewPrinter(nil, cfg.Width).Fprint(w, tree)
	}
	_, err := io.WriteString(w, tree.String())
	return err
}

func parseRange(los, his string) (interval.Range, error) {
	lo, err := strconv.ParseFloat(los, 64)
	if err != nil {
		return interval.Range{}, fmt.Errorf("%w: lower bound: %w", ibtree.ErrIllegalArguments, err)
	}
	hi, err := strconv.ParseFloat(his, 64)
	if err != nil {
		return interval.Range{}, fmt.Errorf("%w: upper bound: %w", ibtree.ErrIllegalArguments, err)
	}
	if lo > hi {
		return interval.Range{}, fmt.Errorf("%w: inverted range [%s,%s]", ibtree.ErrIllegalArguments, los, his)
	}
	return interval.R(lo, hi), nil
}
