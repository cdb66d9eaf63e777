package intervalfile

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/guiguan/caster"
	"github.com/npillmayer/ibtree"
	"github.com/npillmayer/ibtree/interval"
)

// ErrSyntax is wrapped by errors for malformed lines.
var ErrSyntax = errors.New("malformed interval line")

// defaultBuffer is the capacity of subscriber channels.
const defaultBuffer = 64

// LineError reports a malformed or unreadable input line.
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// Loader reads intervals from an input and publishes them to subscribers.
// A Loader is good for a single run.
type Loader struct {
	input io.Reader
	cast  *caster.Caster // broadcaster for parsed intervals
}

// NewLoader creates a loader for input. Parsing starts with Run.
func NewLoader(input io.Reader) *Loader {
	return &Loader{
		input: input,
		cast:  caster.New(nil),
	}
}

// Subscribe registers an additional listener for parsed intervals. Messages
// are either of type *interval.Interval or error; the channel is closed
// when loading has finished. Subscribers must drain their channel, or
// loading will stall.
func (l *Loader) Subscribe(ctx context.Context) (<-chan interface{}, error) {
	sub, ok := l.cast.Sub(ctx, defaultBuffer)
	if !ok {
		return nil, errors.New("loader has already finished")
	}
	return sub, nil
}

// Run parses the input in a goroutine and inserts every parsed interval
// into tree. It returns the number of intervals inserted. Parsing stops at
// the first malformed line, leaving the intervals read so far in tree.
func (l *Loader) Run(ctx context.Context, tree *ibtree.Tree) (int, error) {
	if tree == nil {
		return 0, fmt.Errorf("%w: tree is nil", ibtree.ErrIllegalArguments)
	}
	sub, err := l.Subscribe(ctx)
	if err != nil {
		return 0, err
	}
	go l.parse(ctx)
	count := 0
	var loadErr error
	for msg := range sub {
		switch m := msg.(type) {
		case *interval.Interval:
			if loadErr != nil {
				continue // drain
			}
			if err := tree.Insert(m); err != nil {
				loadErr = err
				continue
			}
			count++
		case error:
			if loadErr == nil {
				loadErr = m
			}
		}
	}
	if loadErr == nil && ctx.Err() != nil {
		loadErr = ctx.Err()
	}
	tracer().Debugf("loaded %d intervals into tree", count)
	return count, loadErr
}

func (l *Loader) parse(ctx context.Context) {
	defer l.cast.Close()
	scanner := bufio.NewScanner(l.input)
	lineno := 0
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		lineno++
		iv, err := ParseLine(scanner.Text())
		if err != nil {
			l.cast.Pub(&LineError{Line: lineno, Err: err})
			return
		}
		if iv != nil {
			l.cast.Pub(iv)
		}
	}
	if err := scanner.Err(); err != nil {
		l.cast.Pub(&LineError{Line: lineno + 1, Err: err})
	}
}

// ParseLine parses a single input line. It returns nil and no error for
// empty lines and comments.
func ParseLine(line string) (*interval.Interval, error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil, nil
	}
	fields := strings.FieldsFunc(line, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	if len(fields) != 2 {
		return nil, fmt.Errorf("%w: expected 2 bounds, have %d", ErrSyntax, len(fields))
	}
	lo, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSyntax, err)
	}
	hi, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSyntax, err)
	}
	if lo > hi {
		return nil, fmt.Errorf("%w: lower bound %g exceeds upper bound %g", ErrSyntax, lo, hi)
	}
	return interval.New(lo, hi), nil
}

// Load reads a file of intervals and inserts them into a new tree created
// from cfg.
func Load(name string, cfg ibtree.Config) (*ibtree.Tree, error) {
	f, err := openFile(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tree, err := ibtree.New(cfg)
	if err != nil {
		return nil, err
	}
	if _, err := NewLoader(f).Run(context.Background(), tree); err != nil {
		return nil, fmt.Errorf("loading %s: %w", name, err)
	}
	return tree, nil
}

// openFile opens an OS file for reading, checking for error conditions.
func openFile(name string) (*os.File, error) {
	fi, err := os.Stat(name)
	if err != nil {
		return nil, err
	} else if !fi.Mode().IsRegular() {
		return nil, fmt.Errorf("%s is not a regular file", name)
	}
	return os.Open(name)
}
