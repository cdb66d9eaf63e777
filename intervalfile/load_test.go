package intervalfile

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/npillmayer/ibtree"
	"github.com/npillmayer/ibtree/interval"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLine(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ibtree")
	defer teardown()
	//
	for _, line := range []string{"", "   ", "# comment"} {
		iv, err := ParseLine(line)
		require.NoError(t, err)
		assert.Nil(t, iv, "line %q", line)
	}
	iv, err := ParseLine(" 2.5,\t7 ")
	require.NoError(t, err)
	assert.Equal(t, interval.R(2.5, 7), iv.Range())
	for _, line := range []string{"1", "1 2 3", "a 2", "1 b", "5 1"} {
		_, err := ParseLine(line)
		assert.ErrorIs(t, err, ErrSyntax, "line %q", line)
	}
}

func TestLoad(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ibtree")
	defer teardown()
	//
	tree, err := Load("testdata/small.txt", ibtree.Config{Order: 4})
	require.NoError(t, err)
	assert.Equal(t, 5, tree.Len())
	require.NoError(t, tree.Check())
	found := tree.AllRangeSearch(interval.R(3, 11))
	assert.Len(t, found, 4)
}

func TestLoadBrokenFile(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ibtree")
	defer teardown()
	//
	_, err := Load("testdata/broken.txt", ibtree.Config{})
	require.Error(t, err)
	var lerr *LineError
	require.True(t, errors.As(err, &lerr))
	assert.Equal(t, 3, lerr.Line)
	assert.ErrorIs(t, err, ErrSyntax)
	//
	_, err = Load("testdata", ibtree.Config{})
	assert.Error(t, err, "directories are not loadable")
	_, err = Load("testdata/no-such-file.txt", ibtree.Config{})
	assert.Error(t, err)
}

func TestLoaderPartialResult(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ibtree")
	defer teardown()
	//
	tree, err := ibtree.New(ibtree.Config{Order: 3})
	require.NoError(t, err)
	n, err := NewLoader(strings.NewReader("1 2\n3 4\nbad\n5 6\n")).Run(context.Background(), tree)
	require.Error(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, tree.Len())
}

func TestLoaderBroadcastsToSubscribers(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ibtree")
	defer teardown()
	//
	var input strings.Builder
	for i := 0; i < 200; i++ {
		input.WriteString("0 1\n")
	}
	loader := NewLoader(strings.NewReader(input.String()))
	watch, err := loader.Subscribe(context.Background())
	require.NoError(t, err)
	var wg sync.WaitGroup
	seen := 0
	wg.Add(1)
	go func() {
		defer wg.Done()
		for msg := range watch {
			if _, ok := msg.(*interval.Interval); ok {
				seen++
			}
		}
	}()
	tree, err := ibtree.New(ibtree.Config{Order: 8})
	require.NoError(t, err)
	n, err := loader.Run(context.Background(), tree)
	require.NoError(t, err)
	wg.Wait()
	assert.Equal(t, 200, n)
	assert.Equal(t, 200, seen)
	assert.Len(t, tree.Search(interval.R(0, 1)), 200)
}
