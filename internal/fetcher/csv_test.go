package fetcher

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collectRows(t *testing.T, rowCh <-chan []string, errCh <-chan error) ([][]string, error) {
	t.Helper()
	var rows [][]string
	for row := range rowCh {
		rows = append(rows, row)
	}
	for err := range errCh {
		if err != nil {
			return rows, err
		}
	}
	return rows, nil
}

func TestStreamCSV_Basic(t *testing.T) {
	input := "ustc_id,author\n1,Cicero\n2,Seneca\n"
	rowCh, errCh := StreamCSV(context.Background(), strings.NewReader(input), CSVOptions{})
	rows, err := collectRows(t, rowCh, errCh)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"ustc_id", "author"}, rows[0])
	assert.Equal(t, []string{"2", "Seneca"}, rows[2])
}

func TestStreamCSV_TabDelimited(t *testing.T) {
	input := "vd16\tyear\nA 1\t1543\n"
	rowCh, errCh := StreamCSV(context.Background(), strings.NewReader(input), CSVOptions{Delimiter: '\t'})
	rows, err := collectRows(t, rowCh, errCh)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"A 1", "1543"}, rows[1])
}

func TestStreamCSV_StripsBOM(t *testing.T) {
	input := "\xEF\xBB\xBFauthor,title\nBembo,Prose\n"
	rowCh, errCh := StreamCSV(context.Background(), strings.NewReader(input), CSVOptions{})
	rows, err := collectRows(t, rowCh, errCh)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "author", rows[0][0])
}

func TestStreamCSV_RaggedAndLazyQuotes(t *testing.T) {
	input := "a,b,c\n1,\"Opera \"omnia\",3\n4\n"
	rowCh, errCh := StreamCSV(context.Background(), strings.NewReader(input), CSVOptions{LazyQuotes: true})
	rows, err := collectRows(t, rowCh, errCh)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"4"}, rows[2])
}

func TestStreamCSV_TrimSpace(t *testing.T) {
	input := " a , b \n 1 , 2 \n"
	rowCh, errCh := StreamCSV(context.Background(), strings.NewReader(input), CSVOptions{TrimSpace: true})
	rows, err := collectRows(t, rowCh, errCh)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a", "b"}, {"1", "2"}}, rows)
}

func TestStreamCSV_Empty(t *testing.T) {
	rowCh, errCh := StreamCSV(context.Background(), strings.NewReader(""), CSVOptions{})
	rows, err := collectRows(t, rowCh, errCh)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestStreamCSV_ContextAlreadyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rowCh, errCh := StreamCSV(ctx, strings.NewReader("a\n1\n"), CSVOptions{})
	for range rowCh { //nolint:revive // drain
	}
	var gotErr error
	for err := range errCh {
		if err != nil {
			gotErr = err
		}
	}
	require.Error(t, gotErr)
	assert.Contains(t, gotErr.Error(), "context cancelled")
}

func TestReadCSV(t *testing.T) {
	tbl, err := ReadCSV(context.Background(), strings.NewReader("author,title\nErasmus,Moriae encomium\n"), CSVOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"author", "title"}, tbl.Header)
	assert.Equal(t, 1, tbl.Len())
	assert.Equal(t, "Moriae encomium", tbl.Get(0, "title"))
}

func TestReadCSV_HeaderOnly(t *testing.T) {
	tbl, err := ReadCSV(context.Background(), strings.NewReader("author,title\n"), CSVOptions{})
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.Len())
	assert.True(t, tbl.Has("title"))
}
