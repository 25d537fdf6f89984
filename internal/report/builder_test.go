package report

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aman-zulfiqar/solana-pool-snapshot/internal/constants"
	"github.com/aman-zulfiqar/solana-pool-snapshot/internal/models"
)

func row(i int) models.PoolRow {
	return models.PoolRow{
		Pool:     fmt.Sprintf("pool-%d", i),
		TokenA:   models.ResolvedToken{Name: "SOL", Balance: "2.000000000"},
		TokenB:   models.ResolvedToken{Name: "USDC", Balance: "6.000000"},
		Ratio:    "3.0",
		Resolved: true,
	}
}

func TestBuilder_KeepsIndexOrder(t *testing.T) {
	const n = 64
	b := NewBuilder(n)

	var wg sync.WaitGroup
	for i := n - 1; i >= 0; i-- {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, b.Put(i, row(i)))
		}(i)
	}
	wg.Wait()

	rows := b.Rows()
	require.Len(t, rows, n)
	for i, r := range rows {
		assert.Equal(t, fmt.Sprintf("pool-%d", i), r.Pool)
	}
	assert.Empty(t, b.Missing())
}

func TestBuilder_OutOfRange(t *testing.T) {
	b := NewBuilder(2)
	assert.Error(t, b.Put(2, row(2)))
	assert.Error(t, b.Put(-1, row(0)))
	assert.Equal(t, []int{0, 1}, b.Missing())
}

func TestBuilder_RowsIsCopy(t *testing.T) {
	b := NewBuilder(1)
	require.NoError(t, b.Put(0, row(0)))

	rows := b.Rows()
	rows[0].Pool = "changed"
	assert.Equal(t, "pool-0", b.Rows()[0].Pool)
}

func TestSummarize(t *testing.T) {
	rows := []models.PoolRow{
		row(0),
		models.UnresolvedRow("pool-1", "SOL", "", "account not found"),
		row(2),
	}

	assert.Equal(t, Summary{Total: 3, Resolved: 2, Unresolved: 1}, Summarize(rows))
	assert.Equal(t, Summary{}, Summarize(nil))
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	Render(&buf, []models.PoolRow{
		row(0),
		models.UnresolvedRow("pool-1", "", "", "malformed"),
	})
	out := buf.String()

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.NotEmpty(t, lines)

	headerLine := ""
	for _, l := range lines {
		if strings.Contains(l, "Pool") {
			headerLine = l
			break
		}
	}
	require.NotEmpty(t, headerLine)
	last := 0
	for _, h := range constants.ReportHeader {
		idx := strings.Index(headerLine, h)
		require.GreaterOrEqual(t, idx, last, "header %q out of order", h)
		last = idx
	}

	assert.Contains(t, out, "pool-0")
	assert.Contains(t, out, "2.000000000")
	assert.Contains(t, out, "6.000000")
	assert.Contains(t, out, "3.0")
	assert.Contains(t, out, "pool-1")
	assert.Equal(t, 5, strings.Count(lines[len(lines)-2], constants.UnresolvedMarker))
}

func TestRender_Empty(t *testing.T) {
	var buf bytes.Buffer
	Render(&buf, nil)

	assert.Contains(t, buf.String(), "1 A ~ ? B")
	assert.NotContains(t, buf.String(), "unresolved")
}
