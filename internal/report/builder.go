package report

import (
	"fmt"
	"io"
	"sync"

	"github.com/olekukonko/tablewriter"

	"github.com/aman-zulfiqar/solana-pool-snapshot/internal/constants"
	"github.com/aman-zulfiqar/solana-pool-snapshot/internal/models"
)

// Builder collects pool rows in discovery order. Rows may be set from
// several goroutines; each index is written once.
type Builder struct {
	mu   sync.Mutex
	rows []models.PoolRow
	set  []bool
}

// NewBuilder creates a builder for n pools
func NewBuilder(n int) *Builder {
	return &Builder{
		rows: make([]models.PoolRow, n),
		set:  make([]bool, n),
	}
}

// Put stores the row for pool i
func (b *Builder) Put(i int, row models.PoolRow) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if i < 0 || i >= len(b.rows) {
		return fmt.Errorf("row index %d out of range [0,%d)", i, len(b.rows))
	}
	b.rows[i] = row
	b.set[i] = true
	return nil
}

// Missing returns the indexes that were never set
func (b *Builder) Missing() []int {
	b.mu.Lock()
	defer b.mu.Unlock()

	var missing []int
	for i, ok := range b.set {
		if !ok {
			missing = append(missing, i)
		}
	}
	return missing
}

// Rows returns a copy of the rows in discovery order
func (b *Builder) Rows() []models.PoolRow {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]models.PoolRow, len(b.rows))
	copy(out, b.rows)
	return out
}

// Summary counts resolved and unresolved rows
type Summary struct {
	Total      int
	Resolved   int
	Unresolved int
}

// Summarize counts the rows by outcome
func Summarize(rows []models.PoolRow) Summary {
	s := Summary{Total: len(rows)}
	for _, r := range rows {
		if r.Resolved {
			s.Resolved++
		} else {
			s.Unresolved++
		}
	}
	return s
}

// Render writes rows as a table headed by constants.ReportHeader. Cells are
// printed verbatim.
func Render(w io.Writer, rows []models.PoolRow) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(constants.ReportHeader)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	for _, row := range rows {
		table.Append(row.Cells())
	}
	table.Render()
}
