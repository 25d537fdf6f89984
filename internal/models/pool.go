package models

import (
	"github.com/aman-zulfiqar/solana-pool-snapshot/internal/constants"
)

// ResolvedToken is one side of a pool ready for display
type ResolvedToken struct {
	Name    string `json:"name"`    // symbol, or the mint address when unknown
	Balance string `json:"balance"` // exact decimal string
}

// PoolRow is one line of the reserve report
type PoolRow struct {
	Pool     string        `json:"pool"`
	TokenA   ResolvedToken `json:"token_a"`
	TokenB   ResolvedToken `json:"token_b"`
	Ratio    string        `json:"ratio"` // B per A
	Resolved bool          `json:"resolved"`
	Reason   string        `json:"reason,omitempty"`
}

// UnresolvedRow builds a row for a pool whose reserves could not be read.
// Names that are already known are kept; everything else shows the marker.
func UnresolvedRow(pool, nameA, nameB, reason string) PoolRow {
	if nameA == "" {
		nameA = constants.UnresolvedMarker
	}
	if nameB == "" {
		nameB = constants.UnresolvedMarker
	}
	return PoolRow{
		Pool:   pool,
		TokenA: ResolvedToken{Name: nameA, Balance: constants.UnresolvedMarker},
		TokenB: ResolvedToken{Name: nameB, Balance: constants.UnresolvedMarker},
		Ratio:  constants.UnresolvedMarker,
		Reason: reason,
	}
}

// Cells returns the row in report column order
func (r PoolRow) Cells() []string {
	return []string{r.Pool, r.TokenA.Name, r.TokenA.Balance, r.TokenB.Name, r.TokenB.Balance, r.Ratio}
}
