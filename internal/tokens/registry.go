package tokens

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
)

// TokenEntry is one record of a JSON token list
type TokenEntry struct {
	Mint   string `json:"mint"`
	Symbol string `json:"symbol"`
}

// Registry maps mint addresses to symbols. It is read-only once built and
// safe to share between goroutines.
type Registry struct {
	symbols map[solana.PublicKey]string
}

// NewRegistry builds a registry from mint -> symbol pairs. Later maps
// override earlier ones.
func NewRegistry(sets ...map[string]string) (*Registry, error) {
	r := &Registry{symbols: make(map[solana.PublicKey]string)}
	for _, set := range sets {
		for mint, symbol := range set {
			if err := r.add(mint, symbol); err != nil {
				return nil, err
			}
		}
	}
	return r, nil
}

// LoadTokenListFromJSON reads a token list file into mint -> symbol pairs
func LoadTokenListFromJSON(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read token list: %w", err)
	}

	var entries []TokenEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse token list: %w", err)
	}

	out := make(map[string]string, len(entries))
	for i, e := range entries {
		if strings.TrimSpace(e.Symbol) == "" {
			return nil, fmt.Errorf("token %d (%s): empty symbol", i, e.Mint)
		}
		if _, err := parseMint(e.Mint); err != nil {
			return nil, fmt.Errorf("token %d (%s): %w", i, e.Symbol, err)
		}
		out[e.Mint] = e.Symbol
	}
	return out, nil
}

func parseMint(s string) (solana.PublicKey, error) {
	raw, err := base58.Decode(s)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("invalid mint %q: %w", s, err)
	}
	if len(raw) != solana.PublicKeyLength {
		return solana.PublicKey{}, fmt.Errorf("invalid mint %q: decodes to %d bytes, want %d", s, len(raw), solana.PublicKeyLength)
	}
	return solana.PublicKeyFromBytes(raw), nil
}

func (r *Registry) add(mint, symbol string) error {
	key, err := parseMint(mint)
	if err != nil {
		return err
	}
	r.symbols[key] = symbol
	return nil
}

// Lookup returns the symbol registered for mint
func (r *Registry) Lookup(mint solana.PublicKey) (string, bool) {
	symbol, ok := r.symbols[mint]
	return symbol, ok
}

// Name returns the symbol for mint, or the mint address when unknown
func (r *Registry) Name(mint solana.PublicKey) string {
	if symbol, ok := r.Lookup(mint); ok {
		return symbol
	}
	return mint.String()
}

// Len returns the number of registered mints
func (r *Registry) Len() int {
	return len(r.symbols)
}
