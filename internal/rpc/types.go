package rpc

import (
	"context"
	"errors"
	"time"

	"github.com/gagliardetto/solana-go"
	solanarpc "github.com/gagliardetto/solana-go/rpc"
	"github.com/sirupsen/logrus"
)

var (
	// ErrDiscoveryUnavailable wraps transport failures while enumerating program accounts
	ErrDiscoveryUnavailable = errors.New("account discovery unavailable")

	// ErrFetchUnavailable wraps transport failures while fetching accounts
	ErrFetchUnavailable = errors.New("account fetch unavailable")
)

// ClientConfig holds configuration for the ledger client
type ClientConfig struct {
	BaseURL          string
	Commitment       solanarpc.CommitmentType
	Timeout          time.Duration // per getMultipleAccounts attempt
	DiscoveryTimeout time.Duration // per getProgramAccounts attempt
	MaxRetries       int
	RetryBackoff     time.Duration
	RateLimit        float64 // requests per second, 0 disables limiting
	Logger           *logrus.Logger
}

// ledgerAPI is the subset of the solana-go RPC client used here
type ledgerAPI interface {
	GetProgramAccountsWithOpts(ctx context.Context, publicKey solana.PublicKey, opts *solanarpc.GetProgramAccountsOpts) (solanarpc.GetProgramAccountsResult, error)
	GetMultipleAccountsWithOpts(ctx context.Context, accounts []solana.PublicKey, opts *solanarpc.GetMultipleAccountsOpts) (*solanarpc.GetMultipleAccountsResult, error)
}
