package solana

import "context"

// RPCClient defines the Solana RPC HTTP surface the watcher depends on.
type RPCClient interface {
	// GetSignaturesForAddress retrieves the most recent transaction
	// signatures for an address, newest first.
	GetSignaturesForAddress(ctx context.Context, address string, limit int) ([]SignatureInfo, error)

	// GetAccountInfo retrieves account info by public key.
	// Returns nil (no error) if the account does not exist.
	GetAccountInfo(ctx context.Context, pubkey string) (*AccountInfo, error)
}

// SignatureInfo is one entry from getSignaturesForAddress.
type SignatureInfo struct {
	Signature string
	Slot      int64
	BlockTime *int64 // Unix timestamp (seconds), may be absent
	Err       interface{}
}

// AccountInfo represents Solana account state.
type AccountInfo struct {
	Lamports   uint64
	Owner      string
	Data       string // base64 encoded
	Executable bool
}
