// Package creator is the SDK facade: it builds token metadata, pins it to
// IPFS and mints it against a creator contract, with progress reporting
// suitable for driving a UI.
package creator

import (
	"context"
	"fmt"

	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/creatorkit/go-creatorkit/ipfs"
	"github.com/creatorkit/go-creatorkit/metadata"
)

// Uploader is the metadata storage side of the facade. *ipfs.Client
// satisfies it.
type Uploader interface {
	Upload(ctx context.Context, data []byte) (*ipfs.UploadResult, error)
	UploadBatch(ctx context.Context, payloads [][]byte, onProgress ipfs.ProgressFunc, concurrency int) *ipfs.BatchResult
}

// ChainBackend is the on-chain side: submit a mint, then confirm it.
// contract.ERC721Backend and contract.ERC1155Backend satisfy it.
type ChainBackend interface {
	Mint(ctx context.Context, to common.Address, tokenURI string) (common.Hash, error)
	WaitMined(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// Creator ties the uploader and the chain backend together.
type Creator struct {
	uploader Uploader
	chain    ChainBackend
	logger   log.Logger
}

// New creates a facade over the given collaborators. `logger` can be nil.
func New(uploader Uploader, chain ChainBackend, logger log.Logger) *Creator {
	if logger == nil {
		logger = log.NewLogger()
	}
	return &Creator{
		uploader: uploader,
		chain:    chain,
		logger:   logger,
	}
}

// MintResult describes one successfully minted token.
type MintResult struct {
	// Index is the token's position in the batch (0 for single mints).
	Index int
	// TokenURI is the ipfs:// URI recorded on-chain.
	TokenURI string
	// CID addresses the pinned metadata document.
	CID string
	// GatewayURL resolves the metadata in a browser.
	GatewayURL string
	// TxHash is the confirmed mint transaction.
	TxHash common.Hash
}

// MintWithMetadata validates and encodes the metadata, pins it to IPFS and
// mints it to `to`, waiting for the transaction to be confirmed.
func (c *Creator) MintWithMetadata(ctx context.Context, to common.Address, meta *metadata.Metadata) (*MintResult, error) {
	encoded, err := meta.Encode()
	if err != nil {
		return nil, fmt.Errorf("encode metadata: %w", err)
	}

	uploaded, err := c.uploader.Upload(ctx, encoded)
	if err != nil {
		return nil, fmt.Errorf("upload metadata: %w", err)
	}
	c.logger.Debugf("Metadata pinned at %s", uploaded.URL)

	txHash, err := c.chain.Mint(ctx, to, uploaded.URL)
	if err != nil {
		return nil, fmt.Errorf("submit mint: %w", err)
	}
	if _, err := c.chain.WaitMined(ctx, txHash); err != nil {
		return nil, fmt.Errorf("confirm mint: %w", err)
	}

	c.logger.Donef("Minted %s (tx %s)", uploaded.URL, txHash.Hex())
	return &MintResult{
		TokenURI:   uploaded.URL,
		CID:        uploaded.CID,
		GatewayURL: uploaded.GatewayURL,
		TxHash:     txHash,
	}, nil
}
