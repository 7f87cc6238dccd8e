package contract

import (
	"context"
	"fmt"
	"math/big"

	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// ERC721Backend pairs an ERC-721 creator contract with an RPC client so a
// mint can be submitted and confirmed as one operation.
type ERC721Backend struct {
	creator *ERC721Creator
	rpc     ReceiptBackend
	logger  log.Logger
}

// NewERC721Backend wires a creator contract to a receipt source.
func NewERC721Backend(creator *ERC721Creator, rpc ReceiptBackend, logger log.Logger) *ERC721Backend {
	if logger == nil {
		logger = log.NewLogger()
	}
	return &ERC721Backend{creator: creator, rpc: rpc, logger: logger}
}

// Mint submits a mint transaction and returns its hash without waiting.
func (b *ERC721Backend) Mint(ctx context.Context, to common.Address, tokenURI string) (common.Hash, error) {
	tx, err := b.creator.MintTo(to, tokenURI)
	if err != nil {
		return common.Hash{}, fmt.Errorf("mint: %w", err)
	}
	b.logger.Debugf("Submitted mint tx %s for %s", tx.Hash().Hex(), tokenURI)
	return tx.Hash(), nil
}

// WaitMined blocks until the transaction is mined successfully.
func (b *ERC721Backend) WaitMined(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	return WaitMined(ctx, b.rpc, txHash, b.logger)
}

// ERC1155Backend is the ERC-1155 counterpart of ERC721Backend. Every mint
// creates a new token id with the configured edition size.
type ERC1155Backend struct {
	creator     *ERC1155Creator
	rpc         ReceiptBackend
	editionSize *big.Int
	logger      log.Logger
}

// NewERC1155Backend wires an ERC-1155 creator contract to a receipt source.
// editionSize is the supply minted per token; nil means 1 (unique editions).
func NewERC1155Backend(creator *ERC1155Creator, rpc ReceiptBackend, editionSize *big.Int, logger log.Logger) *ERC1155Backend {
	if editionSize == nil {
		editionSize = big.NewInt(1)
	}
	if logger == nil {
		logger = log.NewLogger()
	}
	return &ERC1155Backend{creator: creator, rpc: rpc, editionSize: editionSize, logger: logger}
}

// Mint submits a mint transaction and returns its hash without waiting.
func (b *ERC1155Backend) Mint(ctx context.Context, to common.Address, tokenURI string) (common.Hash, error) {
	tx, err := b.creator.MintNew(to, b.editionSize, tokenURI)
	if err != nil {
		return common.Hash{}, fmt.Errorf("mint: %w", err)
	}
	b.logger.Debugf("Submitted mint tx %s for %s", tx.Hash().Hex(), tokenURI)
	return tx.Hash(), nil
}

// WaitMined blocks until the transaction is mined successfully.
func (b *ERC1155Backend) WaitMined(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	return WaitMined(ctx, b.rpc, txHash, b.logger)
}
