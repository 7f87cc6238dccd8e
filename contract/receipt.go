package contract

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bitrise-io/go-utils/retry"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

var (
	numReceiptRetries   uint = 30
	receiptPollInterval      = 2 * time.Second
)

// ErrTransactionReverted is returned when a mined transaction has a failed
// receipt status.
var ErrTransactionReverted = errors.New("transaction reverted")

// ReceiptBackend is the subset of an RPC client needed to confirm
// transactions. *ethclient.Client satisfies it.
type ReceiptBackend interface {
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// WaitMined polls for a transaction receipt until the transaction is mined
// or the retry budget runs out. A mined-but-reverted transaction is an error.
func WaitMined(ctx context.Context, backend ReceiptBackend, txHash common.Hash, logger log.Logger) (*types.Receipt, error) {
	if logger == nil {
		logger = log.NewLogger()
	}

	var receipt *types.Receipt
	err := retry.Times(numReceiptRetries).Wait(receiptPollInterval).TryWithAbort(func(attempt uint) (error, bool) {
		if err := ctx.Err(); err != nil {
			return err, true
		}

		r, err := backend.TransactionReceipt(ctx, txHash)
		if err != nil {
			if errors.Is(err, ethereum.NotFound) {
				logger.Debugf("Transaction %s not mined yet (attempt %d)", txHash.Hex(), attempt+1)
				return fmt.Errorf("transaction %s not mined yet", txHash.Hex()), false
			}
			return fmt.Errorf("transaction receipt: %w", err), true
		}

		receipt = r
		return nil, true
	})
	if err != nil {
		return nil, err
	}

	if receipt.Status != types.ReceiptStatusSuccessful {
		return receipt, fmt.Errorf("%w: %s", ErrTransactionReverted, txHash.Hex())
	}
	return receipt, nil
}
