package creator

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/creatorkit/go-creatorkit/ipfs"
	"github.com/creatorkit/go-creatorkit/metadata"
)

// Phase tracks where a batch mint currently is. It mirrors the state a UI
// binds to: idle → uploading → minting → done (or error).
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseUploading Phase = "uploading"
	PhaseMinting   Phase = "minting"
	PhaseDone      Phase = "done"
	PhaseError     Phase = "error"
)

// Status is a point-in-time view of a batch mint.
type Status struct {
	Phase   Phase
	Message string
	// Upload carries the live upload snapshot during PhaseUploading.
	Upload *ipfs.Progress
}

// StatusFunc observes batch mint progress. Called synchronously.
type StatusFunc func(Status)

// BatchMintResult is the aggregate outcome of one BatchMint call.
type BatchMintResult struct {
	// Upload is the full per-payload upload outcome, ordered by index.
	Upload *ipfs.BatchResult
	// Minted holds one entry per successfully uploaded and minted token.
	Minted []MintResult
	// FailedIndices lists the metadata positions that were not minted,
	// either because their upload failed or their mint did. Feed these back
	// through FailedMetadata for a selective retry.
	FailedIndices []int
}

// BatchMint encodes and uploads all metadata documents with bounded
// concurrency, then mints each successfully pinned document in input order.
// Upload failures never abort the batch; they are reported per item. A mint
// failure stops further minting (nonce ordering makes continuing after a
// failed transaction pointless) but the upload results remain usable.
func (c *Creator) BatchMint(ctx context.Context, to common.Address, metas []*metadata.Metadata, onStatus StatusFunc, concurrency int) (*BatchMintResult, error) {
	notify := func(s Status) {
		if onStatus != nil {
			onStatus(s)
		}
	}

	payloads := make([][]byte, len(metas))
	for i, meta := range metas {
		encoded, err := meta.Encode()
		if err != nil {
			notify(Status{Phase: PhaseError, Message: fmt.Sprintf("metadata %d: %s", i, err)})
			return nil, fmt.Errorf("encode metadata %d: %w", i, err)
		}
		payloads[i] = encoded
	}

	notify(Status{Phase: PhaseUploading})
	batch := c.uploader.UploadBatch(ctx, payloads, func(p ipfs.Progress) {
		notify(Status{Phase: PhaseUploading, Upload: &p})
	}, concurrency)

	result := &BatchMintResult{Upload: batch}
	for _, item := range batch.Results {
		if item.Err != nil {
			result.FailedIndices = append(result.FailedIndices, item.Index)
		}
	}

	notify(Status{Phase: PhaseMinting})
	for _, item := range batch.Results {
		if item.Err != nil {
			continue
		}

		minted, err := c.mintUploaded(ctx, to, item)
		if err != nil {
			notify(Status{Phase: PhaseError, Message: err.Error()})
			result.FailedIndices = append(result.FailedIndices, remainingIndices(batch.Results, item.Index)...)
			return result, err
		}
		result.Minted = append(result.Minted, *minted)
	}

	notify(Status{Phase: PhaseDone})
	c.logger.Donef("Minted %d/%d tokens", len(result.Minted), len(metas))
	return result, nil
}

func (c *Creator) mintUploaded(ctx context.Context, to common.Address, item ipfs.UploadResult) (*MintResult, error) {
	txHash, err := c.chain.Mint(ctx, to, item.URL)
	if err != nil {
		return nil, fmt.Errorf("submit mint %d: %w", item.Index, err)
	}
	if _, err := c.chain.WaitMined(ctx, txHash); err != nil {
		return nil, fmt.Errorf("confirm mint %d: %w", item.Index, err)
	}
	return &MintResult{
		Index:      item.Index,
		TokenURI:   item.URL,
		CID:        item.CID,
		GatewayURL: item.GatewayURL,
		TxHash:     txHash,
	}, nil
}

// remainingIndices lists the successfully uploaded indices from `from`
// onwards; on a mint failure these become failed too.
func remainingIndices(results []ipfs.UploadResult, from int) []int {
	var out []int
	for _, item := range results {
		if item.Index >= from && item.Err == nil {
			out = append(out, item.Index)
		}
	}
	return out
}

// FailedMetadata builds the filtered re-submission list from a previous
// batch result: pass its return value straight back into BatchMint.
func FailedMetadata(metas []*metadata.Metadata, result *BatchMintResult) []*metadata.Metadata {
	var out []*metadata.Metadata
	for _, index := range result.FailedIndices {
		if index >= 0 && index < len(metas) {
			out = append(out, metas[index])
		}
	}
	return out
}
