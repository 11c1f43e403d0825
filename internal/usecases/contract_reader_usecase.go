package usecases

import (
	"context"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	domainerrors "nft-market.backend/internal/domain/errors"
	"nft-market.backend/internal/infrastructure/blockchain"
)

// TxStatus is the receipt-backed outcome of a submitted transaction. Pending
// means the network has not mined it yet.
type TxStatus struct {
	TxHash      string `json:"txHash"`
	Pending     bool   `json:"pending"`
	Success     bool   `json:"success"`
	BlockNumber uint64 `json:"blockNumber,omitempty"`
}

// ContractReader exposes the read-only surface of the collection contract.
type ContractReader struct {
	clientFactory   *blockchain.ClientFactory
	rpcURL          string
	contractAddress string
}

// NewContractReader creates a reader bound to one contract on one network.
func NewContractReader(clientFactory *blockchain.ClientFactory, rpcURL, contractAddress string) *ContractReader {
	return &ContractReader{
		clientFactory:   clientFactory,
		rpcURL:          rpcURL,
		contractAddress: contractAddress,
	}
}

// ContractAddress returns the configured collection address.
func (r *ContractReader) ContractAddress() string {
	return r.contractAddress
}

// OwnerOf returns the current on-chain owner of a token. A contract revert
// (typically an unminted token) surfaces as an error; callers decide whether
// that means unknown or not-found.
func (r *ContractReader) OwnerOf(ctx context.Context, tokenID int64) (string, error) {
	if tokenID < 0 {
		return "", domainerrors.BadRequest("invalid token id")
	}
	client, err := r.clientFactory.GetEVMClient(r.rpcURL)
	if err != nil {
		return "", err
	}
	owner, err := callTypedView[common.Address](ctx, client, r.contractAddress, FallbackERC721ABI, "ownerOf", big.NewInt(tokenID))
	if err != nil {
		return "", err
	}
	return owner.Hex(), nil
}

// TxStatus looks up the receipt of a submitted transaction. A missing
// receipt is not an error; it reports the transaction as pending.
func (r *ContractReader) TxStatus(ctx context.Context, txHash string) (*TxStatus, error) {
	client, err := r.clientFactory.GetEVMClient(r.rpcURL)
	if err != nil {
		return nil, err
	}
	receipt, err := client.GetTransactionReceipt(ctx, txHash)
	if err != nil {
		if errors.Is(err, ethereum.NotFound) {
			return &TxStatus{TxHash: txHash, Pending: true}, nil
		}
		return nil, err
	}
	return &TxStatus{
		TxHash:      txHash,
		Success:     receipt.Status == types.ReceiptStatusSuccessful,
		BlockNumber: receipt.BlockNumber.Uint64(),
	}, nil
}
