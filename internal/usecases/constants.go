package usecases

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"

	"nft-market.backend/internal/infrastructure/blockchain"
)

// ABI surface of the collection contract. The marketplace only ever reads
// ownerOf, batches transferFrom calls and encodes lazyMint calldata for the
// fiat checkout, so the fallback ABIs carry exactly those methods.
var (
	FallbackERC721ABI = mustParseABI(`[
		{"inputs":[{"internalType":"uint256","name":"tokenId","type":"uint256"}],"name":"ownerOf","outputs":[{"internalType":"address","name":"","type":"address"}],"stateMutability":"view","type":"function"},
		{"inputs":[{"internalType":"address","name":"from","type":"address"},{"internalType":"address","name":"to","type":"address"},{"internalType":"uint256","name":"tokenId","type":"uint256"}],"name":"transferFrom","outputs":[],"stateMutability":"nonpayable","type":"function"}
	]`)
	FallbackLazyMintABI = mustParseABI(`[
		{"inputs":[
			{"components":[
				{"internalType":"uint256","name":"tokenId","type":"uint256"},
				{"internalType":"uint256","name":"minPrice","type":"uint256"},
				{"internalType":"string","name":"uri","type":"string"}
			],"internalType":"struct NFTVoucher","name":"voucher","type":"tuple"},
			{"internalType":"bytes","name":"signature","type":"bytes"},
			{"internalType":"string","name":"data","type":"string"},
			{"internalType":"address","name":"to","type":"address"}
		],"name":"lazyMint","outputs":[],"stateMutability":"payable","type":"function"}
	]`)
)

func callTypedView[T any](
	ctx context.Context,
	client *blockchain.EVMClient,
	contractAddress string,
	parsedABI abi.ABI,
	method string,
	args ...interface{},
) (T, error) {
	var zero T

	data, err := parsedABI.Pack(method, args...)
	if err != nil {
		return zero, err
	}
	out, err := client.CallView(ctx, contractAddress, data)
	if err != nil {
		return zero, err
	}
	vals, err := parsedABI.Unpack(method, out)
	if err != nil || len(vals) == 0 {
		return zero, fmt.Errorf("failed to decode %s", method)
	}
	value, ok := vals[0].(T)
	if !ok {
		return zero, fmt.Errorf("invalid %s return type", method)
	}
	return value, nil
}

func mustParseABI(raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic(err)
	}
	return parsed
}
