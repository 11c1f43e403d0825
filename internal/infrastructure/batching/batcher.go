package batching

import (
	"context"
	"fmt"
	"math/big"
	"net/url"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	domainerrors "nft-market.backend/internal/domain/errors"
	"nft-market.backend/internal/infrastructure/blockchain"
)

// Intent is one contract call queued into a batch.
type Intent struct {
	ContractAddress string
	ABI             abi.ABI
	Method          string
	Args            []interface{}
	Value           *big.Int
}

// PaymasterConfig selects the sponsoring endpoint for batched sends. With an
// empty URL the batch goes straight to the network RPC and the sender wallet
// pays its own gas.
type PaymasterConfig struct {
	URL    string
	APIKey string
	Mode   string
}

// EstimateResult is the verdict of a dry run over a whole batch.
type EstimateResult struct {
	GasTotal uint64
	Reverted bool
	Reason   string
}

// Batcher estimates and submits batches of contract calls. Estimate must be
// called before Send; a batch that fails estimation must never be sent.
type Batcher interface {
	Estimate(ctx context.Context, from string, intents []Intent) (*EstimateResult, error)
	Send(ctx context.Context, senderKey string, intents []Intent) (string, error)
}

var (
	performIntentTransact = func(client *ethclient.Client, intent Intent, auth *bind.TransactOpts) (string, error) {
		contract := bind.NewBoundContract(common.HexToAddress(intent.ContractAddress), intent.ABI, client, client, client)
		tx, err := contract.Transact(auth, intent.Method, intent.Args...)
		if err != nil {
			return "", err
		}
		return tx.Hash().Hex(), nil
	}
	executeBatchTx = func(ctx context.Context, rpcURL string, senderKey string, intents []Intent) (string, error) {
		client, err := ethclient.DialContext(ctx, rpcURL)
		if err != nil {
			return "", err
		}
		defer client.Close()

		privateKeyHex := strings.TrimPrefix(senderKey, "0x")
		privateKey, err := crypto.HexToECDSA(privateKeyHex)
		if err != nil {
			return "", domainerrors.BadRequest("invalid sender private key")
		}

		chainID, err := client.ChainID(ctx)
		if err != nil {
			return "", err
		}
		if chainID == nil {
			return "", fmt.Errorf("chain id is nil")
		}
		auth, err := bind.NewKeyedTransactorWithChainID(privateKey, chainID)
		if err != nil {
			return "", err
		}
		auth.Context = ctx

		var lastHash string
		for _, intent := range intents {
			auth.Value = intent.Value
			lastHash, err = performIntentTransact(client, intent, auth)
			if err != nil {
				return "", err
			}
		}
		return lastHash, nil
	}
)

// EVMBatcher submits batches through a single RPC endpoint, optionally routed
// through a sponsoring paymaster.
type EVMBatcher struct {
	clientFactory *blockchain.ClientFactory
	rpcURL        string
	paymaster     PaymasterConfig
}

// NewEVMBatcher creates a batcher bound to one network endpoint.
func NewEVMBatcher(clientFactory *blockchain.ClientFactory, rpcURL string, paymaster PaymasterConfig) *EVMBatcher {
	return &EVMBatcher{
		clientFactory: clientFactory,
		rpcURL:        rpcURL,
		paymaster:     paymaster,
	}
}

// Estimate dry-runs every intent in order. A revert anywhere fails the whole
// batch; the result carries the node's revert reason verbatim.
func (b *EVMBatcher) Estimate(ctx context.Context, from string, intents []Intent) (*EstimateResult, error) {
	if len(intents) == 0 {
		return nil, domainerrors.BadRequest("empty batch")
	}
	client, err := b.clientFactory.GetEVMClient(b.rpcURL)
	if err != nil {
		return nil, err
	}

	fromAddr := common.HexToAddress(from)
	var total uint64
	for _, intent := range intents {
		data, err := intent.ABI.Pack(intent.Method, intent.Args...)
		if err != nil {
			return nil, err
		}
		to := common.HexToAddress(intent.ContractAddress)
		gas, err := client.EstimateGas(ctx, ethereum.CallMsg{
			From:  fromAddr,
			To:    &to,
			Data:  data,
			Value: intent.Value,
		})
		if err != nil {
			return &EstimateResult{Reverted: true, Reason: err.Error()}, nil
		}
		total += gas
	}
	return &EstimateResult{GasTotal: total}, nil
}

// Send signs and submits the batch. Returns the hash of the last submitted
// transaction.
func (b *EVMBatcher) Send(ctx context.Context, senderKey string, intents []Intent) (string, error) {
	if len(intents) == 0 {
		return "", domainerrors.BadRequest("empty batch")
	}
	if strings.TrimSpace(senderKey) == "" {
		return "", domainerrors.BadRequest("sender key is not configured")
	}
	return executeBatchTx(ctx, b.sendEndpoint(), senderKey, intents)
}

// sendEndpoint picks the paymaster RPC when sponsorship is configured so the
// bundled transactions are paid by the partner account.
func (b *EVMBatcher) sendEndpoint() string {
	if b.paymaster.URL == "" || b.paymaster.Mode != "sponsor" {
		return b.rpcURL
	}
	endpoint := b.paymaster.URL
	if b.paymaster.APIKey != "" {
		sep := "?"
		if strings.Contains(endpoint, "?") {
			sep = "&"
		}
		endpoint += sep + "apiKey=" + url.QueryEscape(b.paymaster.APIKey)
	}
	return endpoint
}
