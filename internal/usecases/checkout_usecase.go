package usecases

import (
	"context"
	"encoding/json"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/crypto/sha3"

	"nft-market.backend/internal/domain/entities"
	domainerrors "nft-market.backend/internal/domain/errors"
	"nft-market.backend/internal/domain/repositories"
	"nft-market.backend/internal/observability"
	"nft-market.backend/pkg/utils"
)

// CheckoutConfig carries the fiat payment widget settings.
type CheckoutConfig struct {
	PartnerID  string
	Origin     string
	Commodity  string
	Network    string
	SigningKey string
	Width      int
	Height     int
}

// PaymentStatusResult tells the caller what a widget status event means for
// the UI: whether the checkout is over and whether ownership must be
// re-read.
type PaymentStatusResult struct {
	Status  entities.PaymentStatus `json:"status"`
	Final   bool                   `json:"final"`
	Refresh bool                   `json:"refresh"`
	Ignored bool                   `json:"ignored"`
}

// voucherPayload is the catalog representation of a lazy-mint voucher.
type voucherPayload struct {
	TokenID  int64  `json:"tokenId"`
	MinPrice string `json:"minPrice"`
	URI      string `json:"uri"`
}

// lazyMintVoucher matches the NFTVoucher tuple of the collection contract.
// Field names follow go-ethereum's tuple mapping of the component names.
type lazyMintVoucher struct {
	TokenId  *big.Int
	MinPrice *big.Int
	Uri      string
}

// CheckoutUsecase builds signed fiat checkout payloads for lazy-mint catalog
// entries. Payloads are cached per (buyer, NFT): reopening the widget for the
// same pair reuses the same signature and click id.
type CheckoutUsecase struct {
	catalogRepo      repositories.CatalogRepository
	resolver         *OwnershipResolver
	metrics          *observability.Metrics
	config           CheckoutConfig
	contractAddress  string
	custodianAddress string
	ipfsGateway      string

	mu    sync.Mutex
	cache map[string]*entities.CheckoutResponse
}

// NewCheckoutUsecase creates a new checkout usecase
func NewCheckoutUsecase(
	catalogRepo repositories.CatalogRepository,
	resolver *OwnershipResolver,
	metrics *observability.Metrics,
	config CheckoutConfig,
	contractAddress string,
	custodianAddress string,
	ipfsGateway string,
) *CheckoutUsecase {
	return &CheckoutUsecase{
		catalogRepo:      catalogRepo,
		resolver:         resolver,
		metrics:          metrics,
		config:           config,
		contractAddress:  contractAddress,
		custodianAddress: custodianAddress,
		ipfsGateway:      ipfsGateway,
		cache:            make(map[string]*entities.CheckoutResponse),
	}
}

// CreateCheckout returns the signed widget payload for one lazy-mint entry.
func (u *CheckoutUsecase) CreateCheckout(ctx context.Context, nftID, buyerAddress string) (*entities.CheckoutResponse, error) {
	if buyerAddress == "" {
		return nil, domainerrors.Unauthorized("no connected account")
	}
	if !common.IsHexAddress(buyerAddress) {
		return nil, domainerrors.BadRequest("invalid buyer address")
	}

	key := cacheKey(buyerAddress, nftID)
	u.mu.Lock()
	if cached, ok := u.cache[key]; ok {
		u.mu.Unlock()
		u.metrics.RecordCheckoutSignature("hit")
		return cached, nil
	}
	u.mu.Unlock()

	record, err := u.catalogRepo.GetByID(ctx, nftID)
	if err != nil {
		return nil, err
	}
	if record.Minted() {
		return nil, domainerrors.BadRequest("token is already minted; use the purchase flow")
	}
	if len(record.Voucher) == 0 || record.Signature == "" {
		return nil, domainerrors.BadRequest("catalog entry has no mint voucher")
	}

	scInputData, err := u.encodeLazyMint(record, buyerAddress)
	if err != nil {
		return nil, err
	}

	signed := entities.SignedCheckout{
		Address:         common.HexToAddress(buyerAddress).Hex(),
		Commodity:       u.config.Commodity,
		CommodityAmount: record.Price,
		Network:         u.config.Network,
		SCAddress:       u.contractAddress,
		SCInputData:     scInputData,
	}
	signature, err := u.signCheckout(&signed)
	if err != nil {
		return nil, err
	}
	signed.Signature = signature

	response := &entities.CheckoutResponse{
		Signed: signed,
		Options: entities.CheckoutOptions{
			PartnerID: u.config.PartnerID,
			Commodity: u.config.Commodity,
			ClickID:   utils.GenerateUUIDv7().String(),
			Origin:    u.config.Origin,
			Width:     u.config.Width,
			Height:    u.config.Height,
			ItemInfo: entities.CheckoutItemInfo{
				Name:     record.Title,
				ImageURL: record.GatewayImageURL(u.ipfsGateway),
				Seller:   utils.ShortAddress(u.custodianAddress),
			},
		},
	}

	u.mu.Lock()
	u.cache[key] = response
	u.mu.Unlock()
	u.metrics.RecordCheckoutSignature("miss")
	return response, nil
}

// HandlePaymentStatus dispatches one widget status event. Unknown statuses
// are dropped without touching any state.
func (u *CheckoutUsecase) HandlePaymentStatus(ctx context.Context, nftID, buyerAddress string, status entities.PaymentStatus) *PaymentStatusResult {
	if !status.Known() {
		return &PaymentStatusResult{Status: status, Ignored: true}
	}
	u.metrics.RecordPaymentStatus(string(status))

	switch status {
	case entities.PaymentStatusSuccess:
		u.dropCached(buyerAddress, nftID)
		u.resolver.Invalidate(nftID)
		return &PaymentStatusResult{Status: status, Final: true, Refresh: true}
	case entities.PaymentStatusFailed, entities.PaymentStatusCanceled:
		u.dropCached(buyerAddress, nftID)
		return &PaymentStatusResult{Status: status, Final: true}
	default: // progress
		return &PaymentStatusResult{Status: status}
	}
}

// CloseCheckout discards the cached payload for one (buyer, NFT) pair.
// Reopening the widget after a close gets a fresh signature and click id.
func (u *CheckoutUsecase) CloseCheckout(buyerAddress, nftID string) {
	u.dropCached(buyerAddress, nftID)
}

func (u *CheckoutUsecase) dropCached(buyerAddress, nftID string) {
	u.mu.Lock()
	delete(u.cache, cacheKey(buyerAddress, nftID))
	u.mu.Unlock()
}

// encodeLazyMint builds the lazyMint(voucher, signature, "", to) calldata
// the widget executes after the fiat payment settles.
func (u *CheckoutUsecase) encodeLazyMint(record *entities.NFTRecord, buyerAddress string) (string, error) {
	var payload voucherPayload
	if err := json.Unmarshal(record.Voucher, &payload); err != nil {
		return "", domainerrors.BadRequest("malformed mint voucher")
	}
	minPrice := new(big.Int)
	if payload.MinPrice != "" {
		if _, ok := minPrice.SetString(payload.MinPrice, 10); !ok {
			return "", domainerrors.BadRequest("malformed voucher price")
		}
	}

	voucher := lazyMintVoucher{
		TokenId:  big.NewInt(payload.TokenID),
		MinPrice: minPrice,
		Uri:      payload.URI,
	}
	data, err := FallbackLazyMintABI.Pack(
		"lazyMint",
		voucher,
		common.FromHex(record.Signature),
		"",
		common.HexToAddress(buyerAddress),
	)
	if err != nil {
		return "", err
	}
	return "0x" + common.Bytes2Hex(data), nil
}

// signCheckout signs the widget payload fields with the partner key. The
// digest covers every field the widget forwards on-chain, in a fixed order.
func (u *CheckoutUsecase) signCheckout(signed *entities.SignedCheckout) (string, error) {
	privateKey, err := ethcrypto.HexToECDSA(trimHexPrefix(u.config.SigningKey))
	if err != nil {
		return "", domainerrors.BadRequest("invalid checkout signing key")
	}

	hasher := sha3.NewLegacyKeccak256()
	for _, field := range []string{
		signed.Address,
		signed.Commodity,
		signed.CommodityAmount,
		signed.Network,
		signed.SCAddress,
		signed.SCInputData,
	} {
		hasher.Write([]byte(field))
	}
	digest := hasher.Sum(nil)

	signature, err := ethcrypto.Sign(digest, privateKey)
	if err != nil {
		return "", err
	}
	return "0x" + common.Bytes2Hex(signature), nil
}

func trimHexPrefix(s string) string {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}

func cacheKey(buyerAddress, nftID string) string {
	return utils.NormalizeAddress(buyerAddress) + "|" + nftID
}
