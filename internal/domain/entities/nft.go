package entities

import (
	"encoding/json"
	"strings"

	"github.com/volatiletech/null/v8"
)

// NFTRecord is one entry of the static marketplace catalog. Records are
// loaded once at startup and never mutated; the on-chain owner is always
// authoritative over the Owner hint carried here.
type NFTRecord struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	ImageURI string `json:"imageUri"`
	// TokenID is null for catalog entries that are not yet minted and can
	// only be bought through the lazy-mint checkout.
	TokenID null.Int64 `json:"tokenId"`
	// Price in native currency units, kept as a decimal string.
	Price string `json:"price"`
	// Owner is advisory only. Ownership decisions go through the resolver.
	Owner string `json:"owner"`
	// Voucher and Signature authorize a lazy mint. They are opaque here and
	// forwarded unmodified to the fiat checkout signer.
	Voucher   json.RawMessage `json:"voucher,omitempty"`
	Signature string          `json:"signature,omitempty"`
}

// Minted reports whether the token exists on-chain.
func (n *NFTRecord) Minted() bool {
	return n.TokenID.Valid
}

// GatewayImageURL rewrites an ipfs:// image URI to an HTTP gateway URL for
// display. Non-IPFS URIs pass through unchanged.
func (n *NFTRecord) GatewayImageURL(gateway string) string {
	if !strings.HasPrefix(n.ImageURI, "ipfs://") {
		return n.ImageURI
	}
	return gateway + strings.TrimPrefix(n.ImageURI, "ipfs://") + "/nft.jpg"
}

// CatalogView is the API projection of an NFT record with the resolved
// ownership and the affordances derived from it.
type CatalogView struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	ImageURL  string     `json:"imageUrl"`
	TokenID   null.Int64 `json:"tokenId"`
	Price     string     `json:"price"`
	Ownership Ownership  `json:"ownership"`
	// Owner is the resolved on-chain owner, empty while unresolved.
	Owner string `json:"owner,omitempty"`
	CanBuy    bool       `json:"canBuy"`
	CanSend   bool       `json:"canSend"`
}
