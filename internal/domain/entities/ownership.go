package entities

// Ownership is the resolver's verdict for one (NFT, connected address) pair.
type Ownership string

const (
	// OwnershipOwner means the on-chain owner equals the connected address.
	OwnershipOwner Ownership = "owner"
	// OwnershipNotOwner means the token has a different on-chain owner.
	OwnershipNotOwner Ownership = "not_owner"
	// OwnershipUnknown covers unminted tokens, missing sessions and read
	// failures. The UI never blocks rendering on it.
	OwnershipUnknown Ownership = "unknown"
)
