package usecases

import (
	"context"
	"sync"

	"nft-market.backend/internal/domain/entities"
	"nft-market.backend/internal/observability"
	"nft-market.backend/pkg/utils"
)

// OwnerReader reads the current on-chain owner of a token.
type OwnerReader interface {
	OwnerOf(ctx context.Context, tokenID int64) (string, error)
}

type resolution struct {
	generation uint64
	verdict    entities.Ownership
	owner      string
}

// OwnershipResolver answers "does the connected account own this NFT" from
// chain state. Verdicts are committed last-write-wins per NFT id: a lookup
// that finishes after a newer lookup started is discarded, so a slow RPC
// response can never overwrite fresher state.
type OwnershipResolver struct {
	reader  OwnerReader
	metrics *observability.Metrics

	mu         sync.Mutex
	generation map[string]uint64
	results    map[string]resolution
}

// NewOwnershipResolver creates a resolver over the given reader.
func NewOwnershipResolver(reader OwnerReader, metrics *observability.Metrics) *OwnershipResolver {
	return &OwnershipResolver{
		reader:     reader,
		metrics:    metrics,
		generation: make(map[string]uint64),
		results:    make(map[string]resolution),
	}
}

// Resolve returns the ownership verdict for one NFT against the connected
// address. Unminted tokens and empty addresses resolve to unknown without a
// network call. A read failure also resolves to unknown; rendering never
// blocks on chain errors.
func (r *OwnershipResolver) Resolve(ctx context.Context, nft *entities.NFTRecord, connectedAddress string) entities.Ownership {
	if nft == nil || !nft.Minted() || connectedAddress == "" {
		r.metrics.RecordOwnership(string(entities.OwnershipUnknown))
		return entities.OwnershipUnknown
	}

	gen := r.beginLookup(nft.ID)

	owner, err := r.reader.OwnerOf(ctx, nft.TokenID.Int64)
	verdict := entities.OwnershipUnknown
	if err == nil {
		if utils.SameAddress(owner, connectedAddress) {
			verdict = entities.OwnershipOwner
		} else {
			verdict = entities.OwnershipNotOwner
		}
	}

	committed := r.commit(nft.ID, gen, verdict, owner)
	r.metrics.RecordOwnership(string(committed))
	return committed
}

// Owner returns the last committed on-chain owner for an NFT, if any.
func (r *OwnershipResolver) Owner(nftID string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.results[nftID]
	if !ok || res.owner == "" {
		return "", false
	}
	return res.owner, true
}

// Invalidate drops the committed verdict for an NFT. Called after a send or
// a successful fiat payment so the next render re-reads the chain.
func (r *OwnershipResolver) Invalidate(nftID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.generation[nftID]++
	delete(r.results, nftID)
}

func (r *OwnershipResolver) beginLookup(nftID string) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.generation[nftID]++
	return r.generation[nftID]
}

// commit stores the verdict unless a newer lookup has started in the
// meantime. Stale lookups return the current committed verdict instead.
func (r *OwnershipResolver) commit(nftID string, gen uint64, verdict entities.Ownership, owner string) entities.Ownership {
	r.mu.Lock()
	defer r.mu.Unlock()

	if gen != r.generation[nftID] {
		if current, ok := r.results[nftID]; ok {
			return current.verdict
		}
		return entities.OwnershipUnknown
	}

	r.results[nftID] = resolution{generation: gen, verdict: verdict, owner: owner}
	return verdict
}
