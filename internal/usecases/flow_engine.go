package usecases

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"

	"nft-market.backend/internal/domain/entities"
	domainerrors "nft-market.backend/internal/domain/errors"
	"nft-market.backend/internal/domain/repositories"
	"nft-market.backend/internal/infrastructure/batching"
	"nft-market.backend/internal/observability"
	"nft-market.backend/pkg/logger"
)

// BatchSubmitter is the slice of the batching engine the flows need.
type BatchSubmitter interface {
	Estimate(ctx context.Context, from string, intents []batching.Intent) (*batching.EstimateResult, error)
	Send(ctx context.Context, senderKey string, intents []batching.Intent) (string, error)
}

type liveAttempt struct {
	attempt *entities.TransactionAttempt
	// epoch increments when the attempt is closed. Network completions
	// carrying an older epoch are discarded instead of applied.
	epoch uint64
}

// flowEngine drives the shared attempt lifecycle for both flows:
//
//	confirming -> estimating -> estimate_failed | sending -> send_failed | sent
//
// Confirm is serialized per attempt and idempotent while an estimate or send
// is in flight. Closing an attempt mid-flight discards the completion; a
// closed attempt never proceeds from estimate to send.
type flowEngine struct {
	attemptRepo repositories.AttemptRepository
	batcher     BatchSubmitter
	metrics     *observability.Metrics

	mu     sync.Mutex
	active map[uuid.UUID]*liveAttempt
}

func newFlowEngine(attemptRepo repositories.AttemptRepository, batcher BatchSubmitter, metrics *observability.Metrics) *flowEngine {
	return &flowEngine{
		attemptRepo: attemptRepo,
		batcher:     batcher,
		metrics:     metrics,
		active:      make(map[uuid.UUID]*liveAttempt),
	}
}

func (e *flowEngine) open(ctx context.Context, attempt *entities.TransactionAttempt) error {
	if err := e.attemptRepo.Create(ctx, attempt); err != nil {
		return err
	}
	e.mu.Lock()
	e.active[attempt.ID] = &liveAttempt{attempt: attempt}
	e.mu.Unlock()
	return nil
}

func (e *flowEngine) get(id uuid.UUID) (*entities.TransactionAttempt, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	live, ok := e.active[id]
	if !ok {
		return nil, domainerrors.NotFound("attempt not found")
	}
	snap := *live.attempt
	return &snap, nil
}

// mutate applies fn to an active attempt under the engine lock.
func (e *flowEngine) mutate(id uuid.UUID, fn func(*entities.TransactionAttempt) error) (*entities.TransactionAttempt, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	live, ok := e.active[id]
	if !ok {
		return nil, domainerrors.NotFound("attempt not found")
	}
	if err := fn(live.attempt); err != nil {
		return nil, err
	}
	snap := *live.attempt
	return &snap, nil
}

// close discards an attempt. In-flight network work keyed to the old epoch
// will find the attempt gone and drop its result.
func (e *flowEngine) close(id uuid.UUID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if live, ok := e.active[id]; ok {
		live.epoch++
		delete(e.active, id)
	}
}

// confirm runs the estimate-then-send pipeline. Confirming an attempt that
// is already estimating, sending, sent or send-failed returns the current
// snapshot without doing anything, so a double confirm can never
// double-submit. A failed estimate is retryable: confirming again re-enters
// estimating with the failure reason cleared.
func (e *flowEngine) confirm(ctx context.Context, id uuid.UUID, from, senderKey string, intents []batching.Intent) (*entities.TransactionAttempt, error) {
	e.mu.Lock()
	live, ok := e.active[id]
	if !ok {
		e.mu.Unlock()
		return nil, domainerrors.NotFound("attempt not found")
	}
	attempt := live.attempt
	switch {
	case attempt.State == entities.AttemptStateEstimateFailed:
		attempt.FailureReason = null.String{}
	case attempt.State.InFlight(), attempt.State.Terminal():
		snap := *attempt
		e.mu.Unlock()
		return &snap, nil
	case attempt.State != entities.AttemptStateConfirming:
		e.mu.Unlock()
		return nil, domainerrors.BadRequest("attempt is not awaiting confirmation")
	}
	epoch := live.epoch
	attempt.State = entities.AttemptStateEstimating
	e.mu.Unlock()

	if err := e.attemptRepo.UpdateState(ctx, id, entities.AttemptStateEstimating); err != nil {
		logger.Error(ctx, "failed to persist attempt state", zap.String("attemptId", id.String()), zap.Error(err))
	}

	result, err := e.batcher.Estimate(ctx, from, intents)
	if err != nil {
		return e.fail(ctx, id, epoch, entities.AttemptStateEstimateFailed, err.Error())
	}
	if result.Reverted {
		reason := domainerrors.ErrEstimateReverted.Error()
		if result.Reason != "" {
			reason += ": " + result.Reason
		}
		return e.fail(ctx, id, epoch, entities.AttemptStateEstimateFailed, reason)
	}

	// The attempt may have been closed while the estimate was in flight.
	// In that case nothing is sent.
	if !e.advance(id, epoch, entities.AttemptStateSending) {
		return nil, domainerrors.NotFound("attempt closed")
	}
	if err := e.attemptRepo.UpdateState(ctx, id, entities.AttemptStateSending); err != nil {
		logger.Error(ctx, "failed to persist attempt state", zap.String("attemptId", id.String()), zap.Error(err))
	}

	txHash, err := e.batcher.Send(ctx, senderKey, intents)
	if err != nil {
		return e.fail(ctx, id, epoch, entities.AttemptStateSendFailed, err.Error())
	}

	return e.finishSent(ctx, id, epoch, txHash)
}

// advance moves the attempt to the next state if it is still the same epoch.
func (e *flowEngine) advance(id uuid.UUID, epoch uint64, state entities.AttemptState) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	live, ok := e.active[id]
	if !ok || live.epoch != epoch {
		return false
	}
	live.attempt.State = state
	return true
}

// fail records a terminal failure. The audit row is always written; the
// in-memory state only if the attempt has not been closed meanwhile.
func (e *flowEngine) fail(ctx context.Context, id uuid.UUID, epoch uint64, state entities.AttemptState, reason string) (*entities.TransactionAttempt, error) {
	if err := e.attemptRepo.MarkFailed(ctx, id, state, reason); err != nil {
		logger.Error(ctx, "failed to persist attempt failure", zap.String("attemptId", id.String()), zap.Error(err))
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	live, ok := e.active[id]
	if !ok || live.epoch != epoch {
		return nil, domainerrors.NotFound("attempt closed")
	}
	live.attempt.State = state
	live.attempt.FailureReason.SetValid(reason)
	e.metrics.RecordAttemptOutcome(string(live.attempt.Kind), string(state))
	snap := *live.attempt
	return &snap, nil
}

// finishSent records the sent state. The transaction left the building, so
// the audit row is written even when the attempt was closed mid-send.
func (e *flowEngine) finishSent(ctx context.Context, id uuid.UUID, epoch uint64, txHash string) (*entities.TransactionAttempt, error) {
	if err := e.attemptRepo.MarkSent(ctx, id, txHash); err != nil {
		logger.Error(ctx, "failed to persist sent attempt", zap.String("attemptId", id.String()), zap.Error(err))
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	live, ok := e.active[id]
	if !ok || live.epoch != epoch {
		return nil, domainerrors.NotFound("attempt closed")
	}
	live.attempt.State = entities.AttemptStateSent
	live.attempt.TxHash.SetValid(txHash)
	e.metrics.RecordAttemptOutcome(string(live.attempt.Kind), string(entities.AttemptStateSent))
	snap := *live.attempt
	return &snap, nil
}
