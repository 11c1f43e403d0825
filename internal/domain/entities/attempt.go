package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// AttemptKind distinguishes the two transfer-based flows.
type AttemptKind string

const (
	AttemptKindPurchase AttemptKind = "PURCHASE"
	AttemptKindTransfer AttemptKind = "TRANSFER"
)

// AttemptState is the lifecycle state of one transaction attempt.
//
//	idle -> confirming_address (transfer only) -> confirming
//	     -> estimating -> estimate_failed | sending
//	     -> send_failed | sent
//
// Closing the modal from any state returns to idle and discards the attempt.
// A renewed confirm from estimate_failed re-enters estimating; send_failed
// and sent are final for the attempt.
type AttemptState string

const (
	AttemptStateIdle              AttemptState = "idle"
	AttemptStateConfirmingAddress AttemptState = "confirming_address"
	AttemptStateConfirming        AttemptState = "confirming"
	AttemptStateEstimating        AttemptState = "estimating"
	AttemptStateEstimateFailed    AttemptState = "estimate_failed"
	AttemptStateSending           AttemptState = "sending"
	AttemptStateSendFailed        AttemptState = "send_failed"
	AttemptStateSent              AttemptState = "sent"
)

// Terminal reports whether the state ends an attempt. A new attempt may only
// be started from idle or a terminal state.
func (s AttemptState) Terminal() bool {
	switch s {
	case AttemptStateEstimateFailed, AttemptStateSendFailed, AttemptStateSent:
		return true
	}
	return false
}

// InFlight reports whether network activity is outstanding. Confirm is a
// no-op in these states so a double click can never double-submit.
func (s AttemptState) InFlight() bool {
	return s == AttemptStateEstimating || s == AttemptStateSending
}

// TransactionAttempt is the audit record of one purchase or transfer attempt.
// The state machine itself lives in the flow usecases; this row captures the
// inputs and the terminal outcome.
type TransactionAttempt struct {
	ID            uuid.UUID    `json:"id" gorm:"type:uuid;primary_key"`
	Kind          AttemptKind  `json:"kind"`
	NFTID         string       `json:"nftId"`
	TokenID       int64        `json:"tokenId"`
	FromAddress   string       `json:"fromAddress"`
	ToAddress     string       `json:"toAddress"`
	State         AttemptState `json:"state"`
	TxHash        null.String  `json:"txHash,omitempty"`
	FailureReason null.String  `json:"failureReason,omitempty"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
}
