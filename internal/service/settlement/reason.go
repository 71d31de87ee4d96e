package settlement

import "tip-core/pkg/errno"

var reasons = map[int]string{
	errno.ErrInvalidSubmission.Code:        "invalid_submission",
	errno.ErrDuplicateSubmission.Code:      "duplicate",
	errno.ErrVerificationInProgress.Code:   "in_progress",
	errno.ErrUnsupportedChain.Code:         "unsupported_chain",
	errno.ErrAssignmentNotFound.Code:       "assignment_not_found",
	errno.ErrReceiptTimeout.Code:           "receipt_timeout",
	errno.ErrTransactionFailedOnChain.Code: "on_chain_failure",
	errno.ErrRecipientMismatch.Code:        "recipient_mismatch",
	errno.ErrAmountMismatch.Code:           "amount_mismatch",
	errno.ErrPriceUnavailable.Code:         "price_unavailable",
	errno.ErrRecordingFailed.Code:          "recording_failed",
}

// Reason 终态的指标标签，nil 为 "recorded"
func Reason(err error) string {
	if err == nil {
		return "recorded"
	}
	if e, ok := errno.As(err); ok {
		if r, ok := reasons[e.Code]; ok {
			return r
		}
	}
	return "internal"
}
