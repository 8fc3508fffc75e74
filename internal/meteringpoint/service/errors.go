package service

import (
	"context"
	"errors"

	dErrors "datahub/pkg/domain-errors"
	"datahub/pkg/platform/sentinel"

	"datahub/internal/meteringpoint/domain/rules"
	"datahub/internal/meteringpoint/metrics"
)

// translate maps domain and store errors onto coded errors for transports.
//
//   - broken business rules become CodeValidation carrying every violation
//   - coded errors pass through, except invariant violations which are bugs
//   - sentinel.ErrNotFound / ErrConflict become CodeNotFound / CodeConflict
//   - anything else is CodeInternal
func translate(err error) error {
	if err == nil {
		return nil
	}
	if result, ok := rules.ResultOf(err); ok {
		return dErrors.WithDetails(err, dErrors.CodeValidation, "business rules violated", result.Violations())
	}
	var coded *dErrors.Error
	if errors.As(err, &coded) {
		if coded.Code == dErrors.CodeInvariantViolation {
			return dErrors.Wrap(err, dErrors.CodeInternal, "metering point invariant violated")
		}
		return err
	}
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.Wrap(err, dErrors.CodeNotFound, "metering point not found")
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.Wrap(err, dErrors.CodeConflict, "metering point was modified concurrently, retry")
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return dErrors.Wrap(err, dErrors.CodeTimeout, "operation timed out")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "metering point operation failed")
}

func outcomeOf(err error) string {
	switch dErrors.CodeOf(err) {
	case dErrors.CodeValidation, dErrors.CodeBadRequest, dErrors.CodeInvalidInput, dErrors.CodeNotFound:
		return metrics.OutcomeRejected
	case dErrors.CodeConflict:
		return metrics.OutcomeConflict
	}
	return metrics.OutcomeError
}

func violationsOf(err error) []rules.Violation {
	vs, _ := dErrors.DetailsOf(err).([]rules.Violation)
	return vs
}
