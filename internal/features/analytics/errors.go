package analytics

import "errors"

var (
	ErrInvalidGranularity = errors.New("invalid granularity")
	ErrInvalidStatus      = errors.New("invalid form status")
	ErrInvalidDate        = errors.New("invalid date")
	ErrInvalidRange       = errors.New("end must be after start")
	ErrRangeTooLarge      = errors.New("range spans too many periods")
	ErrUnknownRole        = errors.New("unknown requester role")
)
