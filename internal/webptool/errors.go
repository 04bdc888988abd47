package webptool

import "errors"

// Sentinel errors for the failure taxonomy. Callers classify with errors.Is.
var (
	// ErrInvalidArgument marks a configuration value outside its documented range.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrMissingDependency marks a required external binary missing from PATH.
	ErrMissingDependency = errors.New("missing dependency")
	// ErrEncodeFailure marks a nonzero codec exit or an empty output file.
	ErrEncodeFailure = errors.New("encode failed")
	// ErrNoGain marks an encode whose output was not smaller than the input.
	ErrNoGain = errors.New("no size reduction")
	// ErrResizeRetry marks a failed downscale retry for an oversized image.
	ErrResizeRetry = errors.New("resize retry failed")
	// ErrNoImprovement marks an aggressive search that beat none of the attempts.
	ErrNoImprovement = errors.New("no improvement found")
	// ErrOutputExists marks a destination that already exists without --force.
	ErrOutputExists = errors.New("output already exists")
)
