package reconcile

import (
	"github.com/carebridge/nutrimap/pkg/constants"
	"github.com/carebridge/nutrimap/pkg/errors"
)

// options configures a reconciler.
type options struct {
	threshold float64
}

func defaultOptions() *options {
	return &options{
		threshold: constants.DiscrepancyThreshold,
	}
}

// Option is a function that configures a Reconciler.
type Option func(*options) error

func (options *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, err
		}
	}
	return options, nil
}

// newOptions returns reconciler options with default values.
func newOptions(opts ...Option) (*options, error) {
	return defaultOptions().apply(opts...)
}

// WithDiscrepancyThreshold sets the fraction of the mean calorie value the
// provider spread may reach before a discrepancy is reported.
func WithDiscrepancyThreshold(threshold float64) Option {
	return func(o *options) error {
		if threshold <= 0 || threshold > 1 {
			return &errors.ValidationError{
				Field:   "threshold",
				Value:   threshold,
				Message: "must be in (0, 1]",
			}
		}
		o.threshold = threshold
		return nil
	}
}
