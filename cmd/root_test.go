package cmd

import (
	"fmt"
	"testing"

	"queueCtl/internal/apierr"
)

func TestExitCodeForOperationalErrors(t *testing.T) {
	cases := []error{
		apierr.ErrDuplicateId,
		apierr.ErrNotFound,
		apierr.ErrNotDead,
		apierr.ErrAlreadyRunning,
		apierr.WrapStore(fmt.Errorf("disk full")),
	}
	for _, err := range cases {
		if got := exitCodeFor(err); got != 1 {
			t.Errorf("exitCodeFor(%v) = %d, want 1", err, got)
		}
	}
}

func TestExitCodeForUsageErrors(t *testing.T) {
	cases := []error{
		apierr.ErrInvalidSpec,
		apierr.ErrUnknownConfig,
		fmt.Errorf("accepts 1 arg(s), received 0"),
	}
	for _, err := range cases {
		if got := exitCodeFor(err); got != 2 {
			t.Errorf("exitCodeFor(%v) = %d, want 2", err, got)
		}
	}
}
