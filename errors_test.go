package persist_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/AndrewDonelson/persist"
	"github.com/stretchr/testify/assert"
)

func TestErrors_Sentinel(t *testing.T) {
	errs := []error{
		persist.ErrInvalidPath,
		persist.ErrNilFactory,
		persist.ErrRetrieveFailed,
		persist.ErrClosed,
		persist.ErrNoDatabase,
		persist.ErrInvalidConfig,
		persist.ErrInvalidMarkupText,
	}
	seen := make(map[string]bool)
	for _, e := range errs {
		assert.NotNil(t, e)
		assert.False(t, seen[e.Error()], "duplicate message %q", e.Error())
		seen[e.Error()] = true
	}
}

func TestErrors_Is(t *testing.T) {
	wrapped := fmt.Errorf("%w: data/cfg.xml", persist.ErrRetrieveFailed)
	assert.True(t, errors.Is(wrapped, persist.ErrRetrieveFailed))
}
