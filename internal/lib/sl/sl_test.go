package sl_test

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hostfolio/portal/internal/lib/sl"
)

func TestErr_ReturnsCorrectAttr(t *testing.T) {
	err := errors.New("backend unavailable")
	attr := sl.Err(err)

	assert.Equal(t, "error", attr.Key)
	assert.Equal(t, slog.StringValue("backend unavailable"), attr.Value)
}

func TestErr_NilError(t *testing.T) {
	assert.Panics(t, func() {
		_ = sl.Err(nil)
	})
}

func TestOp(t *testing.T) {
	attr := sl.Op("store.notification.Fetch")

	assert.Equal(t, "op", attr.Key)
	assert.Equal(t, slog.StringValue("store.notification.Fetch"), attr.Value)
}
