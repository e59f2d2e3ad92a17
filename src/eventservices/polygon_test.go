package eventservices

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWireSymbol(t *testing.T) {
	t.Run("stock symbols pass through", func(t *testing.T) {
		assert.Equal(t, "AAPL", wireSymbol("AAPL"))
	})

	t.Run("option symbols get the O: prefix", func(t *testing.T) {
		assert.Equal(t, "O:TSLA250620C00180000", wireSymbol("TSLA250620C00180000"))
	})

	t.Run("already prefixed symbols are untouched", func(t *testing.T) {
		assert.Equal(t, "O:TSLA250620C00180000", wireSymbol("O:TSLA250620C00180000"))
	})
}
