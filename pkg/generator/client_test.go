package generator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewGeminiClient(t *testing.T) {
	t.Run("APIキーが空ならエラーなのだ", func(t *testing.T) {
		client, err := NewGeminiClient(context.Background(), "")
		assert.Error(t, err)
		assert.Nil(t, client)
	})
}
