package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/product-inventory/internal/i18n"
)

func TestResolveLanguage(t *testing.T) {
	require.NoError(t, i18n.Initialize("en"))

	tests := map[string]string{
		"":                        "en",
		"zh-TW,zh;q=0.9,en;q=0.8": "zh_TW",
		"zh_TW":                   "zh_TW",
		"en-US,en;q=0.9":          "en",
		"fr-FR,fr;q=0.9":          "en",
		"fr-FR,zh-Hant;q=0.8":     "zh_TW",
		"de;q=0.9, en-AU;q=0.8":   "en",
	}

	for header, want := range tests {
		assert.Equal(t, want, resolveLanguage(header), "header %q", header)
	}
}
