package widgets

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultAssetsHost(t *testing.T) {
	t.Setenv(envAssetsHost, "")
	assert.Empty(t, DefaultAssetsHost())

	t.Setenv(envAssetsHost, " https://cdn.example.com/echarts ")
	assert.Equal(t, "https://cdn.example.com/echarts/", DefaultAssetsHost())
}
