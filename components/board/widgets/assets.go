package widgets

import (
	"os"
	"strings"
)

// envAssetsHost overrides where chart pages load the ECharts runtime from.
const envAssetsHost = "GO_BOARD_ECHARTS_CDN"

// DefaultAssetsHost returns the assets host from GO_BOARD_ECHARTS_CDN, or
// empty to keep the go-echarts default.
func DefaultAssetsHost() string {
	return ensureTrailingSlash(strings.TrimSpace(os.Getenv(envAssetsHost)))
}

func ensureTrailingSlash(value string) string {
	if value == "" || strings.HasSuffix(value, "/") {
		return value
	}
	return value + "/"
}
