// Package clockutil adapts an injected clock.Clock into the monotonic
// seconds values cell timestamps are stored in, so tests can drive time
// with clock.NewMock() instead of sleeping.
package clockutil

import "github.com/benbjohnson/clock"

// NowSeconds returns clk.Now() as a real-valued seconds timestamp.
func NowSeconds(clk clock.Clock) float64 {
	return float64(clk.Now().UnixNano()) / 1e9
}
