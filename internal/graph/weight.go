// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package graph

import (
	"time"

	"github.com/pdiddy/ethereal-canvas/pkg/types"
)

// Weight fades a note linearly from 1 to cfg.MinWeight over cfg.Window since
// it was last accessed. A note never accessed has the minimum weight.
func Weight(n types.Note, now time.Time, cfg types.DecayConfig) float64 {
	if cfg.Window <= 0 {
		return 1
	}
	age := now.Sub(time.UnixMilli(n.LastAccessed))
	w := 1 - float64(age)/float64(cfg.Window)
	if w > 1 {
		w = 1
	}
	return max(cfg.MinWeight, w)
}
