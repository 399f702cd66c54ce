package game

import (
	"fmt"
	"math"

	"github.com/jakecoffman/cp"
	"go.uber.org/zap"
)

// restSlot returns the grid-aligned rest position for a unit at p.
//
// Unless PerAxisSnap is set, both coordinates are derived from p.X, so idle
// units settle on the diagonal of the column they stand in. That matches the
// behaviour units have always had; PerAxisSnap aligns each axis on its own.
func (s *Sim) restSlot(p cp.Vector) cp.Vector {
	tw := float64(s.params.Tiles.W)
	th := float64(s.params.Tiles.H)
	ySrc := p.X
	if s.params.PerAxisSnap {
		ySrc = p.Y
	}
	return cp.Vector{
		X: math.Floor(p.X/tw)*tw + tw/2,
		Y: math.Floor(ySrc/th)*th + th/2,
	}
}

// resolveRestSlots snaps each of the idle units to a unique rest slot. Occupancy is
// rebuilt from scratch each call. A taken slot is probed forward by half a
// tile on both axes; after MaxProbes probes the unit accepts the overlap.
func (s *Sim) resolveRestSlots(idle []*Unit) {
	occupied := make(map[cp.Vector]struct{}, len(idle))
	stepX := float64(s.params.Tiles.W) / 2
	stepY := float64(s.params.Tiles.H) / 2

	for _, u := range idle {
		slot := s.restSlot(u.Pos)
		probes := 0
		for {
			if _, taken := occupied[slot]; !taken {
				break
			}
			if s.params.MaxProbes > 0 && probes >= s.params.MaxProbes {
				s.stats.ProbeCapHits++
				s.events.Add(s.tick, u.label(), "rest", "overlap",
					fmt.Sprintf("(%.0f,%.0f)", slot.X, slot.Y), float64(probes))
				s.log.Warn("rest slot probe limit reached, accepting overlap",
					zap.Int("unit", u.ID),
					zap.Int("probes", probes),
					zap.Float64("x", slot.X),
					zap.Float64("y", slot.Y))
				break
			}
			slot = slot.Add(cp.Vector{X: stepX, Y: stepY})
			probes++
		}
		s.stats.Probes += probes
		occupied[slot] = struct{}{}

		if slot != u.Pos {
			s.events.AddVerbose(s.tick, u.label(), "rest", "snap",
				fmt.Sprintf("(%.0f,%.0f)", slot.X, slot.Y), float64(probes))
		}
		u.Pos = slot
	}
}
