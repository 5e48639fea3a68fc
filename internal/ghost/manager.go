package ghost

import (
	"github.com/san-kum/gandalf/internal/core"
	"github.com/san-kum/gandalf/internal/particle"
)

// CreateGhosts regenerates every ghost from scratch, walking the real
// particles axis by axis in literal x, then y, then z order. Each pass
// rescans every particle CreateGhosts has produced so far - including
// ghosts the previous pass created - so that a particle near a corner
// or edge of the box gets the full set of diagonal images (spec.md
// 4.D, resolved per the ordering Open Question in the design notes).
func (m *Manager) CreateGhosts(store *particle.GasStore, dim int) error {
	store.ClearGhosts()

	for axis := 0; axis < dim; axis++ {
		total := store.Total()
		for i := 0; i < total; i++ {
			g := store.Get(i)
			if !g.Active || g.Type == particle.TypeDead || g.Type == particle.TypeSinkAccreted {
				continue
			}
			extent := g.H * m.KernelRangeMult

			if g.R[axis]-m.Box.Min[axis] < extent && m.Boundary[axis].Lo != Open {
				if err := m.emit(store, i, axis, m.Boundary[axis].Lo, true); err != nil {
					return err
				}
			}
			if m.Box.Max[axis]-g.R[axis] < extent && m.Boundary[axis].Hi != Open {
				if err := m.emit(store, i, axis, m.Boundary[axis].Hi, false); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// emit creates the single ghost image of particle i appropriate to the
// boundary kind k at the low (atLo=true) or high face of axis.
func (m *Manager) emit(store *particle.GasStore, i, axis int, k Kind, atLo bool) error {
	if store.Total() >= m.MaxGhosts {
		return core.NewDiagnosticValue(core.ErrCapacityExceeded, "ghost.Manager.CreateGhosts", float64(m.MaxGhosts))
	}

	g := store.Get(i)
	rPrime, vPrime := g.R, g.V

	switch k {
	case Periodic:
		l := m.Box.Size(axis)
		if atLo {
			rPrime[axis] = g.R[axis] + l
		} else {
			rPrime[axis] = g.R[axis] - l
		}
	case Mirror:
		if atLo {
			rPrime[axis] = 2*m.Box.Min[axis] - g.R[axis]
		} else {
			rPrime[axis] = 2*m.Box.Max[axis] - g.R[axis]
		}
		vPrime[axis] = -g.V[axis]
	case Wall:
		if atLo {
			rPrime[axis] = 2*m.Box.Min[axis] - g.R[axis]
		} else {
			rPrime[axis] = 2*m.Box.Max[axis] - g.R[axis]
		}
		vPrime[axis] = -g.V[axis]
	default:
		return nil
	}

	store.AppendGhost(i, rPrime, vPrime)
	return nil
}

// CopyAccelerationFromGhosts adds each ghost's A and DUDt into the real
// particle it was copied from (IOrig). Under the current force loops
// this adds nothing: sph.Engine.HydroForces and GravityForces write
// A/DUDt only for indices below store.Count(), and AppendGhost starts
// every ghost with zero A and DUDt. A force loop that does write
// ghost-side terms has them folded back here without every call site
// needing to know which one is in effect.
func CopyAccelerationFromGhosts(store *particle.GasStore) {
	total := store.Total()
	n := store.Count()
	for i := n; i < total; i++ {
		ghost := store.Get(i)
		if ghost.Type != particle.TypeGhost {
			continue
		}
		src := store.Get(ghost.IOrig)
		for k := 0; k < 3; k++ {
			src.A[k] += ghost.A[k]
		}
		src.DUDt += ghost.DUDt
	}
}
