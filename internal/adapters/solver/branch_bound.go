// Package solver implements the SpeedSelector port with a branch-and-bound
// search over LP relaxations solved by gonum's simplex.
package solver

import (
	"context"
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"

	"voyage-plan-service/internal/ports"
)

// BranchBoundSelector solves binary selection problems exactly. Problems at
// the segment planner's scale (tens of segments, tens of candidate speeds)
// close in a handful of nodes because the relaxation of a one-per-group
// structure is nearly integral.
type BranchBoundSelector struct {
	// Tol is the integrality and pruning tolerance.
	Tol float64
}

func NewBranchBoundSelector() *BranchBoundSelector {
	return &BranchBoundSelector{Tol: 1e-9}
}

const (
	varFree     int8 = -1
	varExcluded int8 = 0
	varChosen   int8 = 1
)

type searchState struct {
	problem  ports.SelectionProblem
	varGroup []int // group index per variable
	tol      float64

	bestObj   float64
	bestFixed []int8
	found     bool
}

// Solve returns a minimum-cost binary assignment choosing exactly one
// variable per group, or ports.ErrInfeasible when none exists.
func (s *BranchBoundSelector) Solve(ctx context.Context, p ports.SelectionProblem) (ports.Selection, error) {
	n := len(p.Costs)
	if n == 0 || len(p.Groups) == 0 {
		return ports.Selection{}, errors.New("solve selection: empty problem")
	}

	varGroup := make([]int, n)
	for i := range varGroup {
		varGroup[i] = -1
	}
	for g, members := range p.Groups {
		if len(members) == 0 {
			return ports.Selection{}, fmt.Errorf("solve selection: group %d is empty: %w", g, ports.ErrInfeasible)
		}
		for _, v := range members {
			if v < 0 || v >= n {
				return ports.Selection{}, fmt.Errorf("solve selection: group %d references variable %d out of range", g, v)
			}
			if varGroup[v] != -1 {
				return ports.Selection{}, fmt.Errorf("solve selection: variable %d appears in groups %d and %d", v, varGroup[v], g)
			}
			varGroup[v] = g
		}
	}
	for v, g := range varGroup {
		if g == -1 {
			return ports.Selection{}, fmt.Errorf("solve selection: variable %d belongs to no group", v)
		}
	}
	for _, row := range p.BudgetRows {
		if len(row.Coeffs) != n {
			return ports.Selection{}, fmt.Errorf("solve selection: budget row has %d coefficients, want %d", len(row.Coeffs), n)
		}
	}

	st := &searchState{
		problem:  p,
		varGroup: varGroup,
		tol:      s.Tol,
		bestObj:  math.Inf(1),
	}

	fixed := make([]int8, n)
	for i := range fixed {
		fixed[i] = varFree
	}
	if err := st.branch(ctx, fixed); err != nil {
		return ports.Selection{}, fmt.Errorf("solve selection: %w", err)
	}
	if !st.found {
		return ports.Selection{}, ports.ErrInfeasible
	}

	chosen := make([]int, len(p.Groups))
	for v, f := range st.bestFixed {
		if f == varChosen {
			chosen[varGroup[v]] = v
		}
	}
	return ports.Selection{Chosen: chosen, Objective: st.bestObj}, nil
}

// branch explores one node of the search tree: solve the LP relaxation under
// the current fixings, prune, accept integral vertices, or split on the most
// fractional variable.
func (st *searchState) branch(ctx context.Context, fixed []int8) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	obj, x, free, ok, err := st.relax(fixed)
	if err != nil {
		return err
	}
	if !ok || obj >= st.bestObj-st.tol {
		return nil
	}

	fracVar, fracDist := -1, 0.0
	for i, v := range free {
		d := math.Abs(x[i] - math.Round(x[i]))
		if d > st.tol && d > fracDist {
			fracVar, fracDist = v, d
		}
	}

	if fracVar == -1 {
		// Integral vertex: record the incumbent.
		st.bestObj = obj
		st.bestFixed = append([]int8(nil), fixed...)
		for i, v := range free {
			if math.Round(x[i]) >= 1 {
				st.bestFixed[v] = varChosen
			} else {
				st.bestFixed[v] = varExcluded
			}
		}
		st.found = true
		return nil
	}

	// Chosen branch first: it tends to find incumbents early and tighten
	// the pruning bound for the excluded branch.
	withVar := append([]int8(nil), fixed...)
	withVar[fracVar] = varChosen
	for _, peer := range st.problem.Groups[st.varGroup[fracVar]] {
		if peer != fracVar && withVar[peer] == varFree {
			withVar[peer] = varExcluded
		}
	}
	if err := st.branch(ctx, withVar); err != nil {
		return err
	}

	without := append([]int8(nil), fixed...)
	without[fracVar] = varExcluded
	return st.branch(ctx, without)
}

// relax solves the LP relaxation under the given fixings in standard form.
// Variables are the free x (0 <= x, and x <= 1 is implied by the group
// equalities) plus one slack per budget row. Returns ok=false when the node
// is infeasible.
func (st *searchState) relax(fixed []int8) (obj float64, x []float64, free []int, ok bool, err error) {
	p := st.problem

	fixedCost := 0.0
	freeIdx := make(map[int]int)
	for v, f := range fixed {
		switch f {
		case varChosen:
			fixedCost += p.Costs[v]
		case varFree:
			freeIdx[v] = len(free)
			free = append(free, v)
		}
	}

	type eqRow struct {
		coeffs map[int]float64 // column -> coefficient
		rhs    float64
	}
	var rows []eqRow

	for _, members := range p.Groups {
		satisfied := false
		var cols map[int]float64
		for _, v := range members {
			if fixed[v] == varChosen {
				satisfied = true
				break
			}
			if fixed[v] == varFree {
				if cols == nil {
					cols = make(map[int]float64)
				}
				cols[freeIdx[v]] = 1
			}
		}
		if satisfied {
			continue
		}
		if len(cols) == 0 {
			// Every candidate in this group was excluded on the way down.
			return 0, nil, nil, false, nil
		}
		rows = append(rows, eqRow{coeffs: cols, rhs: 1})
	}

	nFree := len(free)
	nSlack := len(p.BudgetRows)
	for r, row := range p.BudgetRows {
		limit := row.Limit
		cols := make(map[int]float64)
		for v, f := range fixed {
			if f == varChosen {
				limit -= row.Coeffs[v]
			}
		}
		for i, v := range free {
			if row.Coeffs[v] != 0 {
				cols[i] = row.Coeffs[v]
			}
		}
		cols[nFree+r] = 1 // slack
		if len(cols) == 1 && limit < -st.tol {
			return 0, nil, nil, false, nil
		}
		rows = append(rows, eqRow{coeffs: cols, rhs: limit})
	}

	if nFree == 0 {
		// Fully fixed node: feasible iff every remaining budget holds.
		for _, row := range rows {
			if row.rhs < -st.tol {
				return 0, nil, nil, false, nil
			}
		}
		return fixedCost, nil, nil, true, nil
	}

	nCols := nFree + nSlack
	a := mat.NewDense(len(rows), nCols, nil)
	b := make([]float64, len(rows))
	for r, row := range rows {
		b[r] = row.rhs
		for c, coef := range row.coeffs {
			a.Set(r, c, coef)
		}
	}

	c := make([]float64, nCols)
	for i, v := range free {
		c[i] = p.Costs[v]
	}

	opt, xs, err := lp.Simplex(c, a, b, st.tol, nil)
	if err != nil {
		if errors.Is(err, lp.ErrInfeasible) {
			return 0, nil, nil, false, nil
		}
		return 0, nil, nil, false, fmt.Errorf("lp relaxation: %w", err)
	}

	return opt + fixedCost, xs[:nFree], free, true, nil
}
