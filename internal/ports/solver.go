package ports

import (
	"context"
	"errors"
)

// ErrInfeasible indicates the backend proved no binary assignment satisfies
// every constraint.
var ErrInfeasible = errors.New("solver: problem is infeasible")

// BudgetRow is one linear inequality: sum(Coeffs[i] * x[i]) <= Limit.
// Coeffs is indexed over the full variable vector.
type BudgetRow struct {
	Coeffs []float64
	Limit  float64
}

// SelectionProblem asks for binary x minimizing sum(Costs[i] * x[i]) with
// exactly one variable chosen per group and every budget row respected.
// Each variable index appears in exactly one group.
type SelectionProblem struct {
	Costs      []float64
	Groups     [][]int
	BudgetRows []BudgetRow
}

// Selection is one optimal assignment: the chosen variable per group, in
// group order, and the objective value.
type Selection struct {
	Chosen    []int
	Objective float64
}

// SpeedSelector is the contract for the external optimization backend used
// by the segment planner: any engine that minimizes a linear objective over
// binary selection variables under linear constraints satisfies it.
type SpeedSelector interface {
	Solve(ctx context.Context, p SelectionProblem) (Selection, error)
}
