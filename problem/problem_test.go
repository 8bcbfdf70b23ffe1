package problem_test

import (
	"testing"

	"github.com/gf2decode/isd/gf2"
	"github.com/gf2decode/isd/problem"
	"github.com/stretchr/testify/require"
)

func buildSimpleInstance(t *testing.T) (problem.Instance, gf2.Vector) {
	t.Helper()
	// H = [[1,0,1,0],[0,1,1,0]], e = [1,0,0,1] so H*e^T = [1,0]
	H, err := gf2.NewOwnedMatrix(2, 4)
	require.NoError(t, err)
	hv := H.Mutable()
	hv.Row(0).SetBit(0)
	hv.Row(0).SetBit(2)
	hv.Row(1).SetBit(1)
	hv.Row(1).SetBit(2)

	S, err := gf2.NewOwnedVector(2)
	require.NoError(t, err)
	S.Mutable().SetBit(0)

	inst, err := problem.NewInstance(H.View(), S.View(), 2)
	require.NoError(t, err)

	e, err := gf2.NewOwnedVector(4)
	require.NoError(t, err)
	e.Mutable().SetBit(0)
	e.Mutable().SetBit(3)
	return inst, e.View()
}

func TestCheckSolutionValid(t *testing.T) {
	inst, e := buildSimpleInstance(t)
	ok, err := problem.CheckSolution(inst, e)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestCheckSolutionWrongSyndrome(t *testing.T) {
	inst, _ := buildSimpleInstance(t)
	e, err := gf2.NewOwnedVector(4)
	require.NoError(t, err)
	e.Mutable().SetBit(1)
	ok, err := problem.CheckSolution(inst, e.View())
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCheckSolutionWeightExceeded(t *testing.T) {
	inst, _ := buildSimpleInstance(t)
	inst.W = 1
	e, err := gf2.NewOwnedVector(4)
	require.NoError(t, err)
	e.Mutable().SetBit(0)
	e.Mutable().SetBit(3)
	ok, err := problem.CheckSolution(inst, e.View())
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCheckSolutionDimensionMismatch(t *testing.T) {
	inst, _ := buildSimpleInstance(t)
	e, err := gf2.NewOwnedVector(5)
	require.NoError(t, err)
	_, err = problem.CheckSolution(inst, e.View())
	require.ErrorIs(t, err, problem.ErrDimensionMismatch)
}

func TestNewInstanceDimensionMismatch(t *testing.T) {
	H, err := gf2.NewOwnedMatrix(2, 4)
	require.NoError(t, err)
	S, err := gf2.NewOwnedVector(3)
	require.NoError(t, err)
	_, err = problem.NewInstance(H.View(), S.View(), 1)
	require.ErrorIs(t, err, problem.ErrDimensionMismatch)
}
