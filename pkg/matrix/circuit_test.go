package matrix

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMatrixRejectsEmpty(t *testing.T) {
	_, err := NewMatrix(0)
	assert.Error(t, err)
}

func TestSolveDivider(t *testing.T) {
	// 10 V source on node 1, 1k from node 1 to node 2, 1k from node 2 to ground.
	m, err := NewMatrix(3)
	require.NoError(t, err)
	defer m.Destroy()
	m.SetupElements()

	g := 1.0 / 1e3
	m.AddElement(1, 1, g)
	m.AddElement(1, 2, -g)
	m.AddElement(2, 1, -g)
	m.AddElement(2, 2, 2*g)

	m.AddElement(3, 1, 1)
	m.AddElement(1, 3, 1)
	m.AddRHS(3, 10)

	require.NoError(t, m.Solve())
	sol := m.Solution()
	assert.InDelta(t, 10.0, sol[1], 1e-9)
	assert.InDelta(t, 5.0, sol[2], 1e-9)
	assert.InDelta(t, -5e-3, sol[3], 1e-12)
}

func TestOutOfBoundsIsIgnored(t *testing.T) {
	m, err := NewMatrix(2)
	require.NoError(t, err)
	defer m.Destroy()

	m.AddElement(0, 1, 1)
	m.AddElement(3, 3, 1)
	m.AddRHS(5, 1)
	assert.Equal(t, 0.0, m.Element(3, 3))
	assert.Equal(t, []float64{0, 0, 0}, m.rhs)
}

func TestPrintSystem(t *testing.T) {
	m, err := NewMatrix(1)
	require.NoError(t, err)
	defer m.Destroy()
	m.AddElement(1, 1, 2)
	m.AddRHS(1, 4)

	var buf bytes.Buffer
	m.PrintSystem(&buf)
	assert.Contains(t, buf.String(), "+2*x1")
	assert.Contains(t, buf.String(), "= 4")
}
