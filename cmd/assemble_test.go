package cmd

import (
	"testing"

	"github.com/magiconair/properties/assert"

	"github.com/notargets/gospl/InputParameters"
)

func TestRunAssembly(t *testing.T) {
	var (
		err error
	)
	fileInput := []byte(`
Title: Test Case
Degrees: [2, 1]
Elements: [6, 4]
XMin: [0., 0.]
XMax: [1., 2.]
QuadratureRule: legendre
ProcessGrid: [2, 1]
Form: mass
`)
	var input InputParameters.AssemblyParameters
	if err = input.Parse(fileInput); err != nil {
		panic(err)
	}
	assert.Equal(t, input.Degrees, []int{2, 1})
	assert.Equal(t, input.NumRanks(), 2)
	input.Print()
	if err = RunAssembly(&input); err != nil {
		panic(err)
	}

	// Stiffness and load forms over the same decomposition
	input.Form = "stiffness"
	if err = RunAssembly(&input); err != nil {
		panic(err)
	}
	input.Form = "load"
	if err = RunAssembly(&input); err != nil {
		panic(err)
	}
}
