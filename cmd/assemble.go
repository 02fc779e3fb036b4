/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"io/ioutil"
	"math"
	"os"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/notargets/gospl/InputParameters"
	"github.com/notargets/gospl/assembly"
	"github.com/notargets/gospl/exchange"
	"github.com/notargets/gospl/quadrature"
)

// AssembleCmd represents the assemble command
var AssembleCmd = &cobra.Command{
	Use:   "assemble",
	Short: "Assemble a weak form operator over a decomposed spline space",
	Long: `
Runs one collective assembly pass: each rank of the process grid evaluates its
local elements, accumulates into its banded block and reconciles overlapping
contributions through halo exchange.

gospl assemble -I input.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			err error
		)
		fmt.Println("assemble called")
		icFile, err := cmd.Flags().GetString("inputParametersFile")
		if err != nil {
			panic(err)
		}
		ap := processAssemblyInput(icFile)
		if err = RunAssembly(ap); err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
	},
}

func processAssemblyInput(icFile string) (ap *InputParameters.AssemblyParameters) {
	var (
		err error
	)
	if len(icFile) == 0 {
		fmt.Printf("error: must supply an input parameters file (-I, --inputParametersFile) in YAML format\n")
		exampleFile := `
########################################
Title: "Mass 2D"
Degrees: [2, 2]
Elements: [16, 16]
XMin: [0., 0.]
XMax: [1., 1.]
QuadratureRule: legendre
ProcessGrid: [2, 2]
Form: mass
########################################
`
		fmt.Printf("Example File:%s\n", exampleFile)
		os.Exit(1)
	}
	var data []byte
	if data, err = ioutil.ReadFile(icFile); err != nil {
		panic(err)
	}
	ap = &InputParameters.AssemblyParameters{}
	if err = ap.Parse(data); err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	ap.Print()
	return
}

// RunAssembly drives every rank of the process grid as a goroutine over one
// shared exchange group and reports each rank's owned ranges and block norm.
func RunAssembly(ap *InputParameters.AssemblyParameters) (err error) {
	var (
		rule quadrature.Rule
		disc *assembly.Discretization
		ndim = len(ap.Degrees)
		np   = ap.NumRanks()
	)
	if rule, err = quadrature.NewRule(ap.QuadratureRule); err != nil {
		return
	}
	if disc, err = assembly.NewUniformDiscretization(ap.Degrees, ap.Elements, ap.XMin, ap.XMax, rule); err != nil {
		return
	}
	if len(ap.NQuad) == ndim {
		copy(disc.NQ, ap.NQuad)
	}
	var (
		procGrid = ap.ProcessGrid
		pads     []int
	)
	if len(procGrid) == 0 {
		procGrid = make([]int, ndim)
		for d := range procGrid {
			procGrid[d] = 1
		}
	}
	if len(ap.Pads) == ndim {
		pads = ap.Pads
	}
	var (
		g    = exchange.NewGroup(np, 0)
		wg   sync.WaitGroup
		errs = make([]error, np)
		wall = time.Now()
	)
	for rank := 0; rank < np; rank++ {
		wg.Add(1)
		go func(rank int) {
			defer wg.Done()
			errs[rank] = runRank(disc, ap, g, procGrid, np, rank, pads)
		}(rank)
	}
	wg.Wait()
	for _, e := range errs {
		if e != nil {
			return e
		}
	}
	fmt.Printf("assembled %v elements on %d ranks in %v\n", ap.Elements, np, time.Since(wall))
	return
}

func runRank(disc *assembly.Discretization, ap *InputParameters.AssemblyParameters,
	g *exchange.Group, procGrid []int, np, rank int, pads []int) (err error) {
	topo, err := disc.Decompose(procGrid, np, rank, pads)
	if err != nil {
		return
	}
	var (
		form = ap.Form
		norm float64
	)
	if form == "" {
		form = "mass"
	}
	switch form {
	case "load":
		var (
			kern assembly.LinearKernel
			a    *assembly.LinearAssembler
		)
		if kern, err = assembly.NewLinearKernel(form, nil); err != nil {
			return
		}
		if a, err = assembly.NewLinearAssembler(disc, kern, topo, g); err != nil {
			return
		}
		V, err := a.Assemble()
		if err != nil {
			return err
		}
		d := V.ToDense()
		for i := 0; i < d.Len(); i++ {
			norm = math.Max(norm, math.Abs(d.AtVec(i)))
		}
	default:
		var (
			kern assembly.BilinearKernel
			a    *assembly.BilinearAssembler
		)
		if kern, err = assembly.NewBilinearKernel(form); err != nil {
			return
		}
		if a, err = assembly.NewBilinearAssembler(disc, kern, topo, g); err != nil {
			return
		}
		M, err := a.Assemble()
		if err != nil {
			return err
		}
		norm = M.ToDense().MaxAbs()
	}
	for d, dir := range topo.Dirs {
		fmt.Printf("rank %d dir %d: elements [%d,%d) dofs [%d,%d)\n",
			rank, d, dir.ElemStart, dir.ElemStart+dir.ElemCount,
			dir.DofStart, dir.DofStart+dir.DofCount)
	}
	fmt.Printf("rank %d [%s]: max |entry| = %8.5f\n", rank, form, norm)
	return nil
}

func init() {
	rootCmd.AddCommand(AssembleCmd)
	AssembleCmd.Flags().StringP("inputParametersFile", "I", "", "YAML file for assembly parameters like:\n\t- Degrees\n\t- Elements\n\t- ProcessGrid")
}
