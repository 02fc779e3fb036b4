package InputParameters

import (
	"fmt"

	"github.com/ghodss/yaml"

	"github.com/notargets/gospl/utils"
)

// Parameters obtained from the YAML input file
type AssemblyParameters struct {
	Title          string    `yaml:"Title"`
	Degrees        []int     `yaml:"Degrees"`
	Elements       []int     `yaml:"Elements"`
	XMin           []float64 `yaml:"XMin"`
	XMax           []float64 `yaml:"XMax"`
	QuadratureRule string    `yaml:"QuadratureRule"`
	NQuad          []int     `yaml:"NQuad"` // Zero or omitted entries default to degree+1
	ProcessGrid    []int     `yaml:"ProcessGrid"`
	Pads           []int     `yaml:"Pads"` // Halo widths, default to the degrees
	Form           string    `yaml:"Form"` // mass, stiffness or load
	Tolerance      float64   `yaml:"Tolerance"`
}

func (ap *AssemblyParameters) Parse(data []byte) error {
	if err := yaml.Unmarshal(data, ap); err != nil {
		return err
	}
	return ap.Validate()
}

func (ap *AssemblyParameters) Validate() error {
	var (
		ndim = len(ap.Degrees)
	)
	if ndim == 0 {
		return utils.ConfigErrorf("no Degrees given")
	}
	if len(ap.Elements) != ndim {
		return utils.ConfigErrorf("Elements has %d entries, Degrees has %d", len(ap.Elements), ndim)
	}
	if len(ap.XMin) != ndim || len(ap.XMax) != ndim {
		return utils.ConfigErrorf("XMin/XMax have %d/%d entries, Degrees has %d",
			len(ap.XMin), len(ap.XMax), ndim)
	}
	if len(ap.NQuad) != 0 && len(ap.NQuad) != ndim {
		return utils.ConfigErrorf("NQuad has %d entries, Degrees has %d", len(ap.NQuad), ndim)
	}
	if len(ap.Pads) != 0 && len(ap.Pads) != ndim {
		return utils.ConfigErrorf("Pads has %d entries, Degrees has %d", len(ap.Pads), ndim)
	}
	if len(ap.ProcessGrid) != 0 && len(ap.ProcessGrid) != ndim {
		return utils.ConfigErrorf("ProcessGrid has %d entries, Degrees has %d", len(ap.ProcessGrid), ndim)
	}
	for d, p := range ap.Degrees {
		if p < 0 {
			return utils.ConfigErrorf("negative degree %d along direction %d", p, d)
		}
	}
	switch ap.Form {
	case "", "mass", "stiffness", "load":
	default:
		return utils.ConfigErrorf("unknown Form %q", ap.Form)
	}
	return nil
}

// NumRanks is the process grid's total rank count, 1 when the grid is omitted.
func (ap *AssemblyParameters) NumRanks() (np int) {
	np = 1
	for _, n := range ap.ProcessGrid {
		np *= n
	}
	return
}

func (ap *AssemblyParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ap.Title)
	fmt.Printf("%v\t\t= Degrees\n", ap.Degrees)
	fmt.Printf("%v\t\t= Elements\n", ap.Elements)
	fmt.Printf("%v -> %v\t= Domain\n", ap.XMin, ap.XMax)
	fmt.Printf("[%s]\t\t= Quadrature Rule\n", ap.QuadratureRule)
	fmt.Printf("%v\t\t= Process Grid\n", ap.ProcessGrid)
	fmt.Printf("[%s]\t\t= Form\n", ap.Form)
}
