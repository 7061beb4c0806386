package cells

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/mat"
)

// rintRecord is one row of an internal-resistance lookup CSV in long format:
// one record per (SoC, temperature) grid point.
type rintRecord struct {
	SoC       float64 `csv:"soc"`
	Temp      float64 `csv:"temp_k"`
	Charge    float64 `csv:"rint_charge_ohm"`
	Discharge float64 `csv:"rint_discharge_ohm"`
}

// rintTable holds charge and discharge resistance grids over a regular
// SoC x temperature grid and interpolates bilinearly, clamping queries to the
// grid edges.
type rintTable struct {
	socs      []float64 // ascending
	temps     []float64 // ascending
	charge    *mat.Dense
	discharge *mat.Dense
}

func loadRintTable(csvData []byte) (*rintTable, error) {
	var records []rintRecord
	if err := gocsv.Unmarshal(bytes.NewReader(csvData), &records); err != nil {
		return nil, fmt.Errorf("parse rint table: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("rint table is empty")
	}

	socSet := map[float64]struct{}{}
	tempSet := map[float64]struct{}{}
	for _, r := range records {
		socSet[r.SoC] = struct{}{}
		tempSet[r.Temp] = struct{}{}
	}
	t := &rintTable{
		socs:  sortedKeys(socSet),
		temps: sortedKeys(tempSet),
	}
	if len(t.socs) < 2 || len(t.temps) < 2 {
		return nil, fmt.Errorf("rint table needs at least a 2x2 grid, got %dx%d", len(t.socs), len(t.temps))
	}
	if len(t.socs)*len(t.temps) != len(records) {
		return nil, fmt.Errorf("rint table is not a full grid: %d socs x %d temps != %d rows",
			len(t.socs), len(t.temps), len(records))
	}

	t.charge = mat.NewDense(len(t.socs), len(t.temps), nil)
	t.discharge = mat.NewDense(len(t.socs), len(t.temps), nil)
	for _, r := range records {
		i := sort.SearchFloat64s(t.socs, r.SoC)
		j := sort.SearchFloat64s(t.temps, r.Temp)
		t.charge.Set(i, j, r.Charge)
		t.discharge.Set(i, j, r.Discharge)
	}
	return t, nil
}

func sortedKeys(set map[float64]struct{}) []float64 {
	out := make([]float64, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Float64s(out)
	return out
}

// at returns the bilinearly interpolated resistance in ohm for the given
// direction.
func (t *rintTable) at(soc, temp float64, charge bool) float64 {
	grid := t.discharge
	if charge {
		grid = t.charge
	}

	i, fs := bracket(t.socs, soc)
	j, ft := bracket(t.temps, temp)

	r00 := grid.At(i, j)
	r10 := grid.At(i+1, j)
	r01 := grid.At(i, j+1)
	r11 := grid.At(i+1, j+1)

	return r00*(1-fs)*(1-ft) + r10*fs*(1-ft) + r01*(1-fs)*ft + r11*fs*ft
}

// bracket finds the lower grid index and the interpolation fraction for v,
// clamped to the grid range.
func bracket(axis []float64, v float64) (int, float64) {
	if v <= axis[0] {
		return 0, 0
	}
	if last := len(axis) - 1; v >= axis[last] {
		return last - 1, 1
	}
	i := sort.SearchFloat64s(axis, v)
	// axis[i-1] < v <= axis[i]
	lo, hi := axis[i-1], axis[i]
	return i - 1, (v - lo) / (hi - lo)
}
