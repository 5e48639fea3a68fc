package snapshot

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/san-kum/gandalf/internal/core"
	"github.com/san-kum/gandalf/internal/particle"
)

var gasColumns = []string{"x", "y", "z", "vx", "vy", "vz", "m", "h", "rho", "u"}
var starColumns = []string{"x", "y", "z", "vx", "vy", "vz", "m"}

// Write emits one ASCII snapshot: header lines giving the simulation
// time, ndim and the gas and star counts, a "GAS" section of gasColumns rows, and a
// "STAR" section of starColumns rows (spec.md §6).
func Write(path string, gas *particle.GasStore, stars *particle.StarStore, dim int, t float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	defer w.Flush()

	nGas, nStar := 0, 0
	if gas != nil {
		nGas = gas.Count()
	}
	if stars != nil {
		nStar = stars.Count()
	}

	fmt.Fprintf(w, "time %s\n", formatFloat(t))
	fmt.Fprintf(w, "ndim %d\n", dim)
	fmt.Fprintf(w, "npart %d\n", nGas)
	fmt.Fprintf(w, "nstar %d\n", nStar)

	fmt.Fprintf(w, "GAS %s\n", strings.Join(gasColumns, " "))
	if gas != nil {
		gas.ForEachActive(func(i int, g *particle.Gas) {
			fmt.Fprintln(w, strings.Join([]string{
				formatFloat(g.R[0]), formatFloat(g.R[1]), formatFloat(g.R[2]),
				formatFloat(g.V[0]), formatFloat(g.V[1]), formatFloat(g.V[2]),
				formatFloat(g.Mass), formatFloat(g.H), formatFloat(g.Rho), formatFloat(g.U),
			}, " "))
		})
	}

	fmt.Fprintf(w, "STAR %s\n", strings.Join(starColumns, " "))
	if stars != nil {
		stars.ForEachActive(func(i int, s *particle.Star) {
			fmt.Fprintln(w, strings.Join([]string{
				formatFloat(s.R[0]), formatFloat(s.R[1]), formatFloat(s.R[2]),
				formatFloat(s.V[0]), formatFloat(s.V[1]), formatFloat(s.V[2]),
				formatFloat(s.Mass),
			}, " "))
		})
	}

	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 10, 64)
}

// Header is the metadata line set read back from a snapshot file.
type Header struct {
	Time  float64
	Ndim  int
	NPart int
	NStar int
}

// Read parses a snapshot written by Write, appending gas and star
// records to the given stores (which the caller must have created with
// sufficient capacity) and returning the header.
func Read(path string, gas *particle.GasStore, stars *particle.StarStore) (Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return Header{}, err
	}
	defer f.Close()

	var h Header
	sc := bufio.NewScanner(f)
	section := ""

	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)

		switch fields[0] {
		case "time":
			h.Time, _ = strconv.ParseFloat(fields[1], 64)
		case "ndim":
			h.Ndim, _ = strconv.Atoi(fields[1])
		case "npart":
			h.NPart, _ = strconv.Atoi(fields[1])
		case "nstar":
			h.NStar, _ = strconv.Atoi(fields[1])
		case "GAS":
			section = "GAS"
		case "STAR":
			section = "STAR"
		default:
			if err := appendRow(section, fields, gas, stars); err != nil {
				return h, err
			}
		}
	}
	if err := sc.Err(); err != nil {
		return h, err
	}
	return h, nil
}

func appendRow(section string, fields []string, gas *particle.GasStore, stars *particle.StarStore) error {
	vals := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return core.NewDiagnostic(core.ErrIOFormat, "snapshot.Read: "+f)
		}
		vals[i] = v
	}

	switch section {
	case "GAS":
		if len(vals) != len(gasColumns) {
			return core.NewDiagnostic(core.ErrIOFormat, "snapshot.Read: gas row column count mismatch")
		}
		gas.Append(particle.Gas{
			R: particle.Vec{vals[0], vals[1], vals[2]},
			V: particle.Vec{vals[3], vals[4], vals[5]},
			Mass: vals[6], H: vals[7], Rho: vals[8], U: vals[9],
			Type: particle.TypeGas,
		})
	case "STAR":
		if len(vals) != len(starColumns) {
			return core.NewDiagnostic(core.ErrIOFormat, "snapshot.Read: star row column count mismatch")
		}
		stars.Append(particle.Star{
			R: particle.Vec{vals[0], vals[1], vals[2]},
			V: particle.Vec{vals[3], vals[4], vals[5]},
			Mass: vals[6],
		})
	}
	return nil
}
