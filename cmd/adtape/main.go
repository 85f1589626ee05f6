// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// adtape records one of its demo functions into a tape, and reports the tape, the derivatives
// and the sparsity patterns of the function at a given point.
//
// Example:
//
//	adtape -demo=chain -tape -jacobian -sparsity
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/gomlx/adtape/internal/workerspool"
	"github.com/gomlx/adtape/pkg/core/sparsity"
	"github.com/gomlx/adtape/pkg/support/fsutil"
	"github.com/gomlx/adtape/pkg/support/xslices"
	"github.com/gomlx/exceptions"
	"github.com/janpfeifer/must"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

var (
	flagDemo = flag.String("demo", "product", "Demo function to record. See -list for the available ones.")
	flagList = flag.Bool("list", false, "Lists the demo functions.")
	flagX    = xslices.Flag("x", nil, "Comma-separated values of the independent variables where the function is "+
		"recorded. If empty, the default point of the demo is used.", parseFloat)
	flagAt = xslices.Flag("at", nil, "Comma-separated values of the independent variables where the function is "+
		"evaluated. If empty, the recording point is used.", parseFloat)
	flagSummary   = flag.Bool("summary", true, "Display a summary of the tape and the values of the function.")
	flagTape      = flag.Bool("tape", false, "Lists the operations of the tape.")
	flagJacobian  = flag.Bool("jacobian", false, "Display the Jacobian.")
	flagHessian   = flag.Bool("hessian", false, "Display the Hessian of the sum of the dependent variables.")
	flagSparsity  = flag.Bool("sparsity", false, "Display the sparsity patterns of the Jacobian and the Hessian.")
	flagStorage   = flag.String("storage", "pack", `Set storage used for the sparsity patterns: "pack" or "list".`)
	flagParallel  = flag.Int("parallelism", 0, "Workers computing the columns of the Jacobian: 0 is sequential, -1 is unlimited.")
	flagOutput    = flag.String("output", "", "File where to write the report. If empty, it is written to the standard output.")
	flagOverwrite = flag.Bool("overwrite", false, "Overwrite the -output file if it already exists.")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()
	if *flagList {
		listDemos(os.Stdout)
		return
	}
	opts := reportOptions{
		summary:     *flagSummary,
		tape:        *flagTape,
		jacobian:    *flagJacobian,
		hessian:     *flagHessian,
		sparsity:    *flagSparsity,
		storage:     *flagStorage,
		parallelism: *flagParallel,
	}
	err := exceptions.TryCatch[error](func() {
		var w io.Writer = os.Stdout
		if *flagOutput != "" {
			f := must.M1(fsutil.CreateOutput(*flagOutput, *flagOverwrite))
			defer func() { must.M(f.Close()) }()
			w = f
		}
		report(w, *flagDemo, *flagX, *flagAt, opts)
	})
	if err != nil {
		klog.Errorf("adtape failed: %+v", err)
		os.Exit(1)
	}
}

func listDemos(w io.Writer) {
	table := newPlainTable([]string{"Demo", "n", "Function"}, lipgloss.Right, lipgloss.Right, lipgloss.Left)
	for _, name := range demoNames() {
		d := demos[name]
		table.Row(false, name, strconv.Itoa(len(d.x)), d.description)
	}
	_, _ = fmt.Fprintln(w, table.Render())
}

func parseFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	return v, errors.Wrapf(err, "invalid value %q", s)
}

// checkPoint verifies the number of values given for the independent variables.
func checkPoint(x []float64, n int) error {
	if len(x) != n {
		return errors.Errorf("%d values given in %v, %d independent variables expected", len(x), x, n)
	}
	return nil
}

func parseStorage(s string) (sparsity.Storage, error) {
	for _, storage := range []sparsity.Storage{sparsity.StoragePack, sparsity.StorageList} {
		if storage.String() == s {
			return storage, nil
		}
	}
	return 0, errors.Errorf("unknown sparsity storage %q", s)
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

// reportOptions selects the sections of the report.
type reportOptions struct {
	summary, tape, jacobian, hessian, sparsity bool
	storage                                    string

	// parallelism of the Jacobian computation, see workerspool.Pool.SetMaxParallelism.
	// If 0 the Jacobian is computed sequentially.
	parallelism int
}

// report records the demo and writes the selected reports to w. Errors are thrown as panics.
//
// recordAt and evaluateAt are the points where the function is recorded and evaluated: if empty
// the default point of the demo is used.
func report(w io.Writer, demoName string, recordAt, evaluateAt []float64, opts reportOptions) {
	d, found := demos[demoName]
	if !found {
		exceptions.Panicf("unknown demo %q, use -list to see the available ones", demoName)
	}
	x := d.x
	if len(recordAt) > 0 {
		must.M(checkPoint(recordAt, len(d.x)))
		x = recordAt
	}
	f := d.record(x)
	f.SetPrintWriter(w)
	f.SetSparsityStorage(must.M1(parseStorage(opts.storage)))
	if len(evaluateAt) > 0 {
		must.M(checkPoint(evaluateAt, len(d.x)))
		x = evaluateAt
	}
	n, m := f.NumIndependent(), f.NumDependent()
	y := must.M1(f.Forward(0, x))

	if opts.summary {
		_, _ = fmt.Fprintln(w, titleStyle.Render("Summary"))
		tp := f.Tape()
		table := newPlainTable(nil, lipgloss.Right, lipgloss.Left)
		table.Row(false, "demo", fmt.Sprintf("%s: %s", demoName, d.description))
		table.Row(false, "tape", tp.ID().String())
		table.Row(false, "# independent", humanize.Comma(int64(n)))
		table.Row(false, "# dependent", humanize.Comma(int64(m)))
		table.Row(false, "# operations", humanize.Comma(int64(tp.NumOp())))
		table.Row(false, "# variables", humanize.Comma(int64(tp.NumVar())))
		table.Row(false, "# parameters", humanize.Comma(int64(tp.NumPar())))
		table.Row(false, "memory", humanize.Bytes(tp.MemoryBytes()))
		table.Row(false, "x", fmt.Sprint(x))
		table.Row(false, "y", fmt.Sprint(y))
		table.Row(f.CompareChange() > 0, "comparisons changed", humanize.Comma(int64(f.CompareChange())))
		_, _ = fmt.Fprintln(w, table.Render())
	}

	if opts.tape {
		_, _ = fmt.Fprintln(w, titleStyle.Render("Tape"))
		tp := f.Tape()
		table := newPlainTable([]string{"Operation"}, lipgloss.Left)
		for ii := range tp.NumOp() {
			table.Row(false, tp.Describe(ii))
		}
		_, _ = fmt.Fprintln(w, table.Render())
	}

	if opts.jacobian {
		_, _ = fmt.Fprintln(w, titleStyle.Render("Jacobian"))
		var jac []float64
		if opts.parallelism != 0 {
			pool := workerspool.New()
			pool.SetMaxParallelism(opts.parallelism)
			klog.V(1).Infof("Jacobian of %q with %d workers", demoName, pool.NumWorkers())
			jac = must.M1(f.JacobianParallel(x, pool))
		} else {
			jac = must.M1(f.Jacobian(x))
		}
		table := newPlainTable(matrixHeaders("x", n), lipgloss.Right)
		for i := range m {
			row := []string{fmt.Sprintf("y%d", i)}
			for j := range n {
				row = append(row, formatValue(jac[i*n+j]))
			}
			table.Row(false, row...)
		}
		_, _ = fmt.Fprintln(w, table.Render())
	}

	if opts.hessian {
		_, _ = fmt.Fprintln(w, titleStyle.Render("Hessian of the sum of y"))
		hes := must.M1(f.Hessian(x, xslices.SliceWithValue(m, 1.0)))
		table := newPlainTable(matrixHeaders("x", n), lipgloss.Right)
		for j := range n {
			row := []string{fmt.Sprintf("x%d", j)}
			for k := range n {
				row = append(row, formatValue(hes[j*n+k]))
			}
			table.Row(false, row...)
		}
		_, _ = fmt.Fprintln(w, table.Render())
	}

	if opts.sparsity {
		jacPattern := f.JacobianPattern()
		hesPattern := must.M1(f.HessianPattern(xslices.SliceWithValue(m, true)))
		for _, p := range []struct {
			title   string
			pattern *sparsity.Pattern
		}{
			{"Jacobian sparsity", jacPattern},
			{"Hessian sparsity", hesPattern},
		} {
			_, colors := sparsity.ColorColumns(p.pattern)
			_, _ = fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("%s: %d non-zeros, %d sweeps with coloring",
				p.title, p.pattern.NumNonZeros(), colors)))
			table := newPlainTable(nil, lipgloss.Left)
			for _, line := range strings.Split(strings.TrimSuffix(p.pattern.String(), "\n"), "\n") {
				table.Row(false, line)
			}
			_, _ = fmt.Fprintln(w, table.Render())
		}
	}
}

// matrixHeaders returns the headers of a table with one column per variable.
func matrixHeaders(prefix string, n int) []string {
	headers := []string{""}
	for j := range n {
		headers = append(headers, fmt.Sprintf("%s%d", prefix, j))
	}
	return headers
}
