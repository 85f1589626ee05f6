// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package main

import (
	"math"
	"slices"

	"github.com/gomlx/adtape/pkg/ad"
)

type AD = ad.AD[float64]

// demo is a function recorded by the tool.
type demo struct {
	description string

	// x is the default point where the function is recorded and evaluated.
	x  []float64
	fn func(rec *ad.Recording[float64], x []AD) []AD
}

var demos = map[string]demo{
	"product": {
		description: "y = x0 * x1",
		x:           []float64{3, 4},
		fn: func(_ *ad.Recording[float64], x []AD) []AD {
			return []AD{ad.Mul(x[0], x[1])}
		},
	},
	"sincos": {
		description: "y = [sin(x0), cos(x0)]",
		x:           []float64{0},
		fn: func(_ *ad.Recording[float64], x []AD) []AD {
			return []AD{ad.Sin(x[0]), ad.Cos(x[0])}
		},
	},
	"condexp": {
		description: "y = x0 < x1 ? 10 * x0 : 20 * x1, decided again at every evaluation",
		x:           []float64{1, 2},
		fn: func(_ *ad.Recording[float64], x []AD) []AD {
			return []AD{ad.CondExpLt(x[0], x[1], ad.MulScalar(x[0], 10), ad.MulScalar(x[1], 20))}
		},
	},
	"pow": {
		description: "y = [x0^x1, x0^2.5, 2^x1]",
		x:           []float64{2, 3},
		fn: func(_ *ad.Recording[float64], x []AD) []AD {
			return []AD{ad.Pow(x[0], x[1]), ad.PowScalar(x[0], 2.5), ad.Pow(ad.Const(2.0), x[1])}
		},
	},
	"erf": {
		description: "y = [erf(x0) * x1, erfc(x1)]",
		x:           []float64{0.5, 1},
		fn: func(_ *ad.Recording[float64], x []AD) []AD {
			return []AD{ad.Mul(ad.Erf(x[0]), x[1]), ad.Erfc(x[1])}
		},
	},
	"vecad": {
		description: "v = [10, 20]; v[x1] = x0; y = v[x1] * v[1]",
		x:           []float64{3, 0},
		fn: func(rec *ad.Recording[float64], x []AD) []AD {
			v := rec.NewVecAD([]float64{10, 20})
			v.Set(x[1], x[0])
			return []AD{ad.Mul(v.Get(x[1]), v.Get(ad.Const(1.0)))}
		},
	},
	"chain": {
		description: "y_i = x_i * sin(x_{i+1}), y_5 = exp(x_5): sparse Jacobian and Hessian",
		x:           []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6},
		fn: func(_ *ad.Recording[float64], x []AD) []AD {
			n := len(x)
			y := make([]AD, n)
			for i := range n - 1 {
				y[i] = ad.Mul(x[i], ad.Sin(x[i+1]))
			}
			y[n-1] = ad.Exp(x[n-1])
			return y
		},
	},
	"softmax": {
		description: "y = softmax(x), with the maximum subtracted for stability",
		x:           []float64{1, 2, 3},
		fn: func(_ *ad.Recording[float64], x []AD) []AD {
			maxX := x[0]
			for _, xi := range x[1:] {
				maxX = ad.Max(maxX, xi)
			}
			exps := make([]AD, len(x))
			for ii, xi := range x {
				exps[ii] = ad.Exp(ad.Sub(xi, maxX))
			}
			sum := ad.Sum(exps...)
			y := make([]AD, len(x))
			for ii := range exps {
				y[ii] = ad.Div(exps[ii], sum)
			}
			return y
		},
	},
	"norm": {
		description: "y = sqrt(sum(x_i^2)) + floor(x0), with a discrete function",
		x:           []float64{3, 4},
		fn: func(_ *ad.Recording[float64], x []AD) []AD {
			squares := make([]AD, len(x))
			for ii, xi := range x {
				squares[ii] = ad.Mul(xi, xi)
			}
			return []AD{ad.Add(ad.Sqrt(ad.Sum(squares...)), floor.Call(x[0]))}
		},
	},
}

var floor = ad.NewDiscrete("floor", math.Floor)

// demoNames returns the sorted names of the demos.
func demoNames() []string {
	names := make([]string, 0, len(demos))
	for name := range demos {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// record the demo at x.
func (d demo) record(x []float64) *ad.Function[float64] {
	rec := ad.Independent(x)
	return rec.Stop(d.fn(rec, rec.X()))
}
