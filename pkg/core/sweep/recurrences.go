// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package sweep

import "golang.org/x/exp/constraints"

// Taylor coefficient recurrences for order d >= 1. In all of them z, x, y, ... are the rows of
// Taylor coefficients of the variables involved, and the coefficients of orders < d of the
// result, and of orders <= d of the operands, are already computed.

// chain computes z_d = (1/d) * sum_{k=1}^{d} k * x_k * w_{d-k}, the coefficients of z' = x' * w.
func chain[T constraints.Float](d int, z, x, w []T) {
	var sum T
	for k := 1; k <= d; k++ {
		sum += T(k) * x[k] * w[d-k]
	}
	z[d] = sum / T(d)
}

// quotient computes the coefficients of z' * b = s * x', where b is known up to order d-1 and b_0 != 0:
//
//	z_d = (s*x_d - (1/d) * sum_{k=1}^{d-1} k * z_k * b_{d-k}) / b_0
func quotient[T constraints.Float](d int, z, x, b []T, s T) {
	var sum T
	for k := 1; k < d; k++ {
		sum += T(k) * z[k] * b[d-k]
	}
	z[d] = (s*x[d] - sum/T(d)) / b[0]
}

// product computes z_d = sum_{k=0}^{d} x_k * y_{d-k}.
func product[T constraints.Float](d int, z, x, y []T) {
	var sum T
	for k := 0; k <= d; k++ {
		sum += x[k] * y[d-k]
	}
	z[d] = sum
}

// azProduct is product using the absolute zero multiplication.
func azProduct[T constraints.Float](d int, z, x, y []T) {
	var sum T
	for k := 0; k <= d; k++ {
		sum += Azmul(x[k], y[d-k])
	}
	z[d] = sum
}

// division computes the coefficients of z = x / y, solving z*y = x:
//
//	z_d = (x_d - sum_{k=1}^{d} z_{d-k} * y_k) / y_0
//
// If x is nil the numerator is a parameter (x_d = 0 for d >= 1).
func division[T constraints.Float](d int, z, x, y []T) {
	var sum T
	if x != nil {
		sum = x[d]
	}
	for k := 1; k <= d; k++ {
		sum -= z[d-k] * y[k]
	}
	z[d] = sum / y[0]
}

// squareRoot computes the coefficients of b = sqrt(q), with q given up to order d:
//
//	b_d = (q_d - sum_{k=1}^{d-1} b_k * b_{d-k}) / (2 * b_0)
func squareRoot[T constraints.Float](d int, b []T, qd T) {
	var sum T
	for k := 1; k < d; k++ {
		sum += b[k] * b[d-k]
	}
	b[d] = (qd - sum) / (2 * b[0])
}

// squareCoef returns the order d coefficient of x*x.
func squareCoef[T constraints.Float](d int, x []T) T {
	var sum T
	for k := 0; k <= d; k++ {
		sum += x[k] * x[d-k]
	}
	return sum
}

// logarithm computes the coefficients of z = log(b), where b_0 = b0 and b_k = x_k for k >= 1
// (b = x for log, b = 1 + x for log1p):
//
//	z_d = (x_d - (1/d) * sum_{k=1}^{d-1} k * z_k * x_{d-k}) / b_0
func logarithm[T constraints.Float](d int, z, x []T, b0 T) {
	var sum T
	for k := 1; k < d; k++ {
		sum += T(k) * z[k] * x[d-k]
	}
	z[d] = (x[d] - sum/T(d)) / b0
}

// parPower computes the coefficients of z = x**y for a parameter y, from z' * x = y * z * x':
//
//	z_d = (y*z_0*x_d + (1/d) * sum_{k=1}^{d-1} k * (y*x_k*z_{d-k} - z_k*x_{d-k})) / x_0
//
// The coefficients are 0 when x_0 is 0.
func parPower[T constraints.Float](d int, z, x []T, y T) {
	if x[0] == 0 {
		z[d] = 0
		return
	}
	var sum T
	for k := 1; k < d; k++ {
		sum += T(k) * (y*x[k]*z[d-k] - z[k]*x[d-k])
	}
	z[d] = (y*z[0]*x[d] + sum/T(d)) / x[0]
}

// Reverse (adjoint) counterparts. Each takes the highest order d, and accumulates into the
// partials of the operands the contributions of the partials of the result. Partials of the
// result may be modified, they are consumed by the operation.

// reverseChainOrder is the adjoint of chain for order j >= 1: it accumulates into px and pw.
func reverseChainOrder[T constraints.Float](j int, pz, x, w, px, pw []T) {
	if pz[j] == 0 {
		return
	}
	a := pz[j] / T(j)
	for k := 1; k <= j; k++ {
		px[k] += a * T(k) * w[j-k]
		pw[j-k] += a * T(k) * x[k]
	}
}

// reverseExp is the adjoint of z = exp(x) (or expm1 if minus1 is true).
func reverseExp[T constraints.Float](d int, z, x, pz, px []T, minus1 bool) {
	for j := d; j > 0; j-- {
		if minus1 {
			px[j] += pz[j]
		}
		reverseChainOrder(j, pz, x, z, px, pz)
	}
	if pz[0] == 0 {
		return
	}
	if minus1 {
		px[0] += pz[0] * (1 + z[0])
	} else {
		px[0] += pz[0] * z[0]
	}
}

// reverseLog is the adjoint of logarithm (log if b0 == x_0, log1p if b0 == 1 + x_0).
func reverseLog[T constraints.Float](d int, z, x, pz, px []T, b0 T) {
	for j := d; j > 0; j-- {
		if pz[j] == 0 {
			continue
		}
		a := pz[j] / b0
		px[0] -= a * z[j]
		px[j] += a
		a /= T(j)
		for k := 1; k < j; k++ {
			pz[k] -= a * T(k) * x[j-k]
			px[j-k] -= a * T(k) * z[k]
		}
	}
	if pz[0] != 0 {
		px[0] += pz[0] / b0
	}
}

// reverseSquareRootOrder is the adjoint of squareRoot with respect to b and q: it accumulates
// into pb (lower orders of b) and returns the partial with respect to q_j.
func reverseSquareRootOrder[T constraints.Float](j int, b, pb []T) (pq T) {
	if pb[j] == 0 {
		return 0
	}
	a := pb[j] / b[0]
	pb[0] -= a * b[j]
	for k := 1; k < j; k++ {
		pb[k] -= a * b[j-k]
	}
	return a / 2
}

// reverseSquareCoef accumulates into px the adjoint of q_j = sum_{k=0}^{j} x_k * x_{j-k}.
func reverseSquareCoef[T constraints.Float](j int, x, px []T, pq T) {
	if pq == 0 {
		return
	}
	for k := 0; k <= j; k++ {
		px[k] += 2 * pq * x[j-k]
	}
}

// reverseQuotientOrder is the adjoint of quotient for order j >= 1.
func reverseQuotientOrder[T constraints.Float](j int, z, b, pz, px, pb []T, s T) {
	if pz[j] == 0 {
		return
	}
	a := pz[j] / b[0]
	px[j] += s * a
	pb[0] -= a * z[j]
	a /= T(j)
	for k := 1; k < j; k++ {
		pz[k] -= a * T(k) * b[j-k]
		pb[j-k] -= a * T(k) * z[k]
	}
}

// reverseProduct is the adjoint of product (z = x * y) for all orders 0..d.
// px and py may be the same slice (z = x * x).
func reverseProduct[T constraints.Float](d int, x, y, pz, px, py []T) {
	for j := d; j >= 0; j-- {
		a := pz[j]
		if a == 0 {
			continue
		}
		for k := 0; k <= j; k++ {
			px[k] += a * y[j-k]
			py[j-k] += a * x[k]
		}
	}
}

// reverseAzProduct is the adjoint of azProduct.
func reverseAzProduct[T constraints.Float](d int, x, y, pz, px, py []T) {
	for j := d; j >= 0; j-- {
		for k := 0; k <= j; k++ {
			px[k] += Azmul(pz[j], y[j-k])
			py[j-k] += Azmul(pz[j], x[k])
		}
	}
}

// reverseDivision is the adjoint of z = x / y for all orders 0..d. If px is nil the numerator is a parameter.
func reverseDivision[T constraints.Float](d int, z, y, pz, px, py []T) {
	for j := d; j >= 0; j-- {
		if pz[j] == 0 {
			continue
		}
		pz[j] /= y[0]
		a := pz[j]
		if px != nil {
			px[j] += a
		}
		for k := 1; k <= j; k++ {
			pz[j-k] -= a * y[k]
			py[k] -= a * z[j-k]
		}
		py[0] -= a * z[j]
	}
}

// reverseParPower is the adjoint of parPower, and of z_0 = x_0**y, for all orders 0..d.
// Nothing is propagated when x_0 is 0, matching the zero coefficients of the forward sweep.
func reverseParPower[T constraints.Float](d int, z, x, pz, px []T, y T) {
	x0 := x[0]
	if x0 == 0 {
		return
	}
	for j := d; j > 0; j-- {
		a := pz[j]
		if a == 0 {
			continue
		}
		scale := a / (T(j) * x0)
		px[j] += a * y * z[0] / x0
		for k := 1; k < j; k++ {
			px[k] += scale * (T(k)*y - T(j-k)) * z[j-k]
			pz[k] += scale * (T(j-k)*y - T(k)) * x[j-k]
		}
		px[0] -= a * z[j] / x0
		pz[0] += a * y * x[j] / x0
	}
	px[0] += Azmul(pz[0], y*z[0]/x0)
}
