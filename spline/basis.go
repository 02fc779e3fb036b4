package spline

// BasisFuns evaluates the p+1 basis functions active on the span at x,
// writing them into N (length p+1). Cox-de-Boor recurrence; never touches
// basis functions outside the span's support.
func (kv KnotVector) BasisFuns(span int, x float64, N []float64) {
	var (
		p           = kv.P
		T           = kv.T
		left, right = make([]float64, p+1), make([]float64, p+1)
	)
	N[0] = 1
	for j := 1; j <= p; j++ {
		left[j] = x - T[span+1-j]
		right[j] = T[span+j] - x
		saved := 0.
		for r := 0; r < j; r++ {
			temp := N[r] / (right[r+1] + left[j-r])
			N[r] = saved + right[r+1]*temp
			saved = left[j-r] * temp
		}
		N[j] = saved
	}
}

// DersBasisFuns evaluates the active basis functions and their derivatives up
// to order n at x, filling ders[k][j] with the k-th derivative of the j-th
// active function. Orders above the degree are identically zero.
func (kv KnotVector) DersBasisFuns(span int, x float64, n int, ders [][]float64) {
	var (
		p           = kv.P
		T           = kv.T
		left, right = make([]float64, p+1), make([]float64, p+1)
		ndu         = make([][]float64, p+1)
		a           = [2][]float64{make([]float64, p+1), make([]float64, p+1)}
	)
	for i := range ndu {
		ndu[i] = make([]float64, p+1)
	}
	ndu[0][0] = 1
	for j := 1; j <= p; j++ {
		left[j] = x - T[span+1-j]
		right[j] = T[span+j] - x
		saved := 0.
		for r := 0; r < j; r++ {
			// Lower triangle stores the knot differences
			ndu[j][r] = right[r+1] + left[j-r]
			temp := ndu[r][j-1] / ndu[j][r]
			// Upper triangle stores the basis values
			ndu[r][j] = saved + right[r+1]*temp
			saved = left[j-r] * temp
		}
		ndu[j][j] = saved
	}
	for k := range ders {
		for j := range ders[k] {
			ders[k][j] = 0
		}
	}
	for j := 0; j <= p; j++ {
		ders[0][j] = ndu[j][p]
	}
	if n > p {
		n = p
	}
	for r := 0; r <= p; r++ {
		s1, s2 := 0, 1
		a[0][0] = 1
		for k := 1; k <= n; k++ {
			var (
				d      float64
				rk, pk = r - k, p - k
			)
			if r >= k {
				a[s2][0] = a[s1][0] / ndu[pk+1][rk]
				d = a[s2][0] * ndu[rk][pk]
			}
			j1 := 1
			if rk < -1 {
				j1 = -rk
			}
			j2 := k - 1
			if r-1 > pk {
				j2 = p - r
			}
			for j := j1; j <= j2; j++ {
				a[s2][j] = (a[s1][j] - a[s1][j-1]) / ndu[pk+1][rk+j]
				d += a[s2][j] * ndu[rk+j][pk]
			}
			if r <= pk {
				a[s2][k] = -a[s1][k-1] / ndu[pk+1][r]
				d += a[s2][k] * ndu[r][pk]
			}
			ders[k][r] = d
			s1, s2 = s2, s1
		}
	}
	fac := float64(p)
	for k := 1; k <= n; k++ {
		for j := 0; j <= p; j++ {
			ders[k][j] *= fac
		}
		fac *= float64(p - k)
	}
}
