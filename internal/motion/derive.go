package motion

// Derivatives estimates per-dimension velocity and acceleration with forward
// differences over the recorded intervals. Both results keep the sample count
// of the demonstration; the tail entries that have no forward interval are
// zero (v[n-1], a[n-2], a[n-1]). Timestamps may be non-uniform.
func Derivatives(d *Demonstration) (vel, acc [][]float64) {
	n := d.Len()
	dims := d.Dims()
	vel = make([][]float64, dims)
	acc = make([][]float64, dims)
	for dim := 0; dim < dims; dim++ {
		v := make([]float64, n)
		a := make([]float64, n)
		for k := 0; k+1 < n; k++ {
			dt := d.Times[k+1] - d.Times[k]
			v[k] = (d.Samples[k+1][dim] - d.Samples[k][dim]) / dt
		}
		for k := 0; k+2 < n; k++ {
			dt := d.Times[k+1] - d.Times[k]
			a[k] = (v[k+1] - v[k]) / dt
		}
		vel[dim] = v
		acc[dim] = a
	}
	return vel, acc
}
