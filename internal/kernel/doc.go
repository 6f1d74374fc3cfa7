// Package kernel provides the 2D smoothing kernels used by the SPH solver.
//
// Each evaluator is a function of the pairwise distance r and the smoothing
// radius h, and is zero outside the support radius (r >= h):
//
//   - [Kernels.Poly6]: density estimation
//   - [Kernels.SpikyGrad]: pressure force magnitude
//   - [Kernels.ViscosityLap]: viscosity force magnitude
//
// The normalization factors depend on h (and on the viscosity constant for
// the Laplacian). They are cached in [Kernels] and recomputed together by
// [Kernels.SetRadius], never lazily per pair.
package kernel
