// Package spatial is the configuration-space abstraction the planner treats as an
// external collaborator: state allocation, distance, interpolation, sampling, and
// validity/motion checking (§6.1's SpaceInformation contract).
package spatial

// State is one point in the configuration space. Spaces treat it as opaque and own
// its lifecycle; callers should only construct, copy, and compare States through the
// Space that allocated them.
type State []float64

// Sampler draws uniform samples from a Space into caller-owned storage.
type Sampler interface {
	SampleUniform(out State)
}

// CollisionChecker reports whether a single configuration is valid (true == free).
type CollisionChecker func(State) bool

// Space is the configuration-space collaborator. Distance and Interpolate are not
// required to be symmetric; HasSymmetricDistance/HasSymmetricInterpolate report
// which optimizations the planner may apply.
type Space interface {
	AllocState() State
	CopyState(dst, src State)
	FreeState(State)

	Distance(a, b State) float64
	// CheckMotion reports whether the straight-line segment from a to b is valid,
	// sampling intermediate configurations at roughly Resolution spacing.
	CheckMotion(a, b State) bool
	Interpolate(a, b State, t float64, out State)

	HasSymmetricDistance() bool
	HasSymmetricInterpolate() bool
	MaximumExtent() float64
	Dimension() int
	AllocStateSampler() Sampler
}
