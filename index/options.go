package index

// Trimming selects how the product DAG is reduced after construction (§4.D).
type Trimming uint8

const (
	// FullTrimming keeps only co-reachable vertices in each level's membership bitmap.
	FullTrimming Trimming = iota
	// NoTrimming keeps the raw DAG; used as a correctness baseline.
	NoTrimming
)

func (t Trimming) String() string {
	switch t {
	case FullTrimming:
		return "FullTrimming"
	case NoTrimming:
		return "NoTrimming"
	default:
		return "Trimming(?)"
	}
}

// BuildOptions controls index construction.
type BuildOptions struct {
	// Trimming selects the §4.D trimming strategy. Default: FullTrimming.
	Trimming Trimming

	// MemoryCeiling caps the bytes held by the Index (the level bitmap plus
	// the reachability matrices, as Stats.MemoryUsage counts them). Zero means
	// no ceiling. The level bitmap is checked before it is allocated and the
	// total once the matrices are built; exceeding either fails construction
	// with ErrOutOfBudget and no Index is returned (§5).
	MemoryCeiling uint64

	// JumpWidthCap is the component-parameter W from §4.E: the greedy anchor
	// search forces a new anchor after this many levels with no marker
	// activity, bounding matrix size. Zero means DefaultBuildOptions' value
	// (computed from document length n at Build time: ⌊√n⌋+1).
	JumpWidthCap int

	// EnableLiteralPrefilter runs the Aho-Corasick required-literal fast
	// reject (index/literal.go) before the product-DAG sweep when
	// literal.ExtractInner finds a finite required-literal set in the source
	// regexp. Only BuildWithRegexp applies it; Build has no regexp to inspect.
	EnableLiteralPrefilter bool
}

// DefaultBuildOptions returns FullTrimming, no memory ceiling, the prefilter
// enabled, and a width cap computed from the document length at Build time.
func DefaultBuildOptions() BuildOptions {
	return BuildOptions{
		Trimming:               FullTrimming,
		MemoryCeiling:          0,
		JumpWidthCap:           0,
		EnableLiteralPrefilter: true,
	}
}

// ConfigError reports an invalid BuildOptions field.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string { return "index: invalid option: " + e.Field + ": " + e.Message }

// Validate checks BuildOptions for internally-consistent values.
func (o BuildOptions) Validate() error {
	if o.Trimming != FullTrimming && o.Trimming != NoTrimming {
		return &ConfigError{Field: "Trimming", Message: "must be FullTrimming or NoTrimming"}
	}
	if o.JumpWidthCap < 0 {
		return &ConfigError{Field: "JumpWidthCap", Message: "must be >= 0"}
	}
	return nil
}
