package index

// Stats reports the diagnostics named in §6's IndexStats, for the benchmark
// driver collaborator. Times are seconds, memory is bytes allocated inside
// the Index (buffers only, excluding program code and allocator overhead).
//
// Build fills NumLevels, CreateDagS, TrimDagS, IndexDagS, NumMatrices,
// MemoryUsage, MemoryDag and MemoryMatrices. NumResults, WidthAvg, WidthMax,
// CompileRegexS, PreprocessS, EnumerateS, MemoryJumpCache, MatrixAvgSize and
// MatrixMaxSize are not computed and stay zero. When the literal prefilter
// rejects the document, only NumLevels is set.
type Stats struct {
	NumResults int

	WidthAvg float64
	WidthMax int

	CompileRegexS float64
	PreprocessS   float64
	CreateDagS    float64
	TrimDagS      float64
	IndexDagS     float64
	EnumerateS    float64

	MemoryUsage    uint64
	MemoryDag      uint64
	MemoryMatrices uint64
	MemoryJumpCache uint64

	NumMatrices    int
	MatrixAvgSize  float64
	MatrixMaxSize  int

	NumLevels int
}
