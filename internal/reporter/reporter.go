// Package reporter renders pipeline progress to the terminal, generalizing
// the teacher's internal/reporter (a wider multi-stage transcode reporter)
// down to the events this pipeline's driver/worker pool/merger actually
// produce: per-chunk dispatch, per-chunk frame progress, chunk completion,
// and the final merge.
package reporter

// Reporter receives progress events from the decode driver, worker pool,
// and merger. Concrete implementations are expected to be safe for
// concurrent use: workers call these methods from multiple goroutines.
type Reporter interface {
	// ChunkStarted is called when a chunk is dispatched for decoding.
	ChunkStarted(chunkIdx uint32, totalChunks int)
	// ChunkProgress is called for every parsed encoder frame counter.
	ChunkProgress(chunkIdx uint32, frame, totalFrames uint64)
	// ChunkComplete is called when a chunk's encoder exits successfully.
	ChunkComplete(chunkIdx uint32, frameCount uint32, byteSize uint64)
	// ChunkFailed is called when a chunk's encoder fails; the chunk is not
	// recorded as resumed and will be retried on the next run.
	ChunkFailed(chunkIdx uint32, err error)
	// MergeComplete is called once the final container has been written.
	MergeComplete(outputPath string, totalFrames uint64, byteSize int64)
}

// NopReporter discards all events.
type NopReporter struct{}

func (NopReporter) ChunkStarted(uint32, int)             {}
func (NopReporter) ChunkProgress(uint32, uint64, uint64) {}
func (NopReporter) ChunkComplete(uint32, uint32, uint64) {}
func (NopReporter) ChunkFailed(uint32, error)            {}
func (NopReporter) MergeComplete(string, uint64, int64)  {}
