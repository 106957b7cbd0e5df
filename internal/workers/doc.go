// Package workers sizes and runs worker pools for batch development.
//
// Worker counts follow GOMAXPROCS, which Go 1.19+ sets from the container
// CPU quota. RAW_WORKERS overrides the computed count:
//
//	n := workers.ForCPU(8)
//	workers.ForEach(ctx, n, files, develop)
//
// Each RAW development already spawns an external decoder process, so batch
// tools size by CPU rather than by outstanding I/O.
package workers
