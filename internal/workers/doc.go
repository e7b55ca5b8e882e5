/*
Package workers sizes and enforces the number of preview jobs the server
runs at once.

Jobs are CPU bound (libvips, libjxl, ffmpeg), so the default is one slot per
schedulable CPU. GOMAXPROCS is used rather than runtime.NumCPU because Go
1.19+ sets it from the container CPU quota, while NumCPU reports the host.

	slots := workers.NewSlots(workers.ForCPU(cfg.PreviewWorkers, 0), monitor)

	release, err := slots.Acquire(r.Context())
	if err != nil {
		// client went away while waiting
	}
	defer release()

Acquire waits for a free slot, and first for the memory gate (when one is
configured) to report that admission is open. Waiting is bounded only by the
caller's context; there is no queue beyond the blocked callers.
*/
package workers
