// Package toolexec runs the external command-line tools the pipeline depends
// on (ffprobe, ffmpeg, kubi).
//
// Every invocation is blocking. An Invoker optionally bounds each run with a
// deadline; when it expires the subprocess is killed and the call fails with
// ErrToolTimeout. Invocation counts and durations are recorded per tool.
//
// The Runner interface is the seam used by tests to script tool output
// without spawning processes.
package toolexec
