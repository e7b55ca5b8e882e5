// Package pipeline runs one preview job end to end.
//
// A job names a source file and an output prefix. The source is classified
// by extension; video and audio are first rendered to a still (a frame at
// 10% of the duration, or a waveform) while a low bitrate preview is
// transcoded next to it. The still, or the image itself, is then decoded,
// oriented, checked for 360° projection, written as JPEG XL tiers and
// reduced to a fingerprint.
//
// Files written for a job with prefix P:
//
//	P.o.jxl  P.h.jxl  P.s.jxl   always
//	P.c.jxl                     equirectangular images
//	P.mkv                       video and audio
//
// Intermediate files live in a job-local temporary directory that is
// removed before Process returns.
package pipeline
