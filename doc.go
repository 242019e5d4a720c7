// Package e2s reads and writes the sample files of the electribe sampler.
//
// A standalone sample is a RIFF/WAVE file carrying 16-bit PCM. The device
// stores its playback parameters in a vendor chunk (korg) that holds a
// slot descriptor chunk (esli). When a plain WAV file is imported, the slot
// descriptor is derived from the fmt chunk and, when present, from the smpl
// loop and cue chunks.
//
// The package exposes three layers:
//
//   - Chunk, ParseChunk: a generic RIFF chunk tree that keeps unknown chunks
//     intact and stamps exact sizes on write.
//   - Sample: one WAV sample with its optional vendor chunk.
//   - SampleAll: the multi-sample "e2s sample all" container.
package e2s
