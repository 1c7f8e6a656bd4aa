// Package audiocore implements the pull/push Filter contract and the
// FilterGraph runtime that chains filters into a decode -> remix ->
// resample -> equalize -> bass-redirect -> AGC/DRC -> delay -> dither ->
// encode pipeline (spec.md §1-§5). Concrete DSP filters live under
// internal/dsp and internal/myaudio; this package owns only the mechanism:
// value types (Speakers, Chunk), the state machine every filter obeys
// (Filter), the dynamic DAG that hosts them (Graph), and timestamp
// propagation across buffering stages (SyncHelper).
package audiocore
