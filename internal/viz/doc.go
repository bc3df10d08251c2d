// Package viz replays stored steering runs in the terminal.
//
// [Canvas] is a Braille pixel grid; [Replay] is a Bubble Tea model that draws
// paths, lines and mover trails on it frame by frame.
//
// # Key Bindings
//
//	Space      - Pause/Resume playback
//	Left/Right - Step one frame back/forward (pauses)
//	+/-        - Double/halve playback speed
//	Home       - Jump to the first frame
//	T          - Cycle color themes
//	Q          - Quit
package viz
