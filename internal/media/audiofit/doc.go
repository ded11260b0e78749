// Package audiofit squeezes synthesized speech clips into their timeline
// slots. Pacing changes go through ffmpeg's atempo filter, which preserves
// pitch; clips that still overrun after hitting the speed ceiling are
// trimmed or accepted as-is depending on how far they overrun.
package audiofit
