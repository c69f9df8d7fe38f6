// Package motion holds the scroll and visibility driven interpolation used
// by the site: one-shot viewport triggers, count-up counters and the
// scroll tracker behind navbar hiding and grayscale images.
//
// The math is exposed as pure functions. The stateful pieces take their
// platform primitives (intersection reports, frame scheduling, scroll
// events) as interfaces so they run the same under a browser bridge, a
// terminal or a test.
package motion
