// Package analysis inspects recorded joint traces.
//
//   - [PowerSpectrum] and [DominantFrequency]: oscillation of a joint
//     around its target, e.g. servo chatter at high gain
//   - [SettlingStep]: the first sample after which a joint stays within a
//     tolerance of its target
//
// Series are in degrees, one sample per tick:
//
//	freq, amp := analysis.DominantFrequency(tr.Series(k), dt)
package analysis
