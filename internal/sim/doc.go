// Package sim owns one simulation instance of the biped: its engine
// resources ([Context]), their ordered creation and teardown ([Lifecycle])
// and the per-tick orchestration ([FrameDriver]).
//
// # Tick order
//
// Every tick applies the joint controller. While running, the tick then
// runs the broadphase with the contact classifier, advances the world by
// one fixed step and empties the contact group. The renderer and the
// observers see every tick, paused or not.
//
// # Thread Safety
//
// Nothing in this package is safe for concurrent use. The run loop that
// calls [FrameDriver.Tick] must also be the only caller of
// [FrameDriver.TogglePause]. Separate instances share nothing and may run
// on separate goroutines.
package sim
