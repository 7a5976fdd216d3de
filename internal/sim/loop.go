package sim

import "context"

// FixedLoop is a headless run loop that ticks a fixed number of frames.
// PauseAt lists frame numbers (0-based) before which the pause toggle is
// pressed; Toggle must be set for PauseAt to have an effect.
type FixedLoop struct {
	Ticks   int
	PauseAt []int
	Toggle  func()
}

func (l *FixedLoop) Run(ctx context.Context, start func(), step func()) error {
	start()
	toggles := make(map[int]int, len(l.PauseAt))
	for _, f := range l.PauseAt {
		toggles[f]++
	}
	for i := 0; i < l.Ticks; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if l.Toggle != nil {
			for n := toggles[i]; n > 0; n-- {
				l.Toggle()
			}
		}
		step()
	}
	return nil
}
