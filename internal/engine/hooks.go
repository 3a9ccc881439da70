package engine

// Hooks are optional callbacks, each called synchronously with the current
// duration in seconds. A panicking hook is logged and otherwise ignored.
type Hooks struct {
	// OnDurationUpdate runs after every tick with the new duration.
	OnDurationUpdate func(duration int64)
	// OnTick runs once a tick is recorded, with the duration before it.
	OnTick func(duration int64)
	// OnPause and OnResume run after the paused flag flipped.
	OnPause  func(duration int64)
	OnResume func(duration int64)
	// OnRollover runs when the day changes, with the old day's duration.
	OnRollover func(duration int64)
}

// Observer receives every value the engine hands out. Observers cannot
// change the engine; they mirror it.
type Observer interface {
	Update(v TrackedValue)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(v TrackedValue)

func (f ObserverFunc) Update(v TrackedValue) { f(v) }

// Subscribe registers o for every subsequent value.
func (e *Engine) Subscribe(o Observer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.observers = append(e.observers, o)
}

func (e *Engine) fire(name string, fn func(int64), duration int64) {
	if fn == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("hook panicked", "hook", name, "panic", r)
		}
	}()
	fn(duration)
}

func (e *Engine) publish(v TrackedValue) {
	for _, o := range e.observers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					e.log.Error("observer panicked", "panic", r)
				}
			}()
			o.Update(v)
		}()
	}
}
