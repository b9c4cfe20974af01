package logger

// reset drops the logger so the next Init rebuilds it.
func reset() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
}
