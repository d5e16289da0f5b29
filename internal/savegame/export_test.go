package savegame

import "time"

// SetRetryDelay shortens the write backoff for tests.
func (a *Autosaver) SetRetryDelay(d time.Duration) { a.retryDelay = d }
