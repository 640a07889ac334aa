// Package csync provides thread-safe generic collections.
//
// Map guards a plain Go map with a RWMutex. It backs state that is touched
// both by the host goroutine and by timer callbacks, such as the watcher's
// set of paths waiting to be flushed.
//
//	pending := csync.NewMap[string, struct{}]()
//	pending.Set("main.go", struct{}{})
//	paths := pending.Keys()
//	pending.DeleteAll(paths...)
package csync
