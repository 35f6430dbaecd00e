// Package lifecycle prepares workers to serve.
//
// Manager.Start takes a worker from Uninitialized through Starting to Ready:
//
//   - configured cache clearers run (best effort; none is fine)
//   - the worker's thread is named "{name}-worker-{id}" where supported
//   - request workers bootstrap a fresh application with a fresh event bus
//     and get their own dispatch pipeline
//   - task workers never bootstrap the application
//
// The returned WorkerState is owned by exactly one worker and never shared.
// Stop moves it through Stopping to Stopped and drops its event listeners.
package lifecycle
