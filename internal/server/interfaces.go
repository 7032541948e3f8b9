package server

// Server is the lifecycle contract for the sync API's transport server.
//
// RunServer blocks until an OS signal or [Shutdown] stops the server;
// in-flight sync calls are drained before it returns so that no batch is cut
// off mid-write.
type Server interface {
	// RunServer starts serving requests and blocks until the server stops.
	RunServer()

	// Shutdown gracefully stops the server and frees associated resources.
	Shutdown()
}
