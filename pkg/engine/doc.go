// Package engine serves the simulated build service over HTTP.
//
// # Architecture
//
//	┌───────────────────────────────────────────────────────────────┐
//	│                            Server                              │
//	│   lifecycle: Uninitialized -> Started -> Stopped               │
//	│                                                                │
//	│   ┌──────────────────────────────────────────────────────────┐ │
//	│   │                        Handler                            │ │
//	│   │  recover -> scope strip -> route lookup -> auth gate ->   │ │
//	│   │  body parse -> route handler -> JSON response             │ │
//	│   └──────────────────────────────────────────────────────────┘ │
//	│           │                                  │                 │
//	│           ▼                                  ▼                 │
//	│     store.Store                      requestlog.Store          │
//	│   (builds, work items, tasks)        (request history)         │
//	└───────────────────────────────────────────────────────────────┘
//
// Any path prefix before /_apis/ is the scope: the first segment names the
// collection and the second the project. Routes under /__mock/ control the
// server itself and never require credentials.
//
// # Basic Usage
//
//	srv := engine.NewServer(&config.ServerConfiguration{
//	    Host:       "127.0.0.1",
//	    Port:       0,
//	    Collection: "DefaultCollection",
//	})
//	if err := srv.Start(); err != nil {
//	    return err
//	}
//	defer srv.Stop()
//
//	// point the client under test at srv.CollectionURL()
//
// Tests usually go through the testing package instead, which picks an
// ephemeral port and stops the server on cleanup.
package engine
