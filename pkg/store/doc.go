// Package store holds the in-memory state of the simulated backend.
//
// A Store owns four resource kinds: build definitions (with their projects),
// builds, work items and task definitions. Every kind has its own
// sync.RWMutex; each read-modify-write sequence (queueing a build, merging a
// work item patch, de-duplicating task versions) runs entirely under that
// lock and never spans I/O.
//
// Records handed out by the store are deep copies. Callers may modify them
// freely without affecting stored state; the only way to change the store is
// through its methods.
//
// Usage:
//
//	s := store.New(store.DefaultFixtures())
//	build, err := s.QueueBuild(store.BuildRequest{DefinitionID: 1, Project: "TestProject"})
//	build, err = s.GetBuild(build.ID, "TestProject")
//	tasks := s.ListTaskDefinitions(store.TaskFilter{OnlyNewest: true})
//	item, err := s.UpdateWorkItem(1, map[string]any{"System.State": "Active"})
//
//	s.Reset() // restore the seed fixtures
package store
