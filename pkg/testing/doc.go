// Package testing runs a tfxmock server inside Go tests.
//
// NewServer starts a server on an ephemeral loopback port and stops it when
// the test finishes:
//
//	func TestQueueBuild(t *testing.T) {
//	    srv := tfxtest.NewServer(t)
//
//	    client := newClient(srv.CollectionURL(), "user", "token")
//	    if err := client.QueueBuild("TestProject", 1); err != nil {
//	        t.Fatal(err)
//	    }
//
//	    srv.AssertCalled(t, "POST", "/_apis/build/builds")
//	}
//
// # Seed Data
//
// Servers start from the built-in fixtures unless WithFixtures is given. The
// fixture builder assembles custom seed data:
//
//	f := tfxtest.NewFixtures().
//	    Project("Payments").
//	    Definition(7, "Payments CI").
//	    Task("4f1b...", "Deploy", "2.1.0").
//	    Build()
//	srv := tfxtest.NewServer(t, tfxtest.WithFixtures(f))
//
// # Request Assertions
//
// Every exchange with a /_apis route is recorded. Requests returns them
// newest first, and the Assert helpers check calls by method and path.
// Paths are matched without the collection and project scope, and {name}
// segments match any value:
//
//	srv.AssertCalledTimes(t, "PATCH", "/_apis/wit/workitems/{id}", 2)
//	reqs := srv.Requests()
//	reqs[0].AssertJSONField(t, "definition.id", float64(1))
package testing
