// Package client provides a Go client for the AppFigures REST API.
//
// The client issues authenticated GET requests and keeps the outcome of the
// most recent one: the route, the query options, the parsed group_by
// dimensions, the decoded body, and a status code inferred from that body.
// Each call to Get replaces all of it, so the client suits ETL-style scripts
// that make one request, read the result, and move on.
//
// # Quick Start
//
// Create a client and fetch a sales report grouped by date and product:
//
//	c, err := client.New(client.Credentials{
//	    ClientKey: os.Getenv("APPFIGURES_CLIENT_KEY"),
//	    AuthToken: os.Getenv("APPFIGURES_AUTH_TOKEN"),
//	})
//	if err != nil {
//	    return err
//	}
//
//	_, err = c.Get(ctx, "/reports/sales", client.Options{
//	    "group_by":   "dates,products",
//	    "start_date": "2015-03-01",
//	    "end_date":   "2015-03-01",
//	})
//
// # Reading the Response
//
// Accessors always describe the last request:
//
//	status, _ := c.Status()   // 200 unless the body carries a "status" field
//	raw, _ := c.AsObject()    // decoded body, object key order preserved
//	text, _ := c.AsJSON()     // body re-encoded as JSON
//	flat, _ := c.Flatten()    // []flatten.Record when group_by was set
//
// The API reports errors inside the body (for example
// {"status": 404, "error": "not found"}), so check Status before calling
// Flatten; flattening an errored response fails with an *InvalidStateError.
//
// # Group By
//
// The reserved "group_by" option lists dimensions separated by commas. The
// API nests its response one level per dimension, in that order. Without
// group_by, Flatten returns the body unchanged.
//
// # Concurrency
//
// A Client is not safe for concurrent use. Share one between goroutines only
// behind a lock that covers both Get and the reads that follow it.
package client
