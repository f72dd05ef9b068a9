// Package server exposes a live renderer over HTTP.
//
// Every mutating endpoint turns into a renderer intent, waits until the
// scheduler has applied it, and answers with the resulting view. Clients
// that want to follow the graph without polling subscribe to GET /events, a
// server-sent event stream that carries a full view after every change.
//
// # Endpoints
//
//	GET    /healthz                 liveness
//	GET    /version                 build information
//	GET    /graph                   current view as JSON
//	GET    /graph/export/{format}   dot, svg, pdf or png
//	DELETE /graph                   remove every node
//	POST   /graph/generate          {"nodes", "min_neighbors", "max_neighbors", "seed"}
//	POST   /graph/reset             reseed positions
//	POST   /graph/color             {"colorer": "fast" | "rlf" | "rsf"}
//	POST   /nodes                   {"x", "y"}
//	DELETE /nodes/{id}
//	POST   /nodes/{id}/drag         {"x", "y"}
//	POST   /nodes/{id}/release
//	POST   /edges                   {"from", "to"}
//	DELETE /edges/{from}/{to}
//	PUT    /selection               {"node"}
//	DELETE /selection
//	PUT    /canvas                  {"width", "height"}
//	PUT    /simulation              {"enabled"}
//	GET    /events                  text/event-stream of views
package server
