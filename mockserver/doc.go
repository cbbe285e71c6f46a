// Package mockserver runs a small local HTTP API to point the getman client at.
//
// Unmocked requests are echoed:
//
//	GET  /anything?x=1  -> 200 {"message":"Mock GET request received","params":{"x":"1"}}
//	POST /anything {..} -> 200 {"message":"Mock POST request received","data":{..}}
//	PUT  /anything      -> 400 Invalid request method
//
// Routes registered in the Store override the echo for their method and path:
//
//	server := mockserver.New()
//	server.Store().Add(http.MethodDelete, "/users/1", mockserver.Mock{Status: http.StatusNoContent})
//
// Request counts by method, status and source are served on GET /metrics.
package mockserver
