// Package recordapi carries types.RecordStore over HTTP. Client talks to a
// hosted record store; Server exposes any RecordStore with the same wire
// protocol.
//
// Every operation is a POST under {base}/tables/{table}/:
//
//	fetch        body FetchParams   -> Response
//	get/{id}     body FetchParams   -> getResponse (data is one object)
//	create       body WriteParams   -> Response
//	update       body WriteParams   -> Response
//	delete       body DeleteParams  -> Response
//
// Requests carry X-Project-Id, a bearer public key and X-Request-Id.
package recordapi

import (
	"github.com/mesh-intelligence/farmbook/pkg/types"
)

// Header names.
const (
	HeaderProjectID = "X-Project-Id"
	HeaderRequestID = "X-Request-Id"
)

// getResponse is the get-by-id envelope; Data is a single record.
type getResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Data    types.Record `json:"data,omitempty"`
}

func toGetResponse(r *types.Response) getResponse {
	out := getResponse{Success: r.Success, Message: r.Message}
	if len(r.Data) > 0 {
		out.Data = r.Data[0]
	}
	return out
}

func (g getResponse) response() *types.Response {
	resp := &types.Response{Success: g.Success, Message: g.Message}
	if g.Data != nil {
		resp.Data = []types.Record{g.Data}
		resp.Total = 1
	}
	return resp
}
