// Package inspect implements a JSON-RPC 2.0 inspection server exposing a
// live render context: the committed tree, render identities, model values,
// and a forced-update trigger. It is a development tool, in the spirit of
// the devtools of browser UI frameworks.
//
// Methods:
//
//	tree/list            -> {refIds: [...]}
//	tree/get    {refId}  -> {sketch}
//	model/list  {root}   -> {models: {...}}
//	render/force {refId} -> {}
package inspect

import (
	"context"
	"encoding/json"
	"net"
	"sync"

	"github.com/sourcegraph/jsonrpc2"

	"github.com/saplingui/sapling/pkg/logutil"
	"github.com/saplingui/sapling/pkg/render"
	"github.com/saplingui/sapling/pkg/vals"
	"github.com/saplingui/sapling/pkg/vtree"
)

var logger = logutil.GetLogger("[inspect] ")

var (
	errMethodNotFound = &jsonrpc2.Error{
		Code: jsonrpc2.CodeMethodNotFound, Message: "method not found"}
	errInvalidParams = &jsonrpc2.Error{
		Code: jsonrpc2.CodeInvalidParams, Message: "invalid params"}
)

// Server exposes one render context. The mutex must be the same one the
// host holds while rendering; the engine itself is single-threaded.
type Server struct {
	mu  *sync.Mutex
	ctx *render.Ctx
}

// NewServer creates a server for a context guarded by mu.
func NewServer(mu *sync.Mutex, ctx *render.Ctx) *Server {
	return &Server{mu: mu, ctx: ctx}
}

// Serve accepts connections until the listener is closed.
func (s *Server) Serve(lis net.Listener) {
	for {
		conn, err := lis.Accept()
		if err != nil {
			logger.Println("accept:", err)
			return
		}
		stream := jsonrpc2.NewBufferedStream(conn, jsonrpc2.VSCodeObjectCodec{})
		jsonrpc2.NewConn(context.Background(), stream, s.handler())
	}
}

type method func(json.RawMessage) (any, error)

func (s *Server) handler() jsonrpc2.Handler {
	methods := map[string]method{
		"tree/list":    s.treeList,
		"tree/get":     s.treeGet,
		"model/list":   s.modelList,
		"render/force": s.renderForce,
	}
	return jsonrpc2.HandlerWithError(func(_ context.Context, _ *jsonrpc2.Conn, req *jsonrpc2.Request) (any, error) {
		fn, ok := methods[req.Method]
		if !ok {
			return nil, errMethodNotFound
		}
		var params json.RawMessage
		if req.Params != nil {
			params = *req.Params
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		return fn(params)
	})
}

type refIDParams struct {
	RefID string `json:"refId"`
}

type rootParams struct {
	Root string `json:"root"`
}

func (s *Server) treeList(json.RawMessage) (any, error) {
	return map[string]any{"refIds": s.ctx.RefIDs()}, nil
}

func (s *Server) treeGet(raw json.RawMessage) (any, error) {
	var params refIDParams
	if json.Unmarshal(raw, &params) != nil || params.RefID == "" {
		return nil, errInvalidParams
	}
	v := s.ctx.Value(params.RefID)
	if v == nil {
		return nil, &jsonrpc2.Error{
			Code: jsonrpc2.CodeInvalidRequest, Message: "no value at refId"}
	}
	return map[string]any{"sketch": sketchValue(v)}, nil
}

func (s *Server) modelList(raw json.RawMessage) (any, error) {
	var params rootParams
	if json.Unmarshal(raw, &params) != nil || params.Root == "" {
		return nil, errInvalidParams
	}
	reg := s.ctx.Registry(params.Root)
	models := map[string]any{}
	if reg != nil {
		for _, name := range reg.Names() {
			models[name] = describeValue(reg.Lookup(name).Get())
		}
	}
	return map[string]any{"models": models}, nil
}

func (s *Server) renderForce(raw json.RawMessage) (any, error) {
	var params refIDParams
	if json.Unmarshal(raw, &params) != nil || params.RefID == "" {
		return nil, errInvalidParams
	}
	if err := s.ctx.ForceUpdate(params.RefID); err != nil {
		return nil, &jsonrpc2.Error{
			Code: jsonrpc2.CodeInternalError, Message: err.Error()}
	}
	return map[string]any{}, nil
}

func sketchValue(v any) string {
	switch v := v.(type) {
	case vtree.Node:
		return vtree.Sketch(v)
	case []any:
		out := ""
		for _, elem := range v {
			out += sketchValue(elem)
		}
		return out
	default:
		return vals.ToString(v)
	}
}

// describeValue converts a model value to something JSON-encodable.
func describeValue(v any) any {
	switch v := v.(type) {
	case nil, bool, int, float64, string:
		return v
	case vals.List:
		out := []any{}
		for it := v.Iterator(); it.HasElem(); it.Next() {
			out = append(out, describeValue(it.Elem()))
		}
		return out
	case vals.Map:
		out := map[string]any{}
		for it := v.Iterator(); it.HasElem(); it.Next() {
			k, val := it.Elem()
			out[vals.ToString(k)] = describeValue(val)
		}
		return out
	default:
		return vals.ToString(v)
	}
}
