package jsonrpc

import (
	"net/http"
	"strings"

	"github.com/gorilla/rpc/v2"
	"github.com/gorilla/rpc/v2/json2"
)

// NewCodec returns a json2 codec that accepts lower camel case method names
// such as "dao.castVote".
func NewCodec() rpc.Codec {
	return lowercase{json2.NewCodec()}
}

type lowercase struct {
	*json2.Codec
}

func (l lowercase) NewRequest(r *http.Request) rpc.CodecRequest {
	return &lowercaseRequest{l.Codec.NewRequest(r)}
}

type lowercaseRequest struct {
	rpc.CodecRequest
}

func (r *lowercaseRequest) Method() (string, error) {
	method, err := r.CodecRequest.Method()
	if err != nil {
		return "", err
	}
	service, name, ok := strings.Cut(method, ".")
	if !ok || name == "" {
		return method, nil
	}
	return service + "." + strings.ToUpper(name[:1]) + name[1:], nil
}
