package httpkit

import (
	"net/http"

	phttp "storefront/internal/platform/net/http"
	"storefront/internal/platform/net/http/bind"
	"storefront/internal/platform/net/middleware"
)

// GetJSON mounts a body-less JSON handler under GET
func GetJSON(r Router, path string, h func(*http.Request) (any, error)) {
	r.Get(path, phttp.JSONHandlerNoBody(h))
}

// PostJSON mounts a JSON handler under POST, decoding and validating T
func PostJSON[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	r.Post(path, phttp.JSONHandler(h))
}

// PostJSONCreated is PostJSON answering 201
func PostJSONCreated[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	r.Post(path, phttp.JSONHandlerCreated(h))
}

// PutJSON mounts a JSON handler under PUT
func PutJSON[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	r.Put(path, phttp.JSONHandler(h))
}

// Delete mounts a body-less JSON handler under DELETE
func Delete(r Router, path string, h func(*http.Request) (any, error)) {
	r.Delete(path, phttp.JSONHandlerNoBody(h))
}

// BindParsed binds T from the body the forgery guard already consumed
// Without a guard (dev mode, safe methods) it falls back to decoding the JSON body
func BindParsed[T any](r *http.Request) (T, error) {
	if body := middleware.ParsedBody(r.Context()); body != nil {
		return bind.FromMap[T](body)
	}
	return bind.ParseJSON[T](r, bind.JSONOptions{MaxBytes: 1 << 20, DisallowUnknown: false})
}

// PostParsedCreated is PostJSONCreated for routes behind the forgery guard
func PostParsedCreated[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	r.Post(path, phttp.Handle(func(req *http.Request) phttp.Response {
		in, err := BindParsed[T](req)
		if err != nil {
			return phttp.Error(err)
		}
		out, err := h(req, in)
		if err != nil {
			return phttp.Error(err)
		}
		return phttp.Created(out)
	}))
}
