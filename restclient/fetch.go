package restclient

import (
	"context"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/nrfta/listview-go"
)

// Endpoint describes one list endpoint.
type Endpoint struct {
	// Path is appended to the client's base URL.
	Path string

	// Shape is the response shape the endpoint returns.
	Shape listview.Shape

	// ItemsKey is the envelope field holding the rows. Defaults to "items".
	ItemsKey string

	// UnsupportedFilters are optional filters older backend versions reject
	// with 400. A rejected request carrying any of them is retried once
	// without them.
	UnsupportedFilters []string
}

// NewFetchFunc binds client to endpoint. The request is sent as query
// parameters (limit, offset and every active filter) and the body is decoded
// in the endpoint's declared shape. An undecodable body yields a malformed
// response, never an error.
func NewFetchFunc[T any](client *Client, endpoint Endpoint) listview.FetchFunc[T] {
	return func(ctx context.Context, req listview.ListRequest) (listview.Response[T], error) {
		body, err := client.Get(ctx, endpoint.Path, req.Query())
		if err != nil && retryable(err, req, endpoint) {
			fallback := req.Without(endpoint.UnsupportedFilters...)
			client.logger.Info("retrying list request without unsupported filters",
				zap.String("path", endpoint.Path),
				zap.Strings("dropped", presentFilters(req, endpoint)),
			)
			body, err = client.Get(ctx, endpoint.Path, fallback.Query())
		}
		if err != nil {
			return listview.Response[T]{}, err
		}

		raw := listview.Decode[T](endpoint.Shape, endpoint.ItemsKey, body)
		if raw.IsMalformed() {
			client.logger.Warn("list response could not be decoded",
				zap.String("path", endpoint.Path),
				zap.Stringer("shape", endpoint.Shape),
				zap.Error(raw.Err()),
			)
		}
		return raw, nil
	}
}

// retryable reports whether err is a 400 on a request carrying an
// unsupported filter.
func retryable(err error, req listview.ListRequest, endpoint Endpoint) bool {
	rejected, ok := listview.AsFetchRejected(err)
	if !ok || !rejected.IsBadRequest() {
		return false
	}
	return len(presentFilters(req, endpoint)) > 0
}

func presentFilters(req listview.ListRequest, endpoint Endpoint) []string {
	active := req.Filters.Active()
	return lo.Filter(endpoint.UnsupportedFilters, func(name string, _ int) bool {
		_, ok := active[name]
		return ok
	})
}
