// Copyright 2024 The Erigon Authors
// This file is part of Erigon.
//
// Erigon is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Erigon is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with Erigon. If not, see <http://www.gnu.org/licenses/>.

package evmapi

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	jsoniter "github.com/json-iterator/go"

	"github.com/erigontech/evmutils/rlp"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Request names a method and carries its positional parameters as a JSON array.
type Request struct {
	Method string              `json:"method"`
	Params jsoniter.RawMessage `json:"params,omitempty"`
}

// Response holds either the JSON encoded result or an error text of the form
// "<kind>: <message>". It marshals to {"Ok":..} or {"Err":".."}.
type Response struct {
	Ok  jsoniter.RawMessage
	Err string
}

func (r Response) MarshalJSON() ([]byte, error) {
	if r.Err != "" {
		return json.Marshal(map[string]string{"Err": r.Err})
	}
	ok := r.Ok
	if len(ok) == 0 {
		ok = jsoniter.RawMessage("null")
	}
	return json.Marshal(map[string]jsoniter.RawMessage{"Ok": ok})
}

func (r *Response) UnmarshalJSON(input []byte) error {
	var fields struct {
		Ok  jsoniter.RawMessage
		Err *string
	}
	if err := json.Unmarshal(input, &fields); err != nil {
		return err
	}
	r.Ok, r.Err = fields.Ok, ""
	if fields.Err != nil {
		r.Ok, r.Err = nil, *fields.Err
	}
	return nil
}

type handler func(api *API, params jsoniter.RawMessage) (any, error)

var handlers = map[string]handler{
	"rlp_encode": func(api *API, params jsoniter.RawMessage) (any, error) {
		var item rlp.Item
		if err := decodeParams(params, &item); err != nil {
			return nil, err
		}
		return api.RlpEncode(item)
	},
	"rlp_decode": bytesHandler(func(api *API, b hexutil.Bytes) (any, error) {
		return api.RlpDecode(b)
	}),
	"create_transaction": func(api *API, params jsoniter.RawMessage) (any, error) {
		var tx TransactionJSON
		if err := decodeParams(params, &tx); err != nil {
			return nil, err
		}
		return api.CreateTransaction(tx)
	},
	"encode_signed_transaction": func(api *API, params jsoniter.RawMessage) (any, error) {
		var tx TransactionJSON
		if err := decodeParams(params, &tx); err != nil {
			return nil, err
		}
		return api.EncodeSignedTransaction(tx)
	},
	"parse_transaction": bytesHandler(func(api *API, b hexutil.Bytes) (any, error) {
		return api.ParseTransaction(b)
	}),
	"keccak256": bytesHandler(func(api *API, b hexutil.Bytes) (any, error) {
		return api.Keccak256(b)
	}),
	"recover_public_key": func(api *API, params jsoniter.RawMessage) (any, error) {
		var hash, sig hexutil.Bytes
		if err := decodeParams(params, &hash, &sig); err != nil {
			return nil, err
		}
		return api.RecoverPublicKey(hash, sig)
	},
	"pub_to_address": bytesHandler(func(api *API, b hexutil.Bytes) (any, error) {
		return api.PubToAddress(b)
	}),
	"is_valid_public": bytesHandler(func(api *API, b hexutil.Bytes) (any, error) {
		return nil, api.IsValidPublic(b)
	}),
	"is_valid_signature": bytesHandler(func(api *API, b hexutil.Bytes) (any, error) {
		return nil, api.IsValidSignature(b)
	}),
	"verify_proof": proofHandler((*API).VerifyProof),
	"verify_storage_proof": proofHandler((*API).VerifyStorageProof),
}

func bytesHandler(fn func(api *API, b hexutil.Bytes) (any, error)) handler {
	return func(api *API, params jsoniter.RawMessage) (any, error) {
		var b hexutil.Bytes
		if err := decodeParams(params, &b); err != nil {
			return nil, err
		}
		return fn(api, b)
	}
}

func proofHandler(fn func(api *API, root, key hexutil.Bytes, proof []hexutil.Bytes) (*hexutil.Bytes, error)) handler {
	return func(api *API, params jsoniter.RawMessage) (any, error) {
		var (
			root, key hexutil.Bytes
			proof     []hexutil.Bytes
		)
		if err := decodeParams(params, &root, &key, &proof); err != nil {
			return nil, err
		}
		return fn(api, root, key, proof)
	}
}

// decodeParams unmarshals the positional parameter array into out.
func decodeParams(raw jsoniter.RawMessage, out ...any) error {
	var params []jsoniter.RawMessage
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &params); err != nil {
			return fmt.Errorf("%w: params must be a JSON array: %v", ErrInvalidRequest, err)
		}
	}
	if len(params) != len(out) {
		return fmt.Errorf("%w: expected %d params, got %d", ErrInvalidRequest, len(out), len(params))
	}
	for i, p := range params {
		if err := json.Unmarshal(p, out[i]); err != nil {
			return fmt.Errorf("%w: param %d: %v", ErrInvalidRequest, i, err)
		}
	}
	return nil
}

// Methods returns the names Execute dispatches on, sorted.
func Methods() []string {
	names := make([]string, 0, len(handlers))
	for name := range handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Call runs one method and returns its raw result.
func (api *API) Call(method string, params jsoniter.RawMessage) (any, error) {
	h, ok := handlers[method]
	if !ok {
		return nil, fmt.Errorf("%w: unknown method %q", ErrInvalidRequest, method)
	}
	return h(api, params)
}

// Execute runs req and wraps the outcome into a Response. Failures never escape
// as Go errors; they are reported in Response.Err.
func (api *API) Execute(ctx context.Context, req Request) Response {
	start := time.Now()
	label := req.Method
	if _, ok := handlers[label]; !ok {
		label = "unknown"
	}

	result, err := api.Call(req.Method, req.Params)
	var ok jsoniter.RawMessage
	if err == nil {
		ok, err = json.Marshal(result)
	}

	logger := api.logger
	if id := RequestIDFromContext(ctx); id != "" {
		logger = logger.New("reqid", id)
	}
	if api.metrics != nil {
		api.metrics.Calls(label).Inc()
		api.metrics.Duration(label).ObserveDuration(start)
	}
	if err != nil {
		kind := ErrorKind(err)
		if api.metrics != nil {
			api.metrics.Errors(label, kind).Inc()
		}
		logger.Warn("[evmapi] call failed", "method", req.Method, "kind", kind, "err", err, "duration", time.Since(start))
		return Response{Err: errorText(err)}
	}
	logger.Debug("[evmapi] call", "method", req.Method, "duration", time.Since(start))
	return Response{Ok: ok}
}
