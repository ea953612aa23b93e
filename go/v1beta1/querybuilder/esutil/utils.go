// Copyright 2021 The Rode Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package esutil

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/elastic/go-elasticsearch/v7/esapi"
)

func EncodeRequest(body interface{}) (io.Reader, string) {
	b, err := json.Marshal(body)
	if err != nil {
		// we should know that `body` is a serializable struct before invoking `EncodeRequest`
		panic(err)
	}

	return bytes.NewReader(b), string(b)
}

// NewSearchRequest wraps a compiled body in an esapi request. Executing it is left to the caller.
func NewSearchRequest(index string, body *SearchRequest) *esapi.SearchRequest {
	encodedBody, _ := EncodeRequest(body)
	request := &esapi.SearchRequest{
		Body: encodedBody,
	}
	if index != "" {
		request.Index = []string{index}
	}

	return request
}
