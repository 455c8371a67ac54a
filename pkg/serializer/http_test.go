// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package serializer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cnserrors "github.com/cloudherder/cloudherder/pkg/errors"
)

func TestRespondJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondJSON(rec, http.StatusCreated, map[string]string{"query": "a < b && c"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "{\"query\":\"a < b && c\"}\n", rec.Body.String())
}

func TestRespondJSONEncodingFailure(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondJSON(rec, http.StatusOK, map[string]any{"bad": make(chan int)})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHttpReader(t *testing.T) {
	var gotAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		switch r.URL.Path {
		case "/ok":
			_, _ = w.Write([]byte("payload"))
		case "/missing":
			http.NotFound(w, r)
		default:
			w.WriteHeader(http.StatusBadGateway)
		}
	}))
	defer srv.Close()

	r := NewHttpReader(WithUserAgent("herder-test"), WithTotalTimeout(5*time.Second))

	data, err := r.Read(srv.URL + "/ok")
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
	assert.Equal(t, "herder-test", gotAgent)

	_, err = r.Read(srv.URL + "/missing")
	assert.True(t, cnserrors.IsCode(err, cnserrors.ErrCodeNotFound))

	_, err = r.Read(srv.URL + "/broken")
	assert.True(t, cnserrors.IsCode(err, cnserrors.ErrCodeUnavailable))
}

func TestHttpReaderErrors(t *testing.T) {
	r := NewHttpReader()

	_, err := r.Read("")
	assert.True(t, cnserrors.IsCode(err, cnserrors.ErrCodeInvalidRequest))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.ReadWithContext(ctx, "http://127.0.0.1:1/doc.json")
	assert.True(t, cnserrors.IsCode(err, cnserrors.ErrCodeUnavailable))

	nilClient := &HttpReader{}
	_, err = nilClient.Read("http://example.com")
	assert.Error(t, err)
}

func TestWithClient(t *testing.T) {
	c := &http.Client{Timeout: time.Second}
	r := NewHttpReader(WithClient(c), WithClient(nil))
	assert.Same(t, c, r.Client)
}
