// Copyright (c) 2025, WSO2 LLC. (https://www.wso2.com).
//
// WSO2 LLC. licenses this file to you under the Apache License,
// Version 2.0 (the "License"); you may not use this file except
// in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package requests

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"

	"github.com/google/uuid"
)

const (
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"
	HeaderAccept        = "Accept"
	HeaderRequestID     = "X-Request-ID"

	ContentTypeJSON = "application/json"
)

// HttpRequest describes an outbound request. The body is kept as bytes so the
// same request can be rebuilt and sent again, e.g. after a credential refresh.
type HttpRequest struct {
	// Name identifies the request in logs, e.g. "courseapi.getCurrentUser"
	Name   string
	URL    string
	Method string
	// Headers supplied by the caller. They take precedence over defaults.
	Headers map[string]string
	Query   url.Values

	body        []byte
	contentType string
	requestID   string
}

// FilePart is a file attached to a multipart body.
type FilePart struct {
	FieldName   string
	FileName    string
	ContentType string
	Content     []byte
}

// SetHeader sets a caller header, overriding any default with the same name.
func (r *HttpRequest) SetHeader(key, value string) *HttpRequest {
	if r.Headers == nil {
		r.Headers = make(map[string]string)
	}
	r.Headers[key] = value
	return r
}

// SetJSON marshals body as the JSON request payload.
func (r *HttpRequest) SetJSON(body any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}
	r.body = data
	r.contentType = ContentTypeJSON
	return nil
}

// SetRawBody sets an already encoded payload.
func (r *HttpRequest) SetRawBody(body []byte, contentType string) {
	r.body = body
	r.contentType = contentType
}

// SetMultipart encodes fields and files as a multipart/form-data payload.
// A field whose value is valid JSON is written with an application/json part type.
func (r *HttpRequest) SetMultipart(fields map[string]string, files []FilePart) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for name, value := range fields {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"`, name))
		if json.Valid([]byte(value)) {
			h.Set(HeaderContentType, ContentTypeJSON)
		}
		part, err := w.CreatePart(h)
		if err != nil {
			return fmt.Errorf("failed to create multipart field %q: %w", name, err)
		}
		if _, err := part.Write([]byte(value)); err != nil {
			return fmt.Errorf("failed to write multipart field %q: %w", name, err)
		}
	}
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, f.FieldName, f.FileName))
		contentType := f.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		h.Set(HeaderContentType, contentType)
		part, err := w.CreatePart(h)
		if err != nil {
			return fmt.Errorf("failed to create multipart file %q: %w", f.FieldName, err)
		}
		if _, err := part.Write(f.Content); err != nil {
			return fmt.Errorf("failed to write multipart file %q: %w", f.FieldName, err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close multipart writer: %w", err)
	}
	r.body = buf.Bytes()
	r.contentType = w.FormDataContentType()
	return nil
}

// RequestID returns the correlation id sent as X-Request-ID. It is assigned on
// the first build and reused by every rebuild of the same request.
func (r *HttpRequest) RequestID() string {
	if r.requestID == "" {
		r.requestID = uuid.NewString()
	}
	return r.requestID
}

// buildHttpRequest creates a fresh *http.Request. Defaults are applied first so
// caller headers win.
func (r *HttpRequest) buildHttpRequest(ctx context.Context) (*http.Request, error) {
	target, err := url.Parse(r.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid url %q: %w", r.URL, err)
	}
	if len(r.Query) > 0 {
		q := target.Query()
		for k, vs := range r.Query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		target.RawQuery = q.Encode()
	}

	method := r.Method
	if method == "" {
		method = http.MethodGet
	}

	var body *bytes.Reader
	if r.body != nil {
		body = bytes.NewReader(r.body)
	}
	var httpReq *http.Request
	if body != nil {
		httpReq, err = http.NewRequestWithContext(ctx, method, target.String(), body)
	} else {
		httpReq, err = http.NewRequestWithContext(ctx, method, target.String(), nil)
	}
	if err != nil {
		return nil, err
	}

	httpReq.Header.Set(HeaderAccept, ContentTypeJSON)
	httpReq.Header.Set(HeaderRequestID, r.RequestID())
	if r.contentType != "" {
		httpReq.Header.Set(HeaderContentType, r.contentType)
	}
	for k, v := range r.Headers {
		httpReq.Header.Set(k, v)
	}
	return httpReq, nil
}
