package esutil

import (
	"bytes"
	"io/ioutil"
	"net/http"
)

// MockEsTransport captures the requests handed to it, including their bodies,
// and answers each one with an empty response carrying StatusCode (200 when unset)
type MockEsTransport struct {
	ReceivedHttpRequests []*http.Request
	ReceivedBodies       []string
	StatusCode           int
}

func (m *MockEsTransport) Perform(req *http.Request) (*http.Response, error) {
	m.ReceivedHttpRequests = append(m.ReceivedHttpRequests, req)

	body := ""
	if req.Body != nil {
		b, err := ioutil.ReadAll(req.Body)
		if err != nil {
			return nil, err
		}
		body = string(b)
	}
	m.ReceivedBodies = append(m.ReceivedBodies, body)

	statusCode := m.StatusCode
	if statusCode == 0 {
		statusCode = http.StatusOK
	}

	return &http.Response{
		StatusCode: statusCode,
		Header:     http.Header{},
		Body:       ioutil.NopCloser(bytes.NewBufferString("{}")),
	}, nil
}
