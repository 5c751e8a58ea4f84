package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

type Response struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	RawData json.RawMessage `json:"data"`

	Data map[string]interface{} `json:"-"`
}

func (r Response) IsSuccess() bool {
	return r.Status == "success"
}

func (r Response) GetString(key string) string {
	if v, ok := r.Data[key].(string); ok {
		return v
	}
	return ""
}

func makeRequest(method, path string, body interface{}, token string) Response {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return Response{Status: "error", Message: fmt.Sprintf("failed to marshal request body: %v", err)}
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, baseURL+path, reqBody)
	if err != nil {
		return Response{Status: "error", Message: fmt.Sprintf("failed to create request: %v", err)}
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return Response{Status: "error", Message: fmt.Sprintf("request failed: %v", err)}
	}
	defer resp.Body.Close()

	var response Response
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return Response{Status: "error", Message: fmt.Sprintf("failed to decode response: %v", err)}
	}

	// Decode the data envelope into a map when it is an object.
	if len(response.RawData) > 0 && response.RawData[0] == '{' {
		_ = json.Unmarshal(response.RawData, &response.Data)
	}
	return response
}

func decodeList(raw json.RawMessage) []map[string]interface{} {
	var items []map[string]interface{}
	_ = json.Unmarshal(raw, &items)
	return items
}
