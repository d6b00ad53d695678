package rag

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client talks to the external PDF/LLM query service over HTTP.
// The service owns ingestion, retrieval and inference; this client only
// forwards questions and consumes the answer plus its metadata.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// QueryRequest is the payload sent to the query endpoint.
type QueryRequest struct {
	Query    string `json:"query"`
	DeviceID string `json:"device_id,omitempty"`
	PDFName  string `json:"pdf_name,omitempty"`
	TopK     int    `json:"top_k,omitempty"`
}

// QueryResult carries the answer and the metadata persisted verbatim
// into chat history.
type QueryResult struct {
	Response        string   `json:"response"`
	QueryType       string   `json:"query_type"`
	PDFName         string   `json:"pdf_name"`
	ChunksUsed      []string `json:"chunks_used"`
	ProcessingTime  string   `json:"processing_time"`
	SQLQuery        string   `json:"sql_query"`
	DatabaseResults string   `json:"database_results"`
	RowCount        *int     `json:"row_count"`
}

// Query sends a question to the external service and returns its answer.
func (c *Client) Query(ctx context.Context, req QueryRequest) (*QueryResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/query", bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rag service error (%d): %s", resp.StatusCode, string(respBody))
	}

	var result QueryResult
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to decode rag response: %w", err)
	}
	return &result, nil
}
