package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"golang.org/x/oauth2/google"
)

const defaultBaseURL = "https://sheets.googleapis.com/v4/spreadsheets"

const spreadsheetScope = "https://www.googleapis.com/auth/spreadsheets"

// Client talks to the Google Sheets values API for one spreadsheet.
type Client struct {
	spreadsheetID string
	baseURL       string
	client        *http.Client
}

// NewClient builds a client authorized by a service-account key file. The
// service account must have edit access to the spreadsheet.
func NewClient(ctx context.Context, spreadsheetID, credentialsFile string) (*Client, error) {
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}

	conf, err := google.JWTConfigFromJSON(data, spreadsheetScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse service account credentials: %w", err)
	}

	httpClient := conf.Client(ctx)
	httpClient.Timeout = 30 * time.Second

	return &Client{
		spreadsheetID: spreadsheetID,
		baseURL:       defaultBaseURL,
		client:        httpClient,
	}, nil
}

// NewClientWithHTTP wires an explicit transport and endpoint, used by tests.
func NewClientWithHTTP(spreadsheetID, baseURL string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		spreadsheetID: spreadsheetID,
		baseURL:       baseURL,
		client:        httpClient,
	}
}

// ValueRange mirrors the values API payload.
type ValueRange struct {
	Range          string          `json:"range,omitempty"`
	MajorDimension string          `json:"majorDimension,omitempty"`
	Values         [][]interface{} `json:"values,omitempty"`
}

type appendResponse struct {
	Updates struct {
		UpdatedRange string `json:"updatedRange"`
	} `json:"updates"`
}

type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, body, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	fullURL := fmt.Sprintf("%s/%s/%s", c.baseURL, c.spreadsheetID, path)
	req, err := http.NewRequestWithContext(ctx, method, fullURL, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if json.Unmarshal(bodyBytes, &apiErr) == nil && apiErr.Error.Message != "" {
			return fmt.Errorf("sheets api error (code %d): %s", apiErr.Error.Code, apiErr.Error.Message)
		}
		return fmt.Errorf("sheets api error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	if result != nil {
		if err := json.Unmarshal(bodyBytes, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// Read fetches the values in an A1 range.
func (c *Client) Read(ctx context.Context, readRange string) (*ValueRange, error) {
	var vr ValueRange
	path := fmt.Sprintf("values/%s", url.PathEscape(readRange))
	if err := c.do(ctx, "GET", path, nil, &vr); err != nil {
		return nil, err
	}
	return &vr, nil
}

// Append adds one row after the last data row of the range's table and
// returns the A1 range the row landed in.
func (c *Client) Append(ctx context.Context, writeRange string, row []interface{}) (string, error) {
	var resp appendResponse
	path := fmt.Sprintf("values/%s:append?valueInputOption=RAW&insertDataOption=INSERT_ROWS", url.PathEscape(writeRange))
	body := ValueRange{Values: [][]interface{}{row}}
	if err := c.do(ctx, "POST", path, body, &resp); err != nil {
		return "", err
	}
	return resp.Updates.UpdatedRange, nil
}

// Update overwrites the values in an A1 range with one row.
func (c *Client) Update(ctx context.Context, writeRange string, row []interface{}) error {
	path := fmt.Sprintf("values/%s?valueInputOption=RAW", url.PathEscape(writeRange))
	body := ValueRange{Values: [][]interface{}{row}}
	return c.do(ctx, "PUT", path, body, nil)
}

// Clear blanks the cells in an A1 range. Rows are never physically removed;
// readers skip blank rows.
func (c *Client) Clear(ctx context.Context, clearRange string) error {
	path := fmt.Sprintf("values/%s:clear", url.PathEscape(clearRange))
	return c.do(ctx, "POST", path, struct{}{}, nil)
}
