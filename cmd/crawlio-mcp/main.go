package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// crawlRequest mirrors the Crawlio API request model.
type crawlRequest struct {
	URL     string       `json:"url"`
	Options crawlOptions `json:"options"`
}

// batchRequest mirrors the Crawlio batch API request model.
type batchRequest struct {
	URLs        []string     `json:"urls"`
	Options     crawlOptions `json:"options"`
	Concurrency int          `json:"concurrency,omitempty"`
}

// crawlOptions mirrors the subset of crawl options the MCP tools expose.
type crawlOptions struct {
	ExtractText     bool   `json:"extractText"`
	ExtractLinks    bool   `json:"extractLinks,omitempty"`
	ExtractMeta     bool   `json:"extractMeta,omitempty"`
	ExtractMarkdown bool   `json:"extractMarkdown,omitempty"`
	WaitUntil       string `json:"waitUntil,omitempty"`
	WaitForSelector string `json:"waitForSelector,omitempty"`
	Timeout         int    `json:"timeout,omitempty"`
}

// crawlResponse mirrors the Crawlio API result envelope.
type crawlResponse struct {
	Success bool   `json:"success"`
	URL     string `json:"url"`
	Data    *struct {
		Text     string `json:"text"`
		Markdown string `json:"markdown"`
		Links    []struct {
			Text string `json:"text"`
			Href string `json:"href"`
		} `json:"links"`
		Chunks []struct {
			Text  string `json:"text"`
			Start int    `json:"start"`
			End   int    `json:"end"`
		} `json:"chunks"`
	} `json:"data"`
	Metadata *struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		FinalURL    string `json:"finalUrl"`
		StatusCode  int    `json:"statusCode"`
	} `json:"metadata"`
	// The failure envelope carries error as a plain string
	// (the {code,message} object only appears in 400 bind-error bodies).
	Error string `json:"error"`
}

// batchResponse mirrors the Crawlio batch API response.
type batchResponse struct {
	Success bool              `json:"success"`
	Total   int               `json:"total"`
	Results []json.RawMessage `json:"results"`
}

func main() {
	apiURL := os.Getenv("CRAWLIO_API_URL")
	if apiURL == "" {
		apiURL = "http://127.0.0.1:3002"
	}
	apiKey := os.Getenv("CRAWLIO_API_KEY")

	s := server.NewMCPServer(
		"crawlio",
		"0.1.0",
		server.WithToolCapabilities(false),
	)

	crawlURLTool := mcp.NewTool("crawl_url",
		mcp.WithDescription("Crawl a web page with a headless browser and return its extracted text content, links and metadata. Renders JavaScript-heavy pages before extraction."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("The URL of the web page to crawl"),
		),
		mcp.WithString("format",
			mcp.Description("Content format: 'text' (default, normalized plain text) or 'markdown'"),
			mcp.Enum("text", "markdown"),
		),
		mcp.WithString("wait_until",
			mcp.Description("Navigation wait condition: 'load' (default), 'domcontentloaded', or 'networkidle'"),
			mcp.Enum("load", "domcontentloaded", "networkidle"),
		),
		mcp.WithString("wait_for_selector",
			mcp.Description("CSS selector to wait for before extracting content"),
		),
		mcp.WithBoolean("include_links",
			mcp.Description("Include hyperlinks found on the page (default: false)"),
		),
	)
	s.AddTool(crawlURLTool, handleCrawlURL(apiURL, apiKey))

	crawlBatchTool := mcp.NewTool("crawl_batch",
		mcp.WithDescription("Crawl multiple URLs and return extracted content for each. Failures on individual URLs do not abort the rest of the batch."),
		mcp.WithArray("urls",
			mcp.Required(),
			mcp.Description("List of URLs to crawl"),
		),
		mcp.WithString("format",
			mcp.Description("Content format: 'text' (default) or 'markdown'"),
			mcp.Enum("text", "markdown"),
		),
		mcp.WithNumber("concurrency",
			mcp.Description("Number of URLs crawled in parallel (default: 3, max: 20)"),
		),
	)
	s.AddTool(crawlBatchTool, handleCrawlBatch(apiURL, apiKey))

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

// apiPost sends a POST request to the Crawlio API and returns the response body.
func apiPost(ctx context.Context, client *http.Client, apiURL, apiKey, path string, payload interface{}) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}

func optionsFromFormat(format string) crawlOptions {
	opts := crawlOptions{ExtractText: true, ExtractMeta: true}
	if format == "markdown" {
		opts.ExtractMarkdown = true
	}
	return opts
}

// formatEnvelope renders one crawl result envelope as readable text.
func formatEnvelope(resp *crawlResponse, includeLinks bool) string {
	var sb strings.Builder

	if resp.Metadata != nil {
		sb.WriteString(fmt.Sprintf("Title: %s\nSource: %s\n\n", resp.Metadata.Title, resp.Metadata.FinalURL))
	}

	if resp.Data != nil {
		if resp.Data.Markdown != "" {
			sb.WriteString(resp.Data.Markdown)
		} else {
			sb.WriteString(resp.Data.Text)
		}

		if includeLinks && len(resp.Data.Links) > 0 {
			sb.WriteString("\n\n---\nLinks:\n")
			for _, l := range resp.Data.Links {
				sb.WriteString(fmt.Sprintf("- %s (%s)\n", l.Text, l.Href))
			}
		}
	}

	return sb.String()
}

func handleCrawlURL(apiURL, apiKey string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 180 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		url, err := request.RequireString("url")
		if err != nil {
			return mcp.NewToolResultError("url is required"), nil
		}

		opts := optionsFromFormat(request.GetString("format", ""))
		opts.WaitUntil = request.GetString("wait_until", "")
		opts.WaitForSelector = request.GetString("wait_for_selector", "")
		includeLinks := request.GetBool("include_links", false)
		opts.ExtractLinks = includeLinks

		respBody, err := apiPost(ctx, client, apiURL, apiKey, "/api/crawl/url", crawlRequest{
			URL:     url,
			Options: opts,
		})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("crawl request failed: %v", err)), nil
		}

		var crawlResp crawlResponse
		if err := json.Unmarshal(respBody, &crawlResp); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse response: %v", err)), nil
		}

		if !crawlResp.Success {
			errMsg := crawlResp.Error
			if errMsg == "" {
				errMsg = "crawl failed"
			}
			return mcp.NewToolResultError(errMsg), nil
		}

		return mcp.NewToolResultText(formatEnvelope(&crawlResp, includeLinks)), nil
	}
}

func handleCrawlBatch(apiURL, apiKey string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 600 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		urls, err := request.RequireStringSlice("urls")
		if err != nil {
			return mcp.NewToolResultError("urls is required and must be an array of strings"), nil
		}

		opts := optionsFromFormat(request.GetString("format", ""))
		concurrency := request.GetInt("concurrency", 0)

		respBody, err := apiPost(ctx, client, apiURL, apiKey, "/api/crawl/batch", batchRequest{
			URLs:        urls,
			Options:     opts,
			Concurrency: concurrency,
		})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("batch request failed: %v", err)), nil
		}

		var batchResp batchResponse
		if err := json.Unmarshal(respBody, &batchResp); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse batch response: %v", err)), nil
		}

		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("Batch: %d URLs\n\n", batchResp.Total))

		for i, raw := range batchResp.Results {
			var cr crawlResponse
			if err := json.Unmarshal(raw, &cr); err != nil {
				sb.WriteString(fmt.Sprintf("--- [%d] parse error ---\n\n", i+1))
				continue
			}
			if cr.Success {
				title := ""
				if cr.Metadata != nil {
					title = cr.Metadata.Title
				}
				sb.WriteString(fmt.Sprintf("--- [%d] %s ---\n%s\n\n", i+1, title, formatEnvelope(&cr, false)))
			} else {
				errMsg := cr.Error
				if errMsg == "" {
					errMsg = "unknown error"
				}
				sb.WriteString(fmt.Sprintf("--- [%d] %s FAILED: %s ---\n\n", i+1, cr.URL, errMsg))
			}
		}

		return mcp.NewToolResultText(sb.String()), nil
	}
}
