package httpclient

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	json "github.com/goccy/go-json"
)

// ReportOptions selects the optional sections of a report.
type ReportOptions struct {
	ShowCookies        bool
	ShowRequestHeader  bool
	ShowResponseHeader bool
	ShowSettings       bool
}

// GetReport renders a human-readable summary of a response, prints it to the
// client's Display with StyleInfo and returns it.
//
// data is a *Response or a []*Response. Only the first element of a slice is
// reported. nil, an empty slice or a nil *Response fail with ErrReportInput.
func (c *Client) GetReport(data any, opts ReportOptions) (string, error) {
	resp, err := reportSubject(data)
	if err != nil {
		return "", err
	}

	var cookies, settings string
	if opts.ShowCookies {
		cookies = formatPairs(c.jar.All())
	}
	if opts.ShowSettings {
		settings = c.settings.String()
	}

	report := formatReport(resp, opts, cookies, settings)
	c.display.Print(report, StyleInfo)
	return report, nil
}

func reportSubject(data any) (*Response, error) {
	switch v := data.(type) {
	case nil:
		return nil, fmt.Errorf("%w: no data provided", ErrReportInput)
	case *Response:
		if v == nil {
			return nil, fmt.Errorf("%w: no data provided", ErrReportInput)
		}
		return v, nil
	case []*Response:
		if len(v) == 0 {
			return nil, fmt.Errorf("%w: no data provided", ErrReportInput)
		}
		return reportSubject(v[0])
	default:
		return nil, fmt.Errorf("%w: unsupported type %T", ErrReportInput, data)
	}
}

func formatReport(resp *Response, opts ReportOptions, cookies, settings string) string {
	sections := []string{
		"URL: " + resp.URL(),
		"Method: " + resp.Method().String(),
		fmt.Sprintf("Status Code: %d (%s)", resp.StatusCode, resp.Reason()),
	}

	if opts.ShowCookies {
		sections = append(sections, "Cookies: "+cookies)
	}
	if opts.ShowRequestHeader {
		var h http.Header
		if req := resp.Request(); req != nil {
			h = req.Header
		}
		sections = append(sections, "Request Header: "+formatHeader(h))
	}
	if opts.ShowResponseHeader {
		sections = append(sections, "Response Header: "+formatHeader(resp.Header))
	}
	if opts.ShowSettings {
		sections = append(sections, "Settings: "+settings)
	}

	var indented bytes.Buffer
	if json.Valid(resp.Body()) && json.Indent(&indented, resp.Body(), "", "  ") == nil {
		sections = append(sections, "JSON Response: "+indented.String())
	} else {
		sections = append(sections, "Response Text: "+resp.Text())
	}

	sections = append(sections, fmt.Sprintf("Elapsed Time (seconds): %.2f", resp.Elapsed().Seconds()))

	return strings.Join(sections, "\n")
}

// formatHeader renders h as {Key: v1, v2; Other: v} with sorted keys.
func formatHeader(h http.Header) string {
	flat := make(map[string]string, len(h))
	for k, v := range h {
		flat[k] = strings.Join(v, ", ")
	}
	return formatPairs(flat)
}

func formatPairs(m map[string]string) string {
	parts := make([]string, 0, len(m))
	for _, k := range sortedKeys(m) {
		parts = append(parts, k+": "+m[k])
	}
	return "{" + strings.Join(parts, "; ") + "}"
}
