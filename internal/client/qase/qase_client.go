package qase

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Richardmlacerda/qase-poc-rml/internal/models"
	"github.com/Richardmlacerda/qase-poc-rml/internal/ratelimit"
)

const pageSize = 100

type QaseClient struct {
	baseUrl    string
	token      string
	httpClient *http.Client
	pageGate   *ratelimit.Gate
}

func NewQaseClient(baseUrl, token string, timeout time.Duration, pageGate *ratelimit.Gate) *QaseClient {
	return &QaseClient{
		baseUrl:    baseUrl,
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
		pageGate:   pageGate,
	}
}

func (c *QaseClient) get(url string) ([]byte, error) {
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request (qase): %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Token", c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s (qase): %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body (qase): %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, apiError("GET", url, resp.StatusCode, body)
	}

	return body, nil
}

func (c *QaseClient) post(url string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request body (qase): %w", err)
	}

	req, err := http.NewRequest("POST", url, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("build request (qase): %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Token", c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("POST %s (qase): %w", url, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body (qase): %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return apiError("POST", url, resp.StatusCode, respBody)
	}

	return nil
}

// apiError surfaces the endpoint, status code and body of a failed call. The
// Qase error envelope carries a message; when it parses, prefer it over the
// raw body.
func apiError(method, url string, statusCode int, body []byte) error {
	var qerr qaseError
	if err := json.Unmarshal(body, &qerr); err == nil && qerr.ErrorMessage != "" {
		return fmt.Errorf("%s %s failed: status %d: %s", method, url, statusCode, qerr.ErrorMessage)
	}
	return fmt.Errorf("%s %s failed: status %d: %s", method, url, statusCode, string(body))
}

// paginate walks a collection endpoint page by page (1-based, fixed limit)
// and concatenates the items in server order. A page whose envelope has no
// recognized container key, or fewer items than the page size, is the last
// one. Any non-200 aborts the whole read.
func (c *QaseClient) paginate(path string) ([]json.RawMessage, error) {
	var items []json.RawMessage

	for page := 1; ; page++ {
		url := fmt.Sprintf("%s%s?page=%d&limit=%d", c.baseUrl, path, page, pageSize)

		body, err := c.get(url)
		if err != nil {
			return nil, err
		}

		var env listEnvelope
		if err := json.Unmarshal(body, &env); err != nil {
			return nil, fmt.Errorf("parse page %d of %s (qase): %w", page, path, err)
		}

		var entities []json.RawMessage
		for _, key := range containerKeys {
			raw, ok := env.Result[key]
			if !ok {
				continue
			}
			if err := json.Unmarshal(raw, &entities); err != nil {
				return nil, fmt.Errorf("parse %q list of %s (qase): %w", key, path, err)
			}
			break
		}

		if len(entities) == 0 {
			break
		}

		items = append(items, entities...)
		if len(entities) < pageSize {
			break
		}

		c.pageGate.Wait()
	}

	return items, nil
}

func (c *QaseClient) GetAllCases(project string) ([]models.Case, error) {
	raw, err := c.paginate("/case/" + project)
	if err != nil {
		return nil, fmt.Errorf("get cases for %s: %w", project, err)
	}

	cases := make([]models.Case, len(raw))
	for i, item := range raw {
		var qc qaseCase
		if err := json.Unmarshal(item, &qc); err != nil {
			return nil, fmt.Errorf("parse case (qase): %w", err)
		}
		cases[i] = qc.toModel()
	}

	return cases, nil
}

// GetCase fetches one case by id. A null result (case not visible to the
// token) comes back as a nil case with no error.
func (c *QaseClient) GetCase(project string, caseId int64) (*models.Case, error) {
	url := fmt.Sprintf("%s/case/%s/%d", c.baseUrl, project, caseId)

	body, err := c.get(url)
	if err != nil {
		return nil, err
	}

	var env entityEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("parse case %d of %s (qase): %w", caseId, project, err)
	}

	if len(env.Result) == 0 || string(env.Result) == "null" {
		return nil, nil
	}

	var qc qaseCase
	if err := json.Unmarshal(env.Result, &qc); err != nil {
		return nil, fmt.Errorf("parse case %d of %s (qase): %w", caseId, project, err)
	}

	converted := qc.toModel()
	return &converted, nil
}

// GetAllResults fetches every result of the project regardless of run. The
// result endpoint is not run-scoped in this integration; callers filter by
// run id themselves.
func (c *QaseClient) GetAllResults(project string) ([]models.Result, error) {
	raw, err := c.paginate("/result/" + project)
	if err != nil {
		return nil, fmt.Errorf("get results for %s: %w", project, err)
	}

	results := make([]models.Result, len(raw))
	for i, item := range raw {
		var qr qaseResult
		if err := json.Unmarshal(item, &qr); err != nil {
			return nil, fmt.Errorf("parse result (qase): %w", err)
		}
		results[i] = qr.toModel()
	}

	return results, nil
}

func (c *QaseClient) CreateResult(project string, runId int64, result models.NewResult) error {
	url := fmt.Sprintf("%s/result/%s/%d", c.baseUrl, project, runId)

	reqBody := createResultRequest{
		CaseId:  result.CaseId,
		Status:  result.Status,
		Comment: result.Comment,
	}

	return c.post(url, reqBody)
}
