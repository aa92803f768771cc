package qase

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Richardmlacerda/qase-poc-rml/internal/models"
	"github.com/Richardmlacerda/qase-poc-rml/internal/ratelimit"
)

func newResultFixture() models.NewResult {
	return models.NewResult{CaseId: 42, Status: "passed", Comment: "Copied from PRB run 3"}
}

const testBase = "https://qase.test/v1"

func newTestClient(t *testing.T) *QaseClient {
	t.Helper()
	c := NewQaseClient(testBase, "secret-token", 5*time.Second, ratelimit.NewGate(0))
	httpmock.ActivateNonDefault(c.httpClient)
	t.Cleanup(httpmock.DeactivateAndReset)
	return c
}

// casePage renders one page of the case list envelope under the given
// container key, with case ids [from, from+count).
func casePage(key string, from, count int) string {
	var entities []string
	for i := 0; i < count; i++ {
		entities = append(entities, fmt.Sprintf(
			`{"id": %d, "title": "case %d", "custom_fields": [{"id": 1, "value": "%d"}]}`,
			from+i, from+i, 1000+from+i,
		))
	}
	return fmt.Sprintf(`{"status": true, "result": {"%s": [%s]}}`, key, strings.Join(entities, ","))
}

func registerPagedCases(t *testing.T, key string, pages []int) *int {
	t.Helper()

	requests := 0
	start := 1
	starts := make([]int, len(pages))
	for i, n := range pages {
		starts[i] = start
		start += n
	}

	httpmock.RegisterResponder("GET", `=~^`+testBase+`/case/DEMO(\?.*)?\z`,
		func(req *http.Request) (*http.Response, error) {
			requests++
			assert.Equal(t, "secret-token", req.Header.Get("Token"))
			assert.Equal(t, "100", req.URL.Query().Get("limit"))

			page, err := strconv.Atoi(req.URL.Query().Get("page"))
			require.NoError(t, err)
			require.LessOrEqual(t, page, len(pages), "requested a page past the last one")

			return httpmock.NewStringResponse(http.StatusOK, casePage(key, starts[page-1], pages[page-1])), nil
		})

	return &requests
}

func TestGetAllCases_PaginatesUntilShortPage(t *testing.T) {
	c := newTestClient(t)

	// 250 cases: three pages of 100, 100, 50.
	requests := registerPagedCases(t, "entities", []int{100, 100, 50})

	cases, err := c.GetAllCases("DEMO")

	require.NoError(t, err)
	assert.Equal(t, 3, *requests)
	require.Len(t, cases, 250)

	// Server order preserved, no duplicates or gaps.
	for i, cs := range cases {
		assert.Equal(t, int64(i+1), cs.Id)
	}
}

func TestGetAllCases_ShortNonEmptyPageIsFinal(t *testing.T) {
	c := newTestClient(t)

	requests := registerPagedCases(t, "entities", []int{30})

	cases, err := c.GetAllCases("DEMO")

	require.NoError(t, err)
	assert.Equal(t, 1, *requests)
	assert.Len(t, cases, 30)
}

func TestGetAllCases_EmptyFirstPage(t *testing.T) {
	c := newTestClient(t)

	httpmock.RegisterResponder("GET", `=~^`+testBase+`/case/DEMO(\?.*)?\z`,
		httpmock.NewStringResponder(http.StatusOK, `{"status": true, "result": {"entities": []}}`))

	cases, err := c.GetAllCases("DEMO")

	require.NoError(t, err)
	assert.Empty(t, cases)
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}

func TestGetAllCases_ContainerKeyVariants(t *testing.T) {
	for _, key := range []string{"entities", "items", "results", "cases"} {
		t.Run(key, func(t *testing.T) {
			c := newTestClient(t)

			registerPagedCases(t, key, []int{2})

			cases, err := c.GetAllCases("DEMO")

			require.NoError(t, err)
			assert.Len(t, cases, 2)
		})
	}
}

func TestGetAllCases_UnknownContainerKeyTerminates(t *testing.T) {
	c := newTestClient(t)

	httpmock.RegisterResponder("GET", `=~^`+testBase+`/case/DEMO(\?.*)?\z`,
		httpmock.NewStringResponder(http.StatusOK, `{"status": true, "result": {"total": 99}}`))

	cases, err := c.GetAllCases("DEMO")

	require.NoError(t, err)
	assert.Empty(t, cases)
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}

func TestGetAllCases_ErrorAbortsRead(t *testing.T) {
	c := newTestClient(t)

	httpmock.RegisterResponder("GET", `=~^`+testBase+`/case/DEMO(\?.*)?\z`,
		httpmock.NewStringResponder(http.StatusForbidden, `{"status": false, "errorMessage": "token invalid"}`))

	_, err := c.GetAllCases("DEMO")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
	assert.Contains(t, err.Error(), "token invalid")
	assert.Contains(t, err.Error(), "/case/DEMO")
}

func TestPaginate_WaitsBetweenPages(t *testing.T) {
	waits := 0
	gate := ratelimit.NewStubGate(50*time.Millisecond, func(time.Duration) { waits++ })

	c := NewQaseClient(testBase, "secret-token", 5*time.Second, gate)
	httpmock.ActivateNonDefault(c.httpClient)
	t.Cleanup(httpmock.DeactivateAndReset)

	registerPagedCases(t, "entities", []int{100, 100, 50})

	_, err := c.GetAllCases("DEMO")

	require.NoError(t, err)
	// One wait after each full page, none after the final short page.
	assert.Equal(t, 2, waits)
}

func TestGetCase(t *testing.T) {
	c := newTestClient(t)

	httpmock.RegisterResponder("GET", testBase+"/case/PRB/7",
		httpmock.NewStringResponder(http.StatusOK,
			`{"status": true, "result": {"id": 7, "title": "login works", "custom_fields": [{"id": 1, "value": " 1001 "}]}}`))

	cs, err := c.GetCase("PRB", 7)

	require.NoError(t, err)
	require.NotNil(t, cs)
	assert.Equal(t, int64(7), cs.Id)
	assert.Equal(t, "login works", cs.Title)
	require.Len(t, cs.CustomFields, 1)
	assert.Equal(t, int64(1), cs.CustomFields[0].FieldId)
	assert.Equal(t, " 1001 ", cs.CustomFields[0].Value)
}

func TestGetCase_NullResult(t *testing.T) {
	c := newTestClient(t)

	httpmock.RegisterResponder("GET", testBase+"/case/PRB/404",
		httpmock.NewStringResponder(http.StatusOK, `{"status": true, "result": null}`))

	cs, err := c.GetCase("PRB", 404)

	require.NoError(t, err)
	assert.Nil(t, cs)
}

func TestGetAllResults_StatusForms(t *testing.T) {
	c := newTestClient(t)

	httpmock.RegisterResponder("GET", `=~^`+testBase+`/result/PRB(\?.*)?\z`,
		httpmock.NewStringResponder(http.StatusOK, `{"status": true, "result": {"results": [
			{"hash": "a1", "run_id": 3, "case_id": 10, "status": "PASSED"},
			{"hash": "b2", "run_id": 3, "case_id": 11, "status": 5}
		]}}`))

	results, err := c.GetAllResults("PRB")

	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, int64(3), results[0].RunId)
	assert.Equal(t, "passed", results[0].Status.Normalized())

	n, ok := results[1].Status.Numeric()
	assert.True(t, ok)
	assert.Equal(t, int64(5), n)
}

func TestCreateResult(t *testing.T) {
	for _, statusCode := range []int{http.StatusOK, http.StatusCreated} {
		t.Run(strconv.Itoa(statusCode), func(t *testing.T) {
			c := newTestClient(t)

			httpmock.RegisterResponder("POST", testBase+"/result/PRA/12",
				func(req *http.Request) (*http.Response, error) {
					assert.Equal(t, "secret-token", req.Header.Get("Token"))
					assert.Equal(t, "application/json", req.Header.Get("Content-Type"))

					body, err := io.ReadAll(req.Body)
					require.NoError(t, err)
					assert.JSONEq(t,
						`{"case_id": 42, "status": "passed", "comment": "Copied from PRB run 3"}`,
						string(body))

					return httpmock.NewStringResponse(statusCode, `{"status": true, "result": {"hash": "x"}}`), nil
				})

			err := c.CreateResult("PRA", 12, newResultFixture())
			require.NoError(t, err)
		})
	}
}

func TestCreateResult_Failure(t *testing.T) {
	c := newTestClient(t)

	httpmock.RegisterResponder("POST", testBase+"/result/PRA/12",
		httpmock.NewStringResponder(http.StatusUnprocessableEntity, `{"status": false, "errorMessage": "run not found"}`))

	err := c.CreateResult("PRA", 12, newResultFixture())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "422")
	assert.Contains(t, err.Error(), "run not found")
}
