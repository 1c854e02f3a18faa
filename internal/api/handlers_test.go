package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/freshconn/tfcdash/pkg/tfcdash"
	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", "finance report")
	f.SetCellValue("finance report", "A1", "The Fresh Connection")
	f.SetCellValue("finance report", "B2", 1)
	f.SetCellValue("finance report", "C2", 2)
	f.SetCellValue("finance report", "A3", "ROI")
	f.SetCellValue("finance report", "B3", 5.5)
	f.SetCellValue("finance report", "C3", 6.1)
	f.SetCellValue("finance report", "A4", "Realized revenue")
	f.SetCellValue("finance report", "B4", 200)
	f.SetCellValue("finance report", "C4", 300)

	f.NewSheet("Customer")
	f.SetCellValue("Customer", "A1", "Round")
	f.SetCellValue("Customer", "B1", "Customer")
	f.SetCellValue("Customer", "C1", "Service level (pieces)")
	f.SetCellValue("Customer", "A2", 1)
	f.SetCellValue("Customer", "B2", "Food & Groceries")
	f.SetCellValue("Customer", "C2", 97.5)

	path := filepath.Join(t.TempDir(), "tfc.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("Failed to save workbook: %v", err)
	}
	return path
}

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	s := New(Config{DefaultSource: writeWorkbook(t)}, tfcdash.DefaultOptions())
	ts := httptest.NewServer(s.Router())
	t.Cleanup(ts.Close)
	return ts
}

func getJSON(t *testing.T, url string, out interface{}) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s failed: %v", url, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("Decode %s: %v", url, err)
		}
	}
	return resp
}

func TestHealth(t *testing.T) {
	ts := testServer(t)
	var body map[string]string
	resp := getJSON(t, ts.URL+"/health", &body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	if body["status"] != "ok" {
		t.Errorf("Expected status ok, got %v", body)
	}
}

func TestDashboardEndpoint(t *testing.T) {
	ts := testServer(t)

	var dash struct {
		Finance struct {
			Rows []struct {
				Round int      `json:"round"`
				ROI   *float64 `json:"roi"`
			} `json:"rows"`
		} `json:"finance"`
		Domains []struct {
			Domain string `json:"domain"`
		} `json:"domains"`
	}
	resp := getJSON(t, ts.URL+"/api/dashboard", &dash)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	if resp.Header.Get("ETag") == "" {
		t.Error("Expected ETag header")
	}
	if len(dash.Finance.Rows) != 2 {
		t.Fatalf("Expected 2 finance rounds, got %d", len(dash.Finance.Rows))
	}
	if dash.Finance.Rows[0].ROI == nil || *dash.Finance.Rows[0].ROI != 5.5 {
		t.Errorf("Unexpected ROI: %v", dash.Finance.Rows[0].ROI)
	}
	if len(dash.Domains) != 1 || dash.Domains[0].Domain != "Sales" {
		t.Errorf("Expected only Sales built, got %v", dash.Domains)
	}
}

func TestDomainEndpoints(t *testing.T) {
	ts := testServer(t)

	resp := getJSON(t, ts.URL+"/api/domains/Sales", nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Sales: expected 200, got %d", resp.StatusCode)
	}

	// Purchase is defined but its sheet is absent from the fixture.
	resp = getJSON(t, ts.URL+"/api/domains/Purchase", nil)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("Purchase: expected 422, got %d", resp.StatusCode)
	}

	resp = getJSON(t, ts.URL+"/api/domains/Nonsense", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Nonsense: expected 404, got %d", resp.StatusCode)
	}
}

func TestDomainKPIs(t *testing.T) {
	ts := testServer(t)

	var body struct {
		Functional []string `json:"functional"`
		Financial  []string `json:"financial"`
	}
	resp := getJSON(t, ts.URL+"/api/domains/Sales/kpis", &body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	if len(body.Functional) != 1 || body.Functional[0] != "Service level (pieces)" {
		t.Errorf("Unexpected functional KPIs: %v", body.Functional)
	}
	if len(body.Financial) != 4 {
		t.Errorf("Expected 4 financial KPIs, got %v", body.Financial)
	}
}

func TestRefreshChangesTag(t *testing.T) {
	ts := testServer(t)

	first := getJSON(t, ts.URL+"/api/dashboard", nil).Header.Get("ETag")
	second := getJSON(t, ts.URL+"/api/dashboard", nil).Header.Get("ETag")
	if first == "" || first != second {
		t.Fatalf("Cache should serve a stable tag: %q vs %q", first, second)
	}

	resp, err := http.Post(ts.URL+"/api/refresh", "application/json", nil)
	if err != nil {
		t.Fatalf("POST refresh failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Refresh: expected 200, got %d", resp.StatusCode)
	}

	third := getJSON(t, ts.URL+"/api/dashboard", nil).Header.Get("ETag")
	if third == first {
		t.Error("Refresh should produce a new tag")
	}
}

func TestNoSource(t *testing.T) {
	s := New(Config{}, tfcdash.DefaultOptions())
	ts := httptest.NewServer(s.Router())
	defer ts.Close()

	resp := getJSON(t, ts.URL+"/api/dashboard", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", resp.StatusCode)
	}
}

func TestUnavailableSource(t *testing.T) {
	s := New(Config{DefaultSource: filepath.Join(t.TempDir(), "absent.xlsx")}, tfcdash.DefaultOptions())
	ts := httptest.NewServer(s.Router())
	defer ts.Close()

	resp := getJSON(t, ts.URL+"/api/dashboard", nil)
	if resp.StatusCode != http.StatusBadGateway {
		t.Errorf("Expected 502, got %d", resp.StatusCode)
	}
}
