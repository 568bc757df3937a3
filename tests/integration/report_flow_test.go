package integration

import (
	"fmt"
	"net/http"
	"testing"
	"time"
)

func TestReportFlow_MonthlySummary(t *testing.T) {
	app := setupApp(t)
	token, _, _ := app.registerUser(t, "report@test.com", "password123")
	categoryID := app.createCategory(t, token, "Essentials", "Groceries", 300)

	body := fmt.Sprintf(`{"category_id":%d,"type":"EXPENSE","amount":190}`, int(categoryID))
	rec := app.request("POST", "/api/v1/transactions", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("post transaction failed: %d %s", rec.Code, rec.Body.String())
	}

	now := time.Now().UTC()
	rec = app.request("GET",
		fmt.Sprintf("/api/v1/reports/summary?year=%d&month=%d", now.Year(), int(now.Month())), "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("get summary failed: %d %s", rec.Code, rec.Body.String())
	}
	summary := parseJSON(t, rec)["summary"].(map[string]interface{})

	if summary["total_budget"].(float64) != 300 {
		t.Errorf("expected total budget 300, got %v", summary["total_budget"])
	}
	if summary["total_spent"].(float64) != 190 {
		t.Errorf("expected total spent 190, got %v", summary["total_spent"])
	}
	if summary["total_saved"].(float64) != 110 {
		t.Errorf("expected total saved 110, got %v", summary["total_saved"])
	}
	if summary["month_expenses"].(float64) != 190 {
		t.Errorf("expected month expenses 190, got %v", summary["month_expenses"])
	}

	categories := summary["categories"].([]interface{})
	if len(categories) != 1 {
		t.Fatalf("expected 1 category row, got %d", len(categories))
	}
	row := categories[0].(map[string]interface{})
	if row["name"] != "Groceries" || row["group_name"] != "Essentials" {
		t.Errorf("unexpected category row: %+v", row)
	}
}

func TestReportFlow_SummaryValidation(t *testing.T) {
	app := setupApp(t)
	token, _, _ := app.registerUser(t, "report-bad@test.com", "password123")

	for _, query := range []string{"month=13", "month=0", "year=123"} {
		rec := app.request("GET", "/api/v1/reports/summary?"+query, "", token)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("query %q: expected 400, got %d", query, rec.Code)
		}
	}

	// No params defaults to the current month
	rec := app.request("GET", "/api/v1/reports/summary", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("default summary failed: %d %s", rec.Code, rec.Body.String())
	}
	summary := parseJSON(t, rec)["summary"].(map[string]interface{})
	if int(summary["year"].(float64)) != time.Now().UTC().Year() {
		t.Errorf("expected current year, got %v", summary["year"])
	}
}

func TestReportFlow_ChallengeReport(t *testing.T) {
	app := setupApp(t)
	token, _, _ := app.registerUser(t, "report-ch@test.com", "password123")
	challenge := app.seedChallenge(t, "Save 100 DT", 100)

	body := fmt.Sprintf(`{"challenge_id":%d}`, challenge.ID)
	rec := app.request("POST", "/api/v1/user-challenges", body, token)
	enrollment := parseJSON(t, rec)["user_challenge"].(map[string]interface{})
	enrollmentID := int(enrollment["id"].(float64))

	rec = app.request("POST", fmt.Sprintf("/api/v1/user-challenges/%d/progress", enrollmentID),
		`{"amount":25}`, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("record progress failed: %d %s", rec.Code, rec.Body.String())
	}

	rec = app.request("GET", "/api/v1/reports/challenges", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("challenge report failed: %d %s", rec.Code, rec.Body.String())
	}
	report := parseJSON(t, rec)["report"].([]interface{})
	if len(report) != 1 {
		t.Fatalf("expected 1 report entry, got %d", len(report))
	}
	entry := report[0].(map[string]interface{})
	if entry["title"] != "Save 100 DT" {
		t.Errorf("expected challenge title, got %v", entry["title"])
	}
	if entry["progress"].(float64) != 25 {
		t.Errorf("expected progress 25, got %v", entry["progress"])
	}
	curve := entry["curve"].([]interface{})
	if len(curve) != 5 || curve[4].(float64) != 100 {
		t.Errorf("expected 5-point curve ending at goal, got %v", curve)
	}
	log := entry["log"].([]interface{})
	if len(log) != 1 {
		t.Errorf("expected 1 log entry, got %d", len(log))
	}
}
