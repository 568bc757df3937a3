package integration

import (
	"fmt"
	"net/http"
	"testing"

	"savertounsi/internal/models"
)

func TestChallengeFlow_JoinAndComplete(t *testing.T) {
	app := setupApp(t)
	token, _, _ := app.registerUser(t, "saver@test.com", "password123")
	challenge := app.seedChallenge(t, "Save 100 DT", 100)

	// Catalog is public
	rec := app.request("GET", "/api/v1/challenges", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list challenges failed: %d %s", rec.Code, rec.Body.String())
	}

	// Join
	body := fmt.Sprintf(`{"challenge_id":%d}`, challenge.ID)
	rec = app.request("POST", "/api/v1/user-challenges", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("join challenge failed: %d %s", rec.Code, rec.Body.String())
	}
	enrollment := parseJSON(t, rec)["user_challenge"].(map[string]interface{})
	if enrollment["progress"].(float64) != 0 {
		t.Errorf("expected zero initial progress, got %v", enrollment["progress"])
	}
	if enrollment["completed"] != false {
		t.Errorf("expected completed false, got %v", enrollment["completed"])
	}
	enrollmentID := int(enrollment["id"].(float64))

	// A tracking category named after the challenge lives under the system group
	var trackingGroup models.CategoryGroup
	if err := app.DB.Preload("Categories").Where("name = ? AND is_system_group = ?", "Challenges", true).
		First(&trackingGroup).Error; err != nil {
		t.Fatalf("expected system group to exist: %v", err)
	}
	if len(trackingGroup.Categories) != 1 || trackingGroup.Categories[0].Name != "Save 100 DT" {
		t.Fatalf("expected one tracking category named after the challenge, got %+v", trackingGroup.Categories)
	}
	if trackingGroup.Categories[0].Budget != 100 {
		t.Errorf("expected tracking budget 100, got %v", trackingGroup.Categories[0].Budget)
	}

	// Second join is refused
	rec = app.request("POST", "/api/v1/user-challenges", body, token)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 on duplicate join, got %d: %s", rec.Code, rec.Body.String())
	}
	errObj := parseJSON(t, rec)["error"].(map[string]interface{})
	if errObj["code"] != "ALREADY_JOINED" {
		t.Errorf("expected ALREADY_JOINED, got %v", errObj["code"])
	}

	// Record progress halfway, then to completion
	rec = app.request("POST", fmt.Sprintf("/api/v1/user-challenges/%d/progress", enrollmentID),
		`{"amount":60}`, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("record progress failed: %d %s", rec.Code, rec.Body.String())
	}

	rec = app.request("GET", fmt.Sprintf("/api/v1/user-challenges/%d", enrollmentID), "", token)
	current := parseJSON(t, rec)["user_challenge"].(map[string]interface{})
	if current["progress"].(float64) != 60 {
		t.Errorf("expected progress 60, got %v", current["progress"])
	}
	if current["completed"] != false {
		t.Errorf("expected completed false at 60/100, got %v", current["completed"])
	}

	rec = app.request("POST", fmt.Sprintf("/api/v1/user-challenges/%d/progress", enrollmentID),
		`{"amount":40}`, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("record progress failed: %d %s", rec.Code, rec.Body.String())
	}

	rec = app.request("GET", fmt.Sprintf("/api/v1/user-challenges/%d", enrollmentID), "", token)
	current = parseJSON(t, rec)["user_challenge"].(map[string]interface{})
	if current["completed"] != true {
		t.Errorf("expected completed true at 100/100, got %v", current["completed"])
	}
	if current["completed_at"] == nil {
		t.Error("expected completed_at to be set")
	}

	// No progress after completion
	rec = app.request("POST", fmt.Sprintf("/api/v1/user-challenges/%d/progress", enrollmentID),
		`{"amount":10}`, token)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 after completion, got %d: %s", rec.Code, rec.Body.String())
	}

	// Progress log has both entries, newest first
	rec = app.request("GET", fmt.Sprintf("/api/v1/user-challenges/%d/progress", enrollmentID), "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("get progress log failed: %d %s", rec.Code, rec.Body.String())
	}
	log := parseJSON(t, rec)["progress"].(map[string]interface{})
	if log["total_items"].(float64) != 2 {
		t.Errorf("expected 2 log entries, got %v", log["total_items"])
	}
}

func TestChallengeFlow_Recompute(t *testing.T) {
	app := setupApp(t)
	token, _, _ := app.registerUser(t, "recompute@test.com", "password123")
	challenge := app.seedChallenge(t, "No-spend week", 70)

	body := fmt.Sprintf(`{"challenge_id":%d}`, challenge.ID)
	rec := app.request("POST", "/api/v1/user-challenges", body, token)
	enrollment := parseJSON(t, rec)["user_challenge"].(map[string]interface{})
	enrollmentID := int(enrollment["id"].(float64))

	rec = app.request("POST", fmt.Sprintf("/api/v1/user-challenges/%d/progress", enrollmentID),
		`{"amount":25}`, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("record progress failed: %d %s", rec.Code, rec.Body.String())
	}

	// Force drift, then recompute repairs it from the log
	if err := app.DB.Model(&models.UserChallenge{}).Where("id = ?", enrollmentID).
		Update("progress", 999).Error; err != nil {
		t.Fatalf("failed to force drift: %v", err)
	}

	rec = app.request("PATCH", fmt.Sprintf("/api/v1/user-challenges/%d", enrollmentID), "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("recompute failed: %d %s", rec.Code, rec.Body.String())
	}
	repaired := parseJSON(t, rec)["user_challenge"].(map[string]interface{})
	if repaired["progress"].(float64) != 25 {
		t.Errorf("expected recomputed progress 25, got %v", repaired["progress"])
	}
}

func TestChallengeFlow_UnknownChallenge(t *testing.T) {
	app := setupApp(t)
	token, _, _ := app.registerUser(t, "unknown@test.com", "password123")

	rec := app.request("POST", "/api/v1/user-challenges", `{"challenge_id":99999}`, token)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown challenge, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestChallengeFlow_EnrollmentIsolation(t *testing.T) {
	app := setupApp(t)
	tokenA, _, _ := app.registerUser(t, "iso-a@test.com", "password123")
	tokenB, _, _ := app.registerUser(t, "iso-b@test.com", "password123")
	challenge := app.seedChallenge(t, "Transport challenge", 50)

	body := fmt.Sprintf(`{"challenge_id":%d}`, challenge.ID)
	rec := app.request("POST", "/api/v1/user-challenges", body, tokenA)
	enrollment := parseJSON(t, rec)["user_challenge"].(map[string]interface{})
	enrollmentID := int(enrollment["id"].(float64))

	// Another user cannot read or advance the enrollment
	rec = app.request("GET", fmt.Sprintf("/api/v1/user-challenges/%d", enrollmentID), "", tokenB)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for foreign enrollment, got %d", rec.Code)
	}
	rec = app.request("POST", fmt.Sprintf("/api/v1/user-challenges/%d/progress", enrollmentID),
		`{"amount":10}`, tokenB)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 recording foreign progress, got %d", rec.Code)
	}
}
