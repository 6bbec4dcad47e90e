package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"farmfit/internal/config"
	"farmfit/internal/database"
	"farmfit/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ratingHandlerFixture runs the real handlers over an in-memory sqlite
// database, with auth locals injected by the route wrapper.
type ratingHandlerFixture struct {
	srv     *Server
	app     *fiber.App
	db      *gorm.DB
	ownerID uint
	otherID uint
	adminID uint
}

func newRatingHandlerFixture(t *testing.T) *ratingHandlerFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}

	srv, err := NewServerWithDeps(&config.Config{JWTSecret: "test-secret"}, db, nil, nil)
	if err != nil {
		t.Fatalf("create server: %v", err)
	}

	owner := models.User{Username: "owner", Email: "owner@e.com", Password: "pw"}
	other := models.User{Username: "other", Email: "other@e.com", Password: "pw"}
	admin := models.User{Username: "admin", Email: "admin@e.com", Password: "pw", IsAdmin: true}
	db.Create(&owner)
	db.Create(&other)
	db.Create(&admin)

	return &ratingHandlerFixture{
		srv:     srv,
		app:     fiber.New(),
		db:      db,
		ownerID: owner.ID,
		otherID: other.ID,
		adminID: admin.ID,
	}
}

// as registers a route whose handler runs with the given user authenticated.
func (f *ratingHandlerFixture) as(userID uint, method, path string, handler fiber.Handler) {
	f.app.Add(method, path, func(c *fiber.Ctx) error {
		c.Locals("userID", userID)
		return handler(c)
	})
}

func (f *ratingHandlerFixture) approvedClinic(t *testing.T) uint {
	t.Helper()
	clinic := models.Clinic{
		Name:              "Happy Paws Veterinary Clinic",
		Status:            models.SubjectStatusApproved,
		IsActive:          true,
		SubmittedByUserID: f.adminID,
	}
	if err := f.db.Create(&clinic).Error; err != nil {
		t.Fatalf("create clinic: %v", err)
	}
	return clinic.ID
}

func jsonBody(t *testing.T, v interface{}) *bytes.Buffer {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	return bytes.NewBuffer(data)
}

func TestSubmitRatingHandler(t *testing.T) {
	t.Parallel()
	f := newRatingHandlerFixture(t)
	clinicID := f.approvedClinic(t)

	f.as(f.ownerID, http.MethodPost, "/ratings", f.srv.SubmitRating)

	t.Run("success", func(t *testing.T) {
		body := jsonBody(t, map[string]interface{}{
			"subject_type": "clinic",
			"subject_id":   clinicID,
			"overall":      4,
			"title":        "Great visit",
			"content":      "Staff were kind and thorough.",
			"dimensions":   map[string]int{"cleanliness": 5, "wait_time": 3},
		})
		req := httptest.NewRequest(http.MethodPost, "/ratings", body)
		req.Header.Set("Content-Type", "application/json")
		resp, _ := f.app.Test(req)
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("expected 201, got %d", resp.StatusCode)
		}

		var rating models.Rating
		if err := json.NewDecoder(resp.Body).Decode(&rating); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if rating.Overall != 4 {
			t.Errorf("expected overall 4, got %d", rating.Overall)
		}
		if len(rating.Dimensions) != 2 {
			t.Errorf("expected 2 dimensions, got %d", len(rating.Dimensions))
		}
		if rating.Subject == nil || rating.Subject.Name != "Happy Paws Veterinary Clinic" {
			t.Errorf("expected subject ref to be attached, got %+v", rating.Subject)
		}
	})

	t.Run("duplicate returns conflict", func(t *testing.T) {
		body := jsonBody(t, map[string]interface{}{
			"subject_type": "clinic",
			"subject_id":   clinicID,
			"overall":      2,
		})
		req := httptest.NewRequest(http.MethodPost, "/ratings", body)
		req.Header.Set("Content-Type", "application/json")
		resp, _ := f.app.Test(req)
		if resp.StatusCode != http.StatusConflict {
			t.Errorf("expected 409, got %d", resp.StatusCode)
		}
	})

	t.Run("invalid score", func(t *testing.T) {
		body := jsonBody(t, map[string]interface{}{
			"subject_type": "clinic",
			"subject_id":   clinicID,
			"overall":      6,
		})
		req := httptest.NewRequest(http.MethodPost, "/ratings", body)
		req.Header.Set("Content-Type", "application/json")
		resp, _ := f.app.Test(req)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", resp.StatusCode)
		}
	})

	t.Run("unknown subject", func(t *testing.T) {
		body := jsonBody(t, map[string]interface{}{
			"subject_type": "clinic",
			"subject_id":   99999,
			"overall":      3,
		})
		req := httptest.NewRequest(http.MethodPost, "/ratings", body)
		req.Header.Set("Content-Type", "application/json")
		resp, _ := f.app.Test(req)
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("expected 404, got %d", resp.StatusCode)
		}
	})
}

func TestVoteRatingHandler(t *testing.T) {
	t.Parallel()
	f := newRatingHandlerFixture(t)
	clinicID := f.approvedClinic(t)

	rating := models.Rating{
		SubjectType: models.SubjectTypeClinic,
		SubjectID:   clinicID,
		UserID:      f.ownerID,
		Overall:     4,
	}
	f.db.Create(&rating)

	f.as(f.otherID, http.MethodPost, "/ratings/:id/vote", f.srv.VoteRating)

	t.Run("missing is_helpful", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost,
			fmt.Sprintf("/ratings/%d/vote", rating.ID), jsonBody(t, map[string]interface{}{}))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := f.app.Test(req)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", resp.StatusCode)
		}
	})

	t.Run("vote then toggle off", func(t *testing.T) {
		body := jsonBody(t, map[string]interface{}{"is_helpful": true})
		req := httptest.NewRequest(http.MethodPost,
			fmt.Sprintf("/ratings/%d/vote", rating.ID), body)
		req.Header.Set("Content-Type", "application/json")
		resp, _ := f.app.Test(req)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		var result map[string]interface{}
		json.NewDecoder(resp.Body).Decode(&result)
		if result["action"] != string(models.VoteActionCreated) {
			t.Errorf("expected created action, got %v", result["action"])
		}

		// same vote again removes it
		req = httptest.NewRequest(http.MethodPost,
			fmt.Sprintf("/ratings/%d/vote", rating.ID), jsonBody(t, map[string]interface{}{"is_helpful": true}))
		req.Header.Set("Content-Type", "application/json")
		resp, _ = f.app.Test(req)
		json.NewDecoder(resp.Body).Decode(&result)
		if result["action"] != string(models.VoteActionRemoved) {
			t.Errorf("expected removed action, got %v", result["action"])
		}
	})
}

func TestUpdateRatingHandler_OwnershipAndCap(t *testing.T) {
	t.Parallel()
	f := newRatingHandlerFixture(t)
	clinicID := f.approvedClinic(t)

	rating := models.Rating{
		SubjectType: models.SubjectTypeClinic,
		SubjectID:   clinicID,
		UserID:      f.ownerID,
		Overall:     4,
	}
	f.db.Create(&rating)

	f.as(f.otherID, http.MethodPut, "/other/ratings/:id", f.srv.UpdateRating)
	f.as(f.ownerID, http.MethodPut, "/ratings/:id", f.srv.UpdateRating)

	t.Run("non-owner forbidden", func(t *testing.T) {
		body := jsonBody(t, map[string]interface{}{"overall": 1})
		req := httptest.NewRequest(http.MethodPut,
			fmt.Sprintf("/other/ratings/%d", rating.ID), body)
		req.Header.Set("Content-Type", "application/json")
		resp, _ := f.app.Test(req)
		if resp.StatusCode != http.StatusForbidden {
			t.Errorf("expected 403, got %d", resp.StatusCode)
		}
	})

	t.Run("owner edits until cap", func(t *testing.T) {
		for i := 0; i < models.MaxRatingEdits; i++ {
			overall := 1 + i
			body := jsonBody(t, map[string]interface{}{"overall": overall})
			req := httptest.NewRequest(http.MethodPut,
				fmt.Sprintf("/ratings/%d", rating.ID), body)
			req.Header.Set("Content-Type", "application/json")
			resp, _ := f.app.Test(req)
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("edit %d: expected 200, got %d", i+1, resp.StatusCode)
			}
		}

		body := jsonBody(t, map[string]interface{}{"overall": 5})
		req := httptest.NewRequest(http.MethodPut,
			fmt.Sprintf("/ratings/%d", rating.ID), body)
		req.Header.Set("Content-Type", "application/json")
		resp, _ := f.app.Test(req)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("expected 400 after edit cap, got %d", resp.StatusCode)
		}
	})
}

func TestReportAndReviewFlow(t *testing.T) {
	t.Parallel()
	f := newRatingHandlerFixture(t)
	clinicID := f.approvedClinic(t)

	rating := models.Rating{
		SubjectType: models.SubjectTypeClinic,
		SubjectID:   clinicID,
		UserID:      f.ownerID,
		Overall:     1,
		Content:     "spam spam spam",
	}
	f.db.Create(&rating)

	f.as(f.otherID, http.MethodPost, "/ratings/:id/report", f.srv.ReportRating)
	f.as(f.adminID, http.MethodPost, "/admin/reports/:id/review", f.srv.ReviewReport)
	f.as(f.adminID, http.MethodDelete, "/admin/ratings/:id", f.srv.DeleteFlaggedRating)

	// file a report
	body := jsonBody(t, map[string]interface{}{"reason": "spam", "details": "obvious ad"})
	req := httptest.NewRequest(http.MethodPost,
		fmt.Sprintf("/ratings/%d/report", rating.ID), body)
	req.Header.Set("Content-Type", "application/json")
	resp, _ := f.app.Test(req)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var report models.RatingReport
	json.NewDecoder(resp.Body).Decode(&report)

	// review with action taken flags the rating
	body = jsonBody(t, map[string]interface{}{"status": "action_taken", "notes": "confirmed spam"})
	req = httptest.NewRequest(http.MethodPost,
		fmt.Sprintf("/admin/reports/%d/review", report.ID), body)
	req.Header.Set("Content-Type", "application/json")
	resp, _ = f.app.Test(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var flagged models.Rating
	if err := f.db.First(&flagged, rating.ID).Error; err != nil {
		t.Fatalf("reload rating: %v", err)
	}
	if !flagged.IsFlagged {
		t.Fatalf("expected rating to be flagged after action_taken review")
	}

	// flagged rating can now be deleted
	req = httptest.NewRequest(http.MethodDelete,
		fmt.Sprintf("/admin/ratings/%d", rating.ID), nil)
	resp, _ = f.app.Test(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var gone int64
	f.db.Model(&models.Rating{}).Where("id = ?", rating.ID).Count(&gone)
	if gone != 0 {
		t.Errorf("expected rating soft-deleted, still visible")
	}
}
