package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestPageCount(t *testing.T) {
	tests := []struct {
		total    int64
		pageSize int
		want     int
	}{
		{0, 20, 0},
		{1, 20, 1},
		{20, 20, 1},
		{41, 20, 3},
		{10, 0, 0},
	}
	for _, tt := range tests {
		if got := pageCount(tt.total, tt.pageSize); got != tt.want {
			t.Errorf("pageCount(%d, %d) = %d, want %d", tt.total, tt.pageSize, got, tt.want)
		}
	}
}

func TestViolation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Violation(c, 17002, "slot_occupied", "time slot is already assigned", map[string]string{"field": "time_slot_ids"})

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", w.Code)
	}
	if c.GetString(RuleKey) != "slot_occupied" {
		t.Errorf("rule not recorded on context: %q", c.GetString(RuleKey))
	}
	var resp Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Code != 17002 || resp.Message != "time slot is already assigned" {
		t.Errorf("unexpected body: %+v", resp)
	}
}
