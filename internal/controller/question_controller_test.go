package controller

import (
	"net/http/httptest"
	"testing"

	"wanderlust_backend/internal/model"

	"github.com/gin-gonic/gin"
)

func feedContext(t *testing.T, query string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx, _ := gin.CreateTestContext(httptest.NewRecorder())
	ctx.Request = httptest.NewRequest("GET", "/api/questions/feed?"+query, nil)
	return ctx
}

func boolName(b *bool) string {
	if b == nil {
		return "unset"
	}
	if *b {
		return "true"
	}
	return "false"
}

func TestParseFeedOptions(t *testing.T) {
	tests := []struct {
		name             string
		query            string
		wantAdaptive     string
		wantExcludeShown string
		wantPersonalized string
	}{
		{"defaults stay unset", "", "unset", "unset", "unset"},
		{"adaptive off", "adaptive=false", "false", "unset", "unset"},
		{"exclude shown on", "excludeShown=true", "unset", "true", "unset"},
		{"numeric form", "personalized=0", "unset", "unset", "false"},
		{"all three", "adaptive=true&excludeShown=false&personalized=true", "true", "false", "true"},
		{"malformed ignored", "adaptive=maybe", "unset", "unset", "unset"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := parseFeedOptions(feedContext(t, tt.query))
			if got := boolName(opts.Adaptive); got != tt.wantAdaptive {
				t.Errorf("Adaptive = %s, want %s", got, tt.wantAdaptive)
			}
			if got := boolName(opts.ExcludeShown); got != tt.wantExcludeShown {
				t.Errorf("ExcludeShown = %s, want %s", got, tt.wantExcludeShown)
			}
			if got := boolName(opts.Personalized); got != tt.wantPersonalized {
				t.Errorf("Personalized = %s, want %s", got, tt.wantPersonalized)
			}
		})
	}
}

func TestParseFeedOptionsFilters(t *testing.T) {
	opts := parseFeedOptions(feedContext(t, "category=geography&subcategory=capitals&difficulty=advanced&count=7"))
	if opts.Category != "geography" || opts.Subcategory != "capitals" {
		t.Errorf("categories = %q/%q", opts.Category, opts.Subcategory)
	}
	if opts.Difficulty != model.Advanced {
		t.Errorf("Difficulty = %q, want %q", opts.Difficulty, model.Advanced)
	}
	if opts.Count != 7 {
		t.Errorf("Count = %d, want 7", opts.Count)
	}
}
