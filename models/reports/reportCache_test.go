package reports

import (
	"context"
	"path"
	"strings"
	"testing"
	"time"
)

func TestReportCacheSettingsFromEnv(t *testing.T) {
	t.Setenv("ENABLE_REPORT_CACHE", "on")
	t.Setenv("REPORT_CACHE_TTL_SECONDS", "30")
	t.Setenv("REPORT_SLOW_MS", "nope")
	if !reportCacheEnabled() {
		t.Fatalf("expected cache enabled")
	}
	if got := reportCacheTTL(); got != 30*time.Second {
		t.Fatalf("expected 30s, got %s", got)
	}
	if got := reportSlowMs(); got != 500 {
		t.Fatalf("invalid REPORT_SLOW_MS must fall back to 500, got %d", got)
	}
}

func TestReportCacheKey(t *testing.T) {
	q := PeriodQuery{Period: "today"}
	a, err := reportCacheKey("period", "biz-1", q)
	if err != nil {
		t.Fatalf("key error: %v", err)
	}
	b, _ := reportCacheKey("period", "biz-1", q)
	other, _ := reportCacheKey("period", "biz-2", q)
	if a != b {
		t.Fatalf("key must be stable: %s vs %s", a, b)
	}
	if a == other || !strings.HasPrefix(a, "report:period:biz-1:") {
		t.Fatalf("key must be scoped by business, got %s and %s", a, other)
	}
}

func TestCached_DisabledAlwaysBuilds(t *testing.T) {
	t.Setenv("ENABLE_REPORT_CACHE", "")
	calls := 0
	build := func() (*Stats, error) {
		calls++
		return &Stats{Currency: "MMK"}, nil
	}
	for i := 0; i < 2; i++ {
		if _, err := cached(context.Background(), "period", "biz-1", nil, build); err != nil {
			t.Fatalf("cached error: %v", err)
		}
	}
	if calls != 2 {
		t.Fatalf("expected 2 builds, got %d", calls)
	}
}

func TestReportCachePattern_MatchesOnlyOwnBusiness(t *testing.T) {
	own, _ := reportCacheKey("period", "biz-1", PeriodQuery{Period: "today"})
	other, _ := reportCacheKey("dues", "biz-2", DuesQuery{})
	if ok, _ := path.Match(reportCachePattern("biz-1"), own); !ok {
		t.Fatalf("pattern must match %s", own)
	}
	if ok, _ := path.Match(reportCachePattern("biz-1"), other); ok {
		t.Fatalf("pattern must not match %s", other)
	}
}

func TestInvalidateReportCache_WithoutRedis(t *testing.T) {
	n, err := InvalidateReportCache(context.Background(), "biz-1")
	if err != nil || n != 0 {
		t.Fatalf("expected no-op without redis, got %d, %v", n, err)
	}
}
