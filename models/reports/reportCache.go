package reports

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mmdatafocus/shop_ledger/config"
	"github.com/mmdatafocus/shop_ledger/utils"
	"github.com/sirupsen/logrus"
)

func reportCacheEnabled() bool {
	v := strings.TrimSpace(os.Getenv("ENABLE_REPORT_CACHE"))
	return v == "1" || strings.EqualFold(v, "true") || strings.EqualFold(v, "yes") || strings.EqualFold(v, "on")
}

func reportCacheTTL() time.Duration {
	// Env: REPORT_CACHE_TTL_SECONDS (default 120s)
	ttl := 120
	if v := strings.TrimSpace(os.Getenv("REPORT_CACHE_TTL_SECONDS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			ttl = n
		}
	}
	return time.Duration(ttl) * time.Second
}

func reportSlowMs() int64 {
	// Env: REPORT_SLOW_MS (default 500ms)
	ms := int64(500)
	if v := strings.TrimSpace(os.Getenv("REPORT_SLOW_MS")); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			ms = n
		}
	}
	return ms
}

func logSlowReport(ctx context.Context, name string, started time.Time, extra map[string]any) {
	d := time.Since(started)
	if d.Milliseconds() < reportSlowMs() {
		return
	}
	biz, _ := utils.GetBusinessIdFromContext(ctx)
	cid, _ := utils.GetCorrelationIdFromContext(ctx)
	userId, _ := utils.GetUserIdFromContext(ctx)
	config.GetLogger().WithFields(logrus.Fields{
		"report":         name,
		"ms":             d.Milliseconds(),
		"business_id":    biz,
		"user_id":        userId,
		"correlation_id": cid,
		"extra":          extra,
	}).Warn("slow_report")
}

// reportCacheKey is report:<name>:<business>:<sha1 of the query JSON>.
func reportCacheKey(name string, businessId string, query any) (string, error) {
	raw, err := utils.MarshalToJSON(query)
	if err != nil {
		return "", err
	}
	sum := sha1.Sum([]byte(raw))
	return "report:" + name + ":" + businessId + ":" + hex.EncodeToString(sum[:8]), nil
}

func reportCachePattern(businessId string) string {
	return "report:*:" + businessId + ":*"
}

// InvalidateReportCache drops every cached report of businessId and returns how many keys went.
func InvalidateReportCache(ctx context.Context, businessId string) (int, error) {
	rdb := config.GetRedisDB()
	if rdb == nil || businessId == "" {
		return 0, nil
	}
	var keys []string
	iter := rdb.Scan(ctx, 0, reportCachePattern(businessId), 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return 0, err
	}
	if len(keys) == 0 {
		return 0, nil
	}
	if err := config.RemoveRedisKey(keys...); err != nil {
		return 0, err
	}
	return len(keys), nil
}

func cacheGet[T any](key string, dest *T) (bool, error) {
	return config.GetRedisObject(key, dest)
}

func cacheSet(key string, obj any, ttl time.Duration) error {
	return config.SetRedisObject(key, obj, ttl)
}

// cached serves name/query from Redis when the report cache is on, otherwise calls build.
// Cache errors are logged and never fail the report.
func cached[T any](ctx context.Context, name string, businessId string, query any, build func() (*T, error)) (*T, error) {
	if !reportCacheEnabled() {
		return build()
	}
	logger := config.GetLogger()
	key, err := reportCacheKey(name, businessId, query)
	if err != nil {
		config.LogError(logger, "reports", name, "cache key", query, err)
		return build()
	}
	var hit T
	if ok, err := cacheGet(key, &hit); err != nil {
		config.LogError(logger, "reports", name, "cache get "+key, nil, err)
	} else if ok {
		return &hit, nil
	}
	result, err := build()
	if err != nil {
		return nil, err
	}
	if err := cacheSet(key, result, reportCacheTTL()); err != nil {
		config.LogError(logger, "reports", name, "cache set "+key, nil, err)
	}
	return result, nil
}
