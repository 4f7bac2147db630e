package utils

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/mmdatafocus/shop_ledger/config"
)

var ErrLockNotObtained = errors.New("could not obtain lock for businessID")

func DereferencePtr[T any](ptr *T, defaults ...T) T {
	if ptr != nil {
		return *ptr
	}
	var d T
	if len(defaults) > 0 {
		d = defaults[0]
	}
	return d
}

// WithBusinessLock runs fn while holding a redis lock scoped to businessId and lockType.
// Without a redis lock client fn runs unlocked; a lock held by someone else returns ErrLockNotObtained.
func WithBusinessLock(ctx context.Context, businessId string, lockType string, moduleName string, functionName string, fn func() error) error {
	logger := config.GetLogger()
	locker := config.GetRedisLock()
	if locker == nil {
		logger.WithField("module", moduleName).WithField("funcName", functionName).Debug("redis lock not initialized; running unlocked")
		return fn()
	}
	lockKey := fmt.Sprintf("%s:%s", lockType, businessId)
	lock, err := locker.Obtain(ctx, lockKey, 60*time.Second, nil)
	if err == redislock.ErrNotObtained {
		config.LogError(logger, moduleName, functionName, "Could not obtain lock for businessID", businessId, err)
		return ErrLockNotObtained
	} else if err != nil {
		config.LogError(logger, moduleName, functionName, "Error obtaining lock for businessID", businessId, err)
		return err
	}
	defer func() {
		_ = lock.Release(ctx)
	}()

	return fn()
}
