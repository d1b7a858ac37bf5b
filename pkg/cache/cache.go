package cache

import "time"

func Init(claimTTL time.Duration) {
	_ = GetClaimCache(claimTTL)
}
