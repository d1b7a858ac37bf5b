package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"boostiq/pkg/entities"
	"boostiq/utilities"
)

var claimCacheObject *ClaimCache

// ClaimCache holds per-user pending payment claims. A claim expires on its
// own when the user never submits a hash, which is the same as having no
// plan context at all.
type ClaimCache struct {
	store *gocache.Cache
	ttl   time.Duration
}

func GetClaimCache(ttl time.Duration) *ClaimCache {
	if claimCacheObject != nil {
		return claimCacheObject
	}

	claimCacheObject = &ClaimCache{
		store: gocache.New(ttl, 2*ttl),
		ttl:   ttl,
	}
	utilities.NewLogger("GetClaimCache").Info("Loaded claim cache")

	return claimCacheObject
}

func (c *ClaimCache) Put(claim entities.PaymentClaim) {
	c.store.Set(claim.UserID, claim, c.ttl)
}

func (c *ClaimCache) Get(userID string) (entities.PaymentClaim, bool) {
	v, ok := c.store.Get(userID)
	if !ok {
		return entities.PaymentClaim{}, false
	}

	return v.(entities.PaymentClaim), true
}

func (c *ClaimCache) Delete(userID string) {
	c.store.Delete(userID)
}
