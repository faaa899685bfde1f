package authcore

import (
	"context"
	"fmt"

	"github.com/adminkit/authcore/permission"
)

// UserInfo resolves the user's display profile, role names, effective
// permission codes, and navigation menu forest.
//
// A roleless user gets empty roles, permissions, and menus, and no cache
// write — nothing is derivable without roles. The default admin account
// resolves to the single configured wildcard code regardless of its rows.
// For everyone else the resolved codes are written to the permission cache
// as a side effect.
func (e *Engine) UserInfo(ctx context.Context, userID int64) (*UserInfo, error) {
	if !e.ready() {
		return nil, ErrEngineNotReady
	}

	rows, err := e.credentials.FindUserPermissionRows(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if len(rows) == 0 {
		return nil, ErrUserUnavailable
	}

	first := rows[0]
	info := &UserInfo{
		DisplayName: first.NickName,
		Avatar:      first.Avatar,
		Roles:       permission.Roles(first.RoleNames),
	}
	if info.DisplayName == "" {
		info.DisplayName = first.UserName
	}

	if len(info.Roles) == 0 {
		info.Permissions = []string{}
		info.Menus = []*permission.MenuNode{}
		return info, nil
	}

	if first.UserName == e.config.Admin.Username {
		info.Permissions = []string{e.config.Admin.WildcardPermission}
	} else {
		info.Permissions = permission.Codes(rows)
	}
	e.cachePermissions(ctx, userID, info.Permissions)

	info.Menus = permission.MenuForest(rows)
	return info, nil
}

// Authorize reports whether the user holds any of the required codes.
//
// The cached set answers first; on a miss (or stale negative) the codes are
// recomputed from the credential store and the cache repopulated. The cache
// is therefore purely an accelerator — eviction or out-of-band invalidation
// can cost a round-trip but never a wrong answer.
func (e *Engine) Authorize(ctx context.Context, userID int64, required ...string) (bool, error) {
	if !e.ready() {
		return false, ErrEngineNotReady
	}
	if len(required) == 0 {
		return true, nil
	}

	cached, err := e.permCache.Members(ctx, userID)
	if err == nil && len(cached) > 0 {
		if e.grants(cached, required) {
			e.metricInc(MetricPermCacheHit)
			e.metricInc(MetricAuthorizeAllowed)
			return true, nil
		}
	}
	e.metricInc(MetricPermCacheMiss)

	rows, err := e.credentials.FindUserPermissionRows(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if len(rows) == 0 {
		e.authorizeDenied(userID)
		return false, nil
	}
	if len(permission.Roles(rows[0].RoleNames)) == 0 {
		e.authorizeDenied(userID)
		return false, nil
	}

	var codes []string
	if rows[0].UserName == e.config.Admin.Username {
		codes = []string{e.config.Admin.WildcardPermission}
	} else {
		codes = permission.Codes(rows)
	}
	e.cachePermissions(ctx, userID, codes)

	if e.grants(codes, required) {
		e.metricInc(MetricAuthorizeAllowed)
		return true, nil
	}
	e.authorizeDenied(userID)
	return false, nil
}

// InvalidatePermissions drops the cached permission set for a user. The
// CRUD layer calls this whenever the user's roles or any reachable
// permission's enabled-state change.
func (e *Engine) InvalidatePermissions(ctx context.Context, userID int64) error {
	if !e.ready() {
		return ErrEngineNotReady
	}
	if err := e.permCache.Invalidate(ctx, userID); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// grants reports whether held intersects required; the admin wildcard
// grants everything.
func (e *Engine) grants(held, required []string) bool {
	set := make(map[string]struct{}, len(held))
	for _, code := range held {
		if code == e.config.Admin.WildcardPermission {
			return true
		}
		set[code] = struct{}{}
	}
	for _, code := range required {
		if _, ok := set[code]; ok {
			return true
		}
	}
	return false
}

func (e *Engine) cachePermissions(ctx context.Context, userID int64, codes []string) {
	// Best-effort: the cache is an accelerator, a failed write must not
	// fail the request that resolved the codes.
	if err := e.permCache.Replace(ctx, userID, codes); err != nil {
		e.metricInc(MetricPermCacheWriteSkipped)
	}
}

func (e *Engine) authorizeDenied(userID int64) {
	e.metricInc(MetricAuthorizeDenied)
	e.auditEmit(EventAuthorizeDenied, userID, "", "", false, nil)
}
