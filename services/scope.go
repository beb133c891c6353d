package services

import (
	"gorm.io/gorm"

	"region-feedback-server/models"
	"region-feedback-server/types"
)

type filterKind int

const (
	filterUnrestricted filterKind = iota
	filterSingle
	filterSet
	filterEmpty
)

// RegionFilter is the effective region restriction for a request. It is one
// of: unrestricted (super-admin), a single validated region, the caller's
// assigned region set, or empty (sees nothing).
type RegionFilter struct {
	kind    filterKind
	regions []uint
}

// ResolveRegionFilter computes the filter for a caller and an optional
// explicit region. The policy fails closed: a missing role, an empty
// assignment set, or a requested region outside the assignment set all
// resolve to the empty filter, never to full access.
func ResolveRegionFilter(user *types.RequestUser, requested *uint) RegionFilter {
	if user == nil {
		// Public endpoints pass no caller; no scoping applies.
		if requested != nil {
			return RegionFilter{kind: filterSingle, regions: []uint{*requested}}
		}
		return RegionFilter{kind: filterUnrestricted}
	}

	switch models.AdminRole(user.Role) {
	case models.RoleSuperAdmin:
		if requested != nil {
			return RegionFilter{kind: filterSingle, regions: []uint{*requested}}
		}
		return RegionFilter{kind: filterUnrestricted}

	case models.RoleAdmin:
		if len(user.AllowedRegions) == 0 {
			return RegionFilter{kind: filterEmpty}
		}
		if requested != nil {
			for _, id := range user.AllowedRegions {
				if id == *requested {
					return RegionFilter{kind: filterSingle, regions: []uint{*requested}}
				}
			}
			return RegionFilter{kind: filterEmpty}
		}
		set := make([]uint, len(user.AllowedRegions))
		copy(set, user.AllowedRegions)
		return RegionFilter{kind: filterSet, regions: set}
	}

	return RegionFilter{kind: filterEmpty}
}

// IsEmpty reports whether the caller can see nothing. Callers short-circuit
// to an empty success result without touching storage.
func (f RegionFilter) IsEmpty() bool {
	return f.kind == filterEmpty
}

// IsUnrestricted reports whether no region condition applies
func (f RegionFilter) IsUnrestricted() bool {
	return f.kind == filterUnrestricted
}

// Contains checks a single entity's region against the filter, used by
// find-by-id lookups after the fetch.
func (f RegionFilter) Contains(regionID uint) bool {
	switch f.kind {
	case filterUnrestricted:
		return true
	case filterEmpty:
		return false
	}
	for _, id := range f.regions {
		if id == regionID {
			return true
		}
	}
	return false
}

// RegionIDs returns the restricted region set; nil when unrestricted
func (f RegionFilter) RegionIDs() []uint {
	if f.kind == filterUnrestricted {
		return nil
	}
	return f.regions
}

// Apply adds the filter's WHERE condition on the given column. The empty
// filter yields a condition matching no rows, so a caller that forgot to
// short-circuit still leaks nothing.
func (f RegionFilter) Apply(q *gorm.DB, column string) *gorm.DB {
	switch f.kind {
	case filterUnrestricted:
		return q
	case filterEmpty:
		return q.Where("1 = 0")
	default:
		return q.Where(column+" IN ?", f.regions)
	}
}
