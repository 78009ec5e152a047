package domain

import "sort"

// Permission is an action string of the form "<resource>:<action>".
type Permission string

const (
	PermUsersRead   Permission = "users:read"
	PermUsersWrite  Permission = "users:write"
	PermUsersDelete Permission = "users:delete"

	PermBillsRead   Permission = "bills:read"
	PermBillsWrite  Permission = "bills:write"
	PermBillsDelete Permission = "bills:delete"

	PermNoticesRead   Permission = "notices:read"
	PermNoticesWrite  Permission = "notices:write"
	PermNoticesDelete Permission = "notices:delete"

	PermAmenitiesRead   Permission = "amenities:read"
	PermAmenitiesWrite  Permission = "amenities:write"
	PermAmenitiesDelete Permission = "amenities:delete"

	PermBookingsRead   Permission = "bookings:read"
	PermBookingsWrite  Permission = "bookings:write"
	PermBookingsDelete Permission = "bookings:delete"

	PermIssuesRead   Permission = "issues:read"
	PermIssuesWrite  Permission = "issues:write"
	PermIssuesDelete Permission = "issues:delete"

	PermVisitorsRead   Permission = "visitors:read"
	PermVisitorsWrite  Permission = "visitors:write"
	PermVisitorsDelete Permission = "visitors:delete"

	PermTechniciansRead   Permission = "technicians:read"
	PermTechniciansWrite  Permission = "technicians:write"
	PermTechniciansDelete Permission = "technicians:delete"

	PermPaymentsRead Permission = "payments:read"
)

// rolePermissions is the single authoritative role table. The dashboard only
// receives a copy of it for display purposes; every route re-checks here.
var rolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermUsersRead, PermUsersWrite, PermUsersDelete,
		PermBillsRead, PermBillsWrite, PermBillsDelete,
		PermNoticesRead, PermNoticesWrite, PermNoticesDelete,
		PermAmenitiesRead, PermAmenitiesWrite, PermAmenitiesDelete,
		PermBookingsRead, PermBookingsWrite, PermBookingsDelete,
		PermIssuesRead, PermIssuesWrite, PermIssuesDelete,
		PermVisitorsRead, PermVisitorsWrite, PermVisitorsDelete,
		PermTechniciansRead, PermTechniciansWrite, PermTechniciansDelete,
		PermPaymentsRead,
	},
	RoleCommittee: {
		PermUsersRead, PermUsersWrite,
		PermBillsRead, PermBillsWrite,
		PermNoticesRead, PermNoticesWrite, PermNoticesDelete,
		PermAmenitiesRead, PermAmenitiesWrite, PermAmenitiesDelete,
		PermBookingsRead, PermBookingsWrite, PermBookingsDelete,
		PermIssuesRead, PermIssuesWrite, PermIssuesDelete,
		PermVisitorsRead, PermVisitorsWrite,
		PermTechniciansRead, PermTechniciansWrite, PermTechniciansDelete,
		PermPaymentsRead,
	},
	RoleResident: {
		PermBillsRead, PermBillsWrite,
		PermNoticesRead,
		PermAmenitiesRead,
		PermBookingsRead, PermBookingsWrite,
		PermIssuesRead, PermIssuesWrite,
		PermVisitorsRead, PermVisitorsWrite,
		PermPaymentsRead,
	},
	RoleTenant: {
		PermBillsRead,
		PermNoticesRead,
		PermAmenitiesRead,
		PermBookingsRead, PermBookingsWrite,
		PermIssuesRead, PermIssuesWrite,
		PermVisitorsRead, PermVisitorsWrite,
		PermPaymentsRead,
	},
	RoleSecurity: {
		PermNoticesRead,
		PermVisitorsRead, PermVisitorsWrite,
	},
	RoleTechnician: {
		PermNoticesRead,
		PermIssuesRead, PermIssuesWrite,
	},
}

// permissionSets is rolePermissions frozen into lookup sets at init.
var permissionSets = func() map[Role]map[Permission]struct{} {
	sets := make(map[Role]map[Permission]struct{}, len(rolePermissions))
	for role, perms := range rolePermissions {
		set := make(map[Permission]struct{}, len(perms))
		for _, p := range perms {
			set[p] = struct{}{}
		}
		sets[role] = set
	}
	return sets
}()

// Authorize reports whether role holds perm. Unknown roles and unknown
// permissions are denied.
func Authorize(role Role, perm Permission) bool {
	_, ok := permissionSets[role][perm]
	return ok
}

// PermissionsFor returns a sorted copy of the permissions granted to role.
func PermissionsFor(role Role) []Permission {
	perms := make([]Permission, 0, len(rolePermissions[role]))
	perms = append(perms, rolePermissions[role]...)
	sort.Slice(perms, func(i, j int) bool { return perms[i] < perms[j] })
	return perms
}

// Privileged reports whether role manages other residents' records rather
// than only its own. Residents and tenants are scoped to themselves.
func Privileged(role Role) bool {
	return Authorize(role, PermUsersRead)
}
