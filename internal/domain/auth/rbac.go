package auth

import "slices"

// Permission is a namespaced capability string of the form resource:action.
type Permission string

const (
	PermPostsCreate     Permission = "posts:create"
	PermPostsRead       Permission = "posts:read"
	PermPostsUpdate     Permission = "posts:update"
	PermPostsDelete     Permission = "posts:delete"
	PermPostsBulkUpdate Permission = "posts:bulk-update"
	PermPostsBulkDelete Permission = "posts:bulk-delete"

	PermCommentsCreate Permission = "comments:create"
	PermCommentsRead   Permission = "comments:read"
	PermCommentsUpdate Permission = "comments:update"
	PermCommentsDelete Permission = "comments:delete"

	PermUsersRead   Permission = "users:read"
	PermUsersUpdate Permission = "users:update"
	PermUsersDelete Permission = "users:delete"

	PermWellnessRead   Permission = "wellness:read"
	PermWellnessCreate Permission = "wellness:create"

	PermAdminAccess Permission = "admin:access"
)

// readerPermissions is the base grant shared by every role.
//
// posts:update and posts:delete are granted globally here; handlers that mutate
// a specific post narrow them with CanModifyOwnResource.
var readerPermissions = []Permission{ //nolint:gochecknoglobals // immutable role table
	PermPostsCreate, PermPostsRead, PermPostsUpdate, PermPostsDelete,
	PermCommentsCreate, PermCommentsRead, PermCommentsUpdate, PermCommentsDelete,
	PermWellnessRead, PermWellnessCreate,
}

var editorPermissions = append(slices.Clone(readerPermissions), //nolint:gochecknoglobals // immutable role table
	PermPostsBulkUpdate, PermPostsBulkDelete,
)

var adminPermissions = append(slices.Clone(editorPermissions), //nolint:gochecknoglobals // immutable role table
	PermUsersRead, PermUsersUpdate, PermUsersDelete,
	PermAdminAccess,
)

var rolePermissions = map[Role]map[Permission]struct{}{ //nolint:gochecknoglobals // immutable role table
	RoleReader: permissionSet(readerPermissions),
	RoleEditor: permissionSet(editorPermissions),
	RoleAdmin:  permissionSet(adminPermissions),
}

func permissionSet(perms []Permission) map[Permission]struct{} {
	set := make(map[Permission]struct{}, len(perms))
	for _, p := range perms {
		set[p] = struct{}{}
	}
	return set
}

// HasPermission reports whether role is granted perm. Unknown roles have no permissions.
func HasPermission(role Role, perm Permission) bool {
	set, ok := rolePermissions[role]
	if !ok {
		return false
	}
	_, granted := set[perm]
	return granted
}

// PermissionsFor returns a copy of the permissions granted to role, in table order.
func PermissionsFor(role Role) []Permission {
	switch role {
	case RoleAdmin:
		return slices.Clone(adminPermissions)
	case RoleEditor:
		return slices.Clone(editorPermissions)
	case RoleReader:
		return slices.Clone(readerPermissions)
	default:
		return nil
	}
}

// IsAdmin reports whether role is the admin role.
func IsAdmin(role Role) bool {
	return role == RoleAdmin
}

// CanModifyOwnResource reports whether requestorID may modify a resource owned by ownerID.
// Admins may modify anything; everyone else only resources they own.
func CanModifyOwnResource(role Role, ownerID, requestorID string) bool {
	if IsAdmin(role) {
		return true
	}
	return ownerID != "" && ownerID == requestorID
}
