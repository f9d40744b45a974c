package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasPermission_Table(t *testing.T) {
	all := []Permission{
		PermPostsCreate, PermPostsRead, PermPostsUpdate, PermPostsDelete,
		PermPostsBulkUpdate, PermPostsBulkDelete,
		PermCommentsCreate, PermCommentsRead, PermCommentsUpdate, PermCommentsDelete,
		PermUsersRead, PermUsersUpdate, PermUsersDelete,
		PermWellnessRead, PermWellnessCreate,
		PermAdminAccess,
	}

	editorDenied := map[Permission]bool{
		PermUsersRead: true, PermUsersUpdate: true, PermUsersDelete: true, PermAdminAccess: true,
	}
	readerDenied := map[Permission]bool{
		PermPostsBulkUpdate: true, PermPostsBulkDelete: true,
		PermUsersRead: true, PermUsersUpdate: true, PermUsersDelete: true, PermAdminAccess: true,
	}

	for _, p := range all {
		t.Run(string(p), func(t *testing.T) {
			assert.True(t, HasPermission(RoleAdmin, p), "admin should have %s", p)
			assert.Equal(t, !editorDenied[p], HasPermission(RoleEditor, p), "editor %s", p)
			assert.Equal(t, !readerDenied[p], HasPermission(RoleReader, p), "reader %s", p)
		})
	}
}

func TestHasPermission_Examples(t *testing.T) {
	assert.False(t, HasPermission(RoleReader, PermAdminAccess))
	assert.True(t, HasPermission(RoleAdmin, PermAdminAccess))
	assert.True(t, HasPermission(RoleEditor, PermPostsBulkDelete))
}

func TestHasPermission_UnknownRoleOrPermission(t *testing.T) {
	assert.False(t, HasPermission(Role("superuser"), PermPostsRead))
	assert.False(t, HasPermission(Role(""), PermPostsRead))
	assert.False(t, HasPermission(RoleAdmin, Permission("posts:publish")))
}

func TestPermissionsFor_ReturnsCopy(t *testing.T) {
	perms := PermissionsFor(RoleReader)
	assert.Len(t, perms, 10)
	perms[0] = PermAdminAccess

	assert.False(t, HasPermission(RoleReader, PermAdminAccess))
	assert.Equal(t, PermPostsCreate, PermissionsFor(RoleReader)[0])
	assert.Len(t, PermissionsFor(RoleEditor), 12)
	assert.Len(t, PermissionsFor(RoleAdmin), 16)
	assert.Nil(t, PermissionsFor(Role("nobody")))
}

func TestCanModifyOwnResource(t *testing.T) {
	tests := []struct {
		name      string
		role      Role
		owner     string
		requestor string
		want      bool
	}{
		{name: "admin on someone else's resource", role: RoleAdmin, owner: "u1", requestor: "u2", want: true},
		{name: "editor on own resource", role: RoleEditor, owner: "u1", requestor: "u1", want: true},
		{name: "editor on someone else's resource", role: RoleEditor, owner: "u1", requestor: "u2", want: false},
		{name: "reader on own resource", role: RoleReader, owner: "u3", requestor: "u3", want: true},
		{name: "reader on someone else's resource", role: RoleReader, owner: "u1", requestor: "u3", want: false},
		{name: "missing owner", role: RoleReader, owner: "", requestor: "", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanModifyOwnResource(tt.role, tt.owner, tt.requestor))
		})
	}
}

func TestRole_ValidAndParse(t *testing.T) {
	assert.True(t, RoleAdmin.Valid())
	assert.True(t, RoleEditor.Valid())
	assert.True(t, RoleReader.Valid())
	assert.False(t, Role("guest").Valid())

	r, ok := ParseRole(" Editor ")
	assert.True(t, ok)
	assert.Equal(t, RoleEditor, r)

	_, ok = ParseRole("owner")
	assert.False(t, ok)
	assert.True(t, IsAdmin(RoleAdmin))
	assert.False(t, IsAdmin(RoleEditor))
}
