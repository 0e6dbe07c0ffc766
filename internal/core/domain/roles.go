package domain

// Role is a privilege level. The set is closed; every authorization
// decision goes through Allowed so the taxonomy lives in one place.
type Role string

const (
	RoleSuperAdmin         Role = "SUPER_ADMIN"
	RoleAdmin              Role = "ADMIN"
	RoleAdminAssistant     Role = "ADMIN_ASSISTANT"
	RoleDivisionClerk      Role = "DIVISION_CLERK"
	RoleDivisionHead       Role = "DIVISION_HEAD"
	RoleSectionHead        Role = "SECTION_HEAD"
	RoleProvincialEngineer Role = "PROVINCIAL_ENGINEER"
)

// ParseRole validates a role string from the outside.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleSuperAdmin, RoleAdmin, RoleAdminAssistant, RoleDivisionClerk,
		RoleDivisionHead, RoleSectionHead, RoleProvincialEngineer:
		return Role(s), true
	}
	return "", false
}

// Permission names a protected operation.
type Permission string

const (
	PermCreateDocument  Permission = "document:create"
	PermEditDocument    Permission = "document:edit"
	PermDeleteDocument  Permission = "document:delete"
	PermSubmitDocument  Permission = "document:submit"  // -> FOR_REVIEW
	PermReviseDocument  Permission = "document:revise"  // -> REVISION
	PermReleaseDocument Permission = "document:release" // -> RELEASED
	PermViewDocument    Permission = "document:view"
	PermManageUsers     Permission = "user:manage"
	PermManageMaster    Permission = "master:manage"
)

// permissionRoles declares which roles may invoke each operation.
var permissionRoles = map[Permission][]Role{
	PermCreateDocument:  {RoleSuperAdmin, RoleAdmin, RoleAdminAssistant},
	PermEditDocument:    {RoleSuperAdmin, RoleAdmin, RoleAdminAssistant, RoleDivisionClerk},
	PermDeleteDocument:  {RoleSuperAdmin, RoleAdmin, RoleAdminAssistant},
	PermSubmitDocument:  {RoleSuperAdmin, RoleAdmin, RoleAdminAssistant, RoleDivisionClerk},
	PermReviseDocument:  {RoleSuperAdmin, RoleAdmin, RoleDivisionHead, RoleSectionHead, RoleProvincialEngineer},
	PermReleaseDocument: {RoleSuperAdmin, RoleAdmin, RoleProvincialEngineer},
	PermViewDocument: {RoleSuperAdmin, RoleAdmin, RoleAdminAssistant, RoleDivisionClerk,
		RoleDivisionHead, RoleSectionHead, RoleProvincialEngineer},
	PermManageUsers:  {RoleSuperAdmin, RoleAdmin},
	PermManageMaster: {RoleSuperAdmin, RoleAdmin},
}

// TransitionPermission maps a target status to the operation that moves
// a document into it.
func TransitionPermission(to Status) Permission {
	switch to {
	case StatusForReview:
		return PermSubmitDocument
	case StatusRevision:
		return PermReviseDocument
	case StatusReleased:
		return PermReleaseDocument
	default:
		return PermEditDocument
	}
}

// Allowed reports whether the role may invoke the operation.
func Allowed(role Role, perm Permission) bool {
	for _, r := range permissionRoles[perm] {
		if r == role {
			return true
		}
	}
	return false
}
