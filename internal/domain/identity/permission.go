package identity

import "strings"

// Permission strings are "resource:action". "*" grants everything and "resource:*"
// grants every action on one resource.
const (
	PermissionAll = "*"

	PermKOTRead        = "kot:read"
	PermKOTWrite       = "kot:write"
	PermKOTDelete      = "kot:delete"
	PermInventoryRead  = "inventory:read"
	PermInventoryWrite = "inventory:write"
	PermCatalogRead    = "catalog:read"
	PermCatalogWrite   = "catalog:write"
	PermSaleRead       = "sale:read"
	PermSaleWrite      = "sale:write"
	PermPurchaseRead   = "purchase:read"
	PermPurchaseWrite  = "purchase:write"
	PermPartnerRead    = "partner:read"
	PermPartnerWrite   = "partner:write"
	PermReportRead     = "report:read"
	PermUserManage     = "user:manage"
)

// DefaultCashierPermissions are granted to counter staff
var DefaultCashierPermissions = []string{
	PermKOTRead, PermKOTWrite,
	PermCatalogRead,
	PermSaleRead, PermSaleWrite,
	PermPartnerRead,
	PermInventoryRead,
}

// IsValidPermission accepts "*" and "resource:action" with non-empty parts
func IsValidPermission(p string) bool {
	if p == PermissionAll {
		return true
	}
	resource, action, ok := strings.Cut(p, ":")
	return ok && resource != "" && action != "" && !strings.Contains(action, ":")
}

// Grants reports whether a permission list covers the required permission
func Grants(held []string, required string) bool {
	resource, _, _ := strings.Cut(required, ":")
	for _, p := range held {
		if p == PermissionAll || p == required || p == resource+":*" {
			return true
		}
	}
	return false
}
