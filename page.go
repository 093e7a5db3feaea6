package offercrawl

// PageRole declares what kind of page a document is.
type PageRole string

// Page roles.
const (
	RoleHome    PageRole = "home"
	RoleListing PageRole = "listing"
	RoleDetail  PageRole = "detail"
)

// Valid reports whether r is a known page role.
func (r PageRole) Valid() bool {
	switch r {
	case RoleHome, RoleListing, RoleDetail:
		return true
	}
	return false
}

// ParsePageRole parses a role name. Returns EINVALID for unknown names.
func ParsePageRole(s string) (PageRole, error) {
	r := PageRole(s)
	if !r.Valid() {
		return "", Errorf(EINVALID, "unknown page role %q", s)
	}
	return r, nil
}

// RoleForLink returns the page role of a classified offering link.
func RoleForLink(t LinkType) PageRole {
	if t == LinkListing {
		return RoleListing
	}
	return RoleDetail
}

// SectionCode identifies the part of a site a keyword was found in.
type SectionCode string

// Section codes.
const (
	SectionMenu           SectionCode = "menu"
	SectionServiceListing SectionCode = "service_listing"
	SectionServiceDetail  SectionCode = "service_detail"
)

// Valid reports whether c is a known section code.
func (c SectionCode) Valid() bool {
	switch c {
	case SectionMenu, SectionServiceListing, SectionServiceDetail:
		return true
	}
	return false
}

// SectionForRole returns the section keywords of a page role are stored in.
func SectionForRole(r PageRole) SectionCode {
	switch r {
	case RoleListing:
		return SectionServiceListing
	case RoleDetail:
		return SectionServiceDetail
	}
	return SectionMenu
}
