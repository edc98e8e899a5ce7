package domain

import "strings"

var roleDomains = []struct {
	suffix string
	role   Role
}{
	{"@adm.com", RoleAdmin},
	{"@dev.com", RoleDeveloper},
	{"@gmail.com", RoleCustomer},
}

// RoleForEmail maps an email to a role by exact, case-sensitive domain suffix.
func RoleForEmail(email string) (Role, error) {
	for _, d := range roleDomains {
		if strings.HasSuffix(email, d.suffix) {
			return d.role, nil
		}
	}
	return "", &ValidationError{Field: "email", Value: email, Err: ErrUnsupportedDomain}
}
