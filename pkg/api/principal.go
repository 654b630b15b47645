package api

type (
	// PrincipalType distinguishes human callers from service credentials
	PrincipalType string

	// Principal is the authenticated caller of a request
	Principal struct {
		ID        UserID        `json:"id"`
		Type      PrincipalType `json:"type"`
		ProjectID ProjectID     `json:"project_id"`
	}
)

const (
	// PrincipalUser is a human caller authenticated with their own identity
	PrincipalUser PrincipalType = "USER"

	// PrincipalService is a machine credential scoped to a project
	PrincipalService PrincipalType = "SERVICE"
)

// IsService returns true when the principal is a machine credential
func (p *Principal) IsService() bool {
	return p.Type == PrincipalService
}
