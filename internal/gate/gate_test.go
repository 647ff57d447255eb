package gate

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/edudesk-api/internal/models"
)

func TestDecideWhileResolvingReturnsLoading(t *testing.T) {
	decision := Decide(SessionResult{State: SessionStateResolving}, []models.Role{models.RoleAdmin})
	require.Equal(t, OutcomeLoading, decision.Outcome)
	require.Empty(t, decision.RedirectTo)
}

func TestDecideWithoutSessionRedirectsToAuth(t *testing.T) {
	decision := Decide(SessionResult{State: SessionStateReady}, []models.Role{models.RoleAdmin})
	require.Equal(t, OutcomeRedirectAuth, decision.Outcome)
	require.Equal(t, AuthPath, decision.RedirectTo)
}

func TestDecideDeniedRedirectsToRoleHome(t *testing.T) {
	session := &Session{UserID: 7, Role: models.RoleTeacher}
	decision := Decide(SessionResult{State: SessionStateReady, Session: session}, []models.Role{models.RoleAdmin})
	require.Equal(t, OutcomeRedirectDenied, decision.Outcome)
	require.Equal(t, "/teacher/dashboard", decision.RedirectTo)
	require.NotEmpty(t, decision.Message)
}

func TestDecideDeniedNeverRendersForExcludedRole(t *testing.T) {
	allowed := []models.Role{models.RoleAdmin}
	for _, role := range []models.Role{models.RoleTeacher, models.RoleParent, models.RoleStudent} {
		session := &Session{UserID: 1, Role: role}
		decision := Decide(SessionResult{State: SessionStateReady, Session: session}, allowed)
		require.Equal(t, OutcomeRedirectDenied, decision.Outcome, "role %s", role)
		require.Equal(t, role.HomePath(), decision.RedirectTo)
	}
}

func TestDecideEmptyAllowedRolesAdmitsAnyAuthenticatedRole(t *testing.T) {
	for _, role := range []models.Role{models.RoleAdmin, models.RoleTeacher, models.RoleParent, models.RoleStudent} {
		session := &Session{UserID: 1, Role: role}
		decision := Decide(SessionResult{State: SessionStateReady, Session: session}, nil)
		require.Equal(t, OutcomeRender, decision.Outcome, "role %s", role)
	}
}

func TestDecideEmptyAllowedRolesStillRequiresSession(t *testing.T) {
	decision := Decide(SessionResult{State: SessionStateReady}, nil)
	require.Equal(t, OutcomeRedirectAuth, decision.Outcome)
}

func TestDecideMatchingRoleRenders(t *testing.T) {
	session := &Session{UserID: 3, Role: models.RoleAdmin}
	decision := Decide(SessionResult{State: SessionStateReady, Session: session}, []models.Role{models.RoleAdmin, models.RoleTeacher})
	require.Equal(t, OutcomeRender, decision.Outcome)
}

func TestRoleHomePathsAreExhaustive(t *testing.T) {
	require.Equal(t, "/admin/dashboard", models.RoleAdmin.HomePath())
	require.Equal(t, "/teacher/dashboard", models.RoleTeacher.HomePath())
	require.Equal(t, "/parent/dashboard", models.RoleParent.HomePath())
	require.Equal(t, "/student/dashboard", models.RoleStudent.HomePath())
}
