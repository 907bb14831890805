package wizard_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jobcircle/onboarding-api/internal/models"
	"github.com/jobcircle/onboarding-api/internal/wizard"
	apperrors "github.com/jobcircle/onboarding-api/pkg/errors"
)

func TestSelectSkill_DeduplicatesByID(t *testing.T) {
	draft := models.NewRegistrationDraft("d1")

	assert.True(t, wizard.SelectSkill(draft, "sk-go", "Go"))
	assert.True(t, wizard.SelectSkill(draft, "sk-sql", "SQL"))
	assert.False(t, wizard.SelectSkill(draft, "sk-go", "Go"), "re-picking a selected id must change nothing")

	skills := draft.Skills()
	assert.Len(t, skills, 2)
	assert.Equal(t, "sk-go", skills[0].ID)
	assert.Equal(t, "sk-sql", skills[1].ID)
}

func TestSelectSkill_OtherSentinelEntersFreeTextMode(t *testing.T) {
	draft := models.NewRegistrationDraft("d1")

	assert.True(t, wizard.SelectSkill(draft, wizard.OtherSkillSentinel, ""))
	assert.True(t, draft.OtherMode())
	assert.Empty(t, draft.Skills(), "the sentinel selects nothing")
}

func TestAddOtherSkill_CaseSensitiveDedup(t *testing.T) {
	draft := models.NewRegistrationDraft("d1")

	assert.NoError(t, wizard.AddOtherSkill(draft, "Kubernetes"))

	err := wizard.AddOtherSkill(draft, "Kubernetes")
	assert.True(t, apperrors.Is(err, apperrors.ErrConflict), "exact duplicate name must be rejected")

	assert.NoError(t, wizard.AddOtherSkill(draft, "kubernetes"), "name comparison is case sensitive")

	skills := draft.Skills()
	assert.Len(t, skills, 2)
	for _, s := range skills {
		assert.True(t, s.IsOther())
	}
	assert.NotEqual(t, skills[0].ID, skills[1].ID)
}

func TestAddOtherSkill_RejectsNameOfCatalogEntry(t *testing.T) {
	draft := models.NewRegistrationDraft("d1")
	assert.True(t, wizard.SelectSkill(draft, "sk-go", "Go"))

	err := wizard.AddOtherSkill(draft, "Go")
	assert.True(t, apperrors.Is(err, apperrors.ErrConflict), "free-text name matching a catalog entry must be rejected")
	assert.Len(t, draft.Skills(), 1)

	assert.NoError(t, wizard.AddOtherSkill(draft, "go"), "comparison stays case sensitive across entry kinds")
	assert.Len(t, draft.Skills(), 2)
}

func TestAddOtherSkill_TrimsAndRejectsBlank(t *testing.T) {
	draft := models.NewRegistrationDraft("d1")

	assert.NoError(t, wizard.AddOtherSkill(draft, "  Terraform  "))
	assert.Equal(t, "Terraform", draft.Skills()[0].Name)

	err := wizard.AddOtherSkill(draft, "   ")
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
}

func TestAddOtherSkill_LeavesFreeTextModeOnSuccessOnly(t *testing.T) {
	draft := models.NewRegistrationDraft("d1")
	wizard.SelectSkill(draft, wizard.OtherSkillSentinel, "")
	assert.True(t, draft.OtherMode())

	assert.NoError(t, wizard.AddOtherSkill(draft, "COBOL"))
	assert.False(t, draft.OtherMode())

	wizard.SelectSkill(draft, wizard.OtherSkillSentinel, "")
	err := wizard.AddOtherSkill(draft, "COBOL")
	assert.True(t, apperrors.Is(err, apperrors.ErrConflict))
	assert.True(t, draft.OtherMode(), "a rejected add stays in free-text mode")
}

func TestRemoveSkill(t *testing.T) {
	draft := models.NewRegistrationDraft("d1")
	wizard.SelectSkill(draft, "sk-go", "Go")
	wizard.SelectSkill(draft, "sk-sql", "SQL")

	assert.True(t, wizard.RemoveSkill(draft, "sk-go"))
	assert.False(t, wizard.RemoveSkill(draft, "sk-go"), "removing an absent id is a no-op")

	skills := draft.Skills()
	assert.Len(t, skills, 1)
	assert.Equal(t, "sk-sql", skills[0].ID)
}

func TestSkillSelection_IDsPreserveOrder(t *testing.T) {
	var sel models.SkillSelection
	sel.Add("b", "B")
	sel.Add("a", "A")
	sel.AddOther("Zig")

	ids := sel.IDs()
	assert.Len(t, ids, 3)
	assert.Equal(t, "b", ids[0])
	assert.Equal(t, "a", ids[1])
	assert.Contains(t, ids[2], models.OtherSkillPrefix)
}

func TestSkillSelection_AddOtherRejectsCatalogName(t *testing.T) {
	var sel models.SkillSelection
	sel.Add("sk-go", "Go")

	assert.False(t, sel.AddOther("Go"), "name matching a catalog entry must be rejected")
	assert.Equal(t, 1, sel.Len())
}
