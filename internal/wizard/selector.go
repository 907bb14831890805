package wizard

import (
	"strings"

	"github.com/jobcircle/onboarding-api/internal/models"
	apperrors "github.com/jobcircle/onboarding-api/pkg/errors"
)

// OtherSkillSentinel is the catalog option value that switches the
// selector into free-text mode instead of selecting a skill.
const OtherSkillSentinel = "other"

// SelectSkill applies a catalog pick to the draft. Picking the "other"
// sentinel flips the selector into free-text mode and selects nothing.
// It returns whether the selection changed; re-picking an already
// selected id changes nothing.
func SelectSkill(draft *models.RegistrationDraft, id, name string) bool {
	if id == OtherSkillSentinel {
		draft.SetOtherMode(true)
		return true
	}
	added := false
	draft.MutateSkills(func(s *models.SkillSelection) {
		added = s.Add(id, name)
	})
	return added
}

// AddOtherSkill adds a free-text skill to the draft. The text is
// trimmed first; blank input is rejected, and a name that duplicates
// any selected entry is a conflict. Duplicate names compare case
// sensitively, so adding both "SQL" and "sql" is allowed. A successful
// add leaves free-text mode; a rejected one stays in it.
func AddOtherSkill(draft *models.RegistrationDraft, text string) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return apperrors.InvalidInputError("name", "must not be blank")
	}
	added := false
	draft.MutateSkills(func(s *models.SkillSelection) {
		added = s.AddOther(trimmed)
	})
	if !added {
		return apperrors.ConflictError("name", "skill already selected")
	}
	draft.SetOtherMode(false)
	return nil
}

// RemoveSkill drops a selected skill from the draft. Removing an
// absent id is a no-op.
func RemoveSkill(draft *models.RegistrationDraft, id string) bool {
	removed := false
	draft.MutateSkills(func(s *models.SkillSelection) {
		removed = s.Remove(id)
	})
	return removed
}
