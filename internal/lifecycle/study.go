package lifecycle

import (
	"fmt"
	"slices"
	"time"

	"github.com/you-humble/btp-quote/internal/model"
)

// Forward order of study statuses.
var studyOrder = []model.StudyStatus{
	model.StudyNone,
	model.StudyPending,
	model.StudyInProgress,
	model.StudyCompleted,
}

func studyRank(s model.StudyStatus) int {
	return slices.Index(studyOrder, s)
}

func KnownStudyStatus(s model.StudyStatus) bool {
	return studyRank(s) >= 0
}

// ValidateStudyTransition allows staying in place and any forward move,
// skipping included. Regressions are rejected.
func ValidateStudyTransition(from, to model.StudyStatus) error {
	if from == "" {
		from = model.StudyNone
	}
	if !KnownStudyStatus(from) {
		return model.NewValidationError(fmt.Sprintf("unknown study status %q", from))
	}
	if !KnownStudyStatus(to) {
		return model.NewValidationError(fmt.Sprintf("unknown study status %q", to))
	}
	if studyRank(to) < studyRank(from) {
		return model.NewValidationError(fmt.Sprintf("study status cannot go back from %s to %s", from, to))
	}
	return nil
}

// ApplyStudyStatus moves the study to status and merges details. Entering
// in_progress stamps StartDate and entering completed stamps
// CompletionDate, unless details or the study already carry one.
func ApplyStudyStatus(
	s model.StructuralStudy,
	status model.StudyStatus,
	details *model.StudyDetails,
	now time.Time,
) (model.StructuralStudy, error) {
	if err := ValidateStudyTransition(s.Status, status); err != nil {
		return s, err
	}

	out := s.Clone()
	out.Status = status

	if details != nil {
		if details.EngineerName != nil {
			out.EngineerName = *details.EngineerName
		}
		if details.EngineerContact != nil {
			out.EngineerContact = *details.EngineerContact
		}
		if details.Notes != nil {
			out.Notes = *details.Notes
		}
		if details.StartDate != nil {
			d := *details.StartDate
			out.StartDate = &d
		}
		if details.CompletionDate != nil {
			d := *details.CompletionDate
			out.CompletionDate = &d
		}
	}

	now = now.UTC()
	if status == model.StudyInProgress && out.StartDate == nil {
		out.StartDate = &now
	}
	if status == model.StudyCompleted && out.CompletionDate == nil {
		out.CompletionDate = &now
	}

	return out, nil
}
