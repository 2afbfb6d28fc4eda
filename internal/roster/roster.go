// Package roster keeps the selected train consistent with the latest roster.
package roster

import (
	"github.com/samber/lo"

	"tarediiran-industries.com/side-services/internal/viewmodel"
)

// None is the empty selection.
const None = ""

// Find looks a train up by its stable identifier.
func Find(roster []viewmodel.TrainSummary, trainNo string) (viewmodel.TrainSummary, bool) {
	if trainNo == None {
		return viewmodel.TrainSummary{}, false
	}
	return lo.Find(roster, func(train viewmodel.TrainSummary) bool {
		return train.TrainNoLocal == trainNo
	})
}

// Select moves the selection to trainNo when it is in the roster; otherwise
// the current selection is kept.
func Select(roster []viewmodel.TrainSummary, current, trainNo string) (string, bool) {
	if _, ok := Find(roster, trainNo); !ok {
		return current, false
	}
	return trainNo, true
}

// Reconcile is applied whenever the roster is replaced: a selection whose
// train is gone is cleared rather than left pointing at stale data.
func Reconcile(selected string, roster []viewmodel.TrainSummary) string {
	if _, ok := Find(roster, selected); ok {
		return selected
	}
	return None
}

// Detail returns the record the detail panel binds to, if any.
func Detail(roster []viewmodel.TrainSummary, selected string) (viewmodel.TrainSummary, bool) {
	return Find(roster, selected)
}
