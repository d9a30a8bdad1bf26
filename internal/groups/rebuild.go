// ABOUTME: Full recomputation and verification of record groups.
// ABOUTME: Used after exercise deletes, backdated inserts and by the check command.
package groups

import (
	"context"
	"fmt"

	"github.com/harperreed/fitlog/internal/models"
	"github.com/harperreed/fitlog/internal/storage"
	"go.uber.org/zap"
)

// Rebuild recomputes every group index from canonical order and returns
// how many records changed group.
func (m *Maintainer) Rebuild(ctx context.Context) (int, error) {
	var changed int
	err := m.store.WithTransaction(ctx, func(tx storage.Store) error {
		var err error
		changed, err = rebuild(ctx, tx)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("rebuild groups: %w", err)
	}
	m.log.Info("rebuilt groups", zap.Int("reassigned", changed))
	return changed, nil
}

// RepairIfNeeded rebuilds groups when the store reports an operation that
// committed in several chunks and then failed. It returns whether it ran.
func (m *Maintainer) RepairIfNeeded(ctx context.Context) (bool, error) {
	r, ok := m.store.(storage.Repairable)
	if !ok {
		return false, nil
	}
	needed, err := r.NeedsRepair(ctx)
	if err != nil || !needed {
		return false, err
	}
	m.log.Warn("unfinished operation found, rebuilding groups")
	if _, err := m.Rebuild(ctx); err != nil {
		return false, err
	}
	if err := r.MarkRepaired(ctx); err != nil {
		return false, fmt.Errorf("clear repair marker: %w", err)
	}
	return true, nil
}

func rebuild(ctx context.Context, tx storage.Store) (int, error) {
	records, err := tx.AllOrdered(ctx)
	if err != nil {
		return 0, err
	}

	changed := 0
	for i, want := range Assign(records) {
		if records[i].GroupIndex == want {
			continue
		}
		if err := tx.AssignGroup(ctx, records[i].ID, want); err != nil {
			return 0, err
		}
		changed++
	}
	return changed, nil
}

// Assign computes group indices for records given in canonical order.
// The oldest run gets 0 and each change of exercise starts a new group.
func Assign(records []*models.Record) []int64 {
	out := make([]int64, len(records))
	g := int64(-1)
	var prev int64
	for i := len(records) - 1; i >= 0; i-- {
		if g < 0 || records[i].ExerciseID != prev {
			g++
			prev = records[i].ExerciseID
		}
		out[i] = g
	}
	return out
}

// Kind classifies a group invariant violation.
type Kind string

const (
	// KindMixedExercise means one group holds more than one exercise.
	KindMixedExercise Kind = "mixed_exercise"
	// KindGap means group indices in use are not 0..k.
	KindGap Kind = "gap"
	// KindSplit means a group's records are not adjacent in canonical order.
	KindSplit Kind = "split"
	// KindOrder means a newer run has a lower index than an older one.
	KindOrder Kind = "order"
	// KindUnmerged means two adjacent groups hold the same exercise.
	KindUnmerged Kind = "unmerged"
)

// Violation describes one broken group invariant.
type Violation struct {
	Kind     Kind   `json:"kind" yaml:"kind"`
	Group    int64  `json:"group" yaml:"group"`
	RecordID int64  `json:"record_id,omitempty" yaml:"record_id,omitempty"`
	Detail   string `json:"detail" yaml:"detail"`
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: group %d: %s", v.Kind, v.Group, v.Detail)
}

// Verify reads every record and reports invariant violations.
func (m *Maintainer) Verify(ctx context.Context) ([]Violation, error) {
	records, err := m.store.AllOrdered(ctx)
	if err != nil {
		return nil, fmt.Errorf("verify groups: %w", err)
	}
	return Check(records), nil
}

// Check reports invariant violations for records given in canonical order.
func Check(records []*models.Record) []Violation {
	var out []Violation
	exerciseOf := make(map[int64]int64)
	closed := make(map[int64]bool)

	for i, r := range records {
		if ex, ok := exerciseOf[r.GroupIndex]; ok && ex != r.ExerciseID {
			out = append(out, Violation{
				Kind: KindMixedExercise, Group: r.GroupIndex, RecordID: r.ID,
				Detail: fmt.Sprintf("exercise %d in group of exercise %d", r.ExerciseID, ex),
			})
		} else if !ok {
			exerciseOf[r.GroupIndex] = r.ExerciseID
		}

		if i == 0 {
			continue
		}
		prev := records[i-1]
		if prev.GroupIndex == r.GroupIndex {
			continue
		}
		closed[prev.GroupIndex] = true
		if closed[r.GroupIndex] {
			out = append(out, Violation{
				Kind: KindSplit, Group: r.GroupIndex, RecordID: r.ID,
				Detail: "group resumes after another group",
			})
		}
		if r.GroupIndex > prev.GroupIndex {
			out = append(out, Violation{
				Kind: KindOrder, Group: r.GroupIndex, RecordID: r.ID,
				Detail: fmt.Sprintf("older record has higher group than newer group %d", prev.GroupIndex),
			})
		}
		if r.ExerciseID == prev.ExerciseID {
			out = append(out, Violation{
				Kind: KindUnmerged, Group: r.GroupIndex, RecordID: r.ID,
				Detail: fmt.Sprintf("adjacent to group %d with the same exercise", prev.GroupIndex),
			})
		}
	}

	for g := int64(0); g < int64(len(exerciseOf)); g++ {
		if _, ok := exerciseOf[g]; !ok {
			out = append(out, Violation{Kind: KindGap, Group: g, Detail: "index unused"})
		}
	}
	return out
}
