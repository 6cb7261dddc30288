package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sproutcare/sprout/internal/activity"
	"github.com/sproutcare/sprout/internal/logging"
	"github.com/sproutcare/sprout/internal/session"
	"github.com/sproutcare/sprout/internal/store"
)

func TestCheckIndexes(t *testing.T) {
	tests := []struct {
		name    string
		n       int
		save    []int
		discard []int
		wantErr bool
	}{
		{"none", 3, nil, nil, false},
		{"save and discard", 3, []int{1, 3}, []int{2}, false},
		{"zero", 3, []int{0}, nil, true},
		{"past end", 3, nil, []int{4}, true},
		{"both", 3, []int{2}, []int{2}, true},
		{"twice", 3, []int{1, 1}, nil, true},
		{"empty batch", 0, []int{1}, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkIndexes(tt.n, tt.save, tt.discard)
			if (err != nil) != tt.wantErr {
				t.Fatalf("checkIndexes(%d, %v, %v) error = %v, wantErr %v", tt.n, tt.save, tt.discard, err, tt.wantErr)
			}
		})
	}
}

func batchActivity(id, title string) activity.Activity {
	return activity.Activity{
		ID:        id,
		Title:     title,
		Rationale: "hands-on practice",
		Skills:    []activity.Skill{{Name: "stacking", Category: activity.CategoryPhysical}},
		Source:    activity.SourceFallbackTemplate,
		State:     activity.StateSuggested,
	}
}

func TestApplyChoices(t *testing.T) {
	ctx := context.Background()
	st, err := store.Open(filepath.Join(t.TempDir(), "sprout.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Students().Put(ctx, &activity.Student{ID: "kid", Name: "Ada", Age: 4}))

	d := &deps{log: logging.NewNop(), store: st}
	sess := session.NewManager(nil).Begin("kid")
	acts := []activity.Activity{
		batchActivity("a1", "Block Tower"),
		batchActivity("a2", "Paper Boats"),
		batchActivity("a3", "Leaf Rubbing"),
	}

	var out bytes.Buffer
	c := &cobra.Command{}
	c.SetOut(&out)
	c.SetContext(ctx)

	require.Error(t, applyChoices(c, d, sess, "kid", acts, []int{1}, []int{4}))
	assert.Zero(t, sess.Tracker().Len(), "a bad index writes nothing")

	require.NoError(t, applyChoices(c, d, sess, "kid", acts, []int{1}, []int{2}))
	assert.Contains(t, out.String(), "Block Tower")
	assert.Contains(t, out.String(), "Paper Boats")

	assert.True(t, sess.Tracker().Excludes("Paper Boats"))
	assert.False(t, sess.Tracker().Excludes("Block Tower"), "saving does not reject")

	saved, err := st.Activities().List(ctx, "kid", activity.StateSaved, 0)
	require.NoError(t, err)
	discarded, err := st.Activities().List(ctx, "kid", activity.StateDiscarded, 0)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	require.Len(t, discarded, 1)
	assert.Equal(t, "a1", saved[0].ID)
	assert.Equal(t, "a2", discarded[0].ID)
}

func TestSuggestCommandSavesAndDiscardsByIndex(t *testing.T) {
	db := isolateCLI(t)
	addReadyStudent(t, "kid")

	out, err := runCLI(t, "suggest", "kid", "--count", "3", "--supervision", "none", "--save", "1", "--discard", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "generated via backup")
	assert.Contains(t, out, "3 titles excluded")

	st := openCLIStore(t, db)
	saved, err := st.Activities().List(context.Background(), "kid", activity.StateSaved, 0)
	require.NoError(t, err)
	discarded, err := st.Activities().List(context.Background(), "kid", activity.StateDiscarded, 0)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	require.Len(t, discarded, 1)
	assert.NotEqual(t, saved[0].Title, discarded[0].Title)
	assert.True(t, saved[0].Source.Backup())
	assert.Contains(t, out, "saved")
	assert.Contains(t, out, saved[0].Title)
	assert.Contains(t, out, discarded[0].Title)

	_, err = runCLI(t, "suggest", "kid", "--save", "9")
	assert.ErrorContains(t, err, "choose a number from 1 to 3")
	saved, err = st.Activities().List(context.Background(), "kid", activity.StateSaved, 0)
	require.NoError(t, err)
	assert.Len(t, saved, 1, "nothing is saved when an index is out of range")
}

func TestSuggestRequiresRecentActivity(t *testing.T) {
	isolateCLI(t)
	_, err := runCLI(t, "student", "add", "kid", "--name", "Ada", "--age", "4")
	require.NoError(t, err)

	_, err = runCLI(t, "suggest", "kid")
	assert.ErrorIs(t, err, activity.ErrMissingPrecondition)
	assert.ErrorContains(t, err, "sprout student recent kid")
}
