package postgres

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	deleteStmtRe = regexp.MustCompile(`^DELETE FROM (\w+) WHERE (.+)$`)
	columnRefRe  = regexp.MustCompile(`(\w+) = \$1`)
)

// The cascade delete runs raw SQL against tables owned by the other
// repositories, so its column names can silently drift from theirs.
// Cross-check every referenced column against the column lists those
// repositories insert and select with.
func TestUserDependentDeletesMatchTableColumns(t *testing.T) {
	tableColumns := map[string]string{
		"notifications":   notificationColumns,
		"user_activities": activityColumns,
		"comments":        commentInsertColumns,
		"posts":           postInsertColumns,
		"follows":         followInsertColumns,
	}

	covered := map[string]bool{}
	for _, stmt := range userDependentDeletes {
		m := deleteStmtRe.FindStringSubmatch(stmt)
		require.NotNil(t, m, "statement must be a single-table delete: %s", stmt)
		table, where := m[1], m[2]

		columns, ok := tableColumns[table]
		require.True(t, ok, "delete references unknown table %s", table)
		covered[table] = true

		refs := columnRefRe.FindAllStringSubmatch(where, -1)
		require.NotEmpty(t, refs, "no bound columns in: %s", stmt)
		for _, ref := range refs {
			assert.Regexp(t, `(^|[\s(,])`+ref[1]+`([\s,]|$)`, columns,
				"column %s is not defined on %s", ref[1], table)
		}
	}

	for table := range tableColumns {
		assert.True(t, covered[table], "no cascade delete for %s", table)
	}
}

// Rows that merely reference the account, the actor side of notifications
// and both sides of follows, must go too, not only the owned rows.
func TestUserDependentDeletesCoverReferencingRows(t *testing.T) {
	joined := strings.Join(userDependentDeletes, "\n")
	assert.Contains(t, joined, "OR actor_id = $1")
	assert.Contains(t, joined, "follower_id = $1 OR followed_id = $1")
}
