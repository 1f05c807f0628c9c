// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"strings"
	"testing"

	sq "github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_buildSelectRecordQuery_SQLContainsParts(t *testing.T) {
	query, args, err := buildSelectRecordQuery("site", "actions", NewKey(3))
	require.NoError(t, err)

	// args checks
	require.Len(t, args, 3)
	assert.ElementsMatch(t, []any{"site", "actions", "3"}, args)

	// query checks (contains parts)
	q := strings.ToLower(query)
	assert.Contains(t, q, "select data from store_records")
	assert.Contains(t, q, "site_id = ?")
	assert.Contains(t, q, "table_name = ?")
	assert.Contains(t, q, "record_key = ?")
}

func Test_buildDeleteIndexesQuery_AppendsPredicate(t *testing.T) {
	query, args, err := buildDeleteIndexesQuery("site", "actions", sq.Eq{"record_key": "7"})
	require.NoError(t, err)

	q := strings.ToLower(query)
	assert.True(t, strings.HasPrefix(q, "delete from store_record_indexes"))
	assert.Contains(t, q, "record_key = ?")
	assert.Equal(t, []any{"site", "actions", "7"}, args)
}

func Test_mergeIndexes(t *testing.T) {
	tests := []struct {
		name     string
		existing []string
		added    []string
		want     []string
	}{
		{name: "nothing stored", added: []string{"entity"}, want: []string{"entity"}},
		{name: "keeps order", existing: []string{"entity", "prefix1"}, added: []string{"prefix2"}, want: []string{"entity", "prefix1", "prefix2"}},
		{name: "skips known", existing: []string{"entity"}, added: []string{"entity"}, want: []string{"entity"}},
		{name: "no additions", existing: []string{"entity"}, want: []string{"entity"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mergeIndexes(tt.existing, tt.added))
		})
	}
}
