package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juliusmarkwei/swift-send/internal/db"
)

func TestNormalizeRecipients(t *testing.T) {
	tests := []struct {
		name    string
		raw     interface{}
		want    []string
		wantErr error
	}{
		{
			name: "Comma delimited",
			raw:  "+233111,+233222, +233333",
			want: []string{"+233111", "+233222", "+233333"},
		},
		{
			name: "Semicolon delimited",
			raw:  "+233111; +233222;+233333",
			want: []string{"+233111", "+233222", "+233333"},
		},
		{
			name: "Whitespace delimited",
			raw:  "+233111 +233222\t+233333",
			want: []string{"+233111", "+233222", "+233333"},
		},
		{
			name: "Newline delimited",
			raw:  "+233111\n+233222\n+233333",
			want: []string{"+233111", "+233222", "+233333"},
		},
		{
			name: "Comma wins over semicolon",
			raw:  "+233111;ext,+233222",
			want: []string{"+233111;ext", "+233222"},
		},
		{
			name: "Single identifier",
			raw:  "  +233111  ",
			want: []string{"+233111"},
		},
		{
			name: "Empty segments dropped",
			raw:  "+233111,,  ,+233222",
			want: []string{"+233111", "+233222"},
		},
		{
			name: "Duplicates keep first occurrence",
			raw:  "+233111,+233222,+233111",
			want: []string{"+233111", "+233222"},
		},
		{
			name: "String slice passed through trimmed",
			raw:  []string{" +233111 ", "+233222"},
			want: []string{"+233111", "+233222"},
		},
		{
			name: "List entries are not re-split",
			raw:  []string{"+233111,+233222"},
			want: []string{"+233111,+233222"},
		},
		{
			name: "JSON decoded array",
			raw:  []interface{}{"+233111", "+233222"},
			want: []string{"+233111", "+233222"},
		},
		{
			name:    "Nil input",
			raw:     nil,
			wantErr: ErrValidation,
		},
		{
			name:    "Non-string list element",
			raw:     []interface{}{"+233111", 42},
			wantErr: ErrValidation,
		},
		{
			name:    "Unsupported type",
			raw:     42,
			wantErr: ErrValidation,
		},
		{
			name: "All-whitespace string yields nothing",
			raw:  "   ",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeRecipients(tt.raw)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeRecipients_Idempotent(t *testing.T) {
	first, err := NormalizeRecipients("+233111, +233222 ,+233111")
	require.NoError(t, err)

	second, err := NormalizeRecipients(first)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestContactResolver_ResolveOrCreate(t *testing.T) {
	database := db.SetupTestDB(t)
	repo := db.NewContactRepository(database)
	owner := db.SeedTestUser(t, database, "resolver_owner")

	resolver := NewContactResolver(repo)

	resolved, err := resolver.ResolveOrCreate([]string{"+233111", "+233222"}, owner.ID)
	require.NoError(t, err)
	require.Len(t, resolved, 2)
	assert.Equal(t, "+233111", resolved["+233111"].Phone)
	assert.Equal(t, owner.ID, resolved["+233111"].CreatedBy)

	// Resolving again must reuse the created contacts
	again, err := resolver.ResolveOrCreate([]string{"+233111", "+233222"}, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, resolved["+233111"].ID, again["+233111"].ID)
	assert.Equal(t, resolved["+233222"].ID, again["+233222"].ID)

	count, err := repo.CountByOwner(owner.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestContactResolver_ResolveOrCreate_MissingOwner(t *testing.T) {
	database := db.SetupTestDB(t)
	resolver := NewContactResolver(db.NewContactRepository(database))

	_, err := resolver.ResolveOrCreate([]string{"+233111"}, "")
	assert.ErrorIs(t, err, ErrValidation)
}
