package service_test

import (
	"context"
	"testing"

	"github.com/dpark/spacehub/internal/repository/postgres"
	"github.com/dpark/spacehub/internal/service"
	"github.com/dpark/spacehub/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractHandles(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "repeated mentions collapse to a distinct set",
			text: "@a hi @a @b",
			want: []string{"a", "b"},
		},
		{
			name: "no mentions",
			text: "just a plain post",
			want: []string{},
		},
		{
			name: "bare at sign is not a mention",
			text: "meet @ noon",
			want: []string{},
		},
		{
			name: "punctuation terminates the handle",
			text: "thanks @jordan! see you @sam.",
			want: []string{"jordan", "sam"},
		},
		{
			name: "underscores and digits are word characters",
			text: "ping @night_owl42",
			want: []string{"night_owl42"},
		},
		{
			name: "case is preserved, not folded",
			text: "@Alice and @alice are different members",
			want: []string{"Alice", "alice"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := service.ExtractHandles(tt.text)
			assert.ElementsMatch(t, tt.want, got)
		})
	}
}

func TestMentionResolver_Resolve(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	resolver := service.NewMentionResolver(repos.Member)
	ctx := context.Background()

	alice := testutil.NewMemberBuilder().WithUsername("alice").Build(t, testDB.DB)
	bob := testutil.NewMemberBuilder().WithUsername("bob").Build(t, testDB.DB)

	t.Run("unknown handles are dropped silently", func(t *testing.T) {
		ids, err := resolver.Resolve(ctx, []string{"alice", "ghost"}, uuid.Nil)
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{alice.ID}, ids)
	})

	t.Run("excluded member is dropped even when mentioned", func(t *testing.T) {
		ids, err := resolver.Resolve(ctx, []string{"alice", "bob"}, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{bob.ID}, ids)
	})

	t.Run("empty handle set short-circuits", func(t *testing.T) {
		ids, err := resolver.Resolve(ctx, nil, uuid.Nil)
		require.NoError(t, err)
		assert.Empty(t, ids)
	})
}
