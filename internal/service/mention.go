package service

import (
	"context"
	"regexp"

	"github.com/dpark/spacehub/internal/repository"
	"github.com/google/uuid"
)

var mentionPattern = regexp.MustCompile(`@(\w+)`)

// ExtractHandles returns the distinct @handle tokens in text, in order of
// first appearance. Matching is exact and case-sensitive, like usernames.
func ExtractHandles(text string) []string {
	matches := mentionPattern.FindAllStringSubmatch(text, -1)
	seen := make(map[string]bool, len(matches))
	handles := make([]string, 0, len(matches))
	for _, m := range matches {
		handle := m[1]
		if seen[handle] {
			continue
		}
		seen[handle] = true
		handles = append(handles, handle)
	}
	return handles
}

// MentionResolver maps extracted handles to member identities. Unknown
// handles and the excluded (self) member are silently dropped.
type MentionResolver struct {
	memberRepo repository.MemberRepository
}

func NewMentionResolver(memberRepo repository.MemberRepository) *MentionResolver {
	return &MentionResolver{memberRepo: memberRepo}
}

func (r *MentionResolver) Resolve(ctx context.Context, handles []string, excludeMemberID uuid.UUID) ([]uuid.UUID, error) {
	if len(handles) == 0 {
		return nil, nil
	}

	members, err := r.memberRepo.GetByUsernames(ctx, handles)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(members))
	for _, m := range members {
		if m.ID == excludeMemberID {
			continue
		}
		ids = append(ids, m.ID)
	}
	return ids, nil
}
