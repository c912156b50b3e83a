package rules

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/pods/internal/common"
	"github.com/dmitrijs2005/pods/internal/models"
)

var (
	testParty = &models.Party{ID: "42", Name: "Testers", Timezone: "UTC"}

	regular   = models.User{ID: "u-reg", Name: "Reg", Role: models.RoleRegular, PartyID: "42"}
	admin     = models.User{ID: "u-adm", Name: "Adm", Role: models.RoleAdmin, PartyID: "42"}
	architect = models.User{ID: "u-arc", Name: "Arc", Role: models.RoleArchitect, PartyID: common.SystemPartyID}
)

func cardOwnedBy(user models.User, folderID string, ageMillis int64, now int64) models.Card {
	return models.Card{
		ID:          "c-" + user.ID,
		UserID:      user.ID,
		CreatorRole: user.Role,
		FolderID:    folderID,
		PartyID:     "42",
		Timestamp:   now - ageMillis,
	}
}

func TestCheckCreateCard_RestrictedFolder(t *testing.T) {
	now := time.Now().UnixMilli()
	systemFolder := models.Folder{ID: "f-sys", PartyID: common.SystemPartyID}

	require.ErrorIs(t, CheckCreateCard(regular, systemFolder, nil, testParty, now), ErrRestrictedFolder)
	require.ErrorIs(t, CheckCreateCard(admin, systemFolder, nil, testParty, now), ErrRestrictedFolder)
	require.NoError(t, CheckCreateCard(architect, systemFolder, nil, testParty, now))
}

func TestCheckCreateCard_OneProfilePerFolder(t *testing.T) {
	now := time.Now().UnixMilli()
	folder := models.Folder{ID: "f-1", PartyID: "42"}
	hour := time.Hour.Milliseconds()

	existing := []models.Card{cardOwnedBy(regular, "f-1", hour, now)}

	err := CheckCreateCard(regular, folder, existing, testParty, now)
	require.ErrorIs(t, err, ErrProfileExists)

	// A card in another folder does not block, though the rate limit does.
	other := []models.Card{cardOwnedBy(regular, "f-2", hour, now)}
	err = CheckCreateCard(regular, folder, other, testParty, now)
	var rateErr *RateLimitError
	require.ErrorAs(t, err, &rateErr)

	// An expired card in the folder no longer blocks the profile rule.
	threeDays := 3 * 24 * hour
	stale := []models.Card{cardOwnedBy(regular, "f-1", threeDays, now)}
	require.NoError(t, CheckCreateCard(regular, folder, stale, testParty, now))
}

func TestCheckCreateCard_RateLimits(t *testing.T) {
	now := time.Now().UnixMilli()
	folder := models.Folder{ID: "f-1", PartyID: "42"}
	hour := time.Hour.Milliseconds()

	t.Run("regular capped at one per window", func(t *testing.T) {
		cards := []models.Card{cardOwnedBy(regular, "f-2", hour, now)}
		err := CheckCreateCard(regular, folder, cards, testParty, now)
		var rateErr *RateLimitError
		require.ErrorAs(t, err, &rateErr)
		require.Equal(t, 1, rateErr.Limit)
	})

	t.Run("regular allowed once window rolls over", func(t *testing.T) {
		cards := []models.Card{cardOwnedBy(regular, "f-2", 25*hour, now)}
		require.NoError(t, CheckCreateCard(regular, folder, cards, testParty, now))
	})

	t.Run("admin capped at two per window", func(t *testing.T) {
		cards := []models.Card{
			cardOwnedBy(admin, "f-2", hour, now),
			cardOwnedBy(admin, "f-3", 2*hour, now),
		}
		cards[1].ID = "c-adm-2"
		err := CheckCreateCard(admin, folder, cards, testParty, now)
		var rateErr *RateLimitError
		require.ErrorAs(t, err, &rateErr)
		require.Equal(t, 2, rateErr.Limit)

		require.NoError(t, CheckCreateCard(admin, folder, cards[:1], testParty, now))
	})

	t.Run("architect never limited", func(t *testing.T) {
		var cards []models.Card
		for i := 0; i < 10; i++ {
			cards = append(cards, cardOwnedBy(architect, "f-2", hour, now))
		}
		folder := models.Folder{ID: "f-1", PartyID: "42"}
		require.NoError(t, CheckCreateCard(architect, folder, cards, testParty, now))
	})
}

func TestCanManage(t *testing.T) {
	ownCard := models.Card{UserID: regular.ID, CreatorRole: models.RoleRegular}
	foreignCard := models.Card{UserID: "someone-else", CreatorRole: models.RoleRegular}
	architectCard := models.Card{UserID: architect.ID, CreatorRole: models.RoleArchitect}

	tests := []struct {
		name  string
		card  models.Card
		actor models.User
		want  bool
	}{
		{"architect manages anything", architectCard, architect, true},
		{"admin manages regular card", foreignCard, admin, true},
		{"admin blocked on architect card", architectCard, admin, false},
		{"regular manages own card", ownCard, regular, true},
		{"regular blocked on foreign card", foreignCard, regular, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, CanManage(tc.card, tc.actor))
		})
	}
}

func TestCanManage_CapturedRoleNotLiveRole(t *testing.T) {
	// The card keeps the creator role captured at creation time; a card
	// posted while its author was an architect stays protected from admins
	// even if ownership data would now say otherwise.
	card := models.Card{UserID: "former-architect", CreatorRole: models.RoleArchitect}
	require.False(t, CanManage(card, admin))
	require.False(t, CanPin(card, admin))
}

func TestCanPin(t *testing.T) {
	regularCard := models.Card{UserID: regular.ID, CreatorRole: models.RoleRegular}
	architectCard := models.Card{UserID: architect.ID, CreatorRole: models.RoleArchitect}

	require.True(t, CanPin(regularCard, architect))
	require.True(t, CanPin(architectCard, architect))
	require.True(t, CanPin(regularCard, admin))
	require.False(t, CanPin(architectCard, admin))
	require.False(t, CanPin(regularCard, regular))
}

func TestRateLimitError_Message(t *testing.T) {
	err := &RateLimitError{Limit: 2}
	require.Equal(t, "rate limit: max 2 per 24 hours", err.Error())
	require.False(t, errors.Is(err, ErrProfileExists))
}
