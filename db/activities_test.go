// ABOUTME: Tests for activity log operations
// ABOUTME: Covers ULID ids, validation, and filtered listing
package db

import (
	"testing"

	"github.com/harperreed/mandato/models"
	"github.com/harperreed/mandato/schema"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateActivity(t *testing.T) {
	db := setupTestDB(t)

	activity := &models.Activity{
		Title:    "Management presentation",
		Type:     models.ActivityMeeting,
		NextStep: "Send teaser",
		Metadata: map[string]any{"attendees": float64(3)},
	}
	require.NoError(t, CreateActivity(db, activity))

	_, err := ulid.Parse(activity.ID)
	assert.NoError(t, err, "activity ids are ULIDs")

	list, err := ListActivities(db, "", "", 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Send teaser", list[0].NextStep)
	assert.Equal(t, float64(3), list[0].Metadata["attendees"])
}

func TestCreateActivityRejectsInvalid(t *testing.T) {
	db := setupTestDB(t)

	verr, ok := schema.AsValidationError(CreateActivity(db, &models.Activity{Title: "Lunch", Type: "lunch"}))
	require.True(t, ok)
	assert.Equal(t, []string{"enum"}, verr.Codes("type"))
}

func TestListActivitiesFilters(t *testing.T) {
	db := setupTestDB(t)

	deal := newDeal("Project Atlas", models.StageNewLead)
	require.NoError(t, CreateDeal(db, deal))
	contact := newContact("Ana García", "ana@acme.example.com")
	require.NoError(t, CreateContact(db, contact))

	require.NoError(t, CreateActivity(db, &models.Activity{Title: "Intro call", Type: models.ActivityCall, DealID: deal.ID}))
	require.NoError(t, CreateActivity(db, &models.Activity{Title: "Teaser sent", Type: models.ActivityEmail, DealID: deal.ID, ContactID: contact.ID}))
	require.NoError(t, CreateActivity(db, &models.Activity{Title: "Coffee", Type: models.ActivityMeeting}))

	forDeal, err := ListActivities(db, deal.ID, "", 10)
	require.NoError(t, err)
	require.Len(t, forDeal, 2)
	assert.Equal(t, "Teaser sent", forDeal[0].Title, "newest first")

	forBoth, err := ListActivities(db, deal.ID, contact.ID, 10)
	require.NoError(t, err)
	require.Len(t, forBoth, 1)

	limited, err := ListActivities(db, "", "", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}
