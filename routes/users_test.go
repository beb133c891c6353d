package routes

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"region-feedback-server/database"
	"region-feedback-server/models"
)

func TestUserDirectory(t *testing.T) {
	router := setupTest(t)
	region := createTestRegion(t, "North")
	rating := seedRatingRow(t, region.ID, 2)

	submitFeedback(t, router, region.ID, rating.ID, false, map[string]string{
		"fullName": "Amina Sow",
		"phone":    "+22212345678",
		"email":    "amina@example.com",
	})
	submitFeedback(t, router, region.ID, rating.ID, false, map[string]string{
		"fullName": "Amina Sow",
		"phone":    "+22212345678",
		"email":    "amina@example.com",
	})

	_, token := createTestAdmin(t, "super@example.com", models.RoleSuperAdmin)

	w := doRequest(t, router, http.MethodGet, "/api/v1/users", token, nil)
	requireStatus(t, w, http.StatusOK)
	data := decodeBody(t, w)["data"].([]interface{})
	require.Len(t, data, 1)
	entry := data[0].(map[string]interface{})
	assert.Equal(t, "amina@example.com", entry["email"])
	assert.EqualValues(t, 2, entry["feedback_count"])

	var user models.User
	require.NoError(t, database.DB.First(&user).Error)

	w = doRequest(t, router, http.MethodGet, fmt.Sprintf("/api/v1/users/%d", user.ID), token, nil)
	requireStatus(t, w, http.StatusOK)
	assert.EqualValues(t, 2, dataField(t, w)["feedback_count"])

	w = doRequest(t, router, http.MethodGet,
		fmt.Sprintf("/api/v1/users/%d/feedbacks", user.ID), token, nil)
	requireStatus(t, w, http.StatusOK)
	assert.Len(t, decodeBody(t, w)["data"], 2)
}

func TestUserFeedbacksRespectScope(t *testing.T) {
	router := setupTest(t)
	north := createTestRegion(t, "North")
	south := createTestRegion(t, "South")
	northRating := seedRatingRow(t, north.ID, 3)
	southRating := seedRatingRow(t, south.ID, 3)

	info := map[string]string{
		"fullName": "Amina Sow",
		"email":    "amina@example.com",
	}
	submitFeedback(t, router, north.ID, northRating.ID, false, info)
	submitFeedback(t, router, south.ID, southRating.ID, false, info)

	var user models.User
	require.NoError(t, database.DB.First(&user).Error)

	_, token := createTestAdmin(t, "north@example.com", models.RoleAdmin, north)
	w := doRequest(t, router, http.MethodGet,
		fmt.Sprintf("/api/v1/users/%d/feedbacks", user.ID), token, nil)
	requireStatus(t, w, http.StatusOK)

	data := decodeBody(t, w)["data"].([]interface{})
	require.Len(t, data, 1)
	assert.EqualValues(t, north.ID, data[0].(map[string]interface{})["region_id"])
}
