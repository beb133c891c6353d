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

func TestCreateAndFetchRating(t *testing.T) {
	router := setupTest(t)
	region := createTestRegion(t, "North")
	_, token := createTestAdmin(t, "super@example.com", models.RoleSuperAdmin)

	w := doRequest(t, router, http.MethodPost, "/api/v1/ratings", "", map[string]interface{}{
		"region_id": region.ID,
		"rating":    5,
		"comment":   "great",
	})
	requireStatus(t, w, http.StatusCreated)
	created := dataField(t, w)
	id := uint(created["id"].(float64))

	// An audit entry is recorded for the public submission.
	var count int64
	require.NoError(t, database.DB.Model(&models.Log{}).
		Where("action = ?", models.ActionCreateRating).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	w = doRequest(t, router, http.MethodGet, fmt.Sprintf("/api/v1/admin/ratings/%d", id), token, nil)
	requireStatus(t, w, http.StatusOK)
	fetched := dataField(t, w)
	assert.EqualValues(t, 5, fetched["rating"])
	assert.Equal(t, "great", fetched["comment"])
	regionObj, ok := fetched["region"].(map[string]interface{})
	require.True(t, ok)
	assert.EqualValues(t, region.ID, regionObj["id"])
}

func TestCreateRatingUnknownRegion(t *testing.T) {
	router := setupTest(t)

	w := doRequest(t, router, http.MethodPost, "/api/v1/ratings", "", map[string]interface{}{
		"region_id": 999,
		"rating":    4,
	})
	requireStatus(t, w, http.StatusNotFound)
}

func TestCreateRatingValidation(t *testing.T) {
	router := setupTest(t)
	region := createTestRegion(t, "North")

	w := doRequest(t, router, http.MethodPost, "/api/v1/ratings", "", map[string]interface{}{
		"region_id": region.ID,
		"rating":    6,
	})
	requireStatus(t, w, http.StatusBadRequest)
}

func TestListRatingsEmptyScope(t *testing.T) {
	router := setupTest(t)
	region := createTestRegion(t, "North")
	seedRatingRow(t, region.ID, 4)

	// Admin with no assignments sees an empty page, never an error.
	_, token := createTestAdmin(t, "bare@example.com", models.RoleAdmin)
	w := doRequest(t, router, http.MethodGet, "/api/v1/admin/ratings", token, nil)
	requireStatus(t, w, http.StatusOK)

	body := decodeBody(t, w)
	assert.Empty(t, body["data"])
	meta := body["pagination"].(map[string]interface{})
	assert.EqualValues(t, 0, meta["total"])
}

func TestListRatingsScoped(t *testing.T) {
	router := setupTest(t)
	north := createTestRegion(t, "North")
	south := createTestRegion(t, "South")
	seedRatingRow(t, north.ID, 5)
	seedRatingRow(t, south.ID, 2)

	_, token := createTestAdmin(t, "north@example.com", models.RoleAdmin, north)
	w := doRequest(t, router, http.MethodGet, "/api/v1/admin/ratings", token, nil)
	requireStatus(t, w, http.StatusOK)

	body := decodeBody(t, w)
	data := body["data"].([]interface{})
	require.Len(t, data, 1)
	entry := data[0].(map[string]interface{})
	assert.EqualValues(t, north.ID, entry["region_id"])

	// Requesting the out-of-scope region yields an empty success.
	w = doRequest(t, router, http.MethodGet,
		fmt.Sprintf("/api/v1/admin/ratings?region=%d", south.ID), token, nil)
	requireStatus(t, w, http.StatusOK)
	assert.Empty(t, decodeBody(t, w)["data"])
}

func TestGetRatingOutOfScopeIsDenied(t *testing.T) {
	router := setupTest(t)
	north := createTestRegion(t, "North")
	south := createTestRegion(t, "South")
	rating := seedRatingRow(t, south.ID, 3)

	_, token := createTestAdmin(t, "north@example.com", models.RoleAdmin, north)

	outOfScope := doRequest(t, router, http.MethodGet,
		fmt.Sprintf("/api/v1/admin/ratings/%d", rating.ID), token, nil)
	requireStatus(t, outOfScope, http.StatusForbidden)
	assert.Equal(t, "Access denied", decodeBody(t, outOfScope)["message"])
	assert.NotContains(t, outOfScope.Body.String(), "comment")

	missing := doRequest(t, router, http.MethodGet, "/api/v1/admin/ratings/9999", token, nil)
	requireStatus(t, missing, http.StatusNotFound)
}

func TestRatingSortValidation(t *testing.T) {
	router := setupTest(t)
	_, token := createTestAdmin(t, "super@example.com", models.RoleSuperAdmin)

	w := doRequest(t, router, http.MethodGet, "/api/v1/admin/ratings?sort=comment", token, nil)
	requireStatus(t, w, http.StatusBadRequest)
}

func TestRatingStatsEndpoint(t *testing.T) {
	router := setupTest(t)
	region := createTestRegion(t, "North")
	for _, stars := range []int{1, 1, 2, 5, 5, 5} {
		seedRatingRow(t, region.ID, stars)
	}

	_, token := createTestAdmin(t, "super@example.com", models.RoleSuperAdmin)
	w := doRequest(t, router, http.MethodGet, "/api/v1/admin/ratings/stats?period=week", token, nil)
	requireStatus(t, w, http.StatusOK)

	data := dataField(t, w)
	dist := data["distribution"].([]interface{})
	require.Len(t, dist, 1)
	counts := dist[0].(map[string]interface{})["counts"].(map[string]interface{})
	assert.EqualValues(t, 2, counts["1"])
	assert.EqualValues(t, 3, counts["5"])
	assert.EqualValues(t, 6, dist[0].(map[string]interface{})["total"])

	w = doRequest(t, router, http.MethodGet, "/api/v1/admin/ratings/stats?period=decade", token, nil)
	requireStatus(t, w, http.StatusBadRequest)
}

func seedRatingRow(t *testing.T, regionID uint, stars int) models.Rating {
	t.Helper()
	rating := models.Rating{RegionID: regionID, Rating: stars}
	if err := database.DB.Create(&rating).Error; err != nil {
		t.Fatalf("seed rating: %v", err)
	}
	return rating
}
