package routes

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"region-feedback-server/models"
)

func TestRegionCRUD(t *testing.T) {
	router := setupTest(t)
	_, superToken := createTestAdmin(t, "super@example.com", models.RoleSuperAdmin)
	_, adminToken := createTestAdmin(t, "plain@example.com", models.RoleAdmin)

	// Region writes are super-admin only.
	w := doRequest(t, router, http.MethodPost, "/api/v1/regions", adminToken, map[string]string{
		"name": "North",
	})
	requireStatus(t, w, http.StatusForbidden)

	w = doRequest(t, router, http.MethodPost, "/api/v1/regions", superToken, map[string]string{
		"name": "North",
	})
	requireStatus(t, w, http.StatusCreated)
	id := uint(dataField(t, w)["id"].(float64))

	w = doRequest(t, router, http.MethodPost, "/api/v1/regions", superToken, map[string]string{
		"name": "North",
	})
	requireStatus(t, w, http.StatusConflict)

	w = doRequest(t, router, http.MethodPatch,
		fmt.Sprintf("/api/v1/regions/%d", id), superToken, map[string]string{
			"name": "North Coast",
		})
	requireStatus(t, w, http.StatusOK)
	assert.Equal(t, "North Coast", dataField(t, w)["name"])

	w = doRequest(t, router, http.MethodDelete,
		fmt.Sprintf("/api/v1/regions/%d", id), superToken, nil)
	requireStatus(t, w, http.StatusOK)
}

func TestListRegionsPublicAndScoped(t *testing.T) {
	router := setupTest(t)
	north := createTestRegion(t, "North")
	createTestRegion(t, "South")

	// Anonymous callers see the full directory.
	w := doRequest(t, router, http.MethodGet, "/api/v1/regions", "", nil)
	requireStatus(t, w, http.StatusOK)
	assert.Len(t, decodeBody(t, w)["data"], 2)

	// A scoped admin only sees their assignments.
	_, token := createTestAdmin(t, "north@example.com", models.RoleAdmin, north)
	w = doRequest(t, router, http.MethodGet, "/api/v1/regions", token, nil)
	requireStatus(t, w, http.StatusOK)
	data := decodeBody(t, w)["data"].([]interface{})
	require.Len(t, data, 1)
	assert.Equal(t, "North", data[0].(map[string]interface{})["name"])
}

func TestGetRegionDetail(t *testing.T) {
	router := setupTest(t)
	north := createTestRegion(t, "North")
	seedRatingRow(t, north.ID, 5)
	seedRatingRow(t, north.ID, 4)

	// Public detail includes the rating summary.
	w := doRequest(t, router, http.MethodGet, fmt.Sprintf("/api/v1/regions/%d", north.ID), "", nil)
	requireStatus(t, w, http.StatusOK)
	data := dataField(t, w)
	ratings := data["ratings"].(map[string]interface{})
	assert.EqualValues(t, 2, ratings["total"])
	assert.EqualValues(t, 4.5, ratings["average"])
	assert.Nil(t, data["admin_count"])

	// Authenticated staff additionally see the assignment count.
	_, token := createTestAdmin(t, "north@example.com", models.RoleAdmin, north)
	w = doRequest(t, router, http.MethodGet, fmt.Sprintf("/api/v1/regions/%d", north.ID), token, nil)
	requireStatus(t, w, http.StatusOK)
	assert.EqualValues(t, 1, dataField(t, w)["admin_count"])
}

func TestGetRegionOutOfScopeIsDenied(t *testing.T) {
	router := setupTest(t)
	north := createTestRegion(t, "North")
	south := createTestRegion(t, "South")
	_, token := createTestAdmin(t, "north@example.com", models.RoleAdmin, north)

	// Region lookups deny explicitly instead of conflating with not-found.
	w := doRequest(t, router, http.MethodGet, fmt.Sprintf("/api/v1/regions/%d", south.ID), token, nil)
	requireStatus(t, w, http.StatusForbidden)
}

func TestListLogsEndpoint(t *testing.T) {
	router := setupTest(t)
	region := createTestRegion(t, "North")
	for i := 0; i < 5; i++ {
		w := doRequest(t, router, http.MethodPost, "/api/v1/ratings", "", map[string]interface{}{
			"region_id": region.ID,
			"rating":    3,
		})
		requireStatus(t, w, http.StatusCreated)
	}

	_, token := createTestAdmin(t, "super@example.com", models.RoleSuperAdmin)

	w := doRequest(t, router, http.MethodGet, "/api/v1/logs?limit=2", token, nil)
	requireStatus(t, w, http.StatusOK)
	body := decodeBody(t, w)
	require.Len(t, body["data"], 2)
	cursor := body["cursor"].(map[string]interface{})
	next, ok := cursor["nextCursor"].(string)
	require.True(t, ok)

	w = doRequest(t, router, http.MethodGet, "/api/v1/logs?limit=2&cursor="+next, token, nil)
	requireStatus(t, w, http.StatusOK)
	body = decodeBody(t, w)
	require.Len(t, body["data"], 2)
	assert.Equal(t, next, body["cursor"].(map[string]interface{})["prevCursor"])
}
