package v1

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestMedicine(t *testing.T, s *APIV1Service, uid, body string) *MedicineResponse {
	t.Helper()
	c, rec := newJSONContext(http.MethodPost, "/api/v1/medicines", body)
	require.NoError(t, s.CreateMedicine(withClaims(c, uid)))
	require.Equal(t, http.StatusCreated, rec.Code)
	medicine := &MedicineResponse{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), medicine))
	return medicine
}

func TestMedicineLifecycle(t *testing.T) {
	s, _ := newTestAPIService(t)

	created := createTestMedicine(t, s, "user-1",
		`{"name":"Metformin","dosage":"500mg","hour":8,"minute":30,"usage":"with breakfast"}`)
	assert.NotEmpty(t, created.UID)
	assert.Equal(t, "Metformin", created.Name)
	assert.Equal(t, 8, created.Hour)

	c, rec := newJSONContext(http.MethodGet, "/api/v1/medicines", "")
	require.NoError(t, s.ListMedicines(withClaims(c, "user-1")))
	var listed []*MedicineResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 1)

	c, _ = newJSONContext(http.MethodDelete, "/api/v1/medicines/"+created.UID, "")
	c.SetParamNames("uid")
	c.SetParamValues(created.UID)
	require.NoError(t, s.DeleteMedicine(withClaims(c, "user-1")))

	c, rec = newJSONContext(http.MethodGet, "/api/v1/medicines", "")
	require.NoError(t, s.ListMedicines(withClaims(c, "user-1")))
	listed = nil
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	assert.Empty(t, listed)
}

func TestMedicinesAreScopedPerUser(t *testing.T) {
	s, _ := newTestAPIService(t)

	createTestMedicine(t, s, "user-1", `{"name":"Metformin","dosage":"500mg","hour":8,"minute":0}`)

	c, rec := newJSONContext(http.MethodGet, "/api/v1/medicines", "")
	require.NoError(t, s.ListMedicines(withClaims(c, "user-2")))
	var listed []*MedicineResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	assert.Empty(t, listed)
}

func TestCreateMedicineValidation(t *testing.T) {
	s, _ := newTestAPIService(t)

	c, _ := newJSONContext(http.MethodPost, "/api/v1/medicines", `{"dosage":"500mg"}`)
	err := s.CreateMedicine(withClaims(c, "user-1"))
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)

	c, _ = newJSONContext(http.MethodPost, "/api/v1/medicines", `{"name":"X","hour":25,"minute":0}`)
	err = s.CreateMedicine(withClaims(c, "user-1"))
	require.Error(t, err)
}
