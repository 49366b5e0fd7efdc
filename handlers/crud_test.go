package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/AlperAcarAI/FiloAPIapp-sub000/models"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/pkg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntityHandler_Lifecycle(t *testing.T) {
	f := newFixture(t)

	w := do(f.mux, http.MethodPost, "/cities", map[string]any{"name": "Ankara", "country_id": seedCountryID, "plate_code": "06"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decodeAs[models.City](t, w)
	assert.True(t, created.Success)
	assert.Equal(t, "Ankara", created.Data.Name)
	id := created.Data.ID

	w = do(f.mux, http.MethodPatch, "/cities/"+id, map[string]any{"name": "Angora"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Angora", decodeAs[models.City](t, w).Data.Name)

	w = do(f.mux, http.MethodDelete, "/cities/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	deleted := decodeAs[models.City](t, w)
	assert.Equal(t, "deleted", deleted.Message)
	assert.False(t, deleted.Data.IsActive)

	assert.Equal(t, http.StatusNotFound, do(f.mux, http.MethodGet, "/cities/"+id, nil).Code)
	assert.Equal(t, http.StatusOK, do(f.mux, http.MethodGet, "/cities/"+id+"?include_inactive=true", nil).Code)

	w = do(f.mux, http.MethodGet, "/cities?search=Angora", nil)
	assert.Equal(t, 0, decodeAs[models.Page[models.City]](t, w).Data.Total)
	w = do(f.mux, http.MethodGet, "/cities?search=Angora&include_inactive=true", nil)
	assert.Equal(t, 1, decodeAs[models.Page[models.City]](t, w).Data.Total)

	w = do(f.mux, http.MethodPost, "/cities/"+id+"/restore", nil)
	require.Equal(t, http.StatusOK, w.Code)
	restored := decodeAs[models.City](t, w)
	assert.Equal(t, "restored", restored.Message)
	assert.True(t, restored.Data.IsActive)

	// Her değişiklik audit'e düşer, en yeni önce
	w = do(f.mux, http.MethodGet, "/audit-logs?table_name=cities&record_id="+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	trail := decodeAs[models.Page[models.AuditLog]](t, w).Data
	require.Len(t, trail.Items, 4)
	var ops []string
	for _, e := range trail.Items {
		ops = append(ops, e.Operation)
	}
	assert.Equal(t, []string{models.AuditRestore, models.AuditDelete, models.AuditUpdate, models.AuditInsert}, ops)

	w = do(f.mux, http.MethodGet, "/audit-logs/"+trail.Items[2].ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `["name"]`, string(decodeAs[models.AuditLog](t, w).Data.ChangedFields))
}

func TestEntityHandler_Errors(t *testing.T) {
	f := newFixture(t)
	w := do(f.mux, http.MethodPost, "/cities", map[string]any{"name": "İzmir", "country_id": seedCountryID})
	require.Equal(t, http.StatusCreated, w.Code)

	tests := []struct {
		name       string
		method     string
		path       string
		body       any
		wantStatus int
	}{
		{"malformed body", http.MethodPost, "/cities", `{"name":`, http.StatusBadRequest},
		{"missing required field", http.MethodPost, "/cities", map[string]any{"country_id": seedCountryID}, http.StatusBadRequest},
		{"unknown country", http.MethodPost, "/cities", map[string]any{"name": "X", "country_id": "nope"}, http.StatusBadRequest},
		{"duplicate", http.MethodPost, "/cities", map[string]any{"name": "İzmir", "country_id": seedCountryID}, http.StatusConflict},
		{"unknown id", http.MethodGet, "/cities/does-not-exist", nil, http.StatusNotFound},
		{"bad sort column", http.MethodGet, "/cities?sort_by=password", nil, http.StatusBadRequest},
		{"bad page", http.MethodGet, "/cities?page=abc", nil, http.StatusBadRequest},
		{"restore active record", http.MethodPost, "/cities/" + decodeAs[models.City](t, w).Data.ID + "/restore", nil, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(f.mux, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			env := decodeAs[json.RawMessage](t, w)
			assert.False(t, env.Success)
			assert.NotEmpty(t, env.Error)
		})
	}
}

func TestEntityHandler_ValidationDetails(t *testing.T) {
	f := newFixture(t)

	w := do(f.mux, http.MethodPost, "/cities", map[string]any{"country_id": seedCountryID, "plate_code": "6"},
		"Accept-Language", "tr-TR,tr;q=0.9")
	require.Equal(t, http.StatusBadRequest, w.Code)

	env := decodeAs[json.RawMessage](t, w)
	assert.Equal(t, "doğrulama başarısız", env.Error)

	var fields []pkg.FieldError
	require.NoError(t, json.Unmarshal(env.Details, &fields))
	require.NotEmpty(t, fields)
	byField := map[string]pkg.FieldError{}
	for _, fe := range fields {
		byField[fe.Field] = fe
	}
	require.Contains(t, byField, "name")
	assert.Equal(t, "required", byField["name"].Rule)
	assert.NotEmpty(t, byField["name"].Message)
}
