package models

import (
	"encoding/json"
	"maps"
)

// Ключи, которые загрузчик разбирает сам. Всё остальное уходит в Extra как есть.
const (
	KeyID              = "id"
	KeyLatitude        = "latitude"
	KeyLongitude       = "longitude"
	KeyApproxLatitude  = "approx_latitude"
	KeyApproxLongitude = "approx_longitude"
	KeyPraisePoints    = "praise_points"
	KeyTreeGrowthStage = "tree_growth_stage"
)

// School: запись каталога. Описательные поля (название, адрес и т.п.)
// не типизируются и отдаются клиенту в том виде, в каком пришли из файла.
type School struct {
	ID              int
	Latitude        *float64
	Longitude       *float64
	ApproxLatitude  *float64
	ApproxLongitude *float64
	PraisePoints    int
	TreeGrowthStage int
	Extra           map[string]json.RawMessage
}

// Name ищет человекочитаемое название для логов и экспорта.
func (s School) Name() string {
	for _, k := range []string{"학교명", "name", "school_name"} {
		raw, ok := s.Extra[k]
		if !ok {
			continue
		}
		var v string
		if err := json.Unmarshal(raw, &v); err == nil && v != "" {
			return v
		}
	}
	return "Unknown"
}

// Clone возвращает копию, не разделяющую указатели и map с оригиналом.
func (s School) Clone() School {
	out := s
	out.Latitude = cloneFloat(s.Latitude)
	out.Longitude = cloneFloat(s.Longitude)
	out.ApproxLatitude = cloneFloat(s.ApproxLatitude)
	out.ApproxLongitude = cloneFloat(s.ApproxLongitude)
	if s.Extra != nil {
		out.Extra = maps.Clone(s.Extra)
	}
	return out
}

func (s School) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(s.Extra)+7)
	for k, v := range s.Extra {
		m[k] = v
	}
	m[KeyID] = s.ID
	m[KeyLatitude] = s.Latitude
	m[KeyLongitude] = s.Longitude
	m[KeyApproxLatitude] = s.ApproxLatitude
	m[KeyApproxLongitude] = s.ApproxLongitude
	m[KeyPraisePoints] = s.PraisePoints
	m[KeyTreeGrowthStage] = s.TreeGrowthStage
	return json.Marshal(m)
}

func cloneFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
